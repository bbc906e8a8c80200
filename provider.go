package chatstream

import (
	"context"
)

// StreamSource is the interface completion backends implement.
// The session logic drives every source the same way; concrete sources
// speak a real wire protocol (providers/openaicompat) or fabricate
// deltas offline (providers/lorem).
//
// Types used by this interface:
//   - Request: defined in request.go
//   - Delta, DeltaStream: defined in streaming.go
type StreamSource interface {
	// StreamCompletion issues the completion described by req and returns
	// a pull-based stream of its content deltas. An error is returned only
	// for failures before the stream is established (invalid config,
	// failed connect, non-2xx status); once a DeltaStream is returned,
	// failures surface through Recv.
	//
	// Usage:
	//   stream, err := source.StreamCompletion(ctx, req)
	//   if err != nil { return err }
	//   defer stream.Close()
	//   for {
	//     delta, err := stream.Recv()
	//     if errors.Is(err, io.EOF) { break }
	//     if err != nil { handle error }
	//     process delta.Content
	//   }
	StreamCompletion(ctx context.Context, req *Request) (DeltaStream, error)
}
