package chatstream

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/capabilities/models.yaml
var defaultCapabilitiesYAML []byte

// Capabilities Philosophy:
//
// The catalog provides MODEL METADATA for the settings layer and other
// informational purposes. It does NOT gate requests - the endpoint is the
// source of truth for what a model accepts.
//
// Use cases:
//  - Populate a model picker with known models
//  - Disable the temperature control for models known to reject it
//  - Show a short note next to a model
//
// The embedded data may lag behind what gateways actually serve.
// Library users can override it by:
//  1. Calling LoadCapabilitiesFromFile() with custom YAML
//  2. Calling RegisterModelCapability() programmatically
//
// Requests are always sent exactly as configured.

// ModelCapability describes one known model.
type ModelCapability struct {
	DisplayName string   `yaml:"display_name"`
	Temperature bool     `yaml:"temperature"` // whether the model honors the temperature parameter
	Streaming   bool     `yaml:"streaming"`
	Aliases     []string `yaml:"aliases"`
	Notes       string   `yaml:"notes"`
}

// catalogFile mirrors the YAML document shape.
type catalogFile struct {
	Version     string                     `yaml:"version"`
	LastUpdated string                     `yaml:"last_updated"`
	Models      map[string]ModelCapability `yaml:"models"`
}

// ModelCatalog is the registry of known model capabilities.
type ModelCatalog struct {
	mu      sync.RWMutex
	version string
	models  map[string]ModelCapability
	aliases map[string]string // alias -> canonical id
}

var (
	globalCatalog     *ModelCatalog
	globalCatalogOnce sync.Once
)

// GetModelCatalog returns the global model catalog (singleton).
func GetModelCatalog() *ModelCatalog {
	globalCatalogOnce.Do(func() {
		globalCatalog = &ModelCatalog{
			models:  make(map[string]ModelCapability),
			aliases: make(map[string]string),
		}
		if err := globalCatalog.loadEmbedded(); err != nil {
			// An empty catalog only degrades UI hints, so warn and continue
			fmt.Printf("Warning: failed to load embedded model catalog: %v\n", err)
		}
	})
	return globalCatalog
}

// loadEmbedded loads the embedded default catalog.
func (c *ModelCatalog) loadEmbedded() error {
	var file catalogFile
	if err := yaml.Unmarshal(defaultCapabilitiesYAML, &file); err != nil {
		return fmt.Errorf("failed to unmarshal embedded catalog: %w", err)
	}
	c.merge(&file)
	return nil
}

// merge adds a catalog document on top of the current contents.
// Entries for an existing model id replace that entry.
func (c *ModelCatalog) merge(file *catalogFile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if file.Version != "" {
		c.version = file.Version
	}
	for id, capability := range file.Models {
		c.models[id] = capability
		for _, alias := range capability.Aliases {
			c.aliases[alias] = id
		}
	}
}

// Version returns the version string of the loaded catalog data.
func (c *ModelCatalog) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Resolve maps a model id or alias to its canonical id. Unknown ids are
// returned unchanged - the endpoint decides what exists.
func (c *ModelCatalog) Resolve(model string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if canonical, ok := c.aliases[model]; ok {
		return canonical
	}
	return model
}

// GetModelCapability returns the capability entry for a model id or alias.
func (c *ModelCatalog) GetModelCapability(model string) (*ModelCapability, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id := model
	if canonical, ok := c.aliases[model]; ok {
		id = canonical
	}

	capability, ok := c.models[id]
	if !ok {
		return nil, fmt.Errorf("model %s not found in catalog", model)
	}
	return &capability, nil
}

// SupportsTemperature reports whether a model honors the temperature
// parameter. Unknown models default to true: the hint only disables the
// control when the catalog knows better.
func (c *ModelCatalog) SupportsTemperature(model string) bool {
	capability, err := c.GetModelCapability(model)
	if err != nil {
		return true
	}
	return capability.Temperature
}

// KnownModels returns the canonical model ids in the catalog, sorted.
func (c *ModelCatalog) KnownModels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.models))
	for id := range c.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadCapabilitiesFromFile loads catalog entries from a YAML file on top
// of the embedded data. This allows library users to track models the
// embedded catalog does not know yet. The file format matches the
// embedded YAML structure.
func (c *ModelCatalog) LoadCapabilitiesFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	c.merge(&file)
	return nil
}

// RegisterModelCapability programmatically registers a model entry.
// This allows library users to define capabilities in code rather than YAML.
func (c *ModelCatalog) RegisterModelCapability(id string, capability ModelCapability) {
	c.merge(&catalogFile{Models: map[string]ModelCapability{id: capability}})
}

// LoadCapabilitiesFromFile is a convenience function that calls the global catalog's LoadCapabilitiesFromFile.
func LoadCapabilitiesFromFile(path string) error {
	return GetModelCatalog().LoadCapabilitiesFromFile(path)
}

// RegisterModelCapability is a convenience function that calls the global catalog's RegisterModelCapability.
func RegisterModelCapability(id string, capability ModelCapability) {
	GetModelCatalog().RegisterModelCapability(id, capability)
}
