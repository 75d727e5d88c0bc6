// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"acquisition-console/internal/models"
)

//go:embed facets.json
var defaultCatalog []byte

// Default returns the built-in catalog.
func Default() (*FacetCatalog, error) {
	var reg FacetCatalog
	if err := json.Unmarshal(defaultCatalog, &reg); err != nil {
		return nil, fmt.Errorf("failed to decode built-in catalog: %w", err)
	}
	return &reg, nil
}

func LoadRegistry(path string) (*FacetCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg FacetCatalog
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Load reads the catalog at path, or the built-in one when path is empty,
// and validates it.
func Load(path string) (*FacetCatalog, error) {
	var (
		reg *FacetCatalog
		err error
	)
	if path == "" {
		reg, err = Default()
	} else {
		reg, err = LoadRegistry(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Validate checks that every entry names a distinct facet with a dashboard
// card. The decision facet is reached from the analysis view, not the dashboard.
func (c *FacetCatalog) Validate() error {
	if len(c.Facets) == 0 {
		return fmt.Errorf("catalog contains no facets")
	}

	ids := make(map[string]bool)
	for _, entry := range c.Facets {
		if entry.ID == "" {
			return fmt.Errorf("facet missing required field: ID")
		}
		if ids[entry.ID] {
			return fmt.Errorf("duplicate facet ID: %s", entry.ID)
		}
		ids[entry.ID] = true

		facet, ok := models.ParseFacet(entry.ID)
		if !ok || facet == models.FacetDecision {
			return fmt.Errorf("facet %s has no dashboard card", entry.ID)
		}
		if entry.Name == "" {
			return fmt.Errorf("facet %s missing required field: Name", entry.ID)
		}
		if entry.Description == "" {
			return fmt.Errorf("facet %s missing required field: Description", entry.ID)
		}
	}
	return nil
}

// Get returns the entry for id.
func (c *FacetCatalog) Get(id string) (FacetEntry, bool) {
	for _, entry := range c.Facets {
		if entry.ID == id {
			return entry, true
		}
	}
	return FacetEntry{}, false
}

// Update sets one text field of an entry.
func (c *FacetCatalog) Update(id, field, value string) error {
	for i := range c.Facets {
		if c.Facets[i].ID != id {
			continue
		}
		switch field {
		case "name":
			c.Facets[i].Name = value
		case "description":
			c.Facets[i].Description = value
		case "category":
			c.Facets[i].Category = value
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		c.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		return nil
	}
	return fmt.Errorf("facet with ID %s not found", id)
}

// Save writes the catalog as indented JSON, creating the directory.
func Save(reg *FacetCatalog, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}
