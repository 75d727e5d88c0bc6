// pkg/registry/schema.go
package registry

type FacetCatalog struct {
	Version     string       `json:"version"`
	LastUpdated string       `json:"lastUpdated"`
	Facets      []FacetEntry `json:"facets"`
}

// FacetEntry is one dashboard card. ID is the facet key the card opens.
type FacetEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}
