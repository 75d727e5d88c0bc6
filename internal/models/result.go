// internal/models/result.go
package models

// AnalysisResult is the raw, untrusted response of the prediction service.
// Any key may be missing or carry an unexpected type.
type AnalysisResult map[string]interface{}

// Facet is one analytical dimension of a result.
type Facet string

const (
	FacetFunding   Facet = "funding"
	FacetTeam      Facet = "team"
	FacetSynergy   Facet = "synergy"
	FacetValuation Facet = "valuation"
	FacetRisk      Facet = "risk"
	FacetDecision  Facet = "decision"
	FacetBenchmark Facet = "benchmark"
)

// Facets lists every facet in display order.
var Facets = []Facet{
	FacetFunding, FacetTeam, FacetSynergy, FacetValuation, FacetRisk, FacetDecision, FacetBenchmark,
}

// ParseFacet reports whether s names a known facet.
func ParseFacet(s string) (Facet, bool) {
	for _, f := range Facets {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}
