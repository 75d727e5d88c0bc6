// Package view implements the navigation state machine over the dashboard,
// the form, the full analysis and the per-facet views.
package view

import (
	"acquisition-console/internal/form"
	"acquisition-console/internal/models"
)

type View string

const (
	ViewDashboard View = "dashboard"
	ViewForm      View = "form"
	ViewAnalysis  View = "analysis"
)

// FullResultKey is the cache slot of the full-form submission.
const FullResultKey = "full"

// ParseView accepts the fixed views and every facet key.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewDashboard, ViewForm, ViewAnalysis:
		return View(s), true
	}
	if f, ok := models.ParseFacet(s); ok {
		return View(f), true
	}
	return "", false
}

// NavigationState is a point-in-time copy of the controller state.
type NavigationState struct {
	ActiveView       View                             `json:"activeView"`
	ResultCache      map[string]models.AnalysisResult `json:"resultCache"`
	LastFormSnapshot *form.State                      `json:"lastFormSnapshot"`
	PendingError     string                           `json:"pendingError,omitempty"`
	IsBusy           bool                             `json:"isBusy"`
}

// CachedKeys lists the populated cache slots.
func (s NavigationState) CachedKeys() []string {
	keys := make([]string, 0, len(s.ResultCache))
	if _, ok := s.ResultCache[FullResultKey]; ok {
		keys = append(keys, FullResultKey)
	}
	for _, f := range models.Facets {
		if _, ok := s.ResultCache[string(f)]; ok {
			keys = append(keys, string(f))
		}
	}
	return keys
}
