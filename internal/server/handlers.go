package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	apperrors "acquisition-console/internal/common/errors"
	"acquisition-console/internal/common/logger"
	"acquisition-console/internal/form"
	"acquisition-console/internal/models"
	"acquisition-console/internal/normalize"
	"acquisition-console/internal/report"
	"acquisition-console/internal/view"
	"acquisition-console/pkg/registry"
)

// Handler serves the console API for a single session. The form model is
// guarded by formMu; the controller guards itself.
type Handler struct {
	controller *view.Controller
	lookup     Lookup
	catalog    *registry.FacetCatalog
	normalizer *normalize.Normalizer
	logger     logger.Logger

	formMu sync.Mutex
	form   *form.Model
}

func NewHandler(deps Deps) *Handler {
	normalizer := deps.Normalizer
	if normalizer == nil {
		normalizer = normalize.New()
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{
		controller: deps.Controller,
		lookup:     deps.Lookup,
		catalog:    deps.Catalog,
		normalizer: normalizer,
		logger:     logger.Component(log, "api"),
		form:       form.NewModel(),
	}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/state", h.GetState)
	router.GET("/facets", h.ListFacets)

	router.PUT("/form/field", h.SetField)
	router.PUT("/form/team-member", h.SetTeamMemberField)
	router.POST("/form/team-members", h.AddTeamMember)
	router.DELETE("/form/team-members/:entity/:index", h.RemoveTeamMember)
	router.POST("/form/reset", h.ResetForm)
	router.GET("/form/request", h.GetRequest)

	router.POST("/analysis", h.SubmitAnalysis)
	router.POST("/facets/:facet/demo", h.RunFacetDemo)
	router.POST("/views/:view", h.SelectView)
	router.POST("/reset", h.Reset)
	router.POST("/back", h.BackToForm)

	router.GET("/results/:facet", h.GetFacetResult)
	router.GET("/report", h.GetReport)
	router.GET("/comparison", h.GetComparison)

	router.GET("/lookup/competitors/:name", h.Competitors)
	router.GET("/lookup/acquisition-targets/:name", h.AcquisitionTargets)
}

type stateResponse struct {
	Navigation view.NavigationState `json:"navigation"`
	CachedKeys []string             `json:"cachedKeys"`
	Form       form.State           `json:"form"`
}

func (h *Handler) currentState() stateResponse {
	nav := h.controller.State()
	return stateResponse{
		Navigation: nav,
		CachedKeys: nav.CachedKeys(),
		Form:       h.formState(),
	}
}

func (h *Handler) formState() form.State {
	h.formMu.Lock()
	defer h.formMu.Unlock()
	return h.form.State()
}

// GetState
// GET /api/state
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.currentState())
}

// ListFacets
// GET /api/facets
func (h *Handler) ListFacets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"facets": h.catalog.Facets})
}

type fieldRequest struct {
	Entity string `json:"entity"`
	Field  string `json:"field" binding:"required"`
	Value  string `json:"value"`
}

// SetField
// PUT /api/form/field
func (h *Handler) SetField(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	h.formMu.Lock()
	err := h.form.SetField(form.EntityKey(req.Entity), req.Field, req.Value)
	h.formMu.Unlock()

	h.respondForm(c, err)
}

type teamMemberRequest struct {
	Entity string `json:"entity" binding:"required"`
	Index  *int   `json:"index" binding:"required"`
	Field  string `json:"field" binding:"required"`
	Value  string `json:"value"`
}

// SetTeamMemberField
// PUT /api/form/team-member
func (h *Handler) SetTeamMemberField(c *gin.Context) {
	var req teamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	h.formMu.Lock()
	err := h.checkIndex(form.EntityKey(req.Entity), *req.Index)
	if err == nil {
		err = h.form.SetTeamMemberField(form.EntityKey(req.Entity), *req.Index, req.Field, req.Value)
	}
	h.formMu.Unlock()

	h.respondForm(c, err)
}

type entityRequest struct {
	Entity string `json:"entity" binding:"required"`
}

// AddTeamMember
// POST /api/form/team-members
func (h *Handler) AddTeamMember(c *gin.Context) {
	var req entityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	h.formMu.Lock()
	err := h.form.AddTeamMember(form.EntityKey(req.Entity))
	h.formMu.Unlock()

	h.respondForm(c, err)
}

// RemoveTeamMember keeps at least one member per entity.
// DELETE /api/form/team-members/:entity/:index
func (h *Handler) RemoveTeamMember(c *gin.Context) {
	entity := form.EntityKey(c.Param("entity"))
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}

	h.formMu.Lock()
	err = h.checkIndex(entity, index)
	if err == nil && h.teamSize(entity) <= 1 {
		err = errLastMember
	}
	if err == nil {
		err = h.form.RemoveTeamMember(entity, index)
	}
	h.formMu.Unlock()

	h.respondForm(c, err)
}

// ResetForm
// POST /api/form/reset
func (h *Handler) ResetForm(c *gin.Context) {
	h.formMu.Lock()
	h.form.Reset()
	h.formMu.Unlock()

	c.JSON(http.StatusOK, h.currentState())
}

// GetRequest shows the payload the current form would send and the fields
// that will be sent as 0.
// GET /api/form/request
func (h *Handler) GetRequest(c *gin.Context) {
	h.formMu.Lock()
	req := h.form.ToAnalysisRequest()
	gaps := h.form.ValidationGaps()
	h.formMu.Unlock()

	c.JSON(http.StatusOK, gin.H{"request": req, "gaps": gaps})
}

// SubmitAnalysis blocks until the prediction service answers.
// POST /api/analysis
func (h *Handler) SubmitAnalysis(c *gin.Context) {
	snapshot := h.formState()
	err := h.controller.SubmitFullAnalysis(context.WithoutCancel(c.Request.Context()), snapshot)
	h.respondSubmission(c, err)
}

// RunFacetDemo
// POST /api/facets/:facet/demo
func (h *Handler) RunFacetDemo(c *gin.Context) {
	facet := models.Facet(c.Param("facet"))
	err := h.controller.RunFacetDemo(context.WithoutCancel(c.Request.Context()), facet)
	h.respondSubmission(c, err)
}

// SelectView
// POST /api/views/:view
func (h *Handler) SelectView(c *gin.Context) {
	if err := h.controller.SelectView(view.View(c.Param("view"))); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.Normalize(err).Details})
		return
	}
	c.JSON(http.StatusOK, h.currentState())
}

// Reset
// POST /api/reset
func (h *Handler) Reset(c *gin.Context) {
	h.controller.Reset()
	c.JSON(http.StatusOK, h.currentState())
}

// BackToForm
// POST /api/back
func (h *Handler) BackToForm(c *gin.Context) {
	h.controller.BackToForm()
	c.JSON(http.StatusOK, h.currentState())
}

// GetFacetResult returns the normalized projection a facet view shows.
// GET /api/results/:facet
func (h *Handler) GetFacetResult(c *gin.Context) {
	facet, ok := models.ParseFacet(c.Param("facet"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown facet"})
		return
	}
	raw, ok := h.controller.FacetResult(string(facet))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result for facet"})
		return
	}

	normalized := h.normalizer.Normalize(raw)
	projection, err := normalized.Facet(facet)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	insight, err := report.Insight(facet, normalized)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facet":   facet,
		"result":  projection,
		"insight": insight,
	})
}

// GetReport renders the full analysis as HTML, or Markdown with
// ?format=markdown.
// GET /api/report
func (h *Handler) GetReport(c *gin.Context) {
	nav := h.controller.State()
	raw, ok := nav.ResultCache[view.FullResultKey]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis submitted"})
		return
	}

	md := report.Markdown(h.normalizer.Normalize(raw), nav.LastFormSnapshot)
	if c.Query("format") == "markdown" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
		return
	}

	html, err := report.HTML(md)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GetComparison
// GET /api/comparison
func (h *Handler) GetComparison(c *gin.Context) {
	nav := h.controller.State()
	raw, ok := nav.ResultCache[view.FullResultKey]
	if !ok || nav.LastFormSnapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis submitted"})
		return
	}
	c.JSON(http.StatusOK, report.BuildComparison(*nav.LastFormSnapshot, h.normalizer.Normalize(raw)))
}

// Competitors
// GET /api/lookup/competitors/:name?industry=
func (h *Handler) Competitors(c *gin.Context) {
	found := h.lookup.Competitors(c.Request.Context(), c.Param("name"), c.Query("industry"))
	c.JSON(http.StatusOK, gin.H{"competitors": found})
}

// AcquisitionTargets
// GET /api/lookup/acquisition-targets/:name
func (h *Handler) AcquisitionTargets(c *gin.Context) {
	found := h.lookup.AcquisitionTargets(c.Request.Context(), c.Param("name"))
	c.JSON(http.StatusOK, gin.H{"targets": found})
}

var (
	errIndexOutOfRange = errors.New("team member index out of range")
	errLastMember      = errors.New("each entity keeps at least one team member")
)

// caller holds formMu
func (h *Handler) checkIndex(entity form.EntityKey, index int) error {
	if entity != form.EntityA && entity != form.EntityB {
		return form.ErrUnknownEntity
	}
	if index < 0 || index >= h.teamSize(entity) {
		return errIndexOutOfRange
	}
	return nil
}

// caller holds formMu
func (h *Handler) teamSize(entity form.EntityKey) int {
	s := h.form.State()
	if entity == form.EntityB {
		return len(s.EntityB.TeamMembers)
	}
	return len(s.EntityA.TeamMembers)
}

func (h *Handler) respondForm(c *gin.Context, err error) {
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.currentState())
}

func (h *Handler) respondSubmission(c *gin.Context, err error) {
	state := h.currentState()
	switch {
	case err == nil:
		c.JSON(http.StatusOK, state)
	case errors.Is(err, view.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer submission", "state": state})
	case apperrors.Normalize(err).Code == apperrors.ErrCodeUnknownFacet:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown facet"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": state.Navigation.PendingError, "state": state})
	}
}
