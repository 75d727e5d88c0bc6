package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "acquisition-console/internal/common/errors"
	"acquisition-console/internal/common/logger"
	"acquisition-console/internal/common/metrics"
	"acquisition-console/internal/common/observability"
	"acquisition-console/internal/form"
	"acquisition-console/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

const (
	modeFull  = "full"
	modeFacet = "facet"

	fallbackPredictionError = "An error occurred during prediction"
)

// ErrSuperseded is returned to the caller of a submission whose outcome was
// discarded because a newer submission, or a reset, was issued after it.
var ErrSuperseded = errors.New("SUBMISSION_SUPERSEDED")

// Predictor is the prediction service as seen by the controller.
type Predictor interface {
	Predict(ctx context.Context, req models.AnalysisRequest) (models.AnalysisResult, error)
}

type Controller struct {
	predictor Predictor
	logger    logger.Logger
	obs       *observability.Observability

	mu           sync.Mutex
	active       View
	cache        map[string]models.AnalysisResult
	snapshot     *form.State
	pendingError string
	busy         bool

	// seq orders every submission and owns active, busy and pendingError.
	// keySeq orders submissions per cache key and owns that key's slot.
	seq    uint64
	keySeq map[string]uint64
	epoch  uint64
}

type Option func(*Controller)

func WithObservability(o *observability.Observability) Option {
	return func(c *Controller) { c.obs = o }
}

// NewController starts on the dashboard with an empty cache.
func NewController(predictor Predictor, log logger.Logger, opts ...Option) *Controller {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	c := &Controller{
		predictor: predictor,
		logger:    log,
		active:    ViewDashboard,
		cache:     map[string]models.AnalysisResult{},
		keySeq:    map[string]uint64{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the navigation state.
func (c *Controller) State() NavigationState {
	c.mu.Lock()
	defer c.mu.Unlock()

	cache := make(map[string]models.AnalysisResult, len(c.cache))
	for k, v := range c.cache {
		cache[k] = v
	}
	var snapshot *form.State
	if c.snapshot != nil {
		s := c.snapshot.Clone()
		snapshot = &s
	}
	return NavigationState{
		ActiveView:       c.active,
		ResultCache:      cache,
		LastFormSnapshot: snapshot,
		PendingError:     c.pendingError,
		IsBusy:           c.busy,
	}
}

// SubmitFullAnalysis sends the request built from snapshot. On success the
// result becomes the full cache entry, snapshot is kept for comparison and,
// unless a later submission was issued meanwhile, the analysis view is shown. On failure the message lands in pendingError
// and the view does not change. It blocks until the service answers.
func (c *Controller) SubmitFullAnalysis(ctx context.Context, snapshot form.State) error {
	snapshot = snapshot.Clone()
	req := form.BuildRequest(snapshot)

	return c.submit(ctx, modeFull, FullResultKey, req, fallbackPredictionError, func() {
		c.snapshot = &snapshot
	}, ViewAnalysis)
}

// RunFacetDemo previews one facet using the fixed demo payload. The form is
// not consulted.
func (c *Controller) RunFacetDemo(ctx context.Context, facet models.Facet) error {
	if _, ok := models.ParseFacet(string(facet)); !ok {
		return apperrors.NewUnknownFacetError(string(facet))
	}
	fallback := fmt.Sprintf("An error occurred during %s execution", facet)

	return c.submit(ctx, modeFacet, string(facet), form.DemoRequest(), fallback, nil, View(facet))
}

// submit runs one prediction. An outcome is discarded when a newer submission
// for the same key or a reset was issued after it. An outcome for a key that
// is still current is stored even when a submission for another key is newer;
// only the newest submission moves the view, clears busy or reports an error.
func (c *Controller) submit(ctx context.Context, mode, key string, req models.AnalysisRequest, fallback string, store func(), to View) error {
	c.mu.Lock()
	c.seq++
	ticket := c.seq
	c.keySeq[key]++
	keyTicket := c.keySeq[key]
	epoch := c.epoch
	c.busy = true
	c.pendingError = ""
	c.mu.Unlock()

	metrics.SubmissionsInFlight.Inc()
	defer metrics.SubmissionsInFlight.Dec()

	ctx, span := c.obs.StartSpan(ctx, "view.submit",
		attribute.String("mode", mode),
		attribute.String("key", key),
	)
	start := time.Now()
	result, err := c.predictor.Predict(ctx, req)
	elapsed := time.Since(start)
	observability.EndSpan(span, err)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	metrics.PredictionRequests.WithLabelValues(mode, outcome).Inc()
	metrics.PredictionDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	c.obs.RecordSubmission(ctx, mode, outcome, elapsed)

	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch || keyTicket != c.keySeq[key] {
		metrics.StaleResponses.WithLabelValues(mode).Inc()
		c.logger.Warn("discarding superseded prediction outcome", map[string]interface{}{
			"mode":     mode,
			"key":      key,
			"ticket":   keyTicket,
			"current":  c.keySeq[key],
			"outcome":  outcome,
			"wasReset": epoch != c.epoch,
		})
		return ErrSuperseded
	}
	latest := ticket == c.seq

	if err != nil {
		fields := apperrors.Fields(err)
		fields["mode"] = mode
		fields["key"] = key
		fields["latest"] = latest
		c.logger.Error("prediction failed", fields)
		if latest {
			c.busy = false
			c.pendingError = apperrors.UserMessage(err, fallback)
		}
		return err
	}

	if result == nil {
		result = models.AnalysisResult{}
	}
	c.cache[key] = result
	if store != nil {
		store()
	}
	if latest {
		c.busy = false
		c.transition(to)
	}

	c.logger.Info("prediction applied", map[string]interface{}{
		"mode":       mode,
		"key":        key,
		"latest":     latest,
		"durationMs": elapsed.Milliseconds(),
	})
	return nil
}

// SelectView moves directly to view. No request is made.
func (c *Controller) SelectView(view View) error {
	if _, ok := ParseView(string(view)); !ok {
		return apperrors.NewUnknownViewError(string(view))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transition(view)
	return nil
}

// Reset clears the cache, the snapshot and the error together and returns
// to the form. Submissions still in flight are superseded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = map[string]models.AnalysisResult{}
	c.snapshot = nil
	c.pendingError = ""
	c.epoch++
	if c.busy {
		c.seq++
		c.busy = false
	}
	c.transition(ViewForm)
}

// BackToForm returns to the form and keeps cached results and the snapshot.
func (c *Controller) BackToForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transition(ViewForm)
}

// FacetResult returns the facet's own result, else the full result.
func (c *Controller) FacetResult(key string) (models.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.cache[key]; ok {
		return r, true
	}
	r, ok := c.cache[FullResultKey]
	return r, ok
}

// caller holds mu
func (c *Controller) transition(to View) {
	if c.active != to {
		c.logger.Debug("view transition", map[string]interface{}{
			"from": string(c.active),
			"to":   string(to),
		})
	}
	c.active = to
	metrics.ViewTransitions.WithLabelValues(string(to)).Inc()
}
