// Package lookup finds competitors of a company and past acquisitions of an
// acquirer. Lookup failures never reach the user: they are logged and read
// as empty results.
package lookup

import (
	"context"
	"math"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	apperrors "acquisition-console/internal/common/errors"
	"acquisition-console/internal/common/logger"
	"acquisition-console/internal/common/metrics"
	"acquisition-console/internal/common/observability"
	"acquisition-console/internal/format"
	"acquisition-console/internal/models"
)

const (
	KindCompetitors  = "competitors"
	KindAcquisitions = "acquisition-targets"
)

// Source is a lookup backend. Unlike Service it reports failures.
type Source interface {
	Competitors(ctx context.Context, company, industry string) ([]models.Competitor, error)
	AcquisitionTargets(ctx context.Context, acquirer string) ([]models.Acquisition, error)
}

type Service struct {
	source  Source
	inrRate float64
	logger  logger.Logger
	obs     *observability.Observability
}

func NewService(source Source, inrRate float64, log logger.Logger, obs *observability.Observability) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		source:  source,
		inrRate: inrRate,
		logger:  logger.Component(log, "lookup"),
		obs:     obs,
	}
}

// Competitors returns up to the backend's limit of companies other than
// company, optionally restricted to industry. The result is never nil.
func (s *Service) Competitors(ctx context.Context, company, industry string) []models.Competitor {
	company = strings.TrimSpace(company)
	if company == "" {
		s.record(ctx, KindCompetitors, metrics.OutcomeSkipped)
		return []models.Competitor{}
	}

	ctx, span := s.obs.StartSpan(ctx, "lookup.competitors",
		attribute.String("company", company),
		attribute.String("industry", industry),
	)
	found, err := s.source.Competitors(ctx, company, strings.TrimSpace(industry))
	observability.EndSpan(span, err)

	if err != nil {
		s.fail(ctx, KindCompetitors, company, err)
		return []models.Competitor{}
	}

	out := make([]models.Competitor, 0, len(found))
	for _, c := range found {
		c.FundingTotalUSD = finiteOrZero(c.FundingTotalUSD)
		out = append(out, c)
	}
	s.record(ctx, KindCompetitors, metrics.OutcomeSuccess)
	s.logger.Info("competitors found", map[string]interface{}{"company": company, "count": len(out)})
	return out
}

// AcquisitionTargets returns companies acquirer has bought. USD prices gain
// an INR figure. The result is never nil.
func (s *Service) AcquisitionTargets(ctx context.Context, acquirer string) []models.Acquisition {
	acquirer = strings.TrimSpace(acquirer)
	if acquirer == "" {
		s.record(ctx, KindAcquisitions, metrics.OutcomeSkipped)
		return []models.Acquisition{}
	}

	ctx, span := s.obs.StartSpan(ctx, "lookup.acquisition_targets",
		attribute.String("acquirer", acquirer),
	)
	found, err := s.source.AcquisitionTargets(ctx, acquirer)
	observability.EndSpan(span, err)

	if err != nil {
		s.fail(ctx, KindAcquisitions, acquirer, err)
		return []models.Acquisition{}
	}

	out := make([]models.Acquisition, 0, len(found))
	for _, a := range found {
		a.PriceAmount = finiteOrZero(a.PriceAmount)
		a.PriceAmountINR = finiteOrZero(a.PriceAmountINR)
		if a.PriceAmount != 0 && strings.EqualFold(a.PriceCurrencyCode, "USD") {
			a.PriceAmountINR = format.ConvertUsdToInrAt(a.PriceAmount, s.inrRate)
		}
		out = append(out, a)
	}
	s.record(ctx, KindAcquisitions, metrics.OutcomeSuccess)
	s.logger.Info("acquisition targets found", map[string]interface{}{"acquirer": acquirer, "count": len(out)})
	return out
}

func (s *Service) fail(ctx context.Context, kind, name string, err error) {
	s.record(ctx, kind, metrics.OutcomeFailure)
	fields := apperrors.Fields(apperrors.NewLookupFailureError(kind, err))
	fields["name"] = name
	s.logger.Warn("lookup failed, returning no results", fields)
}

func (s *Service) record(ctx context.Context, kind, outcome string) {
	metrics.LookupRequests.WithLabelValues(kind, outcome).Inc()
	s.obs.RecordLookup(ctx, kind, outcome)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
