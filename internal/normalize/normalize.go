// Package normalize projects a raw prediction response onto fully-defaulted
// per-facet records.
package normalize

import (
	apperrors "acquisition-console/internal/common/errors"
	"acquisition-console/internal/format"
	"acquisition-console/internal/models"
)

type Normalizer struct {
	inrRate float64
}

type Option func(*Normalizer)

// WithINRRate overrides the display exchange rate used to derive INR figures.
func WithINRRate(rate float64) Option {
	return func(n *Normalizer) {
		if rate > 0 {
			n.inrRate = rate
		}
	}
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{inrRate: format.INRRate}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize uses the default exchange rate.
func Normalize(r models.AnalysisResult) Result {
	return New().Normalize(r)
}

// Normalize never fails: missing or mistyped numbers read as 0, sequences as
// empty and labels as "N/A", except the decision which reads as INVESTIGATE.
func (n *Normalizer) Normalize(r models.AnalysisResult) Result {
	raw := map[string]interface{}(r)
	return Result{
		Funding:       funding(raw),
		Team:          team(raw),
		Synergy:       synergy(raw),
		Valuation:     n.valuation(raw),
		Risk:          risk(raw),
		DecisionScore: decisionScore(raw),
		Explanation:   explanation(raw),
		Benchmarks:    benchmarks(raw),
		BusinessModel: businessModel(raw),
	}
}

// DecisionView groups what the decision facet shows.
type DecisionView struct {
	DecisionScore DecisionScore `json:"decisionScore"`
	Explanation   Explanation   `json:"explanation"`
}

// Facet returns the projection displayed by one facet view.
func (r Result) Facet(facet models.Facet) (interface{}, error) {
	switch facet {
	case models.FacetFunding:
		return r.Funding, nil
	case models.FacetTeam:
		return r.Team, nil
	case models.FacetSynergy:
		return r.Synergy, nil
	case models.FacetValuation:
		return r.Valuation, nil
	case models.FacetRisk:
		return r.Risk, nil
	case models.FacetDecision:
		return DecisionView{DecisionScore: r.DecisionScore, Explanation: r.Explanation}, nil
	case models.FacetBenchmark:
		return r.Benchmarks, nil
	}
	return nil, apperrors.NewUnknownFacetError(string(facet))
}

func funding(raw map[string]interface{}) Funding {
	src := object(raw, "funding_json")

	total, ok := numberOK(src, "total_raised_usd")
	if !ok {
		total = number(object(raw, "financials_json"), "total_raised_usd")
	}

	rounds := []Round{}
	for _, item := range objects(src, "rounds") {
		rounds = append(rounds, Round{
			Type:   text(item, "type", NotAvailable),
			Amount: number(item, "amount"),
			Date:   text(item, "date", NotAvailable),
		})
	}

	return Funding{
		TotalRaisedUSD: total,
		NumRounds:      number(src, "num_rounds"),
		AvgRoundSize:   number(src, "avg_round_size"),
		Rounds:         rounds,
	}
}

func team(raw map[string]interface{}) Team {
	src := object(raw, "team_details")
	dist := object(src, "experience_distribution")

	founders := []FounderDetail{}
	for _, item := range objects(src, "founder_details") {
		founders = append(founders, FounderDetail{
			Name:            text(item, "name", NotAvailable),
			Role:            text(item, "role", NotAvailable),
			Experience:      number(item, "experience"),
			ExperienceLevel: text(item, "experience_level", NotAvailable),
			Education:       text(item, "education", ""),
			HasExit:         boolean(item, "has_exit"),
		})
	}

	return Team{
		FounderCount:         number(src, "founder_count"),
		AvgExperience:        number(src, "avg_experience"),
		ExitsCount:           number(src, "exits_count"),
		EstimatedTeamSize:    number(src, "estimated_team_size"),
		TeamStrengthScore:    number(src, "team_strength_score"),
		TeamCompositionScore: number(src, "team_composition_score"),
		ExperienceDistribution: ExperienceDistribution{
			Junior:    number(dist, "junior"),
			MidLevel:  number(dist, "mid_level"),
			Senior:    number(dist, "senior"),
			Executive: number(dist, "executive"),
		},
		FounderDetails: founders,
	}
}

func synergy(raw map[string]interface{}) Synergy {
	src := object(raw, "synergy_details")
	return Synergy{
		MarketSimilarity:    number(src, "market_similarity"),
		TechSimilarity:      number(src, "tech_similarity"),
		RevenueSynergyScore: number(src, "revenue_synergy_score"),
		CostSynergyScore:    number(src, "cost_synergy_score"),
		OverallSynergyScore: number(src, "overall_synergy_score"),
	}
}

// valuation is the only projection that computes: a missing INR forecast is
// derived from the USD one.
func (n *Normalizer) valuation(raw map[string]interface{}) Valuation {
	fin := object(raw, "financials_json")

	usd := number(raw, "valuation_forecast_usd")
	inr, ok := numberOK(raw, "valuation_forecast_inr")
	if !ok {
		inr = format.ConvertUsdToInrAt(usd, n.inrRate)
	}

	revenueTTM := number(fin, "revenue_ttm")
	implied := 0.0
	if usd != 0 && revenueTTM != 0 {
		implied = usd / revenueTTM
	}

	return Valuation{
		ForecastUSD:      usd,
		ForecastINR:      inr,
		INRDerived:       !ok,
		RevenueTTM:       revenueTTM,
		RevenueMultiple:  number(fin, "revenue_multiple_proxy"),
		ImpliedMultiple:  implied,
		GrossMargin:      number(fin, "gross_margin"),
		EBITDAMargin:     number(fin, "ebitda_margin"),
		RevenueGrowthMoM: number(fin, "revenue_growth_mom"),
	}
}

func risk(raw map[string]interface{}) Risk {
	src := object(raw, "risk")
	return Risk{
		FundingRisk:       number(src, "funding_risk"),
		TeamRisk:          number(src, "team_risk"),
		SynergyRisk:       number(src, "synergy_risk"),
		ValuationRisk:     number(src, "valuation_risk"),
		CombinedRiskScore: number(src, "combined_risk_score"),
	}
}

func decisionScore(raw map[string]interface{}) DecisionScore {
	src := object(raw, "decision_score")
	return DecisionScore{
		AcquisitionScore:   number(src, "acquisition_score"),
		MnaLikelihood:      number(src, "mna_likelihood"),
		SynergyComponent:   number(src, "synergy_component"),
		ValuationComponent: number(src, "valuation_component"),
		TeamComponent:      number(src, "team_component"),
		BenchmarkComponent: number(src, "benchmark_component"),
		RiskPenalty:        number(src, "risk_penalty"),
		ModelMnaLikelihood: number(raw, "mna_likelihood"),
	}
}

func explanation(raw map[string]interface{}) Explanation {
	src := object(raw, "explanation")
	return Explanation{
		Decision:         text(src, "decision", DefaultDecision),
		Confidence:       number(src, "confidence"),
		Rationale:        texts(src, "rationale"),
		KeyDrivers:       texts(src, "key_drivers"),
		SuggestedActions: texts(src, "suggested_actions"),
	}
}

func benchmarks(raw map[string]interface{}) Benchmarks {
	src := object(raw, "benchmarks")
	gap := func(key string, reference float64) BenchmarkGap {
		g := number(src, key)
		return BenchmarkGap{Gap: g, Reference: reference, Status: format.ClassifyBenchmarkGap(g)}
	}

	b := Benchmarks{
		Funding:           gap("funding_benchmark_gap", ReferenceFundingUSD),
		TeamExperience:    gap("team_experience_gap", ReferenceExperienceYears),
		Synergy:           gap("synergy_benchmark_gap", ReferenceSynergy),
		ValuationMultiple: gap("valuation_multiple_gap", ReferenceValuationMultiple),
		Growth:            gap("growth_benchmark_gap", ReferenceGrowth),
		RevenueTTM:        gap("revenue_ttm_gap", ReferenceRevenueTTM),
	}

	b.OverallGap = (b.Funding.Gap + b.TeamExperience.Gap + b.Synergy.Gap +
		b.ValuationMultiple.Gap + b.Growth.Gap + b.RevenueTTM.Gap) / 6
	b.Overall = format.ClassifyBenchmarkGap(b.OverallGap)
	return b
}

// Gaps lists the six benchmark gaps in display order with their labels.
func (b Benchmarks) Gaps() []NamedGap {
	return []NamedGap{
		{"Funding", b.Funding},
		{"Team Experience", b.TeamExperience},
		{"Synergy", b.Synergy},
		{"Valuation Multiple", b.ValuationMultiple},
		{"Growth", b.Growth},
		{"Revenue TTM", b.RevenueTTM},
	}
}

type NamedGap struct {
	Label string
	BenchmarkGap
}

func businessModel(raw map[string]interface{}) BusinessModel {
	eval := object(raw, "business_model_evaluation")
	insights := object(raw, "business_model_insights")
	return BusinessModel{
		Score:                    number(eval, "business_model_score"),
		FundingEfficiency:        number(eval, "funding_efficiency"),
		TeamStrengthForExecution: number(eval, "team_strength_for_execution"),
		RevenueSustainability:    number(eval, "revenue_sustainability"),
		Insights:                 text(insights, "insights", NotAvailable),
		KeyPatterns:              texts(insights, "key_patterns"),
		SampleEvaluations:        texts(insights, "sample_evaluations"),
	}
}
