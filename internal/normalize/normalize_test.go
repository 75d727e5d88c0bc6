package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "acquisition-console/internal/common/errors"
	"acquisition-console/internal/format"
	"acquisition-console/internal/models"
)

func decode(t *testing.T, raw string) models.AnalysisResult {
	t.Helper()
	var r models.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestNormalize_EmptyObject(t *testing.T) {
	got := Normalize(models.AnalysisResult{})

	assert.Equal(t, Funding{Rounds: []Round{}}, got.Funding)
	assert.Equal(t, Team{FounderDetails: []FounderDetail{}}, got.Team)
	assert.Equal(t, Synergy{}, got.Synergy)
	assert.Equal(t, Valuation{INRDerived: true}, got.Valuation)
	assert.Equal(t, Risk{}, got.Risk)
	assert.Equal(t, DecisionScore{}, got.DecisionScore)
	assert.Equal(t, Explanation{
		Decision:         "INVESTIGATE",
		Rationale:        []string{},
		KeyDrivers:       []string{},
		SuggestedActions: []string{},
	}, got.Explanation)

	for _, g := range got.Benchmarks.Gaps() {
		assert.Zero(t, g.Gap, g.Label)
		assert.Equal(t, format.BandAt, g.Status.Band, g.Label)
	}
	assert.Zero(t, got.Benchmarks.OverallGap)
	assert.Empty(t, got.BusinessModel.KeyPatterns)
	assert.Equal(t, NotAvailable, got.BusinessModel.Insights)
}

func TestNormalize_NilResult(t *testing.T) {
	got := Normalize(nil)
	assert.Equal(t, DefaultDecision, got.Explanation.Decision)
	assert.NotNil(t, got.Funding.Rounds)
}

func TestNormalize_DerivesINR(t *testing.T) {
	got := Normalize(decode(t, `{"valuation_forecast_usd": 2000000}`))

	assert.Equal(t, 2000000.0, got.Valuation.ForecastUSD)
	assert.Equal(t, 2000000.0*83, got.Valuation.ForecastINR)
	assert.True(t, got.Valuation.INRDerived)
}

func TestNormalize_KeepsReportedINR(t *testing.T) {
	got := Normalize(decode(t, `{"valuation_forecast_usd": 10, "valuation_forecast_inr": 900}`))
	assert.Equal(t, 900.0, got.Valuation.ForecastINR)
	assert.False(t, got.Valuation.INRDerived)

	got = Normalize(decode(t, `{"valuation_forecast_usd": 10, "valuation_forecast_inr": "lots"}`))
	assert.Equal(t, 830.0, got.Valuation.ForecastINR)

	got = New(WithINRRate(80)).Normalize(decode(t, `{"valuation_forecast_usd": 10}`))
	assert.Equal(t, 800.0, got.Valuation.ForecastINR)
}

func TestNormalize_FullResponse(t *testing.T) {
	got := Normalize(decode(t, `{
		"mna_likelihood": 0.71,
		"valuation_forecast_usd": 10000000,
		"funding_json": {"total_raised_usd": 1000000, "num_rounds": 1, "avg_round_size": 1000000,
			"rounds": [{"type": "Series A", "amount": 1000000}, "junk"]},
		"financials_json": {"revenue_ttm": 2000000, "revenue_growth_mom": 0.15, "gross_margin": 0.75,
			"ebitda_margin": 0.2, "revenue_multiple_proxy": 4.2},
		"synergy_details": {"market_similarity": 1.4, "overall_synergy_score": -0.1},
		"team_details": {"founder_count": 2, "avg_experience": 7.5, "exits_count": 1,
			"experience_distribution": {"junior": 0, "mid_level": 1, "senior": 1, "executive": "x"},
			"founder_details": [{"name": "Ada", "role": "CTO", "experience": 10, "experience_level": "senior",
				"education": "PhD", "has_exit": true}, {}]},
		"risk": {"funding_risk": 0.3, "combined_risk_score": 0.25},
		"decision_score": {"acquisition_score": 0.64, "mna_likelihood": 0.7, "risk_penalty": 0.05},
		"explanation": {"decision": "PROCEED", "confidence": 0.8, "rationale": ["strong team", 3],
			"key_drivers": "synergy", "suggested_actions": null},
		"benchmarks": {"funding_benchmark_gap": -0.8, "team_experience_gap": 0.07, "synergy_benchmark_gap": 0.2,
			"valuation_multiple_gap": 0, "growth_benchmark_gap": 0.875, "revenue_ttm_gap": 0.667},
		"business_model_evaluation": {"business_model_score": 0.6},
		"business_model_insights": {"insights": "patterns", "key_patterns": ["a", "b"]}
	}`))

	assert.Equal(t, 1000000.0, got.Funding.TotalRaisedUSD)
	require.Len(t, got.Funding.Rounds, 2)
	assert.Equal(t, Round{Type: "Series A", Amount: 1000000, Date: "N/A"}, got.Funding.Rounds[0])
	assert.Equal(t, Round{Type: "N/A", Date: "N/A"}, got.Funding.Rounds[1])

	assert.Equal(t, 1.4, got.Synergy.MarketSimilarity, "not clamped")
	assert.Equal(t, -0.1, got.Synergy.OverallSynergyScore)

	assert.Equal(t, 1.0, got.Team.ExperienceDistribution.MidLevel)
	assert.Zero(t, got.Team.ExperienceDistribution.Executive)
	require.Len(t, got.Team.FounderDetails, 2)
	assert.Equal(t, FounderDetail{Name: "Ada", Role: "CTO", Experience: 10, ExperienceLevel: "senior", Education: "PhD", HasExit: true}, got.Team.FounderDetails[0])
	assert.Equal(t, FounderDetail{Name: "N/A", Role: "N/A", ExperienceLevel: "N/A"}, got.Team.FounderDetails[1])

	assert.Equal(t, 830000000.0, got.Valuation.ForecastINR)
	assert.Equal(t, 5.0, got.Valuation.ImpliedMultiple)
	assert.Equal(t, 4.2, got.Valuation.RevenueMultiple)

	assert.Equal(t, 0.71, got.DecisionScore.ModelMnaLikelihood)
	assert.Equal(t, 0.7, got.DecisionScore.MnaLikelihood)

	assert.Equal(t, "PROCEED", got.Explanation.Decision)
	assert.Equal(t, []string{"strong team", "3"}, got.Explanation.Rationale)
	assert.Equal(t, []string{"synergy"}, got.Explanation.KeyDrivers)
	assert.Equal(t, []string{}, got.Explanation.SuggestedActions)

	assert.Equal(t, format.BandSignificantlyBelow, got.Benchmarks.Funding.Status.Band)
	assert.Equal(t, format.BandAbove, got.Benchmarks.Synergy.Status.Band)
	assert.Equal(t, format.BandAt, got.Benchmarks.ValuationMultiple.Status.Band)
	assert.Equal(t, ReferenceFundingUSD, got.Benchmarks.Funding.Reference)
	assert.InDelta(t, 0.1687, got.Benchmarks.OverallGap, 0.001)
	assert.Equal(t, format.BandAbove, got.Benchmarks.Overall.Band)

	assert.Equal(t, 0.6, got.BusinessModel.Score)
	assert.Equal(t, []string{"a", "b"}, got.BusinessModel.KeyPatterns)
}

func TestNormalize_FundingFallsBackToFinancials(t *testing.T) {
	got := Normalize(decode(t, `{"financials_json": {"total_raised_usd": 750000}}`))
	assert.Equal(t, 750000.0, got.Funding.TotalRaisedUSD)
}

func TestNormalize_WrongTypes(t *testing.T) {
	got := Normalize(models.AnalysisResult{
		"funding_json":   "not an object",
		"team_details":   []interface{}{1, 2},
		"explanation":    map[string]interface{}{"decision": 42},
		"risk":           map[string]interface{}{"team_risk": math.NaN(), "funding_risk": int64(1)},
		"decision_score": map[string]interface{}{"acquisition_score": json.Number("0.5")},
	})

	assert.Empty(t, got.Funding.Rounds)
	assert.Zero(t, got.Team.FounderCount)
	assert.Equal(t, DefaultDecision, got.Explanation.Decision)
	assert.Zero(t, got.Risk.TeamRisk)
	assert.Equal(t, 1.0, got.Risk.FundingRisk)
	assert.Equal(t, 0.5, got.DecisionScore.AcquisitionScore)
}

func TestResultFacet(t *testing.T) {
	r := Normalize(models.AnalysisResult{"valuation_forecast_usd": 1.0})

	v, err := r.Facet(models.FacetValuation)
	require.NoError(t, err)
	assert.Equal(t, r.Valuation, v)

	v, err = r.Facet(models.FacetDecision)
	require.NoError(t, err)
	assert.Equal(t, DecisionView{DecisionScore: r.DecisionScore, Explanation: r.Explanation}, v)

	for _, f := range models.Facets {
		_, err := r.Facet(f)
		assert.NoError(t, err, f)
	}

	_, err = r.Facet("dashboard")
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeUnknownFacet, stdErr.Code)
}
