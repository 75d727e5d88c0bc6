package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acquisition-console/internal/form"
	"acquisition-console/internal/models"
	"acquisition-console/internal/normalize"
)

func sampleResult() normalize.Result {
	return normalize.Normalize(models.AnalysisResult{
		"valuation_forecast_usd": 6000000.0,
		"mna_likelihood":         0.72,
		"funding_json": map[string]interface{}{
			"total_raised_usd": 3000000.0,
			"num_rounds":       2.0,
			"avg_round_size":   1500000.0,
		},
		"team_details": map[string]interface{}{
			"founder_count":          2.0,
			"avg_experience":         6.5,
			"team_strength_score":    0.8,
			"team_composition_score": 0.7,
			"experience_distribution": map[string]interface{}{
				"junior": 1.0, "mid_level": 2.0, "senior": 1.0, "executive": 0.0,
			},
		},
		"synergy_details": map[string]interface{}{"overall_synergy_score": 0.65},
		"financials_json": map[string]interface{}{"revenue_ttm": 1200000.0, "gross_margin": 0.6},
		"decision_score":  map[string]interface{}{"acquisition_score": 0.81},
		"benchmarks":      map[string]interface{}{"funding_benchmark_gap": -0.4, "synergy_benchmark_gap": 0.08},
		"explanation": map[string]interface{}{
			"decision":          "ACQUIRE",
			"confidence":        0.9,
			"rationale":         []interface{}{"a", "b", "c", "d"},
			"suggested_actions": []interface{}{"Run diligence"},
		},
	})
}

func TestInsight(t *testing.T) {
	r := sampleResult()

	tests := []struct {
		facet models.Facet
		want  []string
	}{
		{models.FacetFunding, []string{"$3,000,000 across 2 funding rounds", "average round size of $1,500,000"}},
		{models.FacetTeam, []string{"2 key members", "6.5 years", "1 junior, 2 mid-level, 1 senior, and 0 executive"}},
		{models.FacetSynergy, []string{"overall synergy score is 65.0%", "cost synergy at 0.0%"}},
		{models.FacetValuation, []string{"$6,000,000", "₹49,80,00,000", "gross margin of 60.0%", "a 5.00x revenue multiple"}},
		{models.FacetRisk, []string{"combined risk score is 0.0%"}},
		{models.FacetDecision, []string{"decision score is 0.81", "M&A likelihood of 72.0%", "Recommendation: ACQUIRE"}},
		{models.FacetBenchmark, []string{"Funding -40.0% (Significantly Below Benchmark)", "Synergy 8.0% (Above Benchmark)"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.facet), func(t *testing.T) {
			got, err := Insight(tt.facet, r)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}

	_, err := Insight("pricing", r)
	assert.Error(t, err)
}

func TestInsight_EmptyResult(t *testing.T) {
	r := normalize.Normalize(models.AnalysisResult{})

	team, err := Insight(models.FacetTeam, r)
	require.NoError(t, err)
	assert.NotContains(t, team, "Experience distribution")

	decision, err := Insight(models.FacetDecision, r)
	require.NoError(t, err)
	assert.Contains(t, decision, "decision score is N/A")
	assert.Contains(t, decision, "Recommendation: INVESTIGATE")
}

func TestBuildComparison(t *testing.T) {
	s := form.InitialState()
	s.EntityA.CompanyName = "Acme"
	s.EntityA.TotalFunding = "2000000"
	s.EntityB.TotalFunding = "5000000"
	s.EntityA.Employees = "40"
	s.EntityB.Employees = "40"
	s.RevenueTTM = "1200000"
	s.TargetRevenue = "1000000"
	s.GrossMargin = "0.6"

	c := BuildComparison(s, sampleResult())

	assert.Equal(t, "Acme", c.EntityAName)
	assert.Equal(t, "Acquirer Company", c.EntityBName)

	require.Len(t, c.FundingAndTeam, 3)
	assert.Equal(t, DirectionDown, c.FundingAndTeam[0].Direction)
	assert.Equal(t, -3000000.0, c.FundingAndTeam[0].Difference)
	assert.Equal(t, DirectionFlat, c.FundingAndTeam[1].Direction)

	require.Len(t, c.Financial, 3)
	assert.Equal(t, DirectionUp, c.Financial[0].Direction)
	assert.Equal(t, c.Financial[1].A, c.Financial[1].B)

	require.Len(t, c.Valuation, 2)
	assert.Equal(t, 6000000.0, c.Valuation[0].A)
	assert.Equal(t, 5000000.0, c.Valuation[0].B)
	assert.Equal(t, DirectionUp, c.Valuation[0].Direction)
	assert.Equal(t, 5.0, c.Valuation[1].A)
	assert.Equal(t, DirectionFlat, c.Valuation[1].Direction)
}

func TestBuildComparison_ZeroRevenueDividesByOne(t *testing.T) {
	c := BuildComparison(form.InitialState(), sampleResult())

	assert.Equal(t, "Target Company", c.EntityAName)
	assert.Equal(t, 6000000.0, c.Valuation[1].A)
	assert.Zero(t, c.Valuation[0].B)
}

func TestMarkdownAndHTML(t *testing.T) {
	s := form.InitialState()
	s.EntityA.CompanyName = "Acme"

	md := Markdown(sampleResult(), &s)
	assert.Contains(t, md, "# Acquisition Analysis")
	assert.Contains(t, md, "**Recommendation:** ACQUIRE (confidence 90.0%)")
	assert.Contains(t, md, "- c\n")
	assert.NotContains(t, md, "- d\n")
	assert.Contains(t, md, "## Comparison: Acme vs Acquirer Company")
	assert.Contains(t, md, "| Funding | -40.0% | Significantly Below Benchmark |")

	html, err := HTML(md)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Acquisition Analysis</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<strong>Recommendation:</strong>")
}

func TestMarkdown_WithoutSnapshot(t *testing.T) {
	md := Markdown(normalize.Normalize(nil), nil)
	assert.NotContains(t, md, "## Comparison")
	assert.NotContains(t, md, "## Business Model")
	assert.Contains(t, md, "## Benchmark")
}
