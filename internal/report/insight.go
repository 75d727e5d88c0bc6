// Package report turns a normalized result into readable insight text, an
// entity comparison and a Markdown/HTML report.
package report

import (
	"fmt"
	"strings"

	"acquisition-console/internal/format"
	"acquisition-console/internal/models"
	"acquisition-console/internal/normalize"
)

const usd = "USD"

// Insight returns the summary paragraph shown under one facet.
func Insight(facet models.Facet, r normalize.Result) (string, error) {
	switch facet {
	case models.FacetFunding:
		return fundingInsight(r.Funding), nil
	case models.FacetTeam:
		return teamInsight(r.Team), nil
	case models.FacetSynergy:
		return synergyInsight(r.Synergy), nil
	case models.FacetValuation:
		return valuationInsight(r.Valuation), nil
	case models.FacetRisk:
		return riskInsight(r.Risk), nil
	case models.FacetDecision:
		return decisionInsight(r), nil
	case models.FacetBenchmark:
		return benchmarkInsight(r.Benchmarks), nil
	}
	return "", fmt.Errorf("no insight for facet %q", facet)
}

func fundingInsight(f normalize.Funding) string {
	return fmt.Sprintf(
		"The company has raised a total of %s across %.0f funding rounds with an average round size of %s.",
		format.FormatCurrency(f.TotalRaisedUSD, usd), f.NumRounds, format.FormatCurrency(f.AvgRoundSize, usd),
	)
}

func teamInsight(t normalize.Team) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"The team consists of %.0f key members with an average of %.1f years of experience. "+
			"Team strength score is %.1f and composition score is %.1f.",
		t.FounderCount, t.AvgExperience, t.TeamStrengthScore, t.TeamCompositionScore,
	)
	d := t.ExperienceDistribution
	if d.Junior+d.MidLevel+d.Senior+d.Executive > 0 {
		fmt.Fprintf(&b,
			" Experience distribution: %.0f junior, %.0f mid-level, %.0f senior, and %.0f executive members.",
			d.Junior, d.MidLevel, d.Senior, d.Executive,
		)
	}
	return b.String()
}

func synergyInsight(s normalize.Synergy) string {
	return fmt.Sprintf(
		"The overall synergy score is %s with market similarity at %s, technology similarity at %s, "+
			"revenue synergy at %s, and cost synergy at %s.",
		format.FormatPercentage(s.OverallSynergyScore),
		format.FormatPercentage(s.MarketSimilarity),
		format.FormatPercentage(s.TechSimilarity),
		format.FormatPercentage(s.RevenueSynergyScore),
		format.FormatPercentage(s.CostSynergyScore),
	)
}

func valuationInsight(v normalize.Valuation) string {
	return fmt.Sprintf(
		"The valuation forecast of %s (%s) is based on a revenue multiple of %s applied to trailing twelve months revenue of %s. "+
			"With a gross margin of %s and EBITDA margin of %s, this represents a %s revenue multiple.",
		format.FormatCurrency(v.ForecastUSD, usd),
		format.FormatCurrency(v.ForecastINR, "INR"),
		format.FormatRatio(v.RevenueMultiple),
		format.FormatCurrency(v.RevenueTTM, usd),
		format.FormatPercentage(v.GrossMargin),
		format.FormatPercentage(v.EBITDAMargin),
		format.FormatRatio(v.ImpliedMultiple),
	)
}

func riskInsight(r normalize.Risk) string {
	return fmt.Sprintf(
		"The combined risk score is %s with funding risk at %s, team risk at %s, "+
			"synergy risk at %s, and valuation risk at %s.",
		format.FormatPercentage(r.CombinedRiskScore),
		format.FormatPercentage(r.FundingRisk),
		format.FormatPercentage(r.TeamRisk),
		format.FormatPercentage(r.SynergyRisk),
		format.FormatPercentage(r.ValuationRisk),
	)
}

func decisionInsight(r normalize.Result) string {
	score := normalize.NotAvailable
	if r.DecisionScore.AcquisitionScore != 0 {
		score = fmt.Sprintf("%.2f", r.DecisionScore.AcquisitionScore)
	}
	return fmt.Sprintf(
		"Based on the analysis, the acquisition decision score is %s with an M&A likelihood of %s, "+
			"a valuation forecast of %s, and a synergy score of %s. Recommendation: %s.",
		score,
		format.FormatPercentage(r.DecisionScore.ModelMnaLikelihood),
		format.FormatCurrency(r.Valuation.ForecastUSD, usd),
		format.FormatPercentage(r.Synergy.OverallSynergyScore),
		r.Explanation.Decision,
	)
}

func benchmarkInsight(b normalize.Benchmarks) string {
	parts := make([]string, 0, len(b.Gaps()))
	for _, g := range b.Gaps() {
		parts = append(parts, fmt.Sprintf("%s %s (%s)", g.Label, format.FormatPercentage(g.Gap), g.Status.Status))
	}
	return fmt.Sprintf("Overall the company is %s with a mean gap of %s. By metric: %s.",
		strings.ToLower(b.Overall.Status), format.FormatPercentage(b.OverallGap), strings.Join(parts, ", "))
}
