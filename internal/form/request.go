package form

import (
	"fmt"
	"strings"

	apperrors "acquisition-console/internal/common/errors"
	"acquisition-console/internal/models"
)

// BuildRequest derives the prediction payload from s. It never fails:
// unreadable numbers become 0 and empty selections take their defaults.
//
// Only entity A contributes funding and team detail. Entity B is reduced to
// the acquirer's industry and revenue.
func BuildRequest(s State) models.AnalysisRequest {
	a := s.EntityA

	founders := make([]models.FounderPayload, 0, len(a.TeamMembers))
	for _, m := range a.TeamMembers {
		founders = append(founders, models.FounderPayload{
			ExperienceYears: intOrZero(m.Experience),
			HasExit:         isYes(m.HasExit),
			Role:            orDefault(m.Role, RoleEmployee),
			Education:       m.Education,
		})
	}

	return models.AnalysisRequest{
		Funding: models.FundingPayload{
			Rounds: []models.FundingRound{{
				Type:   orDefault(a.FundingRound, DefaultFundingRound),
				Amount: floatOrZero(a.TotalFunding),
			}},
		},
		Team: models.TeamPayload{
			Founders:          founders,
			EstimatedTeamSize: intOrZero(a.Employees),
		},
		Acquirer: models.CompanyPayload{
			Industry: orDefault(s.AcquirerIndustry, DefaultIndustry),
			Revenue:  floatOrZero(s.AcquirerRevenue),
		},
		Target: models.CompanyPayload{
			Industry: orDefault(s.TargetIndustry, DefaultIndustry),
			Revenue:  floatOrZero(s.TargetRevenue),
		},
		Financials: models.FinancialsPayload{
			RevenueTTM:       floatOrZero(s.RevenueTTM),
			RevenueGrowthMoM: floatOrZero(s.RevenueGrowth),
			GrossMargin:      floatOrZero(s.GrossMargin),
			EBITDAMargin:     floatOrZero(s.EbitdaMargin),
		},
	}
}

// Gaps reports every non-blank numeric input of s that BuildRequest reads
// as 0 because it does not start with a number.
func Gaps(s State) []*apperrors.StandardError {
	var gaps []*apperrors.StandardError
	check := func(field, raw string, parse func(string) bool) {
		if strings.TrimSpace(raw) != "" && !parse(raw) {
			gaps = append(gaps, apperrors.NewValidationGapError(field, raw))
		}
	}
	isFloat := func(raw string) bool { _, ok := parseFloat(raw); return ok }
	isInt := func(raw string) bool { _, ok := parseInt(raw); return ok }

	check("entityA.totalFunding", s.EntityA.TotalFunding, isFloat)
	check("entityA.employees", s.EntityA.Employees, isInt)
	for i, m := range s.EntityA.TeamMembers {
		check(fmt.Sprintf("entityA.teamMembers[%d].experience", i), m.Experience, isInt)
	}
	check("acquirerRevenue", s.AcquirerRevenue, isFloat)
	check("targetRevenue", s.TargetRevenue, isFloat)
	check("revenueTTM", s.RevenueTTM, isFloat)
	check("revenueGrowth", s.RevenueGrowth, isFloat)
	check("grossMargin", s.GrossMargin, isFloat)
	check("ebitdaMargin", s.EbitdaMargin, isFloat)
	return gaps
}

// DemoRequest is the fixed example payload used to preview a single facet.
// It does not depend on the form.
func DemoRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		Funding: models.FundingPayload{
			Rounds: []models.FundingRound{{Type: "Series A", Amount: 1000000}},
		},
		Team: models.TeamPayload{
			Founders: []models.FounderPayload{
				{ExperienceYears: 5, HasExit: false, Role: "Founder", Education: "MBA"},
				{ExperienceYears: 10, HasExit: true, Role: "CTO", Education: "PhD"},
			},
			EstimatedTeamSize: 50,
		},
		Acquirer: models.CompanyPayload{Industry: "Technology", Revenue: 100000000},
		Target:   models.CompanyPayload{Industry: "Technology", Revenue: 5000000},
		Financials: models.FinancialsPayload{
			RevenueTTM:       2000000,
			RevenueGrowthMoM: 0.15,
			GrossMargin:      0.75,
			EBITDAMargin:     0.20,
		},
	}
}
