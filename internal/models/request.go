// internal/models/request.go
package models

// AnalysisRequest is the payload accepted by the prediction service. It is
// built once from the comparison form and never mutated.
type AnalysisRequest struct {
	Funding    FundingPayload    `json:"funding_json"`
	Team       TeamPayload       `json:"team_json"`
	Acquirer   CompanyPayload    `json:"acquirer_json"`
	Target     CompanyPayload    `json:"target_json"`
	Financials FinancialsPayload `json:"financials_json"`
}

type FundingPayload struct {
	Rounds []FundingRound `json:"rounds"`
}

type FundingRound struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

type TeamPayload struct {
	Founders          []FounderPayload `json:"founders"`
	EstimatedTeamSize int              `json:"estimated_team_size"`
}

type FounderPayload struct {
	ExperienceYears int    `json:"experience_years"`
	HasExit         bool   `json:"has_exit"`
	Role            string `json:"role"`
	Education       string `json:"education"`
}

type CompanyPayload struct {
	Industry string  `json:"industry"`
	Revenue  float64 `json:"revenue"`
}

type FinancialsPayload struct {
	RevenueTTM       float64 `json:"revenue_ttm"`
	RevenueGrowthMoM float64 `json:"revenue_growth_mom"`
	GrossMargin      float64 `json:"gross_margin"`
	EBITDAMargin     float64 `json:"ebitda_margin"`
}

// AsDocument returns a JSON-shaped copy of the request for schema validation.
func (r AnalysisRequest) AsDocument() map[string]interface{} {
	rounds := make([]interface{}, 0, len(r.Funding.Rounds))
	for _, round := range r.Funding.Rounds {
		rounds = append(rounds, map[string]interface{}{
			"type":   round.Type,
			"amount": round.Amount,
		})
	}

	founders := make([]interface{}, 0, len(r.Team.Founders))
	for _, f := range r.Team.Founders {
		founders = append(founders, map[string]interface{}{
			"experience_years": f.ExperienceYears,
			"has_exit":         f.HasExit,
			"role":             f.Role,
			"education":        f.Education,
		})
	}

	return map[string]interface{}{
		"funding_json": map[string]interface{}{"rounds": rounds},
		"team_json": map[string]interface{}{
			"founders":            founders,
			"estimated_team_size": r.Team.EstimatedTeamSize,
		},
		"acquirer_json": map[string]interface{}{"industry": r.Acquirer.Industry, "revenue": r.Acquirer.Revenue},
		"target_json":   map[string]interface{}{"industry": r.Target.Industry, "revenue": r.Target.Revenue},
		"financials_json": map[string]interface{}{
			"revenue_ttm":        r.Financials.RevenueTTM,
			"revenue_growth_mom": r.Financials.RevenueGrowthMoM,
			"gross_margin":       r.Financials.GrossMargin,
			"ebitda_margin":      r.Financials.EBITDAMargin,
		},
	}
}
