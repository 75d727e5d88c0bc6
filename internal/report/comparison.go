package report

import (
	"acquisition-console/internal/form"
	"acquisition-console/internal/normalize"
)

// Direction is the sign of a - b in a comparison row.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Value kinds decide how a row is rendered.
const (
	KindCurrency   = "currency"
	KindNumber     = "number"
	KindPercentage = "percentage"
	KindRatio      = "ratio"
)

// PeerMultiple is the revenue multiple the acquirer side is compared with.
const PeerMultiple = 5.0

type Row struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	A           float64   `json:"a"`
	B           float64   `json:"b"`
	Difference  float64   `json:"difference"`
	Direction   Direction `json:"direction"`
}

type Comparison struct {
	EntityAName    string `json:"entityAName"`
	EntityBName    string `json:"entityBName"`
	FundingAndTeam []Row  `json:"fundingAndTeam"`
	Financial      []Row  `json:"financial"`
	Valuation      []Row  `json:"valuation"`
}

func newRow(title, description, kind string, a, b float64) Row {
	diff := a - b
	dir := DirectionFlat
	switch {
	case diff > 0:
		dir = DirectionUp
	case diff < 0:
		dir = DirectionDown
	}
	return Row{Title: title, Description: description, Kind: kind, A: a, B: b, Difference: diff, Direction: dir}
}

// BuildComparison sets the submitted form beside the result. The form only
// carries one set of margins, so both sides of those rows read the same.
func BuildComparison(snapshot form.State, r normalize.Result) Comparison {
	nameA := snapshot.EntityA.CompanyName
	if nameA == "" {
		nameA = "Target Company"
	}
	nameB := snapshot.EntityB.CompanyName
	if nameB == "" {
		nameB = "Acquirer Company"
	}

	targetRevenue := form.Number(snapshot.TargetRevenue)
	revenueTTM := form.Number(snapshot.RevenueTTM)
	divisor := revenueTTM
	if divisor == 0 {
		divisor = 1
	}
	grossMargin := form.Number(snapshot.GrossMargin)
	ebitdaMargin := form.Number(snapshot.EbitdaMargin)

	return Comparison{
		EntityAName: nameA,
		EntityBName: nameB,
		FundingAndTeam: []Row{
			newRow("Total Funding", "Total funding raised by each company", KindCurrency,
				form.Number(snapshot.EntityA.TotalFunding), form.Number(snapshot.EntityB.TotalFunding)),
			newRow("Team Size", "Number of employees", KindNumber,
				float64(form.Integer(snapshot.EntityA.Employees)), float64(form.Integer(snapshot.EntityB.Employees))),
			newRow("Founder Experience", "Average founder experience in years", KindNumber,
				float64(form.Integer(snapshot.EntityA.FounderExperience)), float64(form.Integer(snapshot.EntityB.FounderExperience))),
		},
		Financial: []Row{
			newRow("Revenue (TTM)", "Trailing twelve months revenue", KindCurrency, revenueTTM, targetRevenue),
			newRow("Gross Margin", "Gross profit margin", KindPercentage, grossMargin, grossMargin),
			newRow("EBITDA Margin", "EBITDA margin", KindPercentage, ebitdaMargin, ebitdaMargin),
		},
		Valuation: []Row{
			newRow("Valuation Forecast", "Forecast against five times target revenue", KindCurrency,
				r.Valuation.ForecastUSD, targetRevenue*PeerMultiple),
			newRow("Revenue Multiple", "Forecast over TTM revenue against the peer multiple", KindRatio,
				r.Valuation.ForecastUSD/divisor, PeerMultiple),
		},
	}
}
