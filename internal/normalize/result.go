package normalize

import "acquisition-console/internal/format"

const (
	NotAvailable    = "N/A"
	DefaultDecision = "INVESTIGATE"
)

// Result is the fully-defaulted reading of a prediction response. Every
// field is present whatever the response omitted.
type Result struct {
	Funding       Funding       `json:"funding"`
	Team          Team          `json:"team"`
	Synergy       Synergy       `json:"synergy"`
	Valuation     Valuation     `json:"valuation"`
	Risk          Risk          `json:"risk"`
	DecisionScore DecisionScore `json:"decisionScore"`
	Explanation   Explanation   `json:"explanation"`
	Benchmarks    Benchmarks    `json:"benchmarks"`
	BusinessModel BusinessModel `json:"businessModel"`
}

type Funding struct {
	TotalRaisedUSD float64 `json:"totalRaisedUsd"`
	NumRounds      float64 `json:"numRounds"`
	AvgRoundSize   float64 `json:"avgRoundSize"`
	Rounds         []Round `json:"rounds"`
}

type Round struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

type Team struct {
	FounderCount           float64                `json:"founderCount"`
	AvgExperience          float64                `json:"avgExperience"`
	ExitsCount             float64                `json:"exitsCount"`
	EstimatedTeamSize      float64                `json:"estimatedTeamSize"`
	TeamStrengthScore      float64                `json:"teamStrengthScore"`
	TeamCompositionScore   float64                `json:"teamCompositionScore"`
	ExperienceDistribution ExperienceDistribution `json:"experienceDistribution"`
	FounderDetails         []FounderDetail        `json:"founderDetails"`
}

type ExperienceDistribution struct {
	Junior    float64 `json:"junior"`
	MidLevel  float64 `json:"midLevel"`
	Senior    float64 `json:"senior"`
	Executive float64 `json:"executive"`
}

type FounderDetail struct {
	Name            string  `json:"name"`
	Role            string  `json:"role"`
	Experience      float64 `json:"experience"`
	ExperienceLevel string  `json:"experienceLevel"`
	Education       string  `json:"education"`
	HasExit         bool    `json:"hasExit"`
}

// Synergy scores are fractions by contract of the producer; they are not clamped.
type Synergy struct {
	MarketSimilarity    float64 `json:"marketSimilarity"`
	TechSimilarity      float64 `json:"techSimilarity"`
	RevenueSynergyScore float64 `json:"revenueSynergyScore"`
	CostSynergyScore    float64 `json:"costSynergyScore"`
	OverallSynergyScore float64 `json:"overallSynergyScore"`
}

type Valuation struct {
	ForecastUSD      float64 `json:"forecastUsd"`
	ForecastINR      float64 `json:"forecastInr"`
	INRDerived       bool    `json:"inrDerived"`
	RevenueTTM       float64 `json:"revenueTtm"`
	RevenueMultiple  float64 `json:"revenueMultiple"`
	ImpliedMultiple  float64 `json:"impliedMultiple"`
	GrossMargin      float64 `json:"grossMargin"`
	EBITDAMargin     float64 `json:"ebitdaMargin"`
	RevenueGrowthMoM float64 `json:"revenueGrowthMom"`
}

type Risk struct {
	FundingRisk       float64 `json:"fundingRisk"`
	TeamRisk          float64 `json:"teamRisk"`
	SynergyRisk       float64 `json:"synergyRisk"`
	ValuationRisk     float64 `json:"valuationRisk"`
	CombinedRiskScore float64 `json:"combinedRiskScore"`
}

type DecisionScore struct {
	AcquisitionScore   float64 `json:"acquisitionScore"`
	MnaLikelihood      float64 `json:"mnaLikelihood"`
	SynergyComponent   float64 `json:"synergyComponent"`
	ValuationComponent float64 `json:"valuationComponent"`
	TeamComponent      float64 `json:"teamComponent"`
	BenchmarkComponent float64 `json:"benchmarkComponent"`
	RiskPenalty        float64 `json:"riskPenalty"`
	// ModelMnaLikelihood is the top-level model probability, reported
	// separately from the decision component.
	ModelMnaLikelihood float64 `json:"modelMnaLikelihood"`
}

type Explanation struct {
	Decision         string   `json:"decision"`
	Confidence       float64  `json:"confidence"`
	Rationale        []string `json:"rationale"`
	KeyDrivers       []string `json:"keyDrivers"`
	SuggestedActions []string `json:"suggestedActions"`
}

// BenchmarkGap is one signed gap against its fixed industry reference.
type BenchmarkGap struct {
	Gap       float64                `json:"gap"`
	Reference float64                `json:"reference"`
	Status    format.BenchmarkStatus `json:"status"`
}

type Benchmarks struct {
	Funding           BenchmarkGap           `json:"funding"`
	TeamExperience    BenchmarkGap           `json:"teamExperience"`
	Synergy           BenchmarkGap           `json:"synergy"`
	ValuationMultiple BenchmarkGap           `json:"valuationMultiple"`
	Growth            BenchmarkGap           `json:"growth"`
	RevenueTTM        BenchmarkGap           `json:"revenueTtm"`
	OverallGap        float64                `json:"overallGap"`
	Overall           format.BenchmarkStatus `json:"overall"`
}

type BusinessModel struct {
	Score                    float64  `json:"score"`
	FundingEfficiency        float64  `json:"fundingEfficiency"`
	TeamStrengthForExecution float64  `json:"teamStrengthForExecution"`
	RevenueSustainability    float64  `json:"revenueSustainability"`
	Insights                 string   `json:"insights"`
	KeyPatterns              []string `json:"keyPatterns"`
	SampleEvaluations        []string `json:"sampleEvaluations"`
}

// Benchmark references the producer measures gaps against.
const (
	ReferenceFundingUSD        = 5000000.0
	ReferenceExperienceYears   = 7.0
	ReferenceSynergy           = 0.6
	ReferenceValuationMultiple = 5.0
	ReferenceGrowth            = 0.08
	ReferenceRevenueTTM        = 1200000.0
)
