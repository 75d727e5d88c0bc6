// internal/models/lookup.go
package models

type Competitor struct {
	Name            string  `json:"name"`
	Permalink       string  `json:"permalink,omitempty"`
	Domain          string  `json:"domain"`
	FundingTotalUSD float64 `json:"funding_total_usd"`
	CategoryCode    string  `json:"category_code,omitempty"`
}

type Acquisition struct {
	Name              string  `json:"name"`
	Domain            string  `json:"domain"`
	AcquiredAt        string  `json:"acquired_at"`
	PriceAmount       float64 `json:"price_amount"`
	PriceCurrencyCode string  `json:"price_currency_code"`
	PriceAmountINR    float64 `json:"price_amount_inr,omitempty"`
}
