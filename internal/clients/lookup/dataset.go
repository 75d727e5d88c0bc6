package lookup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"acquisition-console/internal/common/database"
	"acquisition-console/internal/models"
)

const acquisitionsQuery = `
SELECT c.name, c.domain, a.price_amount, a.price_currency_code, a.acquired_at::text
FROM acquisitions a
JOIN companies c ON c.id = a.acquired_object_id
WHERE a.acquiring_object_id = (
    SELECT id FROM companies WHERE name ILIKE '%' || $1 || '%' ORDER BY id LIMIT 1
)
ORDER BY a.acquired_at DESC NULLS LAST
LIMIT $2`

// CompanySearcher is the part of the Elasticsearch client the dataset
// source needs.
type CompanySearcher interface {
	Search(ctx context.Context, index string, query map[string]interface{}) ([]database.SearchHit, error)
}

// DatasetSource reads the company dataset directly: competitors from the
// Elasticsearch company index, acquisitions from Postgres.
type DatasetSource struct {
	es    CompanySearcher
	index string
	db    *database.PostgresClient
	limit int
}

func NewDatasetSource(es CompanySearcher, index string, db *database.PostgresClient, limit int) *DatasetSource {
	if limit <= 0 {
		limit = 10
	}
	return &DatasetSource{
		es:    es,
		index: index,
		db:    db,
		limit: limit,
	}
}

type companyDoc struct {
	Name            string   `json:"name"`
	Permalink       string   `json:"permalink"`
	Domain          string   `json:"domain"`
	FundingTotalUSD *float64 `json:"funding_total_usd"`
	CategoryCode    string   `json:"category_code"`
}

// Competitors returns companies whose name does not contain company, in the
// same category when industry is set.
func (s *DatasetSource) Competitors(ctx context.Context, company, industry string) ([]models.Competitor, error) {
	boolQuery := map[string]interface{}{
		"must_not": []interface{}{
			map[string]interface{}{
				"wildcard": map[string]interface{}{
					"name": map[string]interface{}{
						"value":            "*" + strings.ToLower(company) + "*",
						"case_insensitive": true,
					},
				},
			},
		},
	}
	if industry != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"category_code": industry}},
		}
	}
	query := map[string]interface{}{
		"size":  s.limit,
		"query": map[string]interface{}{"bool": boolQuery},
	}

	hits, err := s.es.Search(ctx, s.index, query)
	if err != nil {
		return nil, err
	}

	out := make([]models.Competitor, 0, len(hits))
	for _, hit := range hits {
		var doc companyDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("decode company %s: %w", hit.ID, err)
		}
		c := models.Competitor{
			Name:         doc.Name,
			Permalink:    doc.Permalink,
			Domain:       doc.Domain,
			CategoryCode: doc.CategoryCode,
		}
		if doc.FundingTotalUSD != nil {
			c.FundingTotalUSD = *doc.FundingTotalUSD
		}
		out = append(out, c)
	}
	return out, nil
}

// AcquisitionTargets returns past acquisitions of the first company whose
// name contains acquirer.
func (s *DatasetSource) AcquisitionTargets(ctx context.Context, acquirer string) ([]models.Acquisition, error) {
	rows, err := s.db.Query(ctx, acquisitionsQuery, acquirer, s.limit)
	if err != nil {
		return nil, fmt.Errorf("query acquisitions: %w", err)
	}
	defer rows.Close()

	out := []models.Acquisition{}
	for rows.Next() {
		var (
			a          models.Acquisition
			domain     sql.NullString
			price      sql.NullFloat64
			currency   sql.NullString
			acquiredAt sql.NullString
		)
		if err := rows.Scan(&a.Name, &domain, &price, &currency, &acquiredAt); err != nil {
			return nil, fmt.Errorf("scan acquisition: %w", err)
		}
		a.Domain = domain.String
		a.PriceAmount = price.Float64
		a.PriceCurrencyCode = currency.String
		a.AcquiredAt = acquiredAt.String
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate acquisitions: %w", err)
	}
	return out, nil
}
