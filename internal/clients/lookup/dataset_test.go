package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acquisition-console/internal/common/config"
	"acquisition-console/internal/common/database"
)

func setupMockDB(t *testing.T) (*database.PostgresClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewPostgresFromDB(db), mock
}

// setupElasticsearch serves a canned search response and records the query.
func setupElasticsearch(t *testing.T, response string, query *map[string]interface{}) *database.ElasticsearchClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "/companies/_search", r.URL.Path)
		if query != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(query))
		}
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	es, err := database.NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{server.URL}})
	require.NoError(t, err)
	return es
}

func TestDatasetSource_Competitors(t *testing.T) {
	var query map[string]interface{}
	es := setupElasticsearch(t, `{"hits": {"hits": [
		{"_id": "1", "_source": {"name": "Initech", "domain": "initech.com", "funding_total_usd": 2500000, "category_code": "software"}},
		{"_id": "2", "_source": {"name": "Umbrella", "funding_total_usd": null}}
	]}}`, &query)
	db, _ := setupMockDB(t)

	src := NewDatasetSource(es, "companies", db, 5)
	got, err := src.Competitors(context.Background(), "Acme", "software")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Initech", got[0].Name)
	assert.Equal(t, 2500000.0, got[0].FundingTotalUSD)
	assert.Zero(t, got[1].FundingTotalUSD)

	assert.Equal(t, 5.0, query["size"])
	boolQuery := query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Len(t, boolQuery["filter"], 1)
	mustNot := boolQuery["must_not"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "*acme*", mustNot["wildcard"].(map[string]interface{})["name"].(map[string]interface{})["value"])
}

func TestDatasetSource_CompetitorsNoIndustry(t *testing.T) {
	var query map[string]interface{}
	es := setupElasticsearch(t, `{"hits": {"hits": []}}`, &query)
	db, _ := setupMockDB(t)

	got, err := NewDatasetSource(es, "companies", db, 0).Competitors(context.Background(), "Acme", "")
	require.NoError(t, err)
	assert.Empty(t, got)

	boolQuery := query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.NotContains(t, boolQuery, "filter")
	assert.Equal(t, 10.0, query["size"])
}

func TestDatasetSource_AcquisitionTargets(t *testing.T) {
	db, mock := setupMockDB(t)
	rows := sqlmock.NewRows([]string{"name", "domain", "price_amount", "price_currency_code", "acquired_at"}).
		AddRow("Hooli", "hooli.xyz", 1000000.0, "USD", "2010-05-01").
		AddRow("Pied Piper", nil, nil, nil, nil)
	mock.ExpectQuery(`SELECT c.name, c.domain, a.price_amount`).
		WithArgs("Globex", 10).
		WillReturnRows(rows)

	src := NewDatasetSource(nil, "companies", db, 10)
	got, err := src.AcquisitionTargets(context.Background(), "Globex")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "hooli.xyz", got[0].Domain)
	assert.Equal(t, 1000000.0, got[0].PriceAmount)
	assert.Equal(t, "USD", got[0].PriceCurrencyCode)
	assert.Equal(t, "Pied Piper", got[1].Name)
	assert.Zero(t, got[1].PriceAmount)
	assert.Empty(t, got[1].AcquiredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatasetSource_AcquisitionTargetsQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT c.name`).WillReturnError(errors.New("relation \"acquisitions\" does not exist"))

	_, err := NewDatasetSource(nil, "companies", db, 10).AcquisitionTargets(context.Background(), "Globex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query acquisitions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatasetSource_SearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"type": "index_not_found_exception"}}`))
	}))
	t.Cleanup(server.Close)
	es, err := database.NewElasticsearch(config.ElasticsearchConfig{URL: server.URL})
	require.NoError(t, err)
	db, _ := setupMockDB(t)

	_, err = NewDatasetSource(es, "companies", db, 10).Competitors(context.Background(), "Acme", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index_not_found_exception")
}
