package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
prediction:
  base_url: http://localhost:8000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "acquisition-console", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 60000, cfg.Prediction.Timeout)
	assert.Equal(t, LookupBackendHTTP, cfg.Lookup.Backend)
	assert.Equal(t, "http://localhost:8000", cfg.Lookup.BaseURL)
	assert.Equal(t, 10, cfg.Lookup.CompetitorLimit)
	assert.Equal(t, DefaultINRRate, cfg.Currency.INRRate)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	t.Setenv("PREDICTOR_HOST", "predictor.internal")
	path := writeConfig(t, `
prediction:
  base_url: http://${PREDICTOR_HOST}:8000
  timeout: 1500
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://predictor.internal:8000", cfg.Prediction.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(cfg.Prediction.Timeout))
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("PREDICTION_BASE_URL", "http://override:9000")
	path := writeConfig(t, `
prediction:
  base_url: http://localhost:8000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000", cfg.Prediction.BaseURL)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing prediction url",
			body:    "logging:\n  level: debug\n",
			wantErr: "prediction.base_url is required",
		},
		{
			name: "unknown lookup backend",
			body: `
prediction:
  base_url: http://localhost:8000
lookup:
  backend: graphql
`,
			wantErr: "lookup.backend must be",
		},
		{
			name: "dataset backend without elasticsearch",
			body: `
prediction:
  base_url: http://localhost:8000
lookup:
  backend: dataset
`,
			wantErr: "database.elasticsearch",
		},
		{
			name: "cache without redis",
			body: `
prediction:
  base_url: http://localhost:8000
lookup:
  cache_ttl: 300
`,
			wantErr: "database.redis.address is required",
		},
		{
			name: "tracing without endpoint",
			body: `
prediction:
  base_url: http://localhost:8000
tracing:
  enabled: true
`,
			wantErr: "tracing.jaeger_endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_DatasetBackend(t *testing.T) {
	path := writeConfig(t, `
prediction:
  base_url: http://localhost:8000
lookup:
  backend: dataset
database:
  postgres:
    host: localhost
    database: crunchbase
    user: analyst
  elasticsearch:
    addresses: ["http://localhost:9200"]
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.GetURL())
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "host=localhost port=5432 user=analyst password= dbname=crunchbase sslmode=disable", cfg.Database.Postgres.GetDSN())
}
