// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Prediction PredictionConfig `mapstructure:"prediction"`
	Lookup     LookupConfig     `mapstructure:"lookup"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Currency   CurrencyConfig   `mapstructure:"currency"`
	Registry   RegistryConfig   `mapstructure:"registry"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"` // gin mode: debug, release, test
}

// PredictionConfig points at the remote scoring service.
type PredictionConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	Timeout         int    `mapstructure:"timeout"` // milliseconds
	ValidatePayload bool   `mapstructure:"validate_payload"`
}

// LookupConfig selects the competitor/acquisition lookup backend.
type LookupConfig struct {
	Backend         string `mapstructure:"backend"` // http or dataset
	BaseURL         string `mapstructure:"base_url"`
	Timeout         int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL        int    `mapstructure:"cache_ttl"` // seconds, 0 disables the cache
	CompetitorLimit int    `mapstructure:"competitor_limit"`
	CompanyIndex    string `mapstructure:"company_index"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CurrencyConfig holds the presentation exchange rate. It is a fixed
// approximation, not a live rate.
type CurrencyConfig struct {
	INRRate float64 `mapstructure:"inr_rate"`
}

// RegistryConfig optionally overrides the embedded facet catalog.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
