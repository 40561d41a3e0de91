// Package config defines the configuration structure for the Vibe Finder
// service. Configuration is loaded once at process start (or Lambda cold
// start) and is immutable thereafter.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> SecretProvider (Lowest)
//
// Any invalid value causes startup to fail immediately.
package config

import (
	"time"

	"vibefinder/internal/types"
)

// SecretString is an alias for types.SecretString so provider keys and the
// database URL never show up in logs.
type SecretString = types.SecretString

// Config is the top-level configuration struct. Sub-components receive only
// the subset they need.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"vibefinder-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	IsTestMode  bool   `envconfig:"IS_TEST_MODE" default:"false"`

	Server        ServerConfig
	Providers     ProvidersConfig
	Search        SearchConfig
	Suggestions   SuggestionsConfig
	Database      DatabaseConfig
	AWS           AWSConfig
	Observability ObservabilityConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string        `envconfig:"PORT" default:"8002"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s" validate:"gt=0"`
	CorsAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60" validate:"gte=0"`
}

// ProvidersConfig holds credentials and endpoints for the geocoding, places
// and weather providers. Both keys are required outside local and test mode.
type ProvidersConfig struct {
	GeoapifyAPIKey     SecretString  `envconfig:"GEOAPIFY_API_KEY"`
	GeoapifyBaseURL    string        `envconfig:"GEOAPIFY_BASE_URL" default:"https://api.geoapify.com" validate:"url"`
	OpenWeatherAPIKey  SecretString  `envconfig:"OPENWEATHER_API_KEY"`
	OpenWeatherBaseURL string        `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org" validate:"url"`
	Timeout            time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s" validate:"gt=0"`
	UserAgent          string        `envconfig:"PROVIDER_USER_AGENT" default:"VibeFinder/1.0"`
}

// SearchConfig holds the places search window.
type SearchConfig struct {
	RadiusMeters int `envconfig:"PLACES_RADIUS_METERS" default:"5000" validate:"gt=0,lte=50000"`
	Limit        int `envconfig:"PLACES_LIMIT" default:"15" validate:"gt=0,lte=500"`
}

// SuggestionsConfig controls the time-of-day suggestions endpoint.
type SuggestionsConfig struct {
	Timezone string `envconfig:"SUGGESTIONS_TIMEZONE" default:"UTC" validate:"timezone"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
// An empty URL selects the in-memory history and favorites stores.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL"`

	MaxConns          int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns          int           `envconfig:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	AcquireTimeout    time.Duration `envconfig:"DB_ACQUIRE_TIMEOUT" default:"2s"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// AWSConfig holds AWS resource identifiers and regional configuration.
type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Empty disables event publishing.
	RecommendationEventsQueue string `envconfig:"RECOMMENDATION_EVENTS_QUEUE_URL" validate:"omitempty,url"`

	// LocalStack Support (Empty in Prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL" validate:"omitempty,url"`
}

// ObservabilityConfig holds metrics settings.
type ObservabilityConfig struct {
	MetricNamespace         string `envconfig:"METRIC_NAMESPACE" default:"VibeFinder"`
	EnableCloudWatchMetrics bool   `envconfig:"ENABLE_CLOUDWATCH_METRICS" default:"false"`
}

// BuildInfo holds build-time metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// UsesDatabase reports whether a Postgres connection string was configured.
func (c *Config) UsesDatabase() bool {
	return !c.Database.URL.IsZero()
}

// UsesStubProviders reports whether the provider stubs should be wired in
// place of the real HTTP clients. Only test mode and the local environment
// run against stubs.
func (c *Config) UsesStubProviders() bool {
	return c.IsTestMode || c.Environment == localEnv
}

// missingProviderKeys lists the provider key variables that are unset.
func (c *Config) missingProviderKeys() []string {
	var missing []string
	if c.Providers.GeoapifyAPIKey.IsZero() {
		missing = append(missing, "GEOAPIFY_API_KEY")
	}
	if c.Providers.OpenWeatherAPIKey.IsZero() {
		missing = append(missing, "OPENWEATHER_API_KEY")
	}
	return missing
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrSecretResolution indicates a failure when resolving secret references.
	ErrSecretResolution ConfigErrorType = "SECRET_RESOLUTION_FAILED"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
