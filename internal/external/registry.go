package external

import (
	"log/slog"
	"net/http"

	"vibefinder/internal/config"
	"vibefinder/internal/recommend"
)

// ClientRegistry holds the provider clients the recommendation pipeline
// depends on. It is the single point where real and stub clients are chosen.
type ClientRegistry struct {
	Geocoder recommend.Geocoder
	Places   recommend.PlacesProvider
	Weather  recommend.WeatherProvider

	// Stub reports whether the registry was populated with stubs.
	Stub bool
}

// NewClientRegistry initializes the provider clients. Stubs are used only
// in test mode or in the local environment; everywhere else config
// validation guarantees both provider keys are present.
func NewClientRegistry(cfg *config.Config, logger *slog.Logger) *ClientRegistry {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.UsesStubProviders() {
		logger.Info("initializing provider clients in STUB mode",
			"is_test_mode", cfg.IsTestMode,
			"environment", cfg.Environment,
		)
		return newStubRegistry(logger)
	}

	logger.Info("initializing provider clients in PRODUCTION mode",
		"environment", cfg.Environment,
		"timeout", cfg.Providers.Timeout,
	)
	return newProductionRegistry(cfg, logger)
}

func newStubRegistry(logger *slog.Logger) *ClientRegistry {
	stubLogger := logger.With("mode", "stub")
	return &ClientRegistry{
		Geocoder: NewStubGeocoder(stubLogger),
		Places:   NewStubPlacesProvider(stubLogger),
		Weather:  NewStubWeatherProvider(stubLogger),
		Stub:     true,
	}
}

// newProductionRegistry builds the real clients. Geocoding and places talk
// to the same provider but get separate breakers: places failures are
// absorbed by the pipeline and must not open the breaker geocoding needs.
func newProductionRegistry(cfg *config.Config, logger *slog.Logger, opts ...BaseClientOption) *ClientRegistry {
	p := cfg.Providers
	newBase := func(breakerName string) *BaseClient {
		return NewBaseClient(&http.Client{Timeout: p.Timeout}, breakerName, DefaultRetryPolicy(), p.UserAgent, opts...)
	}

	geoapifyCfg := GeoapifyClientConfig{
		APIKey:  p.GeoapifyAPIKey.Unmask(),
		BaseURL: p.GeoapifyBaseURL,
		Logger:  logger.With("client", "geoapify"),
	}
	geocoder := NewGeoapifyClientWithBase(newBase("geoapify-geocoding"), geoapifyCfg)
	places := NewGeoapifyClientWithBase(newBase("geoapify-places"), geoapifyCfg)

	weather := NewOpenWeatherClientWithBase(newBase("openweather"), OpenWeatherClientConfig{
		APIKey:  p.OpenWeatherAPIKey.Unmask(),
		BaseURL: p.OpenWeatherBaseURL,
		Logger:  logger.With("client", "openweather"),
	})

	return &ClientRegistry{
		Geocoder: geocoder,
		Places:   places,
		Weather:  weather,
	}
}
