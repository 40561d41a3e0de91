package external

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"vibefinder/internal/recommend"
	"vibefinder/internal/types"
)

const openWeatherAPIBase = "https://api.openweathermap.org"

// OpenWeatherClientConfig holds the configuration for creating an
// OpenWeatherClient.
type OpenWeatherClientConfig struct {
	APIKey  string
	BaseURL string // Override for testing; defaults to openWeatherAPIBase
	Logger  *slog.Logger
}

type openWeatherResponse struct {
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// OpenWeatherClient implements recommend.WeatherProvider against the
// OpenWeather current weather API, in metric units.
type OpenWeatherClient struct {
	base    *BaseClient
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

var _ recommend.WeatherProvider = (*OpenWeatherClient)(nil)

// NewOpenWeatherClientWithBase creates an OpenWeatherClient with a
// pre-configured BaseClient.
func NewOpenWeatherClientWithBase(base *BaseClient, cfg OpenWeatherClientConfig) *OpenWeatherClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openWeatherAPIBase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenWeatherClient{
		base:    base,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// CurrentWeather returns the current conditions at a point. A response
// without a temperature or a condition is treated as a failure so the
// caller can substitute its default reading.
func (c *OpenWeatherClient) CurrentWeather(ctx context.Context, at types.Coordinates) (types.WeatherReading, error) {
	q := url.Values{}
	q.Set("lat", formatCoord(at.Latitude))
	q.Set("lon", formatCoord(at.Longitude))
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	var resp openWeatherResponse
	if err := c.base.GetJSON(ctx, c.baseURL+"/data/2.5/weather?"+q.Encode(), &resp); err != nil {
		if types.HasCode(err, types.ErrCodeUpstreamRateLimited) {
			return types.WeatherReading{}, err
		}
		return types.WeatherReading{}, types.NewAppError(types.ErrCodeUpstreamWeather, "openweather CurrentWeather failed", err)
	}

	if resp.Main.Temp == nil || len(resp.Weather) == 0 {
		return types.WeatherReading{}, types.NewAppError(types.ErrCodeUpstreamWeather, "openweather response missing conditions", nil)
	}

	return types.WeatherReading{
		TemperatureCelsius: *resp.Main.Temp,
		Condition:          resp.Weather[0].Main,
		Description:        resp.Weather[0].Description,
	}, nil
}
