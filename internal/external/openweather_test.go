package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vibefinder/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenWeather(t *testing.T, handler http.HandlerFunc) *OpenWeatherClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base := newTestClient(t, RetryPolicy{MaxRetries: 0, MinWait: time.Millisecond, MaxWait: time.Millisecond})
	return NewOpenWeatherClientWithBase(base, OpenWeatherClientConfig{
		APIKey:  "ow-key",
		BaseURL: server.URL,
	})
}

func TestOpenWeather_CurrentWeather(t *testing.T) {
	client := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "48.8566", q.Get("lat"))
		assert.Equal(t, "2.3522", q.Get("lon"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "ow-key", q.Get("appid"))
		w.Write([]byte(`{"main":{"temp":22.4},"weather":[{"main":"Clear","description":"clear sky"}]}`))
	})

	reading, err := client.CurrentWeather(context.Background(), types.Coordinates{Latitude: 48.8566, Longitude: 2.3522})
	require.NoError(t, err)
	assert.Equal(t, types.WeatherReading{TemperatureCelsius: 22.4, Condition: "Clear", Description: "clear sky"}, reading)
}

func TestOpenWeather_ZeroTemperatureIsValid(t *testing.T) {
	client := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main":{"temp":0},"weather":[{"main":"Snow","description":"light snow"}]}`))
	})

	reading, err := client.CurrentWeather(context.Background(), types.Coordinates{})
	require.NoError(t, err)
	assert.Zero(t, reading.TemperatureCelsius)
	assert.Equal(t, "Snow", reading.Condition)
}

func TestOpenWeather_IncompleteResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing temperature", body: `{"main":{},"weather":[{"main":"Rain"}]}`},
		{name: "missing conditions", body: `{"main":{"temp":12},"weather":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.CurrentWeather(context.Background(), types.Coordinates{})
			require.Error(t, err)
			assert.True(t, types.HasCode(err, types.ErrCodeUpstreamWeather))
		})
	}
}

func TestOpenWeather_UpstreamFailure(t *testing.T) {
	client := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.CurrentWeather(context.Background(), types.Coordinates{})
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeUpstreamWeather))
}
