package external

import (
	"context"
	"hash/fnv"
	"log/slog"
	"strings"

	"vibefinder/internal/recommend"
	"vibefinder/internal/types"
)

// Stub implementations let the service boot without provider credentials.
// They log every call and return deterministic data.

// stubPlaceSpacingMeters separates consecutive stub places.
const stubPlaceSpacingMeters = 450

// StubGeocoder resolves any non-blank location to a stable coordinate
// derived from its name. Locations listed in Unresolvable report not found.
type StubGeocoder struct {
	logger       *slog.Logger
	Unresolvable map[string]bool
}

// NewStubGeocoder creates a new StubGeocoder.
func NewStubGeocoder(logger *slog.Logger) *StubGeocoder {
	return &StubGeocoder{logger: logger, Unresolvable: map[string]bool{}}
}

func (s *StubGeocoder) Geocode(ctx context.Context, location string) (types.Coordinates, error) {
	s.logger.InfoContext(ctx, "stub: Geocode called", "location", location)

	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" || s.Unresolvable[key] {
		return types.Coordinates{}, types.NewAppError(types.ErrCodeNotFoundLocation, "Location not found", nil)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	sum := h.Sum32()
	return types.Coordinates{
		Latitude:  float64(sum%18000)/100 - 90,
		Longitude: float64((sum/18000)%36000)/100 - 180,
	}, nil
}

// StubPlacesProvider returns one place per requested category, each a
// little further away than the last.
type StubPlacesProvider struct {
	logger *slog.Logger
}

// NewStubPlacesProvider creates a new StubPlacesProvider.
func NewStubPlacesProvider(logger *slog.Logger) *StubPlacesProvider {
	return &StubPlacesProvider{logger: logger}
}

func (s *StubPlacesProvider) SearchPlaces(ctx context.Context, q recommend.PlacesQuery) ([]types.Place, error) {
	s.logger.InfoContext(ctx, "stub: SearchPlaces called",
		"categories", q.Categories,
		"radius_m", q.RadiusMeters,
		"limit", q.Limit,
	)

	seen := make(map[string]bool, len(q.Categories))
	places := make([]types.Place, 0, len(q.Categories))
	for _, c := range q.Categories {
		if seen[c] || (q.Limit > 0 && len(places) >= q.Limit) {
			continue
		}
		seen[c] = true
		distance := float64((len(places) + 1) * stubPlaceSpacingMeters)
		if q.RadiusMeters > 0 && distance > float64(q.RadiusMeters) {
			break
		}
		places = append(places, types.Place{
			Name:           "Stub " + c,
			Address:        "1 Stub Street",
			DistanceMeters: distance,
			Categories:     []string{c},
		})
	}
	return places, nil
}

// StubWeatherProvider always reports the same mild clear day.
type StubWeatherProvider struct {
	logger  *slog.Logger
	Reading types.WeatherReading
}

// NewStubWeatherProvider creates a new StubWeatherProvider.
func NewStubWeatherProvider(logger *slog.Logger) *StubWeatherProvider {
	return &StubWeatherProvider{
		logger: logger,
		Reading: types.WeatherReading{
			TemperatureCelsius: 21,
			Condition:          "Clear",
			Description:        "clear sky",
		},
	}
}

func (s *StubWeatherProvider) CurrentWeather(ctx context.Context, at types.Coordinates) (types.WeatherReading, error) {
	s.logger.InfoContext(ctx, "stub: CurrentWeather called",
		"lat", at.Latitude,
		"lon", at.Longitude,
	)
	return s.Reading, nil
}
