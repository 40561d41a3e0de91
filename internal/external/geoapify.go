package external

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"vibefinder/internal/recommend"
	"vibefinder/internal/types"
)

// geoapifyAPIBase is the default Geoapify API base URL. Overridable in tests
// via GeoapifyClientConfig.BaseURL.
const geoapifyAPIBase = "https://api.geoapify.com"

// unknownPlaceName labels a feature with neither a name nor a street.
const unknownPlaceName = "Unknown Place"

// GeoapifyClientConfig holds the configuration for creating a GeoapifyClient.
type GeoapifyClientConfig struct {
	APIKey  string
	BaseURL string // Override for testing; defaults to geoapifyAPIBase
	Logger  *slog.Logger
}

// geoapifyFeatureCollection is the GeoJSON envelope shared by the geocoding
// and places endpoints. Only the fields the engine uses are decoded.
type geoapifyFeatureCollection struct {
	Features []struct {
		Properties geoapifyProperties `json:"properties"`
	} `json:"features"`
}

type geoapifyProperties struct {
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Name       string   `json:"name"`
	Street     string   `json:"street"`
	Formatted  string   `json:"formatted"`
	Distance   float64  `json:"distance"`
	Categories []string `json:"categories"`
}

// GeoapifyClient implements recommend.Geocoder and recommend.PlacesProvider
// against the Geoapify geocoding and places APIs.
type GeoapifyClient struct {
	base    *BaseClient
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

var (
	_ recommend.Geocoder       = (*GeoapifyClient)(nil)
	_ recommend.PlacesProvider = (*GeoapifyClient)(nil)
)

// NewGeoapifyClientWithBase creates a GeoapifyClient with a pre-configured
// BaseClient. The caller owns the breaker and retry policy.
func NewGeoapifyClientWithBase(base *BaseClient, cfg GeoapifyClientConfig) *GeoapifyClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geoapifyAPIBase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GeoapifyClient{
		base:    base,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// Geocode resolves free text to the coordinates of the first match.
func (c *GeoapifyClient) Geocode(ctx context.Context, location string) (types.Coordinates, error) {
	q := url.Values{}
	q.Set("text", location)
	q.Set("apiKey", c.apiKey)

	var fc geoapifyFeatureCollection
	if err := c.base.GetJSON(ctx, c.baseURL+"/v1/geocode/search?"+q.Encode(), &fc); err != nil {
		return types.Coordinates{}, c.wrapError("Geocode", types.ErrCodeUpstreamGeocoding, err)
	}

	if len(fc.Features) == 0 {
		c.logger.InfoContext(ctx, "location did not resolve", "location", location)
		return types.Coordinates{}, types.NewAppErrorWithDetails(
			types.ErrCodeNotFoundLocation,
			"Location not found",
			nil,
			map[string]any{"location": location},
		)
	}

	p := fc.Features[0].Properties
	return types.Coordinates{Latitude: p.Lat, Longitude: p.Lon}, nil
}

// SearchPlaces lists places in the requested categories within the radius,
// biased towards the center.
func (c *GeoapifyClient) SearchPlaces(ctx context.Context, pq recommend.PlacesQuery) ([]types.Place, error) {
	lon := formatCoord(pq.Center.Longitude)
	lat := formatCoord(pq.Center.Latitude)

	q := url.Values{}
	q.Set("categories", strings.Join(pq.Categories, ","))
	q.Set("filter", fmt.Sprintf("circle:%s,%s,%d", lon, lat, pq.RadiusMeters))
	q.Set("bias", fmt.Sprintf("proximity:%s,%s", lon, lat))
	q.Set("limit", strconv.Itoa(pq.Limit))
	q.Set("apiKey", c.apiKey)

	var fc geoapifyFeatureCollection
	if err := c.base.GetJSON(ctx, c.baseURL+"/v2/places?"+q.Encode(), &fc); err != nil {
		return nil, c.wrapError("SearchPlaces", types.ErrCodeUpstreamPlaces, err)
	}

	places := make([]types.Place, 0, len(fc.Features))
	for _, f := range fc.Features {
		places = append(places, toPlace(f.Properties))
	}

	c.logger.DebugContext(ctx, "places search complete",
		"categories", pq.Categories,
		"results", len(places),
	)
	return places, nil
}

func toPlace(p geoapifyProperties) types.Place {
	name := p.Name
	if name == "" {
		name = p.Street
	}
	if name == "" {
		name = unknownPlaceName
	}
	return types.Place{
		Name:           name,
		Address:        p.Formatted,
		DistanceMeters: max(p.Distance, 0),
		Categories:     p.Categories,
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// wrapError re-codes a BaseClient failure with the operation's upstream code
// while keeping rate-limit errors distinguishable.
func (c *GeoapifyClient) wrapError(op string, code types.ErrorCode, err error) error {
	if types.HasCode(err, types.ErrCodeUpstreamRateLimited) {
		return err
	}
	return types.NewAppError(code, fmt.Sprintf("geoapify %s failed", op), err)
}
