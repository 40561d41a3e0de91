package recommend

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"vibefinder/internal/types"
)

// Geocoder resolves free text to coordinates. A location that does not
// resolve MUST be reported as an AppError with ErrCodeNotFoundLocation.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (types.Coordinates, error)
}

// WeatherProvider returns current conditions at a point.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, at types.Coordinates) (types.WeatherReading, error)
}

// PlacesQuery describes one places search.
type PlacesQuery struct {
	Center       types.Coordinates
	Categories   []string
	RadiusMeters int
	Limit        int
}

// PlacesProvider searches for candidate places around a point, nearest first.
type PlacesProvider interface {
	SearchPlaces(ctx context.Context, q PlacesQuery) ([]types.Place, error)
}

// HistoryRecorder appends resolved searches to the history log.
type HistoryRecorder interface {
	Append(ctx context.Context, entry types.HistoryEntry) error
}

// EventPublisher publishes served recommendations for downstream consumers.
type EventPublisher interface {
	PublishRecommendation(ctx context.Context, event types.RecommendationEvent) error
}

// OutcomeRecorder counts suggest outcomes.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, outcome types.Outcome)
}

// RecommendationService is the pipeline behind POST /v1/suggest.
type RecommendationService interface {
	Suggest(ctx context.Context, req types.SuggestRequest) (*types.Recommendation, error)
}

// Dependencies wires the collaborators of the pipeline. Geocoder, Weather
// and Places are required; the rest default to no-ops.
type Dependencies struct {
	Geocoder Geocoder
	Weather  WeatherProvider
	Places   PlacesProvider
	History  HistoryRecorder
	Events   EventPublisher
	Outcomes OutcomeRecorder
	Engine   *Engine
	Logger   *slog.Logger
	Clock    types.Clock
}

type service struct {
	geocoder Geocoder
	weather  WeatherProvider
	places   PlacesProvider
	history  HistoryRecorder
	events   EventPublisher
	outcomes OutcomeRecorder
	engine   *Engine
	logger   *slog.Logger
	clock    types.Clock
}

// NewService creates the recommendation pipeline.
func NewService(deps Dependencies) RecommendationService {
	s := &service{
		geocoder: deps.Geocoder,
		weather:  deps.Weather,
		places:   deps.Places,
		history:  deps.History,
		events:   deps.Events,
		outcomes: deps.Outcomes,
		engine:   deps.Engine,
		logger:   deps.Logger,
		clock:    deps.Clock,
	}
	if s.engine == nil {
		s.engine = NewEngine(DefaultSettings())
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.clock == nil {
		s.clock = types.RealClock{}
	}
	return s
}

// Suggest runs the full pipeline:
//  1. Geocode the location. Nothing else runs if it does not resolve.
//  2. Append the search to history.
//  3. Derive the categories from vibe and budget.
//  4. Fetch weather and places concurrently.
//  5. Score, rank and format.
//
// Weather and places failures are absorbed. Any geocoding failure, including
// an unreachable geocoder, is reported as a location that was not found.
func (s *service) Suggest(ctx context.Context, req types.SuggestRequest) (*types.Recommendation, error) {
	req = req.Normalized()
	vibe := req.Preference
	if vibe == "" {
		vibe = DefaultVibe
	}
	settings := s.engine.Settings()
	minutes := ParseMinutes(string(req.Time), settings.DefaultMinutes)

	coords, err := s.geocoder.Geocode(ctx, req.Location)
	if err != nil {
		s.recordOutcome(ctx, types.OutcomeNotFound)
		if types.HasCode(err, types.ErrCodeNotFoundLocation) {
			return nil, err
		}
		s.logger.WarnContext(ctx, "geocoding failed, reporting location not found",
			"location", req.Location,
			"error", err,
		)
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeNotFoundLocation,
			"Location not found",
			err,
			map[string]any{"location": req.Location},
		)
	}

	s.appendHistory(ctx, req.Location, vibe, normalizeBudget(req.Budget))

	query := PlacesQuery{
		Center:       coords,
		Categories:   MapCategories(vibe, req.Budget),
		RadiusMeters: settings.SearchRadiusMeters,
		Limit:        settings.ResultLimit,
	}
	weather, places := s.fetchConditions(ctx, query)

	rec, outcome := s.engine.Recommend(weather, minutes, req.Budget, vibe, places)

	s.logger.InfoContext(ctx, "recommendation served",
		"outcome", outcome,
		"candidates", len(places),
		"place", rec.Name,
		"score", rec.Score,
	)
	s.recordOutcome(ctx, outcome)
	s.publish(ctx, req, vibe, outcome, rec)

	return &rec, nil
}

// fetchConditions issues the weather and places lookups concurrently and
// waits for both. Each task absorbs its own failure so one never cancels
// the other.
func (s *service) fetchConditions(ctx context.Context, q PlacesQuery) (types.WeatherReading, []types.Place) {
	var (
		weather types.WeatherReading
		places  []types.Place
		g       errgroup.Group
	)

	g.Go(func() error {
		w, err := s.weather.CurrentWeather(ctx, q.Center)
		if err != nil {
			s.logger.WarnContext(ctx, "weather lookup failed, using default reading", "error", err)
			w = types.DefaultWeatherReading()
		}
		weather = w
		return nil
	})

	g.Go(func() error {
		p, err := s.places.SearchPlaces(ctx, q)
		if err != nil {
			s.logger.WarnContext(ctx, "places lookup failed, using empty candidate list",
				"error", err,
				"categories", q.Categories,
			)
			p = nil
		}
		places = p
		return nil
	})

	_ = g.Wait()
	return weather, places
}

func (s *service) appendHistory(ctx context.Context, location, vibe, budget string) {
	if s.history == nil {
		return
	}
	entry := types.HistoryEntry{
		ID:        uuid.NewString(),
		Location:  location,
		Vibe:      vibe,
		Budget:    budget,
		CreatedAt: s.clock.Now(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "failed to append search history", "error", err)
	}
}

func (s *service) recordOutcome(ctx context.Context, outcome types.Outcome) {
	if s.outcomes != nil {
		s.outcomes.RecordOutcome(ctx, outcome)
	}
}

func (s *service) publish(ctx context.Context, req types.SuggestRequest, vibe string, outcome types.Outcome, rec types.Recommendation) {
	if s.events == nil {
		return
	}
	event := types.RecommendationEvent{
		EventID:   uuid.NewString(),
		EventType: types.EventTypeRecommendationServed,
		RequestID: types.GetRequestID(ctx),
		Location:  req.Location,
		Vibe:      vibe,
		Budget:    normalizeBudget(req.Budget),
		Outcome:   outcome,
		Place:     rec.Name,
		Score:     rec.Score,
		CreatedAt: s.clock.Now(),
	}
	if err := s.events.PublishRecommendation(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish recommendation event",
			"error", err,
			"event_id", event.EventID,
		)
	}
}
