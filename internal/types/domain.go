package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Coordinates is a resolved WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// WeatherReading is the current conditions at the resolved location.
// Condition uses the provider's short vocabulary (Clear, Rain, Drizzle,
// Snow, Thunderstorm, Clouds, ...).
type WeatherReading struct {
	TemperatureCelsius float64 `json:"temp"`
	Condition          string  `json:"condition"`
	Description        string  `json:"description"`
}

// DefaultWeatherReading is used whenever the weather lookup fails.
func DefaultWeatherReading() WeatherReading {
	return WeatherReading{
		TemperatureCelsius: 20,
		Condition:          "Clear",
		Description:        "Unknown",
	}
}

// Place is one candidate returned by the places lookup.
type Place struct {
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	DistanceMeters float64  `json:"distance"`
	Categories     []string `json:"categories"`
}

// ScoredPlace is a Place with its computed score, reasons and packing list.
// It exists only for the duration of one request.
type ScoredPlace struct {
	Place
	Score    int
	Reasons  []string
	MustTake []string
}

// Recommendation is the response payload for a suggest request.
// Alternative is empty only for the zero-candidate fallback.
type Recommendation struct {
	Name        string   `json:"name"`
	WalkMinutes int      `json:"walk_minutes"`
	Duration    string   `json:"duration"`
	Reasons     []string `json:"reasons"`
	Score       int      `json:"score"`
	Weather     string   `json:"weather"`
	MustTake    []string `json:"must_take"`
	Alternative string   `json:"alternative,omitempty"`
}

// TimeInput holds the raw "time" request field. Clients send either a JSON
// string ("30") or a JSON number (30); both are kept as text and parsed
// leniently by the engine. Numbers are truncated to whole minutes.
type TimeInput string

// UnmarshalJSON accepts any JSON value. Strings are kept verbatim, numbers
// become their truncated integer text and everything else decodes to "",
// which the engine treats as the default duration.
func (t *TimeInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = ""
	if len(data) == 0 {
		return nil
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TimeInput(s)
	case c == '-' || (c >= '0' && c <= '9'):
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}
		f = math.Trunc(f)
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return nil
		}
		*t = TimeInput(strconv.FormatInt(int64(f), 10))
	}
	return nil
}

// SuggestRequest is the input to the recommendation pipeline.
type SuggestRequest struct {
	Location   string    `json:"location" validate:"required,not_blank,max=200"`
	Time       TimeInput `json:"time,omitempty"`
	Preference string    `json:"preference,omitempty" validate:"max=100"`
	Budget     string    `json:"budget,omitempty" validate:"max=20"`
}

// Normalized returns a copy with surrounding whitespace trimmed.
func (r SuggestRequest) Normalized() SuggestRequest {
	r.Location = strings.TrimSpace(r.Location)
	r.Preference = strings.TrimSpace(r.Preference)
	r.Budget = strings.TrimSpace(r.Budget)
	return r
}

// HistoryEntry records one resolved search.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Location  string    `json:"location"`
	Vibe      string    `json:"vibe"`
	Budget    string    `json:"budget"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite is a place the user chose to keep. Name is unique.
type Favorite struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Outcome classifies how a suggest request ended.
type Outcome string

const (
	OutcomeRanked   Outcome = "ranked"
	OutcomeFallback Outcome = "fallback"
	OutcomeNotFound Outcome = "not_found"
)

// EventTypeRecommendationServed is the event type published after each
// completed recommendation.
const EventTypeRecommendationServed = "recommendation.served"

// RecommendationEvent is the message published for each served recommendation.
type RecommendationEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	RequestID string    `json:"request_id,omitempty"`
	Location  string    `json:"location"`
	Vibe      string    `json:"vibe"`
	Budget    string    `json:"budget"`
	Outcome   Outcome   `json:"outcome"`
	Place     string    `json:"place"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}
