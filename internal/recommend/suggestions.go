package recommend

import (
	"time"

	"vibefinder/internal/types"
)

const (
	morningEndHour   = 11
	afternoonEndHour = 17
)

var (
	morningSuggestions   = []string{"Morning Coffee Run", "Sunrise Park Walk", "Breakfast Spot"}
	afternoonSuggestions = []string{"Visit local Museum", "City Park Stroll", "Coworking Session"}
	eveningSuggestions   = []string{"Sunset Viewpoint", "Cozy Dinner", "Night Walk"}
)

// SuggestionsForHour returns three activity names for an hour of the day.
func SuggestionsForHour(hour int) []string {
	var s []string
	switch {
	case hour < morningEndHour:
		s = morningSuggestions
	case hour < afternoonEndHour:
		s = afternoonSuggestions
	default:
		s = eveningSuggestions
	}
	return append([]string(nil), s...)
}

// Suggester produces time-of-day suggestions in a fixed timezone.
type Suggester struct {
	clock    types.Clock
	location *time.Location
}

// NewSuggester creates a Suggester. A nil location means UTC.
func NewSuggester(clock types.Clock, location *time.Location) *Suggester {
	if clock == nil {
		clock = types.RealClock{}
	}
	if location == nil {
		location = time.UTC
	}
	return &Suggester{clock: clock, location: location}
}

// Suggestions returns the suggestions for the current local hour.
func (s *Suggester) Suggestions() []string {
	return SuggestionsForHour(s.clock.Now().In(s.location).Hour())
}
