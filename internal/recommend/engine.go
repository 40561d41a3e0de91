package recommend

import "vibefinder/internal/types"

// Engine scores and ranks candidate places. It holds no per-request state
// and is safe for concurrent use.
type Engine struct {
	settings Settings
}

// NewEngine creates an Engine with the given settings.
func NewEngine(settings Settings) *Engine {
	return &Engine{settings: settings}
}

// Settings returns the engine constants.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Recommend runs scoring and ranking over the fetched places. An empty
// list yields the canned fallback.
func (e *Engine) Recommend(weather types.WeatherReading, minutes int, budget, vibe string, places []types.Place) (types.Recommendation, types.Outcome) {
	ranking, ok := Rank(e.ScorePlaces(weather, minutes, budget, vibe, places))
	if !ok {
		return FallbackRecommendation(weather), types.OutcomeFallback
	}
	return e.Format(ranking, minutes, weather), types.OutcomeRanked
}
