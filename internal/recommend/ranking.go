package recommend

import (
	"fmt"
	"sort"

	"vibefinder/internal/types"
)

// NoAlternative is reported when only one candidate was found.
const NoAlternative = "None"

// Fallback recommendation returned when the places search finds nothing.
const (
	FallbackName     = "City Walk"
	FallbackDuration = "30-60 Minutes"
	FallbackReason   = "Explore the area on foot!"
	FallbackScore    = 80
	FallbackMustTake = "Comfortable Shoes"
)

// Ranking is the ordered outcome of a scored candidate list.
type Ranking struct {
	Best        types.ScoredPlace
	Alternative *types.ScoredPlace
}

// AlternativeName returns the runner-up's name, or NoAlternative.
func (r Ranking) AlternativeName() string {
	if r.Alternative == nil {
		return NoAlternative
	}
	return r.Alternative.Name
}

// Rank orders candidates by score, highest first. Equal scores keep their
// input order. It returns false when there are no candidates. The input
// slice is not modified.
func Rank(scored []types.ScoredPlace) (Ranking, bool) {
	if len(scored) == 0 {
		return Ranking{}, false
	}

	ordered := append([]types.ScoredPlace(nil), scored...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	r := Ranking{Best: ordered[0]}
	if len(ordered) > 1 {
		alt := ordered[1]
		r.Alternative = &alt
	}
	return r, true
}

// WalkMinutes converts a distance to whole minutes of walking.
func (e *Engine) WalkMinutes(distanceMeters float64) int {
	return roundHalfUp(distanceMeters / e.settings.WalkMetersPerMinute)
}

// Format turns a ranking into the response payload.
func (e *Engine) Format(r Ranking, minutes int, weather types.WeatherReading) types.Recommendation {
	reasons := r.Best.Reasons
	if len(reasons) > e.settings.MaxReasons {
		reasons = reasons[:e.settings.MaxReasons]
	}

	return types.Recommendation{
		Name:        r.Best.Name,
		WalkMinutes: e.WalkMinutes(r.Best.DistanceMeters),
		Duration:    fmt.Sprintf("%d Minutes", minutes),
		Reasons:     append([]string(nil), reasons...),
		Score:       r.Best.Score,
		Weather:     WeatherSummary(weather),
		MustTake:    r.Best.MustTake,
		Alternative: r.AlternativeName(),
	}
}

// FallbackRecommendation is the canned payload for an empty candidate list.
func FallbackRecommendation(weather types.WeatherReading) types.Recommendation {
	return types.Recommendation{
		Name:        FallbackName,
		WalkMinutes: 0,
		Duration:    FallbackDuration,
		Reasons:     []string{FallbackReason},
		Score:       FallbackScore,
		Weather:     WeatherSummary(weather),
		MustTake:    []string{FallbackMustTake},
	}
}

// WeatherSummary renders a reading as "Clear, 22°C".
func WeatherSummary(w types.WeatherReading) string {
	return fmt.Sprintf("%s, %d°C", w.Condition, roundHalfUp(w.TemperatureCelsius))
}
