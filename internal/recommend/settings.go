// Package recommend implements the Vibe Finder recommendation engine: the
// category mapper, the packing list generator, the scoring rules, the
// ranking step and the pipeline that feeds them from the geocoding, weather
// and places providers.
//
// Everything except Service is pure and synchronous.
package recommend

// DefaultVibe is used when the request carries no preference.
const DefaultVibe = "chill"

// DefaultBudget is the tier assumed when the request carries no budget.
const DefaultBudget = "budget"

// Budget tiers recognised by the mapper and the scoring rules.
const (
	BudgetFree    = "free"
	BudgetPremium = "premium"
)

// Settings groups the engine constants. Only the search window is expected
// to vary between deployments; the scoring constants are fixed.
type Settings struct {
	BaseScore int
	MinScore  int
	MaxScore  int

	// Walking speed used for distance to walk-time conversion.
	WalkMetersPerMinute float64

	// A visit shorter than ShortVisitMinutes to a place further than
	// FarDistanceMeters is penalised.
	ShortVisitMinutes int
	FarDistanceMeters float64

	// DefaultMinutes replaces a missing, unparsable or zero time input.
	DefaultMinutes int

	MaxReasons int

	SearchRadiusMeters int
	ResultLimit        int
}

// DefaultSettings returns the production engine constants.
func DefaultSettings() Settings {
	return Settings{
		BaseScore:           70,
		MinScore:            40,
		MaxScore:            99,
		WalkMetersPerMinute: 80,
		ShortVisitMinutes:   45,
		FarDistanceMeters:   3000,
		DefaultMinutes:      60,
		MaxReasons:          3,
		SearchRadiusMeters:  5000,
		ResultLimit:         15,
	}
}

// WithSearchWindow returns a copy with the places radius and result cap
// replaced. Non-positive values keep the current setting.
func (s Settings) WithSearchWindow(radiusMeters, limit int) Settings {
	if radiusMeters > 0 {
		s.SearchRadiusMeters = radiusMeters
	}
	if limit > 0 {
		s.ResultLimit = limit
	}
	return s
}
