package recommend

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"vibefinder/internal/types"
)

// Reason strings attached by the scoring rules.
const (
	ReasonRainyOutdoor   = "Rainy weather makes this less ideal."
	ReasonRainyShelter   = "Perfect cloudy/rainy day shelter."
	ReasonClearOutdoor   = "Beautiful clear skies for outdoors."
	ReasonWalletFriendly = "Wallet-friendly option."
	ReasonPremium        = "Matches your premium vibe."
	ReasonTooFar         = "Might be a bit far for your short timeframe."
)

const fallbackReasonFormat = "Matches your %s vibe perfectly."

// Weather conditions that count as bad weather, matched by substring.
var badWeatherConditions = []string{"Rain", "Snow", "Thunderstorm"}

// scoreInput is everything a scoring rule may look at.
type scoreInput struct {
	weather  types.WeatherReading
	minutes  int
	budget   string
	place    types.Place
	settings Settings
}

// placeHas reports whether any category tag contains any of the fragments.
func (in scoreInput) placeHas(fragments ...string) bool {
	for _, c := range in.place.Categories {
		if containsAny(c, fragments) {
			return true
		}
	}
	return false
}

// scoreRule is one branch of a rule chain.
type scoreRule struct {
	name    string
	matches func(in scoreInput) bool
	delta   int
	reason  string
}

// ruleChain is a priority list: only the first matching rule applies.
type ruleChain []scoreRule

func (c ruleChain) first(in scoreInput) (scoreRule, bool) {
	for _, r := range c {
		if r.matches(in) {
			return r, true
		}
	}
	return scoreRule{}, false
}

func badWeather(in scoreInput) bool {
	return containsAny(in.weather.Condition, badWeatherConditions)
}

var weatherChain = ruleChain{
	{
		name:    "bad_weather_outdoor",
		matches: func(in scoreInput) bool { return badWeather(in) && in.placeHas("park", "sport") },
		delta:   -30,
		reason:  ReasonRainyOutdoor,
	},
	{
		name:    "bad_weather_shelter",
		matches: badWeather,
		delta:   20,
		reason:  ReasonRainyShelter,
	},
	{
		name:    "clear_outdoor",
		matches: func(in scoreInput) bool { return in.weather.Condition == "Clear" && in.placeHas("park") },
		delta:   25,
		reason:  ReasonClearOutdoor,
	},
}

// The budget chain compares the raw tier exactly; "Free" does not match.
var budgetChain = ruleChain{
	{
		name:    "free_budget",
		matches: func(in scoreInput) bool { return in.budget == BudgetFree && in.placeHas("park", "culture") },
		delta:   20,
		reason:  ReasonWalletFriendly,
	},
	{
		name:    "premium_budget",
		matches: func(in scoreInput) bool { return in.budget == BudgetPremium && in.placeHas("restaurant") },
		delta:   15,
		reason:  ReasonPremium,
	},
}

var timeChain = ruleChain{
	{
		name: "short_visit_far_place",
		matches: func(in scoreInput) bool {
			return in.minutes < in.settings.ShortVisitMinutes && in.place.DistanceMeters > in.settings.FarDistanceMeters
		},
		delta:  -15,
		reason: ReasonTooFar,
	},
}

// scoringChains are evaluated in order; reasons follow the same order.
var scoringChains = []ruleChain{weatherChain, budgetChain, timeChain}

// Score computes the clamped score and explanation list for one place.
// It is total over any place.
func (e *Engine) Score(weather types.WeatherReading, minutes int, budget, vibe string, place types.Place) (int, []string) {
	in := scoreInput{
		weather:  weather,
		minutes:  minutes,
		budget:   budget,
		place:    place,
		settings: e.settings,
	}

	score := e.settings.BaseScore
	var reasons []string
	for _, chain := range scoringChains {
		if rule, ok := chain.first(in); ok {
			score += rule.delta
			reasons = append(reasons, rule.reason)
		}
	}

	score = clamp(score, e.settings.MinScore, e.settings.MaxScore)
	if len(reasons) == 0 {
		reasons = []string{fmt.Sprintf(fallbackReasonFormat, vibe)}
	}
	return score, reasons
}

// ScorePlaces scores every place and attaches its packing list. Input order
// is preserved.
func (e *Engine) ScorePlaces(weather types.WeatherReading, minutes int, budget, vibe string, places []types.Place) []types.ScoredPlace {
	scored := make([]types.ScoredPlace, 0, len(places))
	for _, p := range places {
		score, reasons := e.Score(weather, minutes, budget, vibe, p)
		scored = append(scored, types.ScoredPlace{
			Place:    p,
			Score:    score,
			Reasons:  reasons,
			MustTake: MustTake(weather, vibe, strings.Join(p.Categories, " ")),
		})
	}
	return scored
}

// ParseMinutes reads a leading integer from raw the way a lenient form
// parser would: leading whitespace and an optional sign are accepted and
// parsing stops at the first non-digit. Input without digits, or that
// parses to zero, yields def.
func ParseMinutes(raw string, def int) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	const maxMinutes = math.MaxInt32
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		digits++
		if n < maxMinutes {
			n = n*10 + int(r-'0')
		}
	}
	if n > maxMinutes {
		n = maxMinutes
	}
	if digits == 0 || n == 0 {
		return def
	}
	if negative {
		return -n
	}
	return n
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
