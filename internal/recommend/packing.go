package recommend

import (
	"strings"

	"vibefinder/internal/types"
)

var essentials = []string{"Smartphone", "Wallet"}

const (
	coldBelowCelsius = 10
	hotAboveCelsius  = 25
)

// packingRule adds items when it matches. All matching rules apply, in
// table order.
type packingRule struct {
	matches func(in packingInput) bool
	items   []string
}

type packingInput struct {
	weather      types.WeatherReading
	vibe         string // lowercased
	categoryText string
}

func conditionContains(fragments ...string) func(packingInput) bool {
	return func(in packingInput) bool { return containsAny(in.weather.Condition, fragments) }
}

// vibeOrCategory matches a vibe keyword or a category fragment.
func vibeOrCategory(vibeKeywords, categoryFragments []string) func(packingInput) bool {
	return func(in packingInput) bool {
		return containsAny(in.vibe, vibeKeywords) || containsAny(in.categoryText, categoryFragments)
	}
}

var packingRules = []packingRule{
	{matches: conditionContains("Rain", "Drizzle"), items: []string{"Umbrella", "Rain Jacket"}},
	{matches: conditionContains("Clear", "Sun"), items: []string{"Sunglasses", "Sunscreen"}},
	{
		matches: func(in packingInput) bool { return in.weather.TemperatureCelsius < coldBelowCelsius },
		items:   []string{"Warm Coat", "Gloves"},
	},
	{
		matches: func(in packingInput) bool { return in.weather.TemperatureCelsius > hotAboveCelsius },
		items:   []string{"Water Bottle", "Deodorant"},
	},
	{matches: vibeOrCategory([]string{"active"}, []string{"sport", "park"}), items: []string{"Walking Shoes", "Towel"}},
	{matches: vibeOrCategory([]string{"chill"}, []string{"cafe"}), items: []string{"Book/Kindle", "Headphones"}},
	{matches: vibeOrCategory([]string{"work"}, []string{"coworking"}), items: []string{"Laptop", "Charger"}},
	{matches: vibeOrCategory([]string{"romantic"}, nil), items: []string{"Mints", "Nice Outfit"}},
	{matches: vibeOrCategory(nil, []string{"museum"}), items: []string{"Student ID"}},
}

// MustTake builds the packing list for one place. categoryText is the
// place's category tags joined by spaces. Items are de-duplicated and keep
// the order in which they were first added.
func MustTake(weather types.WeatherReading, vibe, categoryText string) []string {
	in := packingInput{
		weather:      weather,
		vibe:         strings.ToLower(vibe),
		categoryText: categoryText,
	}

	items := append([]string(nil), essentials...)
	for _, rule := range packingRules {
		if rule.matches(in) {
			items = append(items, rule.items...)
		}
	}
	return dedupe(items)
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
