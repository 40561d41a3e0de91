package recommend

import "strings"

// vibeRule maps vibe keywords to the place categories to search for.
type vibeRule struct {
	keywords   []string
	categories []string
}

// vibeRules is evaluated in order; the first rule with a keyword contained
// in the lowercased vibe wins.
var vibeRules = []vibeRule{
	{keywords: []string{"active", "sport"}, categories: []string{"sport", "leisure.park", "entertainment.activity_park"}},
	{keywords: []string{"chill", "relax"}, categories: []string{"catering.cafe", "commercial.books", "leisure.park"}},
	{keywords: []string{"culture", "art"}, categories: []string{"entertainment.museum", "entertainment.culture"}},
	{keywords: []string{"night", "fun"}, categories: []string{"entertainment", "catering.bar", "catering.restaurant"}},
	{keywords: []string{"romantic"}, categories: []string{"catering.restaurant", "leisure.park", "tourism.sights"}},
}

var defaultVibeCategories = []string{"catering.cafe", "leisure.park"}

// Category fragments that denote free access.
var freeCategoryMarkers = []string{"park", "culture", "books", "sights"}

var freeFallbackCategories = []string{"leisure.park", "tourism.sights"}

const premiumCategory = "catering.restaurant"

// MapCategories returns the ordered category tags to query for a vibe and
// budget tier. The result is never empty and may contain duplicates.
func MapCategories(vibe, budget string) []string {
	categories := categoriesForVibe(strings.ToLower(vibe))

	switch normalizeBudget(budget) {
	case BudgetFree:
		categories = filterFree(categories)
	case BudgetPremium:
		categories = append(categories, premiumCategory)
	}
	return categories
}

func categoriesForVibe(vibe string) []string {
	for _, rule := range vibeRules {
		if containsAny(vibe, rule.keywords) {
			return append([]string(nil), rule.categories...)
		}
	}
	return append([]string(nil), defaultVibeCategories...)
}

func filterFree(categories []string) []string {
	kept := categories[:0]
	for _, c := range categories {
		if containsAny(c, freeCategoryMarkers) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return append([]string(nil), freeFallbackCategories...)
	}
	return kept
}

// normalizeBudget lowercases the tier and applies the default.
func normalizeBudget(budget string) string {
	b := strings.ToLower(strings.TrimSpace(budget))
	if b == "" {
		return DefaultBudget
	}
	return b
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
