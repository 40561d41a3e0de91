package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vibefinder/internal/types"
)

func reading(condition string, temp float64) types.WeatherReading {
	return types.WeatherReading{TemperatureCelsius: temp, Condition: condition, Description: "test"}
}

func TestMustTake_AlwaysHasEssentials(t *testing.T) {
	conditions := []string{"Clear", "Rain", "Snow", "Clouds", "Thunderstorm", ""}
	temps := []float64{-20, 0, 9.9, 10, 20, 25, 25.1, 40}
	vibes := []string{"", "active", "chill", "work", "romantic"}

	for _, c := range conditions {
		for _, temp := range temps {
			for _, v := range vibes {
				items := MustTake(reading(c, temp), v, "catering.cafe leisure.park")
				assert.Contains(t, items, "Smartphone")
				assert.Contains(t, items, "Wallet")
			}
		}
	}
}

func TestMustTake_Rules(t *testing.T) {
	tests := []struct {
		name       string
		weather    types.WeatherReading
		vibe       string
		categories string
		want       []string
	}{
		{
			name:    "mild clouds, nothing extra",
			weather: reading("Clouds", 18),
			want:    []string{"Smartphone", "Wallet"},
		},
		{
			name:    "rain",
			weather: reading("Rain", 15),
			want:    []string{"Smartphone", "Wallet", "Umbrella", "Rain Jacket"},
		},
		{
			name:    "drizzle",
			weather: reading("Drizzle", 15),
			want:    []string{"Smartphone", "Wallet", "Umbrella", "Rain Jacket"},
		},
		{
			name:    "clear and hot",
			weather: reading("Clear", 30),
			want:    []string{"Smartphone", "Wallet", "Sunglasses", "Sunscreen", "Water Bottle", "Deodorant"},
		},
		{
			name:    "cold",
			weather: reading("Snow", 2),
			want:    []string{"Smartphone", "Wallet", "Warm Coat", "Gloves"},
		},
		{
			name:       "active vibe",
			weather:    reading("Clouds", 18),
			vibe:       "Active",
			categories: "catering.cafe",
			want:       []string{"Smartphone", "Wallet", "Walking Shoes", "Towel", "Book/Kindle", "Headphones"},
		},
		{
			name:       "park category",
			weather:    reading("Clouds", 18),
			vibe:       "quiet",
			categories: "leisure.park",
			want:       []string{"Smartphone", "Wallet", "Walking Shoes", "Towel"},
		},
		{
			name:       "work vibe and coworking",
			weather:    reading("Clouds", 18),
			vibe:       "work",
			categories: "office.coworking",
			want:       []string{"Smartphone", "Wallet", "Laptop", "Charger"},
		},
		{
			name:       "romantic museum",
			weather:    reading("Clouds", 18),
			vibe:       "romantic",
			categories: "entertainment.museum",
			want:       []string{"Smartphone", "Wallet", "Mints", "Nice Outfit", "Student ID"},
		},
		{
			name:       "museum only matches category",
			weather:    reading("Clouds", 18),
			vibe:       "museum",
			categories: "catering.bar",
			want:       []string{"Smartphone", "Wallet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustTake(tt.weather, tt.vibe, tt.categories))
		})
	}
}

func TestMustTake_Deduplicates(t *testing.T) {
	// "Sunny Rain" matches both weather rules, chill + cafe match the same rule.
	items := MustTake(reading("Sunny Rain", 18), "chill", "catering.cafe catering.cafe")

	seen := map[string]int{}
	for _, item := range items {
		seen[item]++
	}
	for item, n := range seen {
		assert.Equal(t, 1, n, "duplicate item %q", item)
	}
	assert.Equal(t, []string{"Smartphone", "Wallet", "Umbrella", "Rain Jacket", "Sunglasses", "Sunscreen", "Book/Kindle", "Headphones"}, items)
}
