package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibefinder/internal/types"
)

func scoredPlace(name string, score int) types.ScoredPlace {
	return types.ScoredPlace{
		Place:    place(name, 400),
		Score:    score,
		Reasons:  []string{"r"},
		MustTake: []string{"Smartphone", "Wallet"},
	}
}

func TestRank_Empty(t *testing.T) {
	_, ok := Rank(nil)
	assert.False(t, ok)
}

func TestRank_SingleCandidateHasNoAlternative(t *testing.T) {
	r, ok := Rank([]types.ScoredPlace{scoredPlace("Only", 70)})
	require.True(t, ok)
	assert.Equal(t, "Only", r.Best.Name)
	assert.Nil(t, r.Alternative)
	assert.Equal(t, NoAlternative, r.AlternativeName())
}

func TestRank_OrdersByScoreDescending(t *testing.T) {
	r, ok := Rank([]types.ScoredPlace{
		scoredPlace("Low", 50),
		scoredPlace("High", 90),
		scoredPlace("Mid", 70),
	})
	require.True(t, ok)
	assert.Equal(t, "High", r.Best.Name)
	assert.Equal(t, "Mid", r.AlternativeName())
}

func TestRank_IsStable(t *testing.T) {
	input := []types.ScoredPlace{
		scoredPlace("First", 80),
		scoredPlace("Lower", 60),
		scoredPlace("Second", 80),
		scoredPlace("Third", 80),
	}

	r, ok := Rank(input)
	require.True(t, ok)
	assert.Equal(t, "First", r.Best.Name)
	assert.Equal(t, "Second", r.AlternativeName())

	// Input untouched.
	assert.Equal(t, "Lower", input[1].Name)
}

func TestEngine_WalkMinutes(t *testing.T) {
	e := NewEngine(DefaultSettings())

	assert.Equal(t, 50, e.WalkMinutes(4000))
	assert.Equal(t, 0, e.WalkMinutes(0))
	assert.Equal(t, 1, e.WalkMinutes(40))
	assert.Equal(t, 0, e.WalkMinutes(39))
	assert.Equal(t, 15, e.WalkMinutes(1200))
}

func TestEngine_FormatTruncatesReasons(t *testing.T) {
	e := NewEngine(DefaultSettings())
	best := scoredPlace("Best", 90)
	best.Reasons = []string{"a", "b", "c", "d"}

	rec := e.Format(Ranking{Best: best}, 25, reading("Rain", 11.5))

	assert.Equal(t, []string{"a", "b", "c"}, rec.Reasons)
	assert.Equal(t, "25 Minutes", rec.Duration)
	assert.Equal(t, "Rain, 12°C", rec.Weather)
	assert.Equal(t, NoAlternative, rec.Alternative)
	assert.Equal(t, 5, rec.WalkMinutes)
	assert.Len(t, best.Reasons, 4)
}

func TestFallbackRecommendation(t *testing.T) {
	rec := FallbackRecommendation(types.DefaultWeatherReading())

	assert.Equal(t, "City Walk", rec.Name)
	assert.Equal(t, 80, rec.Score)
	assert.Equal(t, []string{"Comfortable Shoes"}, rec.MustTake)
	assert.Equal(t, []string{"Explore the area on foot!"}, rec.Reasons)
	assert.Equal(t, "30-60 Minutes", rec.Duration)
	assert.Equal(t, 0, rec.WalkMinutes)
	assert.Equal(t, "Clear, 20°C", rec.Weather)
	assert.Empty(t, rec.Alternative)
}

func TestWeatherSummary_Rounding(t *testing.T) {
	assert.Equal(t, "Clear, 23°C", WeatherSummary(reading("Clear", 22.5)))
	assert.Equal(t, "Snow, -2°C", WeatherSummary(reading("Snow", -2.5)))
	assert.Equal(t, "Clouds, -3°C", WeatherSummary(reading("Clouds", -2.51)))
}

func TestEngine_Recommend(t *testing.T) {
	e := NewEngine(DefaultSettings())

	t.Run("empty list falls back", func(t *testing.T) {
		rec, outcome := e.Recommend(reading("Clear", 20), 60, "", "chill", nil)
		assert.Equal(t, types.OutcomeFallback, outcome)
		assert.Equal(t, "City Walk", rec.Name)
	})

	t.Run("ranked", func(t *testing.T) {
		places := []types.Place{
			place("Cafe", 300, "catering.cafe"),
			place("Park", 900, "leisure.park"),
		}
		rec, outcome := e.Recommend(reading("Clear", 20), 60, "", "chill", places)
		assert.Equal(t, types.OutcomeRanked, outcome)
		assert.Equal(t, "Park", rec.Name)
		assert.Equal(t, "Cafe", rec.Alternative)
		assert.Equal(t, 95, rec.Score)
		assert.Equal(t, 11, rec.WalkMinutes)
	})
}
