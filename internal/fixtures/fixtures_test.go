package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

var end = time.Date(2024, 5, 17, 20, 0, 0, 0, time.UTC)

func generate(t *testing.T, seed uint64) []*models.Habit {
	t.Helper()
	habits, err := Generate(Options{Seed: seed, End: end})
	require.NoError(t, err)
	for _, h := range habits {
		h.SetClock(func() time.Time { return end })
	}
	return habits
}

func TestGenerateDefinitions(t *testing.T) {
	habits := generate(t, DefaultSeed)

	require.Len(t, habits, len(Definitions))
	assert.Equal(t, []string{"Morning Exercise", "Read 30 Minutes", "Weekly Planning", "Meditation", "Family Dinner"}, analytics.Names(habits))
	assert.Len(t, analytics.DailyHabits(habits), 3)
	assert.Len(t, analytics.WeeklyHabits(habits), 2)
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := generate(t, 7)
	b := generate(t, 7)

	for i := range a {
		ac, bc := a[i].Completions(), b[i].Completions()
		require.Len(t, bc, len(ac), a[i].Name())
		for j := range ac {
			assert.True(t, ac[j].Equal(bc[j]))
		}
		assert.Equal(t, a[i].Streak(), b[i].Streak())
		assert.NotEqual(t, a[i].ID(), b[i].ID())
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	total := func(habits []*models.Habit) []time.Time {
		var all []time.Time
		for _, h := range habits {
			all = append(all, h.Completions()...)
		}
		return all
	}
	assert.NotEqual(t, total(generate(t, 1)), total(generate(t, 2)))
}

func TestGenerateWindow(t *testing.T) {
	start := end.AddDate(0, 0, -7*DefaultWeeks)

	for _, h := range generate(t, DefaultSeed) {
		assert.False(t, h.CreatedAt().Before(start), h.Name())
		assert.True(t, h.CreatedAt().Before(start.Add(time.Minute)), h.Name())

		perDay := map[int]int{}
		for _, c := range h.Completions() {
			assert.False(t, c.After(end), "%s completed in the future", h.Name())
			assert.False(t, c.Before(start), "%s completed before creation", h.Name())
			perDay[utils.DaysBetween(end, c)]++
		}
		for back, n := range perDay {
			assert.Equal(t, 1, n, "%s has %d completions %d days back", h.Name(), n, back)
		}

		limit := 7 * DefaultWeeks
		if h.Periodicity() == models.Weekly {
			limit = DefaultWeeks
		}
		assert.LessOrEqual(t, len(h.Completions()), limit, h.Name())
	}
}

func TestWeeklyCompletionsAreAWeekApart(t *testing.T) {
	for _, h := range analytics.WeeklyHabits(generate(t, DefaultSeed)) {
		for _, c := range h.Completions() {
			assert.Zero(t, utils.DaysBetween(end, c)%7, "%s completed off its weekly cadence", h.Name())
		}
	}
}

func TestGenerateDefaults(t *testing.T) {
	habits, err := Generate(Options{Seed: 1})
	require.NoError(t, err)
	require.NotEmpty(t, habits)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7*DefaultWeeks), habits[0].CreatedAt(), time.Minute)
}
