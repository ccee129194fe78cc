package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/models"
)

var now = time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)

func habit(t *testing.T, name string, p models.Periodicity, daysAgo ...int) *models.Habit {
	t.Helper()
	h, err := models.NewHabitWithClock(name, p, func() time.Time { return now })
	require.NoError(t, err)
	for _, d := range daysAgo {
		h.CompleteAt(now.AddDate(0, 0, -d))
	}
	return h
}

func TestView(t *testing.T) {
	m := New([]*models.Habit{
		habit(t, "Read", models.Daily, 0, 1, 2),
		habit(t, "Plan", models.Weekly),
	}, 80, 20)

	assert.Equal(t, 2, m.Summary().Total)
	assert.Equal(t, 1, m.Summary().Broken)

	view := m.View()
	assert.Contains(t, view, "Completion rate")
	assert.Contains(t, view, "50.0%")
	assert.Contains(t, view, "1 / 1")
	assert.Contains(t, view, "Read")
	assert.Contains(t, view, "Broken")
}

func TestViewEmpty(t *testing.T) {
	m := New(nil, 80, 20)
	assert.Contains(t, m.View(), "Nothing to analyze yet.")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Read", truncate("Read"))

	long := strings.Repeat("x", nameWidth+5)
	got := truncate(long)
	assert.Len(t, []rune(got), nameWidth)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestRowsUseEachHabitsOwnStreak(t *testing.T) {
	m := New([]*models.Habit{
		habit(t, "Read", models.Daily, 0, 1, 2),
		habit(t, "Read", models.Daily, 0),
	}, 80, 20)

	require.Len(t, m.rows, 2)
	assert.Equal(t, 3, m.rows[0].streak)
	assert.Equal(t, 1, m.rows[1].streak)
}
