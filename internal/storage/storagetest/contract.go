// Package storagetest holds the behavior every storage.Provider must share.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// Now is the fixed instant habits built by this package treat as the present.
var Now = time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return Now }

// Factory returns an initialized, empty provider.
type Factory func(t *testing.T) storage.Provider

// Run exercises a provider against the shared persistence contract.
func Run(t *testing.T, newProvider Factory) {
	t.Run("EmptyStore", func(t *testing.T) {
		p := newProvider(t)
		habits, err := p.LoadAllHabits()
		require.NoError(t, err)
		assert.NotNil(t, habits)
		assert.Empty(t, habits)
	})

	t.Run("RoundTripPreservesMetrics", func(t *testing.T) {
		p := newProvider(t)

		local := time.FixedZone("EST", -5*60*60)
		daily := newHabit(t, "Morning Exercise", models.Daily, 0, 1, 2)
		// late evening locally, already the next day in UTC
		daily.CompleteAt(time.Date(2024, 5, 13, 23, 30, 0, 0, local))
		weekly := newHabit(t, "Weekly Planning", models.Weekly, 0, 7, 14)

		require.NoError(t, p.SaveHabit(daily))
		require.NoError(t, p.SaveHabit(weekly))

		loaded, err := p.LoadAllHabits()
		require.NoError(t, err)
		require.Len(t, loaded, 2)

		for i, want := range []*models.Habit{daily, weekly} {
			got := loaded[i]
			got.SetClock(clock)
			assertSameHabit(t, want, got)
		}
	})

	t.Run("SaveReplacesHistory", func(t *testing.T) {
		p := newProvider(t)
		h := newHabit(t, "Read", models.Daily, 1)
		require.NoError(t, p.SaveHabit(h))

		h.CompleteAt(Now)
		require.NoError(t, p.SaveHabit(h))

		loaded, err := p.LoadAllHabits()
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Len(t, loaded[0].Completions(), 2)
		loaded[0].SetClock(clock)
		assert.Equal(t, 2, loaded[0].Streak())
	})

	t.Run("OrderedByCreation", func(t *testing.T) {
		p := newProvider(t)
		names := []string{"Third", "First", "Second"}
		offsets := []time.Duration{2 * time.Hour, 0, time.Hour}
		for i, name := range names {
			created := Now.Add(offsets[i])
			h, err := models.NewHabitWithClock(name, models.Daily, func() time.Time { return created })
			require.NoError(t, err)
			require.NoError(t, p.SaveHabit(h))
		}

		loaded, err := p.LoadAllHabits()
		require.NoError(t, err)
		require.Len(t, loaded, 3)
		assert.Equal(t, "First", loaded[0].Name())
		assert.Equal(t, "Second", loaded[1].Name())
		assert.Equal(t, "Third", loaded[2].Name())
	})

	t.Run("DuplicateNamesAreDistinct", func(t *testing.T) {
		p := newProvider(t)
		require.NoError(t, p.SaveHabit(newHabit(t, "Run", models.Daily)))
		require.NoError(t, p.SaveHabit(newHabit(t, "Run", models.Daily)))

		loaded, err := p.LoadAllHabits()
		require.NoError(t, err)
		assert.Len(t, loaded, 2)
	})

	t.Run("Delete", func(t *testing.T) {
		p := newProvider(t)
		keep := newHabit(t, "Keep", models.Daily, 0)
		drop := newHabit(t, "Drop", models.Weekly, 0, 7)
		require.NoError(t, p.SaveHabit(keep))
		require.NoError(t, p.SaveHabit(drop))

		require.NoError(t, p.DeleteHabit(drop.ID()))

		loaded, err := p.LoadAllHabits()
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, keep.ID(), loaded[0].ID())

		err = p.DeleteHabit(drop.ID())
		assert.True(t, errors.Is(err, storage.ErrHabitNotFound), "got %v", err)
	})

	t.Run("DeleteUnknown", func(t *testing.T) {
		p := newProvider(t)
		err := p.DeleteHabit("does-not-exist")
		assert.ErrorIs(t, err, storage.ErrHabitNotFound)
	})
}

func newHabit(t *testing.T, name string, p models.Periodicity, daysAgo ...int) *models.Habit {
	t.Helper()
	h, err := models.NewHabitWithClock(name, p, clock)
	require.NoError(t, err)
	for _, d := range daysAgo {
		h.CompleteAt(Now.AddDate(0, 0, -d))
	}
	return h
}

func assertSameHabit(t *testing.T, want, got *models.Habit) {
	t.Helper()
	assert.Equal(t, want.ID(), got.ID())
	assert.Equal(t, want.Name(), got.Name())
	assert.Equal(t, want.Periodicity(), got.Periodicity())
	assert.True(t, want.CreatedAt().Equal(got.CreatedAt()), "created_at %v != %v", want.CreatedAt(), got.CreatedAt())

	wc, gc := want.Completions(), got.Completions()
	require.Len(t, gc, len(wc))
	for i := range wc {
		assert.True(t, wc[i].Equal(gc[i]), "completion %d: %v != %v", i, wc[i], gc[i])
		y1, m1, d1 := wc[i].Date()
		y2, m2, d2 := gc[i].Date()
		assert.Equal(t, []int{y1, int(m1), d1}, []int{y2, int(m2), d2}, "completion %d moved to another calendar day", i)
	}

	assert.Equal(t, want.Streak(), got.Streak())
	assert.Equal(t, want.IsBroken(), got.IsBroken())
	assert.Equal(t, want.Describe(), got.Describe())
}
