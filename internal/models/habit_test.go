package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestHabit(t *testing.T, name string, p Periodicity, offsetsDays ...int) *Habit {
	t.Helper()
	h, err := NewHabitWithClock(name, p, fixedClock)
	require.NoError(t, err)
	for _, d := range offsetsDays {
		h.CompleteAt(fixedNow.AddDate(0, 0, -d))
	}
	return h
}

func TestNewHabit(t *testing.T) {
	h, err := NewHabitWithClock("Exercise", Daily, fixedClock)
	require.NoError(t, err)

	assert.Equal(t, "Exercise", h.Name())
	assert.Equal(t, Daily, h.Periodicity())
	assert.Equal(t, fixedNow, h.CreatedAt())
	assert.NotEmpty(t, h.ID())
	assert.Empty(t, h.Completions())
	assert.Equal(t, 0, h.Streak())
}

func TestNewHabitUniqueIDs(t *testing.T) {
	a, err := NewHabit("A", Daily)
	require.NoError(t, err)
	b, err := NewHabit("A", Daily)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNewHabitInvalidPeriodicity(t *testing.T) {
	for _, p := range []Periodicity{"monthly", "", "Daily "} {
		_, err := NewHabit("Invalid", p)
		require.Error(t, err, "periodicity %q", p)
		assert.True(t, errors.Is(err, ErrInvalidPeriodicity))
	}
}

func TestNewHabitEmptyNameIsKept(t *testing.T) {
	h, err := NewHabit("", Weekly)
	require.NoError(t, err)
	assert.Equal(t, "", h.Name())
}

func TestParsePeriodicity(t *testing.T) {
	tests := []struct {
		input   string
		want    Periodicity
		wantErr bool
	}{
		{input: "daily", want: Daily},
		{input: " Weekly ", want: Weekly},
		{input: "DAILY", want: Daily},
		{input: "monthly", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriodicity(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriodicity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComplete(t *testing.T) {
	h := newTestHabit(t, "Read", Daily)
	h.Complete()
	require.Len(t, h.Completions(), 1)
	assert.Equal(t, fixedNow, h.Completions()[0])

	at := fixedNow.Add(-time.Hour)
	h.CompleteAt(at)
	h.CompleteAt(at)
	assert.Len(t, h.Completions(), 3, "duplicates are kept")
}

func TestCompletionsIsACopy(t *testing.T) {
	h := newTestHabit(t, "Read", Daily, 0, 1)
	c := h.Completions()
	c[0] = time.Time{}
	assert.Equal(t, fixedNow, h.Completions()[0])
}

func TestDailyStreak(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{name: "no completions", offsets: nil, want: 0},
		{name: "today only", offsets: []int{0}, want: 1},
		{name: "five consecutive days", offsets: []int{0, 1, 2, 3, 4}, want: 5},
		{name: "gap after today", offsets: []int{0, 3}, want: 1},
		{name: "gap truncates run", offsets: []int{0, 1, 2, 4, 5, 6, 7}, want: 3},
		{name: "insertion order is irrelevant", offsets: []int{2, 0, 1}, want: 3},
		{name: "same day duplicates are skipped", offsets: []int{0, 0, 1, 1, 1, 2}, want: 3},
		{name: "run ending in the past still counts", offsets: []int{5, 6, 7}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHabit(t, "Meditation", Daily, tt.offsets...)
			assert.Equal(t, tt.want, h.Streak())
		})
	}
}

func TestDailyStreakUsesCalendarDays(t *testing.T) {
	h := newTestHabit(t, "Late Night", Daily)
	// 10 minutes apart but on different calendar days
	h.CompleteAt(time.Date(2024, 5, 17, 0, 5, 0, 0, time.UTC))
	h.CompleteAt(time.Date(2024, 5, 16, 23, 55, 0, 0, time.UTC))
	// 47 hours apart, but only two calendar days
	h.CompleteAt(time.Date(2024, 5, 15, 0, 30, 0, 0, time.UTC))
	assert.Equal(t, 3, h.Streak())
}

func TestWeeklyStreak(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{name: "three consecutive weeks", offsets: []int{0, 7, 14}, want: 3},
		{name: "seven days apart", offsets: []int{0, 7}, want: 2},
		{name: "six days apart", offsets: []int{0, 6}, want: 2},
		{name: "eight days apart", offsets: []int{0, 8}, want: 2},
		{name: "nine days apart", offsets: []int{0, 9}, want: 1},
		{name: "two weeks apart", offsets: []int{0, 14}, want: 1},
		{name: "five days apart", offsets: []int{0, 5}, want: 1},
		{name: "same day duplicate stops the walk", offsets: []int{0, 0, 7}, want: 1},
		{name: "mixed gaps within window", offsets: []int{0, 6, 14, 21}, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHabit(t, "Weekly Review", Weekly, tt.offsets...)
			assert.Equal(t, tt.want, h.Streak())
		})
	}
}

func TestIsBroken(t *testing.T) {
	tests := []struct {
		name    string
		p       Periodicity
		offsets []int
		want    bool
	}{
		{name: "daily without completions", p: Daily, want: true},
		{name: "weekly without completions", p: Weekly, want: true},
		{name: "daily completed today", p: Daily, offsets: []int{0}, want: false},
		{name: "daily completed yesterday", p: Daily, offsets: []int{1}, want: false},
		{name: "daily completed two days ago", p: Daily, offsets: []int{2}, want: true},
		{name: "weekly completed seven days ago", p: Weekly, offsets: []int{7}, want: false},
		{name: "weekly completed eight days ago", p: Weekly, offsets: []int{8}, want: true},
		{name: "latest completion wins", p: Daily, offsets: []int{10, 0, 30}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHabit(t, "Habit", tt.p, tt.offsets...)
			assert.Equal(t, tt.want, h.IsBroken())
		})
	}
}

func TestIsBrokenReadsClockOnEachCall(t *testing.T) {
	now := fixedNow
	h, err := NewHabitWithClock("Read", Daily, func() time.Time { return now })
	require.NoError(t, err)
	h.Complete()

	assert.False(t, h.IsBroken())
	assert.Equal(t, 1, h.Streak())

	now = now.AddDate(0, 0, 2)
	assert.True(t, h.IsBroken(), "streak stays 1 but the grace window has passed")
	assert.Equal(t, 1, h.Streak())
}

func TestDescribe(t *testing.T) {
	h := newTestHabit(t, "Test", Daily, 0, 1)
	assert.Equal(t, "Test (daily) - Streak: 2 - Active", h.Describe())
	assert.Equal(t, h.Describe(), h.String())

	w := newTestHabit(t, "Plan", Weekly)
	assert.Equal(t, "Plan (weekly) - Streak: 0 - Broken", w.Describe())
}

func TestLastCompletion(t *testing.T) {
	h := newTestHabit(t, "Read", Daily)
	_, ok := h.LastCompletion()
	assert.False(t, ok)

	h.CompleteAt(fixedNow.AddDate(0, 0, -3))
	h.CompleteAt(fixedNow)
	h.CompleteAt(fixedNow.AddDate(0, 0, -1))
	latest, ok := h.LastCompletion()
	require.True(t, ok)
	assert.Equal(t, fixedNow, latest)
}

func TestRecordRoundTrip(t *testing.T) {
	h := newTestHabit(t, "Journal", Weekly, 0, 7, 14, 30)

	restored, err := FromRecord(h.Record())
	require.NoError(t, err)
	restored.SetClock(fixedClock)

	assert.Equal(t, h.ID(), restored.ID())
	assert.Equal(t, h.Name(), restored.Name())
	assert.Equal(t, h.Periodicity(), restored.Periodicity())
	assert.Equal(t, h.CreatedAt(), restored.CreatedAt())
	assert.Equal(t, h.Completions(), restored.Completions())
	assert.Equal(t, h.Streak(), restored.Streak())
	assert.Equal(t, h.IsBroken(), restored.IsBroken())
}

func TestFromRecordRejectsInvalidPeriodicity(t *testing.T) {
	_, err := FromRecord(HabitRecord{ID: "abc", Name: "Bad", Periodicity: "hourly"})
	assert.ErrorIs(t, err, ErrInvalidPeriodicity)
}
