package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/utils"
)

// Periodicity is the required cadence of a habit
type Periodicity string

const (
	Daily  Periodicity = "daily"
	Weekly Periodicity = "weekly"
)

const (
	// Weekly completions count as consecutive when their calendar days are this far apart (inclusive)
	weeklyMinGapDays = 6
	weeklyMaxGapDays = 8

	// A habit is broken once today is more than this many days past its last completion
	dailyGraceDays  = 1
	weeklyGraceDays = 7
)

// ErrInvalidPeriodicity is returned when a periodicity is neither daily nor weekly
var ErrInvalidPeriodicity = errors.New("invalid periodicity")

func (p Periodicity) IsValid() bool {
	switch p {
	case Daily, Weekly:
		return true
	default:
		return false
	}
}

func (p Periodicity) String() string { return string(p) }

// ParsePeriodicity parses user input case-insensitively.
func ParsePeriodicity(input string) (Periodicity, error) {
	p := Periodicity(strings.TrimSpace(strings.ToLower(input)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q (must be daily or weekly)", ErrInvalidPeriodicity, input)
	}
	return p, nil
}

// Clock supplies the current time. Habits read it on every call to IsBroken and Describe.
type Clock func() time.Time

// Habit is a recurring practice and its completion history.
//
// Identity, name, periodicity and creation time are fixed at construction.
// Completions only ever grow; derived metrics sort a copy and never rely on insertion order.
// A Habit is not safe for concurrent mutation.
type Habit struct {
	id          string
	name        string
	periodicity Periodicity
	createdAt   time.Time
	completions []time.Time
	clock       Clock
}

// NewHabit creates a habit with an empty history. The name is stored verbatim.
func NewHabit(name string, periodicity Periodicity) (*Habit, error) {
	return NewHabitWithClock(name, periodicity, time.Now)
}

// NewHabitWithClock is NewHabit with an explicit time source.
func NewHabitWithClock(name string, periodicity Periodicity, clock Clock) (*Habit, error) {
	if !periodicity.IsValid() {
		return nil, fmt.Errorf("%w: %q (must be daily or weekly)", ErrInvalidPeriodicity, string(periodicity))
	}
	if clock == nil {
		clock = time.Now
	}
	return &Habit{
		id:          uuid.New().String(),
		name:        name,
		periodicity: periodicity,
		createdAt:   clock(),
		clock:       clock,
	}, nil
}

func (h *Habit) ID() string               { return h.id }
func (h *Habit) Name() string             { return h.name }
func (h *Habit) Periodicity() Periodicity { return h.periodicity }
func (h *Habit) CreatedAt() time.Time     { return h.createdAt }

// Completions returns a copy of the completion history in insertion order.
func (h *Habit) Completions() []time.Time {
	out := make([]time.Time, len(h.completions))
	copy(out, h.completions)
	return out
}

// SetClock replaces the time source. A nil clock restores time.Now.
func (h *Habit) SetClock(clock Clock) {
	if clock == nil {
		clock = time.Now
	}
	h.clock = clock
}

func (h *Habit) now() time.Time {
	if h.clock == nil {
		return time.Now()
	}
	return h.clock()
}

// Complete records a completion at the current time.
func (h *Habit) Complete() {
	h.CompleteAt(h.now())
}

// CompleteAt records a completion at t. Repeated calls append repeated entries.
func (h *Habit) CompleteAt(t time.Time) {
	h.completions = append(h.completions, t)
}

// sortedDesc returns the completions newest first without touching the stored order.
func (h *Habit) sortedDesc() []time.Time {
	sorted := h.Completions()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].After(sorted[j])
	})
	return sorted
}

// LastCompletion returns the most recent completion, or false if there is none.
func (h *Habit) LastCompletion() (time.Time, bool) {
	if len(h.completions) == 0 {
		return time.Time{}, false
	}
	latest := h.completions[0]
	for _, c := range h.completions[1:] {
		if c.After(latest) {
			latest = c
		}
	}
	return latest, true
}

// Streak counts consecutive periods walking back from the most recent completion.
// The walk stops at the first gap; it does not look for older, longer runs.
func (h *Habit) Streak() int {
	if len(h.completions) == 0 {
		return 0
	}

	sorted := h.sortedDesc()
	streak := 1
	for i := 1; i < len(sorted); i++ {
		diff := utils.DaysBetween(sorted[i-1], sorted[i])

		switch h.periodicity {
		case Daily:
			if diff == 0 {
				// same-day duplicate
				continue
			}
			if diff != 1 {
				return streak
			}
		case Weekly:
			if diff < weeklyMinGapDays || diff > weeklyMaxGapDays {
				return streak
			}
		}
		streak++
	}
	return streak
}

// IsBroken reports whether the grace window since the last completion has elapsed.
// A habit with no completions is always broken.
func (h *Habit) IsBroken() bool {
	latest, ok := h.LastCompletion()
	if !ok {
		return true
	}

	elapsed := utils.DaysBetween(h.now(), latest)
	if h.periodicity == Weekly {
		return elapsed > weeklyGraceDays
	}
	return elapsed > dailyGraceDays
}

// Status is the human label for IsBroken.
func (h *Habit) Status() string {
	if h.IsBroken() {
		return "Broken"
	}
	return "Active"
}

// Describe returns a one-line summary: name, periodicity, current streak and status.
func (h *Habit) Describe() string {
	return fmt.Sprintf("%s (%s) - Streak: %d - %s", h.name, h.periodicity, h.Streak(), h.Status())
}

func (h *Habit) String() string { return h.Describe() }
