// Package analytics summarizes collections of habits.
//
// Every function is pure: inputs are never mutated and absent values are reported as
// zero values, never as errors.
package analytics

import "github.com/julianstephens/habitual/internal/models"

// Summary is the aggregate view over a collection of habits.
type Summary struct {
	Total         int `json:"total_habits" yaml:"total_habits"`
	Daily         int `json:"daily_habits" yaml:"daily_habits"`
	Weekly        int `json:"weekly_habits" yaml:"weekly_habits"`
	Broken        int `json:"broken_habits" yaml:"broken_habits"`
	LongestStreak int `json:"longest_streak" yaml:"longest_streak"`
	// CompletionRate is the percentage of habits that are not broken, 0 when there are no habits.
	CompletionRate float64 `json:"completion_rate" yaml:"completion_rate"`
	AverageStreak  float64 `json:"average_streak" yaml:"average_streak"`
}

// FilterByPeriodicity keeps the habits with the given periodicity, preserving order.
func FilterByPeriodicity(habits []*models.Habit, period models.Periodicity) []*models.Habit {
	out := []*models.Habit{}
	for _, h := range habits {
		if h.Periodicity() == period {
			out = append(out, h)
		}
	}
	return out
}

func DailyHabits(habits []*models.Habit) []*models.Habit {
	return FilterByPeriodicity(habits, models.Daily)
}

func WeeklyHabits(habits []*models.Habit) []*models.Habit {
	return FilterByPeriodicity(habits, models.Weekly)
}

// LongestStreak is the highest current streak among habits, 0 for none.
func LongestStreak(habits []*models.Habit) int {
	longest := 0
	for _, h := range habits {
		if s := h.Streak(); s > longest {
			longest = s
		}
	}
	return longest
}

// Find returns the first habit whose name matches exactly.
func Find(habits []*models.Habit, name string) (*models.Habit, bool) {
	for _, h := range habits {
		if h.Name() == name {
			return h, true
		}
	}
	return nil, false
}

// StreakFor is the streak of the first habit named name, or 0 when no habit matches.
func StreakFor(habits []*models.Habit, name string) int {
	h, ok := Find(habits, name)
	if !ok {
		return 0
	}
	return h.Streak()
}

// Names lists habit names in input order, duplicates included.
func Names(habits []*models.Habit) []string {
	names := make([]string, 0, len(habits))
	for _, h := range habits {
		names = append(names, h.Name())
	}
	return names
}

// Summarize computes counts, rates and extrema. Each habit's streak is computed once.
func Summarize(habits []*models.Habit) Summary {
	s := Summary{Total: len(habits)}
	if s.Total == 0 {
		return s
	}

	streakSum := 0
	for _, h := range habits {
		switch h.Periodicity() {
		case models.Daily:
			s.Daily++
		case models.Weekly:
			s.Weekly++
		}
		if h.IsBroken() {
			s.Broken++
		}

		streak := h.Streak()
		streakSum += streak
		if streak > s.LongestStreak {
			s.LongestStreak = streak
		}
	}

	total := float64(s.Total)
	s.CompletionRate = float64(s.Total-s.Broken) / total * 100
	s.AverageStreak = float64(streakSum) / total
	return s
}
