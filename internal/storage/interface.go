package storage

import (
	"errors"
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// ErrHabitNotFound is returned when deleting an id that is not stored.
var ErrHabitNotFound = errors.New("habit not found")

// Provider persists habits and their completion history.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	SaveHabit(*models.Habit) error
	LoadAllHabits() ([]*models.Habit, error)
	DeleteHabit(id string) error

	// Utils
	GetConfigPath() string
}

// SortHabits orders habits by creation time, then id, which is the order every provider returns.
func SortHabits(habits []*models.Habit) {
	sort.SliceStable(habits, func(i, j int) bool {
		a, b := habits[i].CreatedAt(), habits[j].CreatedAt()
		if !a.Equal(b) {
			return a.Before(b)
		}
		return habits[i].ID() < habits[j].ID()
	})
}

// FormatTime encodes a timestamp for the SQL backends. The UTC offset is kept so a
// completion reloads onto the same calendar day it was recorded on.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTime decodes a timestamp written by FormatTime.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
