package models

import (
	"fmt"
	"time"
)

// HabitRecord is the persisted shape of a Habit.
type HabitRecord struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Periodicity Periodicity `json:"periodicity" yaml:"periodicity"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
	Completions []time.Time `json:"completions" yaml:"completions"`
}

// Record snapshots the habit for a storage adapter.
func (h *Habit) Record() HabitRecord {
	return HabitRecord{
		ID:          h.id,
		Name:        h.name,
		Periodicity: h.periodicity,
		CreatedAt:   h.createdAt,
		Completions: h.Completions(),
	}
}

// FromRecord rebuilds a Habit loaded from storage. The habit reads time.Now until SetClock is called.
func FromRecord(rec HabitRecord) (*Habit, error) {
	if !rec.Periodicity.IsValid() {
		return nil, fmt.Errorf("habit %s: %w: %q", rec.ID, ErrInvalidPeriodicity, string(rec.Periodicity))
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("habit %q has no id", rec.Name)
	}

	completions := make([]time.Time, len(rec.Completions))
	copy(completions, rec.Completions)

	return &Habit{
		id:          rec.ID,
		name:        rec.Name,
		periodicity: rec.Periodicity,
		createdAt:   rec.CreatedAt,
		completions: completions,
		clock:       time.Now,
	}, nil
}
