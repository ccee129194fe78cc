// Package memory is a process-local storage.Provider used by tests and dry runs.
package memory

import (
	"fmt"
	"sync"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]models.HabitRecord
	loaded  bool
}

func New() *Store {
	return &Store{records: make(map[string]models.HabitRecord)}
}

func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	return nil
}

func (s *Store) Load() error {
	return s.Init()
}

func (s *Store) Close() error { return nil }

func (s *Store) GetConfigPath() string { return "memory" }

func (s *Store) SaveHabit(habit *models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return fmt.Errorf("storage not loaded")
	}

	rec := habit.Record()
	if existing, ok := s.records[rec.ID]; ok {
		rec.CreatedAt = existing.CreatedAt
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *Store) LoadAllHabits() ([]*models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, fmt.Errorf("storage not loaded")
	}

	habits := make([]*models.Habit, 0, len(s.records))
	for _, rec := range s.records {
		h, err := models.FromRecord(rec)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	storage.SortHabits(habits)
	return habits, nil
}

func (s *Store) DeleteHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return fmt.Errorf("storage not loaded")
	}

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrHabitNotFound, id)
	}
	delete(s.records, id)
	return nil
}
