package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

const jsonStoreVersion = 1

// Document is the on-disk layout of a JSON store.
type Document struct {
	Version int                  `json:"version"`
	Habits  []models.HabitRecord `json:"habits"`
}

// JSONStore keeps every habit in a single JSON file, rewritten on each change.
type JSONStore struct {
	path string
	doc  *Document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Re-running init keeps existing data
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	doc := &Document{Version: jsonStoreVersion, Habits: []models.HabitRecord{}}
	if err := s.write(doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitual init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonStoreVersion {
		return fmt.Errorf("storage version (%d) is newer than supported version (%d) - please upgrade the application", doc.Version, jsonStoreVersion)
	}
	if doc.Habits == nil {
		doc.Habits = []models.HabitRecord{}
	}

	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// write serializes doc to a sibling temp file and renames it over the store.
func (s *JSONStore) write(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

// mutate applies change to a fresh read of the file and keeps the result only once it is written.
func (s *JSONStore) mutate(change func(habits []models.HabitRecord) ([]models.HabitRecord, error)) error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	if err := s.Load(); err != nil {
		return err
	}

	habits, err := change(slices.Clone(s.doc.Habits))
	if err != nil {
		return err
	}
	next := &Document{Version: s.doc.Version, Habits: habits}
	if err := s.write(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func indexOf(habits []models.HabitRecord, id string) int {
	return slices.IndexFunc(habits, func(rec models.HabitRecord) bool { return rec.ID == id })
}

func (s *JSONStore) SaveHabit(habit *models.Habit) error {
	rec := habit.Record()
	err := s.mutate(func(habits []models.HabitRecord) ([]models.HabitRecord, error) {
		if i := indexOf(habits, rec.ID); i >= 0 {
			// creation time is immutable
			rec.CreatedAt = habits[i].CreatedAt
			habits[i] = rec
			return habits, nil
		}
		return append(habits, rec), nil
	})
	if err != nil {
		return err
	}
	logger.Debug("Saved habit", "id", rec.ID, "completions", len(rec.Completions))
	return nil
}

func (s *JSONStore) LoadAllHabits() ([]*models.Habit, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	habits := make([]*models.Habit, 0, len(s.doc.Habits))
	for _, rec := range s.doc.Habits {
		h, err := models.FromRecord(rec)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}

	SortHabits(habits)
	return habits, nil
}

func (s *JSONStore) DeleteHabit(id string) error {
	err := s.mutate(func(habits []models.HabitRecord) ([]models.HabitRecord, error) {
		i := indexOf(habits, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
		}
		return slices.Delete(habits, i, i+1), nil
	})
	if err != nil {
		return err
	}
	logger.Debug("Deleted habit", "id", id)
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
