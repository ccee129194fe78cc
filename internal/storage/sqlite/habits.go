package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// SaveHabit upserts the habit row and replaces its completion history.
func (s *Store) SaveHabit(habit *models.Habit) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}
	rec := habit.Record()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO habits (id, name, periodicity, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			periodicity = excluded.periodicity`,
		rec.ID, rec.Name, string(rec.Periodicity), storage.FormatTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save habit %s: %w", rec.ID, err)
	}

	if _, err := tx.Exec("DELETE FROM completions WHERE habit_id = ?", rec.ID); err != nil {
		return fmt.Errorf("failed to clear completions for habit %s: %w", rec.ID, err)
	}

	stmt, err := tx.Prepare("INSERT INTO completions (habit_id, completed_at) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range rec.Completions {
		if _, err := stmt.Exec(rec.ID, storage.FormatTime(c)); err != nil {
			return fmt.Errorf("failed to save completion for habit %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Debug("Saved habit", "id", rec.ID, "completions", len(rec.Completions))
	return nil
}

func (s *Store) LoadAllHabits() ([]*models.Habit, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	completions, err := s.loadCompletions()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT id, name, periodicity, created_at FROM habits")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []*models.Habit{}
	for rows.Next() {
		var rec models.HabitRecord
		var periodicity, createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &periodicity, &createdAt); err != nil {
			return nil, err
		}

		rec.Periodicity = models.Periodicity(periodicity)
		rec.CreatedAt, err = storage.ParseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for habit %s: %w", rec.ID, err)
		}
		rec.Completions = completions[rec.ID]

		h, err := models.FromRecord(rec)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	storage.SortHabits(habits)
	return habits, nil
}

func (s *Store) loadCompletions() (map[string][]time.Time, error) {
	rows, err := s.db.Query("SELECT habit_id, completed_at FROM completions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byHabit := make(map[string][]time.Time)
	for rows.Next() {
		var habitID, completedAt string
		if err := rows.Scan(&habitID, &completedAt); err != nil {
			return nil, err
		}
		t, err := storage.ParseTime(completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completion for habit %s: %w", habitID, err)
		}
		byHabit[habitID] = append(byHabit[habitID], t)
	}
	return byHabit, rows.Err()
}

// DeleteHabit removes the habit and its completions.
func (s *Store) DeleteHabit(id string) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM completions WHERE habit_id = ?", id); err != nil {
		return err
	}

	result, err := tx.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrHabitNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Debug("Deleted habit", "id", id)
	return nil
}
