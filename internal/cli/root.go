package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/lock"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

type Context struct {
	Store storage.Provider
	// ConfigDir holds the lockfile.
	ConfigDir string

	Out io.Writer
	In  io.Reader
	Now models.Clock
}

func NewContext(store storage.Provider, configDir string) *Context {
	return &Context{
		Store:     store,
		ConfigDir: configDir,
		Out:       os.Stdout,
		In:        os.Stdin,
		Now:       time.Now,
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Clock is Now, falling back to the wall clock when unset.
func (c *Context) Clock() models.Clock {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

func (c *Context) CurrentTime() time.Time {
	return c.Clock()()
}

// LoadHabits loads every habit and points it at the context clock.
func (c *Context) LoadHabits() ([]*models.Habit, error) {
	habits, err := c.Store.LoadAllHabits()
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	for _, h := range habits {
		h.SetClock(c.Clock())
	}
	return habits, nil
}

// FindHabit returns the first habit whose name matches exactly.
func (c *Context) FindHabit(name string) (*models.Habit, error) {
	habits, err := c.LoadHabits()
	if err != nil {
		return nil, err
	}
	h, ok := analytics.Find(habits, name)
	if !ok {
		return nil, fmt.Errorf("habit %q not found", name)
	}
	return h, nil
}

// NewHabit validates user input and builds a habit on the context clock.
func (c *Context) NewHabit(name, periodicity string) (*models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("habit name cannot be empty")
	}
	p, err := models.ParsePeriodicity(periodicity)
	if err != nil {
		return nil, err
	}
	return models.NewHabitWithClock(name, p, c.Clock())
}

// WithLock runs fn while holding the data store lockfile.
func (c *Context) WithLock(fn func() error) error {
	l, err := lock.Acquire(c.ConfigDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release lock", "error", err)
		}
	}()
	return fn()
}

// Confirm asks a y/N question on the context streams.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// IsSQLite reports whether backups apply to the current store.
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// PerformAutomaticBackup snapshots a SQLite store and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
