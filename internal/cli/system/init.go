package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing data file before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	return ctx.WithLock(func() error {
		if c.Force {
			if err := c.reset(ctx); err != nil {
				return err
			}
		}

		if err := ctx.Store.Init(); err != nil {
			return err
		}
		ctx.Printf("Initialized habitual storage at: %s\n", ctx.Store.GetConfigPath())
		return nil
	})
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return fmt.Errorf("--force only resets file storage; drop the %q schema to reset PostgreSQL", "habitual")
	}

	path := ctx.Store.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	// Close first so the file is not held open
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", path)
	return nil
}
