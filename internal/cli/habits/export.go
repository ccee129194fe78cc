package habits

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

// ExportedHabit is a stored habit plus its metrics at export time.
type ExportedHabit struct {
	models.HabitRecord `yaml:",inline"`
	Streak             int    `json:"streak" yaml:"streak"`
	Status             string `json:"status" yaml:"status"`
}

type Export struct {
	ExportedAt time.Time       `json:"exported_at" yaml:"exported_at"`
	Habits     []ExportedHabit `json:"habits" yaml:"habits"`
}

type HabitExportCmd struct {
	Format string `short:"f" help:"Output format." enum:"json,yaml" default:"json"`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *HabitExportCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.LoadHabits()
	if err != nil {
		return err
	}

	doc := Export{ExportedAt: ctx.CurrentTime(), Habits: make([]ExportedHabit, 0, len(habits))}
	for _, h := range habits {
		doc.Habits = append(doc.Habits, ExportedHabit{
			HabitRecord: h.Record(),
			Streak:      h.Streak(),
			Status:      h.Status(),
		})
	}

	out := ctx.Out
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := encode(out, c.Format, doc); err != nil {
		return fmt.Errorf("failed to export habits: %w", err)
	}
	if c.Output != "" {
		ctx.Printf("%s Exported %d habit(s) to %s\n", okMark, len(doc.Habits), c.Output)
	}
	return nil
}

func encode(w io.Writer, format string, doc Export) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
