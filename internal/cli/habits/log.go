package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

const logNameWidth = 20

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	habits, err := ctx.LoadHabits()
	if err != nil {
		return err
	}

	if c.Habit != "" {
		h, ok := analytics.Find(habits, c.Habit)
		if !ok {
			return fmt.Errorf("habit %q not found", c.Habit)
		}
		habits = []*models.Habit{h}
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	today := ctx.CurrentTime()
	start := today.AddDate(0, 0, -(c.Days - 1))

	ctx.Printf("Habit log (last %d days):\n\n", c.Days)

	var header strings.Builder
	header.WriteString(fmt.Sprintf("%-*s", logNameWidth, "Habit"))
	for i := 0; i < c.Days; i++ {
		header.WriteString(fmt.Sprintf(" %5s", start.AddDate(0, 0, i).Format("01/02")))
	}
	ctx.Println(header.String())
	ctx.Println(strings.Repeat("-", logNameWidth+6*c.Days))

	for _, h := range habits {
		// days back from today that have at least one completion
		done := make(map[int]bool)
		for _, completed := range h.Completions() {
			done[utils.DaysBetween(today, completed)] = true
		}

		var row strings.Builder
		row.WriteString(truncateName(h.Name(), logNameWidth))
		for i := 0; i < c.Days; i++ {
			if done[c.Days-1-i] {
				row.WriteString("  x   ")
			} else {
				row.WriteString("  .   ")
			}
		}
		ctx.Println(strings.TrimRight(row.String(), " "))
	}
	return nil
}

// truncateName pads or cuts name to exactly width runes.
func truncateName(name string, width int) string {
	runes := []rune(name)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return name + strings.Repeat(" ", width-len(runes))
}
