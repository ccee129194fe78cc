package habits

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/cli"
)

type AnalyticsCmd struct {
	Habit string `help:"Only report the current streak of the named habit."`
}

func (c *AnalyticsCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.LoadHabits()
	if err != nil {
		return err
	}

	if c.Habit != "" {
		if _, ok := analytics.Find(habits, c.Habit); !ok {
			return fmt.Errorf("habit %q not found", c.Habit)
		}
		ctx.Printf("%s: streak %d\n", c.Habit, analytics.StreakFor(habits, c.Habit))
		return nil
	}

	if len(habits) == 0 {
		ctx.Println("No habits to analyze.")
		return nil
	}

	s := analytics.Summarize(habits)
	ctx.Println("Analytics report:")
	ctx.Printf("  Total habits:    %d\n", s.Total)
	ctx.Printf("  Daily habits:    %d\n", s.Daily)
	ctx.Printf("  Weekly habits:   %d\n", s.Weekly)
	ctx.Printf("  Longest streak:  %d\n", s.LongestStreak)
	ctx.Printf("  Broken habits:   %d\n", s.Broken)
	ctx.Printf("  Completion rate: %.1f%%\n", s.CompletionRate)
	ctx.Printf("  Average streak:  %.1f\n", s.AverageStreak)

	ctx.Println()
	ctx.Println("  Individual habits:")
	for _, h := range habits {
		ctx.Printf("    • %s (%s): streak %d, %s\n", h.Name(), h.Periodicity(), h.Streak(), h.Status())
	}
	return nil
}
