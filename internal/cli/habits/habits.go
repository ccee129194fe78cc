package habits

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	okMark     = color.New(color.FgGreen).Sprint("✓")
	brokenMark = color.New(color.FgRed).Sprint("✗")
)

type HabitCmd struct {
	Create   HabitCreateCmd   `cmd:"" help:"Create a new habit."`
	Complete HabitCompleteCmd `cmd:"" help:"Mark a habit as completed."`
	List     HabitListCmd     `cmd:"" help:"List habits with their streak and status." default:"1"`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit and its history."`
	Log      HabitLogCmd      `cmd:"" help:"Show habit log (ASCII history)."`
	Export   HabitExportCmd   `cmd:"" help:"Export habits as JSON or YAML."`
}

type HabitCreateCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Periodicity string `short:"p" help:"How often the habit is due (daily or weekly)." default:"daily"`
}

func (c *HabitCreateCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.NewHabit(c.Name, c.Periodicity)
	if err != nil {
		return err
	}

	return ctx.WithLock(func() error {
		existing, err := ctx.LoadHabits()
		if err != nil {
			return err
		}
		if _, ok := analytics.Find(existing, habit.Name()); ok {
			ctx.Printf("Note: another habit is already named %q; commands that take a name use the oldest one.\n", habit.Name())
		}

		if err := ctx.Store.SaveHabit(habit); err != nil {
			return err
		}
		ctx.Printf("%s Created: %s\n", okMark, habit.Describe())
		return nil
	})
}

type HabitCompleteCmd struct {
	Name string `arg:"" help:"Habit name."`
	At   string `help:"When it was completed, RFC3339 or YYYY-MM-DD (default: now)."`
}

func (c *HabitCompleteCmd) completionTime(now time.Time) (time.Time, error) {
	if c.At == "" {
		return now, nil
	}
	at, err := utils.ParseCompletionTime(c.At, now.Location())
	if err != nil {
		return time.Time{}, err
	}
	if utils.DaysBetween(at, now) > 0 {
		return time.Time{}, fmt.Errorf("cannot complete a habit in the future: %s", c.At)
	}
	return at, nil
}

func (c *HabitCompleteCmd) Run(ctx *cli.Context) error {
	return ctx.WithLock(func() error {
		habit, err := ctx.FindHabit(c.Name)
		if err != nil {
			return err
		}

		at, err := c.completionTime(ctx.CurrentTime())
		if err != nil {
			return err
		}
		habit.CompleteAt(at)

		if err := ctx.Store.SaveHabit(habit); err != nil {
			return err
		}
		ctx.Printf("%s Completed: %s\n", okMark, habit.Name())
		ctx.Printf("  Current streak: %d\n", habit.Streak())
		return nil
	})
}

type HabitListCmd struct {
	Periodicity string `short:"p" help:"Only list daily or weekly habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.LoadHabits()
	if err != nil {
		return err
	}

	if c.Periodicity != "" {
		p, err := models.ParsePeriodicity(c.Periodicity)
		if err != nil {
			return err
		}
		habits = analytics.FilterByPeriodicity(habits, p)
	}

	if len(habits) == 0 {
		ctx.Println("No habits found. Create one with 'habitual habit create'.")
		return nil
	}

	ctx.Println("Your habits:")
	for i, h := range habits {
		mark := okMark
		if h.IsBroken() {
			mark = brokenMark
		}
		ctx.Printf("  %s %d. %s\n", mark, i+1, h.Describe())
	}
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name to delete."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	return ctx.WithLock(func() error {
		habit, err := ctx.FindHabit(c.Name)
		if err != nil {
			return err
		}

		if !c.Yes {
			ok, err := ctx.Confirm(fmt.Sprintf("Delete %q and its %d completion(s)?", habit.Name(), len(habit.Completions())))
			if err != nil {
				return err
			}
			if !ok {
				ctx.Println("Delete cancelled.")
				return nil
			}
		}

		if err := ctx.Store.DeleteHabit(habit.ID()); err != nil {
			return err
		}
		ctx.Printf("%s Deleted habit: %s\n", okMark, habit.Name())
		return nil
	})
}
