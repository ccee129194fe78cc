package system

import (
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/fixtures"
)

type GenerateCmd struct {
	Seed  uint64 `help:"Random seed; the same seed reproduces the same history." default:"42"`
	Weeks int    `help:"Weeks of history to generate." default:"4"`
}

func (c *GenerateCmd) Run(ctx *cli.Context) error {
	habits, err := fixtures.Generate(fixtures.Options{Seed: c.Seed, End: ctx.CurrentTime(), Weeks: c.Weeks})
	if err != nil {
		return err
	}

	return ctx.WithLock(func() error {
		ctx.Printf("Generating sample data (%d weeks, seed %d)...\n", c.Weeks, c.Seed)
		for _, h := range habits {
			if err := ctx.Store.SaveHabit(h); err != nil {
				return err
			}
			ctx.Printf("  • %s: %d completions\n", h.Name(), len(h.Completions()))
		}
		ctx.Printf("✓ Generated %d habits\n", len(habits))
		ctx.Println("  Run 'habitual habit list' and 'habitual analytics' to see the results.")
		return nil
	})
}
