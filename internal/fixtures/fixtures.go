// Package fixtures builds a reproducible sample collection for demos and tests.
package fixtures

import (
	"math/rand/v2"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// Definition is one predefined habit and how often the generator completes it.
type Definition struct {
	Name        string
	Periodicity models.Periodicity
	Rate        float64
}

var Definitions = []Definition{
	{Name: "Morning Exercise", Periodicity: models.Daily, Rate: 0.85},
	{Name: "Read 30 Minutes", Periodicity: models.Daily, Rate: 0.75},
	{Name: "Weekly Planning", Periodicity: models.Weekly, Rate: 0.95},
	{Name: "Meditation", Periodicity: models.Daily, Rate: 0.65},
	{Name: "Family Dinner", Periodicity: models.Weekly, Rate: 0.90},
}

const (
	DefaultWeeks = 4
	DefaultSeed  = 42

	// completions land between 06:00 and 21:59
	firstHour = 6
	hourSpan  = 16
)

type Options struct {
	Seed  uint64
	End   time.Time
	Weeks int
}

// Generate returns one habit per Definition, created Weeks weeks before End,
// with completions drawn from a PCG source seeded with Seed. The same options
// always produce the same completions; ids are fresh each call.
func Generate(opts Options) ([]*models.Habit, error) {
	if opts.Weeks <= 0 {
		opts.Weeks = DefaultWeeks
	}
	if opts.End.IsZero() {
		opts.End = time.Now()
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	start := opts.End.AddDate(0, 0, -7*opts.Weeks)
	days := 7 * opts.Weeks

	habits := make([]*models.Habit, 0, len(Definitions))
	for i, def := range Definitions {
		// keep creation order stable
		created := start.Add(time.Duration(i) * time.Second)
		h, err := models.NewHabitWithClock(def.Name, def.Periodicity, func() time.Time { return created })
		if err != nil {
			return nil, err
		}
		h.SetClock(nil)

		step := 1
		if def.Periodicity == models.Weekly {
			step = 7
		}
		for back := days - step; back >= 0; back -= step {
			if rng.Float64() >= def.Rate {
				continue
			}
			h.CompleteAt(completionTime(rng, opts.End, back))
		}
		habits = append(habits, h)
	}
	return habits, nil
}

// completionTime picks a time of day on the date back days before end, never later than end.
func completionTime(rng *rand.Rand, end time.Time, back int) time.Time {
	y, m, d := end.AddDate(0, 0, -back).Date()
	t := time.Date(y, m, d, firstHour+rng.IntN(hourSpan), rng.IntN(60), 0, 0, end.Location())
	if t.After(end) {
		return end
	}
	return t
}
