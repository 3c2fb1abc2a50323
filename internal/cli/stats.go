package cli

import (
	"fmt"

	"github.com/habita/habita/internal/format"
	"github.com/habita/habita/internal/stats"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	cats, err := ctx.Store.GetAllCategories()
	if err != nil {
		return err
	}
	records, err := ctx.Store.GetAllRecords()
	if err != nil {
		return err
	}

	s := stats.Compute(cats, records)
	if s.Completed == 0 {
		fmt.Println("Nothing to analyze yet. Complete a tracker first.")
		return nil
	}

	fmt.Printf("Trackers completed:  %d\n", s.Completed)
	fmt.Printf("Perfect days:        %s\n", format.Days(s.PerfectDays))
	fmt.Printf("Best period:         %s\n", format.Days(s.BestPeriod))
	fmt.Printf("Average per day:     %.2f\n", s.Average)
	return nil
}
