package resilience

import (
	"context"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Outcome struct {
	Name string
	Err  error
}

// AllSettled runs every task concurrently and waits for all of them. A
// failing or panicking task never affects the others; outcomes keep the
// order of tasks.
func AllSettled(ctx context.Context, tasks ...Task) []Outcome {
	outcomes := make([]Outcome, len(tasks))
	var wg conc.WaitGroup
	for i, task := range tasks {
		outcomes[i].Name = task.Name
		if task.Run == nil {
			continue
		}
		wg.Go(func() {
			var catcher panics.Catcher
			catcher.Try(func() {
				outcomes[i].Err = task.Run(ctx)
			})
			if recovered := catcher.Recovered(); recovered != nil {
				outcomes[i].Err = recovered.AsError()
			}
		})
	}
	wg.Wait()
	return outcomes
}

// Failed lists the names of outcomes that ended with an error.
func Failed(outcomes []Outcome) []string {
	var out []string
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			out = append(out, outcome.Name)
		}
	}
	return out
}
