package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/docplan"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := docplan.RunFilter{Limit: c.Limit}
	if c.Name != "" {
		filter.ProjectName = &c.Name
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docplan.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'docplan auto' or 'docplan manual' to start one.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d attempt(s)\t%d/%d written",
			r.StartedAt.Local().Format(time.DateTime),
			r.ProjectName,
			r.Mode,
			r.Status,
			r.Attempts,
			r.Written,
			r.Discovered,
		)
		if r.Error != "" {
			fmt.Fprintf(w, "\t%s", r.Error)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
