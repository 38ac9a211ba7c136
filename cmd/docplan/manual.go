package main

import (
	"fmt"

	"github.com/fwojciec/docplan"
)

// Run executes the manual command.
func (c *ManualCmd) Run(deps *Dependencies) error {
	plan, err := deps.Plans.Find(c.Plan)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docplan.ErrorMessage(err))
		fmt.Fprintln(deps.Stderr, "Run 'docplan plans' to list declared plans")
		return err
	}

	if c.Concurrency > 0 {
		deps.Scheduler.Concurrency = c.Concurrency
	}
	deps.Runner.ManualEntryFetch = c.EntryFetch
	deps.Runner.Progress = progressPrinter(deps.Stdout, deps.Stderr)

	fmt.Fprintf(deps.Stdout, "Running manual plan %q for %s\n", c.Plan, plan.StartURL)

	run, err := deps.Runner.Manual(deps.Ctx, plan)
	printRun(deps.Stdout, deps.Stderr, run, err)
	return err
}
