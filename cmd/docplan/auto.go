package main

import "fmt"

// Run executes the auto command.
func (c *AutoCmd) Run(deps *Dependencies) error {
	if c.Concurrency > 0 {
		deps.Scheduler.Concurrency = c.Concurrency
	}
	if c.MaxAttempts > 0 {
		deps.Runner.MaxAttempts = c.MaxAttempts
	}
	deps.Runner.Progress = progressPrinter(deps.Stdout, deps.Stderr)

	fmt.Fprintf(deps.Stdout, "Planning %q from %s\n", c.Name, c.URL)

	run, err := deps.Runner.Auto(deps.Ctx, c.Name, c.URL)
	printRun(deps.Stdout, deps.Stderr, run, err)
	return err
}
