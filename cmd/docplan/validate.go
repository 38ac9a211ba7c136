package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/fwojciec/docplan"
)

// Run executes the validate command.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	var plan *docplan.Plan
	if c.Plan != "" {
		var err error
		if plan, err = deps.Plans.Find(c.Plan); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docplan.ErrorMessage(err))
			return err
		}
	}

	if c.Samples > 0 {
		deps.Validator.SampleSize = c.Samples
	}
	if c.Seed != 0 {
		deps.Validator.Rand = rand.New(rand.NewPCG(c.Seed, c.Seed))
	}

	report, err := deps.Validator.Validate(deps.Ctx, c.Name, plan)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Validating %d of %d artifacts (content: %s)\n",
		len(report.Samples), report.Artifacts, report.Plan.ContentSelector)
	for _, s := range report.Samples {
		switch {
		case s.Err != nil:
			fmt.Fprintf(deps.Stdout, "FAIL  %s  %v\n", s.Filename, s.Err)
		case s.Passed():
			fmt.Fprintf(deps.Stdout, "PASS  %s  %.0f%%  %s\n", s.Filename, s.Verdict.Confidence*100, s.Verdict.Reason)
		default:
			fmt.Fprintf(deps.Stdout, "FAIL  %s  %.0f%%  %s\n", s.Filename, s.Verdict.Confidence*100, s.Verdict.Reason)
		}
	}
	fmt.Fprintf(deps.Stdout, "Passed %d/%d samples\n", report.Passed, len(report.Samples))
	return nil
}
