package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/docplan"
	"github.com/fwojciec/docplan/crawl"
)

// progressPrinter reports discovery and skips while a plan executes.
func progressPrinter(stdout, stderr io.Writer) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(stdout, "  Found %d URLs\n", event.Total)
		case crawl.ProgressSkipped:
			fmt.Fprintf(stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 80), event.Error)
		case crawl.ProgressWritten, crawl.ProgressFinished:
		}
	}
}

// printRun writes the plan in effect and the page counts of a run.
// On failure it names the locator and attempt at which the run gave up.
func printRun(stdout, stderr io.Writer, run *docplan.Run, err error) {
	if run == nil {
		return
	}
	if run.Attempts > 0 {
		fmt.Fprintf(stdout, "Strategy:   %s\n", run.Strategy)
		fmt.Fprintf(stdout, "Navigation: %s\n", run.NavSelector)
		fmt.Fprintf(stdout, "Content:    %s\n", run.ContentSelector)
		fmt.Fprintf(stdout, "Pages:      %d discovered, %d written, %d skipped\n", run.Discovered, run.Written, run.Skipped)
		if run.Bytes > 0 {
			fmt.Fprintf(stdout, "Size:       %s\n", crawl.FormatBytes(run.Bytes))
		}
	}

	if err == nil {
		fmt.Fprintf(stdout, "Run %s succeeded after %d attempt(s)\n", run.ProjectName, run.Attempts)
		return
	}

	if fault, ok := docplan.AsMismatch(err); ok {
		fmt.Fprintf(stderr, "Gave up on locator %q at attempt %d\n", fault.Locator, run.Attempts)
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
}
