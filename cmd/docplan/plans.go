package main

import (
	"fmt"
	"text/tabwriter"
)

// Run executes the plans command. It lists the declared manual plans and
// the projects already scraped into the output directory.
func (c *PlansCmd) Run(deps *Dependencies) error {
	names := deps.Plans.Names()
	if len(names) == 0 {
		fmt.Fprintln(deps.Stdout, "No manual plans declared. Set DOCPLAN_PLANS to a plan file.")
	} else {
		w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
		for _, name := range names {
			plan := deps.Plans[name]
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, plan.FetchStrategy, plan.StartURL)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if deps.Projects == nil {
		return nil
	}
	projects, err := deps.Projects.FindProjects(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if len(projects) == 0 {
		return nil
	}

	fmt.Fprintln(deps.Stdout, "\nScraped projects:")
	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, p := range projects {
		fmt.Fprintf(w, "  %s\t%s\n", p.Name, p.StartURL)
	}
	return w.Flush()
}
