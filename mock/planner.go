package mock

import (
	"context"

	"github.com/fwojciec/docplan"
)

var _ docplan.Planner = (*Planner)(nil)

// Planner is a mock implementation of docplan.Planner.
type Planner struct {
	ProposeFn func(ctx context.Context, projectName, startURL, html string) (*docplan.Plan, error)
	RepairFn  func(ctx context.Context, plan *docplan.Plan, fault *docplan.MismatchError) (*docplan.PlanUpdate, error)
}

func (p *Planner) Propose(ctx context.Context, projectName, startURL, html string) (*docplan.Plan, error) {
	return p.ProposeFn(ctx, projectName, startURL, html)
}

func (p *Planner) Repair(ctx context.Context, plan *docplan.Plan, fault *docplan.MismatchError) (*docplan.PlanUpdate, error) {
	return p.RepairFn(ctx, plan, fault)
}

var _ docplan.Comparer = (*Comparer)(nil)

// Comparer is a mock implementation of docplan.Comparer.
type Comparer struct {
	CompareFn func(ctx context.Context, a, b string) (*docplan.Verdict, error)
}

func (c *Comparer) Compare(ctx context.Context, a, b string) (*docplan.Verdict, error) {
	return c.CompareFn(ctx, a, b)
}
