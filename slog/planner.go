package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docplan"
)

// Ensure LoggingPlanner implements docplan.Planner.
var _ docplan.Planner = (*LoggingPlanner)(nil)

// LoggingPlanner wraps a Planner with logging of proposed and repaired locators.
type LoggingPlanner struct {
	next   docplan.Planner
	logger *slog.Logger
}

// NewLoggingPlanner creates a new LoggingPlanner.
func NewLoggingPlanner(next docplan.Planner, logger *slog.Logger) *LoggingPlanner {
	return &LoggingPlanner{next: next, logger: logger}
}

// Propose delegates to the wrapped planner and logs the resulting plan.
func (p *LoggingPlanner) Propose(ctx context.Context, projectName, startURL, html string) (plan *docplan.Plan, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"project", projectName,
			"url", startURL,
			"duration", time.Since(begin),
		}
		if plan != nil {
			attrs = append(attrs,
				"strategy", plan.FetchStrategy,
				"nav", plan.NavSelector,
				"content", plan.ContentSelector,
			)
		}
		p.logger.Info("propose plan", append(attrs, "err", err)...)
	}(time.Now())
	return p.next.Propose(ctx, projectName, startURL, html)
}

// Repair delegates to the wrapped planner and logs the proposed correction.
func (p *LoggingPlanner) Repair(ctx context.Context, plan *docplan.Plan, fault *docplan.MismatchError) (upd *docplan.PlanUpdate, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"project", plan.ProjectName,
			"locator", fault.Locator,
			"duration", time.Since(begin),
		}
		switch {
		case upd == nil:
			attrs = append(attrs, "update", "(none)")
		case upd.NavSelector != nil:
			attrs = append(attrs, "nav", *upd.NavSelector)
		}
		if upd != nil && upd.ContentSelector != nil {
			attrs = append(attrs, "content", *upd.ContentSelector)
		}
		p.logger.Info("repair plan", append(attrs, "err", err)...)
	}(time.Now())
	return p.next.Repair(ctx, plan, fault)
}

// Ensure LoggingComparer implements docplan.Comparer.
var _ docplan.Comparer = (*LoggingComparer)(nil)

// LoggingComparer wraps a Comparer with logging of each verdict.
type LoggingComparer struct {
	next   docplan.Comparer
	logger *slog.Logger
}

// NewLoggingComparer creates a new LoggingComparer.
func NewLoggingComparer(next docplan.Comparer, logger *slog.Logger) *LoggingComparer {
	return &LoggingComparer{next: next, logger: logger}
}

// Compare delegates to the wrapped comparer and logs the verdict.
func (c *LoggingComparer) Compare(ctx context.Context, a, b string) (v *docplan.Verdict, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if v != nil {
			attrs = append(attrs, "match", v.IsMatch, "confidence", v.Confidence)
		}
		c.logger.Info("compare", append(attrs, "err", err)...)
	}(time.Now())
	return c.next.Compare(ctx, a, b)
}
