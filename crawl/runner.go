package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/docplan"
)

// DefaultMaxAttempts bounds the execution attempts of one run.
const DefaultMaxAttempts = 2

// Executor runs a plan over a discovered URL set.
type Executor interface {
	Execute(ctx context.Context, plan *docplan.Plan, urls []string, progress ProgressFunc) (*Result, error)
}

// Ensure Scheduler implements Executor at compile time.
var _ Executor = (*Scheduler)(nil)

// Runner drives the plan repair loop. The entry page is read once per run;
// every attempt re-discovers links from it under the current plan and hands
// them to the Executor. A locator mismatch in auto mode asks the Planner for
// a corrected plan and tries again until MaxAttempts is reached.
type Runner struct {
	Renderer   docplan.Renderer
	Fetcher    docplan.Fetcher
	Discoverer docplan.LinkDiscoverer
	Executor   Executor
	Planner    docplan.Planner

	// Projects receives project metadata after a successful run. Optional.
	Projects docplan.ProjectStore

	// Runs records every run outcome. Optional.
	Runs docplan.RunService

	// MaxAttempts counts attempts across the whole run. Zero means
	// DefaultMaxAttempts.
	MaxAttempts int

	// ManualEntryFetch reads the entry page of a manual run with Fetcher
	// instead of rendering it.
	ManualEntryFetch bool

	Logger   *slog.Logger
	Progress ProgressFunc
}

// Auto renders startURL, asks the Planner for a plan and executes it,
// repairing the plan on a locator mismatch. The returned run is non-nil
// whenever the inputs were valid, including on failure.
func (r *Runner) Auto(ctx context.Context, projectName, startURL string) (*docplan.Run, error) {
	if projectName == "" {
		return nil, docplan.Errorf(docplan.EINVALID, "project name required")
	}
	if startURL == "" {
		return nil, docplan.Errorf(docplan.EINVALID, "start URL required")
	}
	if r.Planner == nil {
		return nil, docplan.Errorf(docplan.EINVALID, "auto mode requires a planner")
	}

	run := newRun(docplan.ModeAuto, projectName, startURL)

	html, err := r.entryPage(ctx, startURL, false)
	if err != nil {
		return r.finish(ctx, run, err)
	}

	r.logger().Info("proposing plan", "project", projectName, "url", startURL)
	plan, err := r.Planner.Propose(ctx, projectName, startURL, html)
	if err != nil {
		return r.finish(ctx, run, fmt.Errorf("proposing plan: %w", err))
	}
	if plan == nil {
		return r.finish(ctx, run, docplan.Errorf(docplan.EINTERNAL, "planner proposed no plan"))
	}
	if err := plan.Validate(); err != nil {
		return r.finish(ctx, run, fmt.Errorf("proposed plan: %w", err))
	}

	return r.finish(ctx, run, r.loop(ctx, run, *plan, html, true))
}

// Manual executes a human-authored plan as declared. A locator mismatch
// fails the run after the first attempt.
func (r *Runner) Manual(ctx context.Context, plan *docplan.Plan) (*docplan.Run, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	run := newRun(docplan.ModeManual, plan.ProjectName, plan.StartURL)

	html, err := r.entryPage(ctx, plan.StartURL, true)
	if err != nil {
		return r.finish(ctx, run, err)
	}

	return r.finish(ctx, run, r.loop(ctx, run, *plan, html, false))
}

// loop executes plan until it succeeds, fails with a fault that cannot be
// repaired, or runs out of attempts. Each repair yields a new plan value.
func (r *Runner) loop(ctx context.Context, run *docplan.Run, plan docplan.Plan, html string, repair bool) error {
	maxAttempts := r.maxAttempts()

	for attempt := 1; ; attempt++ {
		run.Attempts = attempt
		run.Strategy = plan.FetchStrategy
		run.NavSelector = plan.NavSelector
		run.ContentSelector = plan.ContentSelector

		r.logger().Info("executing plan",
			"attempt", attempt,
			"max", maxAttempts,
			"strategy", plan.FetchStrategy,
			"nav", plan.NavSelector,
			"content", plan.ContentSelector,
			"remove", plan.RemoveSelectors,
		)

		result, err := r.execute(ctx, &plan, html)
		if result != nil {
			run.Discovered = result.Discovered
			run.Written = result.Written
			run.Skipped = result.Skipped
			run.Bytes = result.Bytes
		}
		if err == nil {
			return r.saveProject(ctx, &plan)
		}
		err = fmt.Errorf("attempt %d/%d: %w", attempt, maxAttempts, err)

		fault, ok := docplan.AsMismatch(err)
		if !ok || !repair || attempt >= maxAttempts {
			return err
		}

		r.logger().Warn("locator mismatch, requesting repair", "locator", fault.Locator, "attempt", attempt)
		upd, rerr := r.Planner.Repair(ctx, &plan, fault)
		if rerr != nil {
			return fmt.Errorf("%w: repair refused: %v", err, rerr)
		}
		if upd == nil {
			return fmt.Errorf("%w: no corrected plan available", err)
		}

		next := plan.Apply(*upd)
		if verr := next.Validate(); verr != nil {
			return fmt.Errorf("%w: repaired plan rejected: %v", err, verr)
		}
		r.logger().Info("plan repaired", "nav", next.NavSelector, "content", next.ContentSelector)
		plan = next
	}
}

// execute runs one attempt: discovery from the entry page, then execution.
func (r *Runner) execute(ctx context.Context, plan *docplan.Plan, html string) (*Result, error) {
	urls, err := r.Discoverer.Discover(html, plan)
	if err != nil {
		return nil, err
	}
	r.logger().Info("discovered pages", "count", len(urls), "base", plan.BaseURL)
	return r.Executor.Execute(ctx, plan, urls, r.Progress)
}

func (r *Runner) entryPage(ctx context.Context, url string, manual bool) (string, error) {
	if manual && r.ManualEntryFetch {
		if r.Fetcher == nil {
			return "", docplan.Errorf(docplan.EINVALID, "entry fetch requires a fetcher")
		}
		html, err := r.Fetcher.Fetch(ctx, url)
		if err != nil {
			return "", fmt.Errorf("fetching entry page %s: %w", url, err)
		}
		return html, nil
	}

	if r.Renderer == nil {
		return "", docplan.Errorf(docplan.EINVALID, "entry page requires a renderer")
	}
	html, err := r.Renderer.Render(ctx, url)
	if err != nil {
		return "", fmt.Errorf("rendering entry page %s: %w", url, err)
	}
	return html, nil
}

func (r *Runner) saveProject(ctx context.Context, plan *docplan.Plan) error {
	if r.Projects == nil {
		return nil
	}
	project := &docplan.Project{Name: plan.ProjectName, StartURL: plan.StartURL}
	if err := r.Projects.SaveProject(ctx, project); err != nil {
		return fmt.Errorf("saving project metadata: %w", err)
	}
	return nil
}

// finish stamps the run with its outcome and records it. A recording
// failure is logged and does not change the returned error.
func (r *Runner) finish(ctx context.Context, run *docplan.Run, err error) (*docplan.Run, error) {
	run.FinishedAt = time.Now().UTC()
	run.Status = docplan.RunSucceeded
	if err != nil {
		run.Status = docplan.RunFailed
		run.Error = err.Error()
		r.logger().Error("run failed", "project", run.ProjectName, "attempts", run.Attempts, "err", err)
	} else {
		r.logger().Info("run succeeded", "project", run.ProjectName, "written", run.Written, "skipped", run.Skipped)
	}

	if r.Runs != nil {
		if rerr := r.Runs.CreateRun(context.WithoutCancel(ctx), run); rerr != nil {
			r.logger().Warn("recording run", "err", rerr)
		}
	}
	return run, err
}

func (r *Runner) maxAttempts() int {
	if r.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return r.MaxAttempts
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func newRun(mode docplan.RunMode, projectName, startURL string) *docplan.Run {
	return &docplan.Run{
		ProjectName: projectName,
		StartURL:    startURL,
		Mode:        mode,
		StartedAt:   time.Now().UTC(),
	}
}
