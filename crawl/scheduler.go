// Package crawl executes extraction plans: it schedules page fetches under
// the plan's strategy, runs the plan repair loop, and validates stored output.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/docplan"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps in-flight fetches under the static strategy.
const DefaultConcurrency = 20

// ErrEmptyContent reports a page whose content region was missing or held
// no text after noise removal.
var ErrEmptyContent = errors.New("empty extraction")

// Scheduler fetches every discovered page with the plan's strategy and
// writes one artifact per page. Page-level failures become skips.
type Scheduler struct {
	Fetcher   docplan.Fetcher
	Browser   docplan.Browser
	Extractor docplan.ContentExtractor
	Artifacts docplan.ArtifactStore

	// Limiter paces static fetches per host. Nil means no pacing beyond
	// the concurrency cap.
	Limiter *DomainLimiter

	Logger      *slog.Logger
	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of one execution.
type Result struct {
	Strategy   docplan.FetchStrategy
	Discovered int
	Written    int
	Skipped    int
	Bytes      int
	Skips      []Skip
}

// Skip records a page that produced no artifact.
type Skip struct {
	URL    string
	Reason error
}

// ProgressEvent reports progress during an execution.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressWritten
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting progress. It is never called
// concurrently.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	url   string
	bytes int
	err   error
}

// Execute processes urls under plan. It fails only when urls is empty or
// ctx is canceled; every other failure is recorded as a skip.
func (s *Scheduler) Execute(ctx context.Context, plan *docplan.Plan, urls []string, progress ProgressFunc) (*Result, error) {
	if len(urls) == 0 {
		return nil, docplan.Errorf(docplan.ENOTFOUND, "no pages discovered under %s", plan.BaseURL)
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	result := &Result{Strategy: plan.FetchStrategy, Discovered: len(urls)}
	progress(ProgressEvent{Type: ProgressStarted, Total: len(urls)})

	record := func(r pageResult) {
		completed := result.Written + result.Skipped + 1
		if r.err != nil {
			result.Skipped++
			result.Skips = append(result.Skips, Skip{URL: r.url, Reason: r.err})
			s.logger().Warn("page skipped", "url", r.url, "err", r.err)
			progress(ProgressEvent{Type: ProgressSkipped, Completed: completed, Total: len(urls), URL: r.url, Error: r.err})
			return
		}
		result.Written++
		result.Bytes += r.bytes
		progress(ProgressEvent{Type: ProgressWritten, Completed: completed, Total: len(urls), URL: r.url})
	}

	var err error
	switch plan.FetchStrategy {
	case docplan.StrategyStatic:
		err = s.executeStatic(ctx, plan, urls, record)
	case docplan.StrategyDynamic:
		err = s.executeDynamic(ctx, plan, urls, record)
	default:
		return nil, docplan.Errorf(docplan.EINVALID, "unknown fetch strategy %q", plan.FetchStrategy)
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: result.Written + result.Skipped, Total: len(urls)})
	if err != nil {
		return result, err
	}
	return result, ctx.Err()
}

// executeStatic fetches pages concurrently, at most Concurrency at a time.
// Results are recorded by the calling goroutine as they arrive.
func (s *Scheduler) executeStatic(ctx context.Context, plan *docplan.Plan, urls []string, record func(pageResult)) error {
	if s.Fetcher == nil {
		return docplan.Errorf(docplan.EINTERNAL, "static strategy requires a fetcher")
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan pageResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, u := range urls {
			g.Go(func() error {
				resultCh <- s.processStatic(gctx, plan, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	for r := range resultCh {
		record(r)
	}
	return nil
}

func (s *Scheduler) processStatic(ctx context.Context, plan *docplan.Plan, url string) pageResult {
	if err := s.Limiter.WaitURL(ctx, url); err != nil {
		return pageResult{url: url, err: err}
	}

	html, err := FetchWithRetryDelays(ctx, url, s.Fetcher.Fetch, s.Logger, s.retryDelays())
	if err != nil {
		return pageResult{url: url, err: err}
	}
	return s.store(ctx, plan, url, html)
}

// executeDynamic navigates one browser session through urls in order.
// The session is closed on every return path.
func (s *Scheduler) executeDynamic(ctx context.Context, plan *docplan.Plan, urls []string, record func(pageResult)) error {
	if s.Browser == nil {
		return docplan.Errorf(docplan.EINTERNAL, "dynamic strategy requires a browser")
	}

	session, err := s.Browser.NewSession(ctx)
	if err != nil {
		return fmt.Errorf("opening browser session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.logger().Warn("closing browser session", "err", err)
		}
	}()

	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return err
		}

		html, err := FetchWithRetryDelays(ctx, u, session.Navigate, s.Logger, s.retryDelays())
		if err != nil {
			record(pageResult{url: u, err: err})
			continue
		}
		record(s.store(ctx, plan, u, html))
	}
	return nil
}

// store extracts the content of one page and writes its artifact.
func (s *Scheduler) store(ctx context.Context, plan *docplan.Plan, url, html string) pageResult {
	markdown, err := s.Extractor.Extract(html, plan)
	if err != nil {
		return pageResult{url: url, err: err}
	}
	if markdown == "" {
		return pageResult{url: url, err: ErrEmptyContent}
	}

	if err := s.Artifacts.Save(ctx, plan, &docplan.Artifact{URL: url, Content: markdown}); err != nil {
		return pageResult{url: url, err: fmt.Errorf("saving artifact: %w", err)}
	}
	return pageResult{url: url, bytes: len(markdown)}
}

func (s *Scheduler) retryDelays() []time.Duration {
	if s.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return s.RetryDelays
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
