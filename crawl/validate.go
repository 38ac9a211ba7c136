package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/fwojciec/docplan"
	"golang.org/x/sync/errgroup"
)

// Validation defaults.
const (
	DefaultSampleSize          = 5
	DefaultValidateConcurrency = 5
)

// Validator checks stored artifacts against the live site. It samples
// artifacts at random, re-renders each sample's source page, extracts it
// with the project's plan, and compares the two documents.
type Validator struct {
	Artifacts docplan.ArtifactStore
	Projects  docplan.ProjectStore
	Renderer  docplan.Renderer
	Extractor docplan.ContentExtractor

	// Comparer judges documents whose hashes differ. When nil, only
	// identical documents pass.
	Comparer docplan.Comparer

	// Planner regenerates the plan when Validate is given none.
	Planner docplan.Planner

	Limiter     *DomainLimiter
	SampleSize  int
	Concurrency int

	// Rand picks the samples. Nil uses the global source.
	Rand *rand.Rand

	Logger *slog.Logger
}

// Sample is the validation outcome for one artifact.
type Sample struct {
	Filename  string
	URL       string
	Identical bool
	Verdict   *docplan.Verdict
	Err       error
}

// Passed reports whether the sample matched the live page.
func (s *Sample) Passed() bool {
	return s.Err == nil && s.Verdict != nil && s.Verdict.IsMatch
}

// Report summarizes a validation.
type Report struct {
	ProjectName string
	Plan        *docplan.Plan
	Artifacts   int
	Samples     []*Sample
	Passed      int
}

// Validate samples the artifacts of projectName and checks each against the
// live page. When plan is nil a plan is regenerated from the project's start
// page. A failing sample never aborts the others.
func (v *Validator) Validate(ctx context.Context, projectName string, plan *docplan.Plan) (*Report, error) {
	artifacts, err := v.Artifacts.FindArtifacts(ctx, projectName)
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		return nil, docplan.Errorf(docplan.ENOTFOUND, "project %q has no artifacts", projectName)
	}

	if plan == nil {
		if plan, err = v.regeneratePlan(ctx, projectName); err != nil {
			return nil, err
		}
	}

	picked := v.sample(artifacts)
	v.logger().Info("validating samples", "project", projectName, "samples", len(picked), "artifacts", len(artifacts))

	samples := make([]*Sample, len(picked))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency())
	for i, a := range picked {
		g.Go(func() error {
			samples[i] = v.check(gctx, plan, a)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		ProjectName: projectName,
		Plan:        plan,
		Artifacts:   len(artifacts),
		Samples:     samples,
	}
	for _, s := range samples {
		if s.Passed() {
			report.Passed++
		}
	}
	return report, ctx.Err()
}

// regeneratePlan renders the project's start page and proposes a plan for it.
func (v *Validator) regeneratePlan(ctx context.Context, projectName string) (*docplan.Plan, error) {
	if v.Planner == nil {
		return nil, docplan.Errorf(docplan.EINVALID, "validation without a plan requires a planner")
	}

	project, err := v.Projects.FindProject(ctx, projectName)
	if err != nil {
		return nil, err
	}

	html, err := v.Renderer.Render(ctx, project.StartURL)
	if err != nil {
		return nil, fmt.Errorf("rendering start page %s: %w", project.StartURL, err)
	}

	plan, err := v.Planner.Propose(ctx, project.Name, project.StartURL, html)
	if err != nil {
		return nil, fmt.Errorf("proposing plan: %w", err)
	}
	if plan == nil {
		return nil, docplan.Errorf(docplan.EINTERNAL, "planner proposed no plan")
	}
	return plan, plan.Validate()
}

// check validates one artifact. Every failure is recorded on the sample.
func (v *Validator) check(ctx context.Context, plan *docplan.Plan, a *docplan.Artifact) *Sample {
	s := &Sample{Filename: a.Filename, URL: a.URL}
	defer func() {
		v.logger().Info("sample checked", "file", s.Filename, "url", s.URL, "passed", s.Passed(), "err", s.Err)
	}()

	if a.URL == "" {
		s.Err = docplan.Errorf(docplan.ENOTFOUND, "no source URL for %s", a.Filename)
		return s
	}

	if err := v.Limiter.WaitURL(ctx, a.URL); err != nil {
		s.Err = err
		return s
	}

	html, err := v.Renderer.Render(ctx, a.URL)
	if err != nil {
		s.Err = err
		return s
	}

	live, err := v.Extractor.Extract(html, plan)
	if err != nil {
		s.Err = err
		return s
	}
	if live == "" {
		s.Err = ErrEmptyContent
		return s
	}

	if ComputeHash(live) == ComputeHash(a.Content) {
		s.Identical = true
		s.Verdict = &docplan.Verdict{IsMatch: true, Confidence: 1, Reason: "identical content"}
		return s
	}

	if v.Comparer == nil {
		s.Verdict = &docplan.Verdict{Reason: "content differs"}
		return s
	}

	verdict, err := v.Comparer.Compare(ctx, a.Content, live)
	if err != nil {
		s.Err = fmt.Errorf("comparing: %w", err)
		return s
	}
	s.Verdict = verdict
	return s
}

// sample picks up to SampleSize artifacts without replacement.
func (v *Validator) sample(artifacts []*docplan.Artifact) []*docplan.Artifact {
	n := v.SampleSize
	if n <= 0 {
		n = DefaultSampleSize
	}
	n = min(n, len(artifacts))

	var perm []int
	if v.Rand != nil {
		perm = v.Rand.Perm(len(artifacts))
	} else {
		perm = rand.Perm(len(artifacts))
	}

	picked := make([]*docplan.Artifact, n)
	for i := range n {
		picked[i] = artifacts[perm[i]]
	}
	return picked
}

func (v *Validator) concurrency() int {
	if v.Concurrency <= 0 {
		return DefaultValidateConcurrency
	}
	return v.Concurrency
}

func (v *Validator) logger() *slog.Logger {
	if v.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return v.Logger
}
