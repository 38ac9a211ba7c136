package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/docplan"
)

// Ensure Planner implements docplan.Planner at compile time.
var _ docplan.Planner = (*Planner)(nil)

// Planner proposes and repairs plans with Gemini.
type Planner struct {
	gen   Generator
	model string
}

// NewPlanner creates a new Planner. Pass client.Models for a real client.
func NewPlanner(gen Generator, opts ...Option) *Planner {
	o := newOptions(opts)
	return &Planner{gen: gen, model: o.model}
}

type planReply struct {
	FetchStrategy    string   `json:"fetch_strategy"`
	NavSelector      string   `json:"nav_selector"`
	ContentSelector  string   `json:"content_selector"`
	ElementsToRemove []string `json:"elements_to_remove"`
}

// Propose sends a compacted sample of the rendered entry page to the model
// and builds a plan from its reply.
func (p *Planner) Propose(ctx context.Context, projectName, startURL, html string) (*docplan.Plan, error) {
	baseURL, err := docplan.BaseURLFor(startURL)
	if err != nil {
		return nil, err
	}

	var reply planReply
	prompt := BuildProposePrompt(startURL, CompactHTML(html, SampleLen))
	if err := generateJSON(ctx, p.gen, p.model, prompt, &reply); err != nil {
		return nil, err
	}

	plan := &docplan.Plan{
		ProjectName:     projectName,
		StartURL:        startURL,
		BaseURL:         baseURL,
		FetchStrategy:   docplan.FetchStrategy(strings.ToLower(strings.TrimSpace(reply.FetchStrategy))),
		NavSelector:     strings.TrimSpace(reply.NavSelector),
		ContentSelector: strings.TrimSpace(reply.ContentSelector),
		RemoveSelectors: cleanSelectors(reply.ElementsToRemove),
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// Repair asks the model to correct the locator named by fault. It returns a
// nil update when the reply changes nothing.
func (p *Planner) Repair(ctx context.Context, plan *docplan.Plan, fault *docplan.MismatchError) (*docplan.PlanUpdate, error) {
	var reply planReply
	if err := generateJSON(ctx, p.gen, p.model, BuildRepairPrompt(plan, fault), &reply); err != nil {
		return nil, err
	}

	var upd docplan.PlanUpdate
	changed := false
	if nav := strings.TrimSpace(reply.NavSelector); nav != "" && nav != plan.NavSelector {
		upd.NavSelector = &nav
		changed = true
	}
	if content := strings.TrimSpace(reply.ContentSelector); content != "" && content != plan.ContentSelector {
		upd.ContentSelector = &content
		changed = true
	}
	if reply.ElementsToRemove != nil {
		upd.RemoveSelectors = cleanSelectors(reply.ElementsToRemove)
	}
	if !changed {
		return nil, nil
	}
	return &upd, nil
}

// cleanSelectors trims selectors and drops blanks. The result is never nil.
func cleanSelectors(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
