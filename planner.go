package docplan

import "context"

// Planner proposes and repairs extraction plans.
// Implementations are typically backed by a language model and are
// nondeterministic; any error is treated as a refusal.
type Planner interface {
	// Propose builds a plan for the site from a rendered sample page.
	Propose(ctx context.Context, projectName, startURL, html string) (*Plan, error)

	// Repair suggests replacement locators for a plan whose locator failed.
	// A nil update means no correction is available.
	Repair(ctx context.Context, plan *Plan, fault *MismatchError) (*PlanUpdate, error)
}

// Verdict is the outcome of a semantic comparison of two documents.
type Verdict struct {
	IsMatch    bool    `json:"isMatch"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Comparer decides whether two documents carry equivalent content.
type Comparer interface {
	Compare(ctx context.Context, a, b string) (*Verdict, error)
}
