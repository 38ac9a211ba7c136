package gemini

import (
	"context"

	"github.com/fwojciec/docplan"
)

// Ensure Comparer implements docplan.Comparer at compile time.
var _ docplan.Comparer = (*Comparer)(nil)

// Comparer judges semantic equivalence of two markdown documents with Gemini.
type Comparer struct {
	gen   Generator
	model string
}

// NewComparer creates a new Comparer. Pass client.Models for a real client.
func NewComparer(gen Generator, opts ...Option) *Comparer {
	o := newOptions(opts)
	return &Comparer{gen: gen, model: o.model}
}

type verdictReply struct {
	IsMatch    bool    `json:"is_match"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Compare returns the model's verdict on whether a and b carry the same
// content. Confidence is clamped to [0, 1].
func (c *Comparer) Compare(ctx context.Context, a, b string) (*docplan.Verdict, error) {
	var reply verdictReply
	if err := generateJSON(ctx, c.gen, c.model, BuildComparePrompt(a, b), &reply); err != nil {
		return nil, err
	}

	return &docplan.Verdict{
		IsMatch:    reply.IsMatch,
		Confidence: min(max(reply.Confidence, 0), 1),
		Reason:     reply.Reason,
	}, nil
}
