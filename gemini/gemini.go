// Package gemini implements plan proposal, plan repair, and semantic
// document comparison on top of Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/fwojciec/docplan"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Generator produces model content. *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Option configures a Planner or Comparer.
type Option func(*options)

type options struct {
	model string
}

// WithModel overrides the Gemini model.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

func newOptions(opts []Option) options {
	o := options{model: DefaultModel}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

// generateJSON sends prompt to the model and decodes the first JSON object
// in the reply into v.
func generateJSON(ctx context.Context, gen Generator, model, prompt string, v any) error {
	temp := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}

	result, err := gen.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return err
	}
	if result == nil {
		return docplan.Errorf(docplan.EINTERNAL, "gemini returned nil result")
	}

	text := jsonObject.FindString(result.Text())
	if text == "" {
		return docplan.Errorf(docplan.EINVALID, "gemini response contains no JSON object")
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return docplan.Errorf(docplan.EINVALID, "gemini response is not valid JSON: %v", err)
	}
	return nil
}
