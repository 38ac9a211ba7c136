package gemini_test

import (
	"context"

	"google.golang.org/genai"
)

// generator is a function-backed gemini.Generator.
type generator struct {
	GenerateContentFn func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (g *generator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.GenerateContentFn(ctx, model, contents, config)
}

// reply returns a generator answering every request with text and recording
// the last prompt it saw.
func reply(text string, prompt *string) *generator {
	return &generator{
		GenerateContentFn: func(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			if prompt != nil {
				*prompt = contents[0].Parts[0].Text
			}
			return &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
				}},
			}, nil
		},
	}
}
