package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docplan"
)

// Ensure Extractor implements docplan.ContentExtractor at compile time.
var _ docplan.ContentExtractor = (*Extractor)(nil)

// Extractor isolates a page's content region, strips noise elements,
// and converts what remains to markdown.
type Extractor struct {
	converter docplan.Converter
}

// NewExtractor creates a new Extractor that converts with c.
func NewExtractor(c docplan.Converter) *Extractor {
	return &Extractor{converter: c}
}

// Extract returns the markdown for the first element matching
// plan.ContentSelector after removing every descendant matching
// plan.RemoveSelectors, applied in order. A missing region, or one with no
// text left after removal, yields an empty string and no error.
func (e *Extractor) Extract(html string, plan *docplan.Plan) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", docplan.Errorf(docplan.EINVALID, "failed to parse HTML: %v", err)
	}

	region := doc.Find(plan.ContentSelector).First()
	if region.Length() == 0 {
		return "", nil
	}

	for _, selector := range plan.RemoveSelectors {
		if strings.TrimSpace(selector) == "" {
			continue
		}
		region.Find(selector).Remove()
	}

	if strings.TrimSpace(region.Text()) == "" {
		return "", nil
	}

	fragment, err := goquery.OuterHtml(region)
	if err != nil {
		return "", err
	}

	markdown, err := e.converter.Convert(fragment)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}
