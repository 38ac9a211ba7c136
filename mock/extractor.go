package mock

import "github.com/fwojciec/docplan"

var _ docplan.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer is a mock implementation of docplan.LinkDiscoverer.
type LinkDiscoverer struct {
	DiscoverFn func(html string, plan *docplan.Plan) ([]string, error)
}

func (d *LinkDiscoverer) Discover(html string, plan *docplan.Plan) ([]string, error) {
	return d.DiscoverFn(html, plan)
}

var _ docplan.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of docplan.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string, plan *docplan.Plan) (string, error)
}

func (e *ContentExtractor) Extract(html string, plan *docplan.Plan) (string, error) {
	return e.ExtractFn(html, plan)
}

var _ docplan.Converter = (*Converter)(nil)

// Converter is a mock implementation of docplan.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
