package docplan

// LinkDiscoverer extracts in-scope page URLs from a page's navigation region.
type LinkDiscoverer interface {
	// Discover returns the sorted, deduplicated set of absolute URLs linked
	// from the plan's navigation container. It returns a *MismatchError when
	// the navigation selector matches nothing.
	Discover(html string, plan *Plan) ([]string, error)
}

// ContentExtractor isolates and converts the main content of a page.
type ContentExtractor interface {
	// Extract returns the page's content region as markdown with noise
	// elements removed. A missing or empty content region yields an empty
	// string and no error.
	Extract(html string, plan *Plan) (string, error)
}
