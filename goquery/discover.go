// Package goquery implements plan-driven link discovery and content
// extraction on top of github.com/PuerkitoBio/goquery.
package goquery

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docplan"
)

// Ensure Discoverer implements docplan.LinkDiscoverer at compile time.
var _ docplan.LinkDiscoverer = (*Discoverer)(nil)

// Discoverer extracts page URLs from the navigation container named by a plan.
type Discoverer struct {
	// StripQuery drops query strings from discovered URLs in addition to fragments.
	StripQuery bool
}

// NewDiscoverer creates a new Discoverer.
func NewDiscoverer() *Discoverer {
	return &Discoverer{}
}

// Discover returns the in-scope URLs linked from the first element matching
// plan.NavSelector, sorted and deduplicated. Every URL starts with
// plan.BaseURL and carries no fragment.
func (d *Discoverer) Discover(html string, plan *docplan.Plan) ([]string, error) {
	base, err := url.Parse(plan.BaseURL)
	if err != nil {
		return nil, docplan.Errorf(docplan.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docplan.Errorf(docplan.EINVALID, "failed to parse HTML: %v", err)
	}

	nav := doc.Find(plan.NavSelector).First()
	if nav.Length() == 0 {
		return nil, docplan.NewMismatchError(plan.NavSelector, html)
	}

	seen := make(map[string]struct{})
	nav.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
			return
		}

		resolved := d.resolve(base, href)
		if resolved == "" || !strings.HasPrefix(resolved, plan.BaseURL) {
			return
		}
		seen[resolved] = struct{}{}
	})

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls, nil
}

// resolve resolves href against base and strips the fragment, and the query
// when StripQuery is set. Returns empty string if href cannot be parsed.
func (d *Discoverer) resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if d.StripQuery {
		resolved.RawQuery = ""
		resolved.ForceQuery = false
	}
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
