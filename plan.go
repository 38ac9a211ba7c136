package docplan

import (
	"net/url"
	"path"
	"slices"
	"strings"
)

// FetchStrategy selects how page markup is retrieved.
type FetchStrategy string

// Supported fetch strategies.
const (
	// StrategyStatic fetches pages concurrently over plain HTTP.
	StrategyStatic FetchStrategy = "static"

	// StrategyDynamic renders pages one after another in a single browser session.
	StrategyDynamic FetchStrategy = "dynamic"
)

// Valid reports whether s is one of the supported strategies.
func (s FetchStrategy) Valid() bool {
	return s == StrategyStatic || s == StrategyDynamic
}

// OutputDirPrefix prefixes every project's output directory.
const OutputDirPrefix = "scraped_docs_"

// Plan describes how to find pages and content on one documentation site.
type Plan struct {
	ProjectName     string        `json:"projectName"`
	StartURL        string        `json:"startUrl"`
	BaseURL         string        `json:"baseUrl"`
	FetchStrategy   FetchStrategy `json:"fetchStrategy"`
	NavSelector     string        `json:"navSelector"`
	ContentSelector string        `json:"contentSelector"`
	RemoveSelectors []string      `json:"removeSelectors"`
}

// OutputDir returns the directory name holding the project's artifacts.
func (p *Plan) OutputDir() string {
	return OutputDirPrefix + p.ProjectName
}

// Validate returns an error if the plan contains invalid fields.
func (p *Plan) Validate() error {
	if p.ProjectName == "" {
		return Errorf(EINVALID, "plan project name required")
	}
	if p.StartURL == "" {
		return Errorf(EINVALID, "plan start URL required")
	}
	base, err := url.Parse(p.BaseURL)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return Errorf(EINVALID, "plan base URL %q must be absolute", p.BaseURL)
	}
	if !strings.HasSuffix(p.BaseURL, "/") {
		return Errorf(EINVALID, "plan base URL %q must end with /", p.BaseURL)
	}
	if !p.FetchStrategy.Valid() {
		return Errorf(EINVALID, "unknown fetch strategy %q", p.FetchStrategy)
	}
	if strings.TrimSpace(p.NavSelector) == "" {
		return Errorf(EINVALID, "plan navigation selector required")
	}
	if strings.TrimSpace(p.ContentSelector) == "" {
		return Errorf(EINVALID, "plan content selector required")
	}
	return nil
}

// PlanUpdate holds replacement locators produced by a plan repair.
// Nil fields leave the corresponding plan field untouched.
type PlanUpdate struct {
	NavSelector     *string  `json:"navSelector"`
	ContentSelector *string  `json:"contentSelector"`
	RemoveSelectors []string `json:"removeSelectors"`
}

// Apply returns a copy of p with the locator fields of upd replaced.
// The fetch strategy, URLs and project name are never changed, and p
// itself is left as it was.
func (p Plan) Apply(upd PlanUpdate) Plan {
	next := p
	next.RemoveSelectors = slices.Clone(p.RemoveSelectors)
	if upd.NavSelector != nil {
		next.NavSelector = *upd.NavSelector
	}
	if upd.ContentSelector != nil {
		next.ContentSelector = *upd.ContentSelector
	}
	if upd.RemoveSelectors != nil {
		next.RemoveSelectors = slices.Clone(upd.RemoveSelectors)
	}
	return next
}

// BaseURLFor derives the scope boundary for a start URL.
// A start URL whose last segment names a file (index.html) is scoped to its
// directory; any other start URL is scoped to itself with a trailing slash.
// Query and fragment are dropped.
func BaseURLFor(startURL string) (string, error) {
	u, err := url.Parse(startURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid start URL %q: %v", startURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", Errorf(EINVALID, "start URL %q must be absolute", startURL)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""

	p := u.Path
	switch {
	case p == "":
		p = "/"
	case strings.HasSuffix(p, "/"):
	case strings.Contains(path.Base(p), "."):
		p = p[:strings.LastIndex(p, "/")+1]
	default:
		p += "/"
	}
	u.Path = p
	u.RawPath = ""
	return u.String(), nil
}
