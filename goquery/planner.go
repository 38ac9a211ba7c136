package goquery

import (
	"context"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docplan"
)

// Ensure FrameworkPlanner implements docplan.Planner at compile time.
var _ docplan.Planner = (*FrameworkPlanner)(nil)

// locatorSet lists candidate locators for one framework, most specific first.
type locatorSet struct {
	strategy docplan.FetchStrategy
	nav      []string
	content  []string
	remove   []string
}

// frameworkLocators holds the known layout of each supported framework.
// Frameworks that render their navigation client-side use the dynamic strategy.
var frameworkLocators = map[Framework]locatorSet{
	FrameworkSphinx: {
		strategy: docplan.StrategyStatic,
		nav:      []string{"div.wy-menu-vertical", "nav.bd-docs-nav", "div.bd-sidebar-primary", "div.sphinxsidebar"},
		content:  []string{"div[role='main']", "main#main-content", "div.body"},
		remove:   []string{"a.headerlink", "div.prev-next-area", "div.edit-this-page"},
	},
	FrameworkMkDocs: {
		strategy: docplan.StrategyStatic,
		nav:      []string{"nav.md-nav--primary", "[data-md-component='navigation']"},
		content:  []string{"article.md-content__inner", "div.md-content"},
		remove:   []string{"a.headerlink", "aside.md-source-file"},
	},
	FrameworkDocusaurus: {
		strategy: docplan.StrategyDynamic,
		nav:      []string{".theme-doc-sidebar-container", "nav.menu"},
		content:  []string{"article", "main"},
		remove:   []string{"a.hash-link", ".theme-doc-footer", "nav.pagination-nav"},
	},
	FrameworkVitePress: {
		strategy: docplan.StrategyDynamic,
		nav:      []string{".VPSidebar", "aside.VPSidebar"},
		content:  []string{".VPDoc .vp-doc", ".VPDoc"},
		remove:   []string{"a.header-anchor", ".VPDocFooter"},
	},
	FrameworkVuePress: {
		strategy: docplan.StrategyDynamic,
		nav:      []string{".sidebar-links", "aside.sidebar"},
		content:  []string{".theme-default-content"},
		remove:   []string{"a.header-anchor", ".page-edit", ".page-nav"},
	},
	FrameworkGitBook: {
		strategy: docplan.StrategyDynamic,
		nav:      []string{"[data-testid='space.sidebar']"},
		content:  []string{"[data-testid='page.contentEditor']", "main"},
	},
	FrameworkNextra: {
		strategy: docplan.StrategyDynamic,
		nav:      []string{".nextra-sidebar-container", "aside.nextra-sidebar"},
		content:  []string{"article", "main"},
		remove:   []string{".nextra-toc"},
	},
	FrameworkUnknown: {
		strategy: docplan.StrategyDynamic,
		nav:      []string{"nav[aria-label]", "aside nav", "nav", "[role='navigation']", "aside"},
		content:  []string{"main article", "article", "main", "[role='main']", "#content"},
	},
}

// FrameworkPlanner proposes plans from the known layouts of popular
// documentation frameworks. It needs no network access and serves as the
// planner when no language model is configured.
type FrameworkPlanner struct {
	detector *Detector
}

// NewFrameworkPlanner creates a new FrameworkPlanner.
func NewFrameworkPlanner() *FrameworkPlanner {
	return &FrameworkPlanner{detector: NewDetector()}
}

// Propose detects the framework of the rendered page and picks the first
// candidate locators that match it.
func (p *FrameworkPlanner) Propose(ctx context.Context, projectName, startURL, html string) (*docplan.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	baseURL, err := docplan.BaseURLFor(startURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docplan.Errorf(docplan.EINVALID, "failed to parse HTML: %v", err)
	}

	framework := p.detector.detect(doc)
	set := frameworkLocators[framework]
	generic := frameworkLocators[FrameworkUnknown]

	nav := firstMatch(doc, append(slices.Clone(set.nav), generic.nav...))
	if nav == "" {
		return nil, docplan.Errorf(docplan.ENOTFOUND, "no navigation container recognized on %s", startURL)
	}

	content := firstMatch(doc, append(slices.Clone(set.content), generic.content...))
	if content == "" {
		content = generic.content[0]
	}

	plan := &docplan.Plan{
		ProjectName:     projectName,
		StartURL:        startURL,
		BaseURL:         baseURL,
		FetchStrategy:   set.strategy,
		NavSelector:     nav,
		ContentSelector: content,
		RemoveSelectors: slices.Clone(set.remove),
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// Repair looks for a known locator, other than the one that failed, that
// matches the markup carried by the fault. The fault only carries the first
// docplan.MaxSnippetLen bytes of the page, so a sidebar rendered after that
// prefix is never seen and Repair refuses.
func (p *FrameworkPlanner) Repair(ctx context.Context, plan *docplan.Plan, fault *docplan.MismatchError) (*docplan.PlanUpdate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fault.Snippet))
	if err != nil {
		return nil, docplan.Errorf(docplan.EINVALID, "failed to parse HTML: %v", err)
	}

	framework := p.detector.detect(doc)
	switch fault.Locator {
	case plan.NavSelector:
		if nav := firstMatch(doc, candidates(framework, fault.Locator, func(s locatorSet) []string { return s.nav })); nav != "" {
			return &docplan.PlanUpdate{NavSelector: &nav}, nil
		}
	case plan.ContentSelector:
		if content := firstMatch(doc, candidates(framework, fault.Locator, func(s locatorSet) []string { return s.content })); content != "" {
			return &docplan.PlanUpdate{ContentSelector: &content}, nil
		}
	}

	return nil, docplan.Errorf(docplan.ENOTFOUND, "no known locator replaces %q", fault.Locator)
}

// candidates returns the locators of the detected framework followed by
// those of every other framework, excluding failed.
func candidates(framework Framework, failed string, pick func(locatorSet) []string) []string {
	order := []Framework{FrameworkSphinx, FrameworkMkDocs, FrameworkDocusaurus,
		FrameworkVitePress, FrameworkVuePress, FrameworkGitBook, FrameworkNextra, FrameworkUnknown}
	if framework != FrameworkUnknown {
		order = append([]Framework{framework}, order...)
	}

	var out []string
	for _, f := range order {
		for _, locator := range pick(frameworkLocators[f]) {
			if locator != failed && !slices.Contains(out, locator) {
				out = append(out, locator)
			}
		}
	}
	return out
}

// firstMatch returns the first selector matching at least one element.
func firstMatch(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if doc.Find(selector).Length() > 0 {
			return selector
		}
	}
	return ""
}
