package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Framework identifies a documentation framework.
type Framework string

// Supported documentation frameworks.
const (
	FrameworkUnknown    Framework = ""
	FrameworkDocusaurus Framework = "docusaurus"
	FrameworkMkDocs     Framework = "mkdocs"
	FrameworkSphinx     Framework = "sphinx"
	FrameworkVuePress   Framework = "vuepress"
	FrameworkVitePress  Framework = "vitepress"
	FrameworkGitBook    Framework = "gitbook"
	FrameworkNextra     Framework = "nextra"
)

// Detector identifies documentation frameworks from HTML content.
// It checks for framework-specific CSS classes, data attributes, meta tags,
// and structural markers that are unique to each documentation generator.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) Detect(html string) Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return FrameworkUnknown
	}
	return d.detect(doc)
}

func (d *Detector) detect(doc *goquery.Document) Framework {
	// Meta generator tags are the most reliable signal when present
	if framework := d.detectFromMetaGenerator(doc); framework != FrameworkUnknown {
		return framework
	}

	switch {
	case d.hasAny(doc, "#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container"):
		return FrameworkDocusaurus
	case d.hasAny(doc, "[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"):
		return FrameworkMkDocs
	case d.hasAny(doc, ".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar", ".bd-sidebar-primary"):
		return FrameworkSphinx
	// VitePress before VuePress since VitePress is a VuePress successor
	case d.hasAny(doc, "#VPContent", ".VPDoc", ".VPDocAsideOutline"):
		return FrameworkVitePress
	case d.hasAny(doc, ".theme-default-content", ".sidebar-links", ".vuepress-navbar"):
		return FrameworkVuePress
	case d.hasAny(doc, "[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']") || d.hasGitBookClasses(doc):
		return FrameworkGitBook
	case d.hasAny(doc, ".nextra-navbar", ".nextra-sidebar", ".nextra-toc", ".nextra-sidebar-container"):
		return FrameworkNextra
	}

	return FrameworkUnknown
}

// detectFromMetaGenerator checks the meta generator tag for framework identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) Framework {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})

	switch {
	case generator == "":
		return FrameworkUnknown
	case strings.Contains(generator, "sphinx"):
		return FrameworkSphinx
	case strings.Contains(generator, "gitbook"):
		return FrameworkGitBook
	case strings.Contains(generator, "docusaurus"):
		return FrameworkDocusaurus
	case strings.Contains(generator, "mkdocs"):
		return FrameworkMkDocs
	case strings.Contains(generator, "vitepress"):
		return FrameworkVitePress
	case strings.Contains(generator, "vuepress"):
		return FrameworkVuePress
	case strings.Contains(generator, "nextra"):
		return FrameworkNextra
	}

	return FrameworkUnknown
}

// hasAny reports whether the document contains an element matching any selector.
func (d *Detector) hasAny(doc *goquery.Document, selectors ...string) bool {
	for _, selector := range selectors {
		if doc.Find(selector).Length() > 0 {
			return true
		}
	}
	return false
}

// hasGitBookClasses checks for GitBook-specific classes on the html element.
// GitBook uses a combination of: circular-corners, theme-clean, tint
func (d *Detector) hasGitBookClasses(doc *goquery.Document) bool {
	htmlClass, _ := doc.Find("html").Attr("class")
	if htmlClass == "" {
		return false
	}

	count := 0
	for _, marker := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(htmlClass, marker) {
			count++
		}
	}

	// Require at least two of these GitBook-specific classes
	return count >= 2
}
