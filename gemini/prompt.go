package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/docplan"
)

// SampleLen bounds the rendered page sample sent with a proposal request.
const SampleLen = 8000

// CompareLen bounds each document sent with a comparison request.
const CompareLen = 4000

// BuildProposePrompt asks the model for a crawl plan for the sampled page.
func BuildProposePrompt(startURL, sample string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert in front-end development and web scraping. ")
	sb.WriteString("Below is the fully rendered HTML of the entry page of a documentation site. ")
	sb.WriteString("Produce a crawl plan that works for this page and, as far as possible, every other content page of the site.\n\n")
	sb.WriteString("1. Decide the fetch strategy: \"static\" if navigation and content are present in server-rendered HTML, ")
	sb.WriteString("\"dynamic\" if the site is a single-page application. Prefer \"dynamic\" for modern React or Vue based documentation.\n")
	sb.WriteString("2. nav_selector: a CSS selector for the outermost container of the whole navigation link tree.\n")
	sb.WriteString("3. content_selector: a CSS selector for the main container holding the article title, text and code blocks. ")
	sb.WriteString("Prefer simple selectors such as main, article, or div[role='main'].\n")
	sb.WriteString("4. elements_to_remove: CSS selectors for noise inside the content container, such as permalink anchors or version banners.\n\n")
	fmt.Fprintf(&sb, "Entry page: %s\n\n", startURL)
	sb.WriteString("<html_sample>\n")
	sb.WriteString(sample)
	sb.WriteString("\n</html_sample>\n\n")
	sb.WriteString("Reply with one JSON object and nothing else, replacing the example values with real selectors:\n")
	sb.WriteString(`{"fetch_strategy": "dynamic", "nav_selector": "nav.md-nav", "content_selector": ".md-content", "elements_to_remove": ["a.headerlink"]}`)
	return sb.String()
}

// BuildRepairPrompt asks the model to replace a locator that matched nothing.
func BuildRepairPrompt(plan *docplan.Plan, fault *docplan.MismatchError) string {
	remove, _ := json.Marshal(nonNil(plan.RemoveSelectors))

	var sb strings.Builder
	sb.WriteString("You are an expert web debugging engineer. A crawl plan you produced has failed.\n\n")
	fmt.Fprintf(&sb, "Failed selector: %s\n", fault.Locator)
	sb.WriteString("Problem: the selector matched no element in the HTML fragment below.\n\n")
	sb.WriteString("<html_fragment>\n")
	sb.WriteString(fault.Snippet)
	sb.WriteString("\n</html_fragment>\n\n")
	sb.WriteString("Analyze the fragment, work out why the selector failed, and provide a corrected, more robust selector. ")
	sb.WriteString("Keep the other fields unchanged unless they are also wrong.\n\n")
	sb.WriteString("Reply with one JSON object and nothing else:\n")
	fmt.Fprintf(&sb, `{"nav_selector": %q, "content_selector": %q, "elements_to_remove": %s}`,
		plan.NavSelector, plan.ContentSelector, remove)
	return sb.String()
}

// BuildComparePrompt asks the model whether two markdown documents carry the
// same content.
func BuildComparePrompt(stored, live string) string {
	var sb strings.Builder
	sb.WriteString("You are a meticulous documentation QA engineer. Compare the two markdown documents below.\n\n")
	sb.WriteString("Document A is the stored copy. Document B was just fetched from the live site. ")
	sb.WriteString("Ignore small differences in formatting and whitespace. Judge whether they cover the same topic, ")
	sb.WriteString("whether key information such as code blocks and instructions appears in both, ")
	sb.WriteString("and whether any important section of B is missing from A.\n\n")
	sb.WriteString("<document_a>\n")
	sb.WriteString(truncate(stored, CompareLen))
	sb.WriteString("\n</document_a>\n\n<document_b>\n")
	sb.WriteString(truncate(live, CompareLen))
	sb.WriteString("\n</document_b>\n\n")
	sb.WriteString(`Reply with one JSON object: {"is_match": true, "confidence": 0.9, "reason": "short explanation"}`)
	return sb.String()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
