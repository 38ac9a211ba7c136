// Package fs stores page artifacts and project metadata on the local
// filesystem, one scraped_docs_<project> directory per project.
package fs

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/fwojciec/docplan"
)

// MetaFilename names the project metadata file inside an output directory.
const MetaFilename = ".project_meta.json"

// Markdown artifacts use this extension.
const ext = ".md"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

var provenanceLine = regexp.MustCompile(`^<!-- Original URL: (.*) -->\r?\n`)

// Filename derives the artifact filename for pageURL. The base URL's path is
// removed once, separators become underscores, ".html" is dropped, and any
// character outside [A-Za-z0-9_-] is discarded. An empty result is "index".
func Filename(pageURL, baseURL string) string {
	var pagePath, basePath string
	if u, err := url.Parse(pageURL); err == nil {
		pagePath = u.Path
	}
	if u, err := url.Parse(baseURL); err == nil {
		basePath = u.Path
	}

	name := strings.Replace(pagePath, basePath, "", 1)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, ".html", "")
	name = strings.Trim(name, "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" {
		name = "index"
	}
	return name + ext
}

// ReconstructURL is the best-effort inverse of Filename for artifacts that
// carry no provenance header. Underscores are read back as path separators,
// and ".html" is restored when the project's start page used it.
func ReconstructURL(filename string, project *docplan.Project) (string, error) {
	baseURL, err := docplan.BaseURLFor(project.StartURL)
	if err != nil {
		return "", err
	}

	name := strings.TrimSuffix(filename, ext)
	if name == "index" {
		return baseURL, nil
	}

	p := strings.ReplaceAll(name, "_", "/")
	if strings.HasSuffix(startPath(project.StartURL), ".html") {
		p += ".html"
	}

	base, _ := url.Parse(baseURL)
	ref, err := url.Parse(p)
	if err != nil {
		return "", docplan.Errorf(docplan.EINVALID, "cannot reconstruct URL from %q", filename)
	}
	return base.ResolveReference(ref).String(), nil
}

// FormatArtifact renders the file content for an artifact, prefixed with a
// provenance header when provenance is set.
func FormatArtifact(a *docplan.Artifact, provenance bool) string {
	if !provenance {
		return a.Content
	}
	return fmt.Sprintf("<!-- Original URL: %s -->\n\n%s", a.URL, a.Content)
}

// ParseArtifact splits file content into the provenance URL, if present,
// and the markdown body.
func ParseArtifact(content string) (sourceURL, body string, ok bool) {
	m := provenanceLine.FindStringSubmatchIndex(content)
	if m == nil {
		return "", content, false
	}
	sourceURL = strings.TrimSpace(content[m[2]:m[3]])
	body = strings.TrimLeft(content[m[1]:], "\r\n")
	return sourceURL, body, true
}

func startPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}
