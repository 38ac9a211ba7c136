// Package docplan crawls documentation sites according to an extraction plan.
// A plan names the navigation container that lists every page, the content
// region of each page, and the noise elements to strip before the content is
// converted to markdown. Plans are either declared by hand or proposed by a
// language model from a rendered sample page, and proposed plans are repaired
// when their locators fail to match the live site.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, gemini/).
package docplan
