package docplan

import "context"

// Artifact is the persisted output for one discovered page.
type Artifact struct {
	URL      string
	Filename string
	Content  string // Markdown
}

// ArtifactStore persists page artifacts under a plan's output directory.
type ArtifactStore interface {
	// Save writes the artifact, replacing any artifact with the same filename.
	// Save is safe for concurrent use.
	Save(ctx context.Context, plan *Plan, artifact *Artifact) error

	// FindArtifacts returns every artifact stored for a project.
	// Returns ENOTFOUND if the project has no output directory.
	FindArtifacts(ctx context.Context, projectName string) ([]*Artifact, error)
}
