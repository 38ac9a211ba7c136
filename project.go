package docplan

import "context"

// Project records where a scraped project came from so it can be validated later.
type Project struct {
	Name     string `json:"project_name"`
	StartURL string `json:"start_url"`
}

// Validate returns an error if the project contains invalid fields.
func (p *Project) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "project name required")
	}
	if p.StartURL == "" {
		return Errorf(EINVALID, "project start URL required")
	}
	return nil
}

// ProjectStore persists project metadata alongside its artifacts.
type ProjectStore interface {
	// SaveProject writes the project's metadata, replacing earlier metadata.
	SaveProject(ctx context.Context, project *Project) error

	// FindProject retrieves a project by name.
	// Returns ENOTFOUND if the project does not exist.
	FindProject(ctx context.Context, name string) (*Project, error)

	// FindProjects returns all projects with stored metadata.
	FindProjects(ctx context.Context) ([]*Project, error)
}
