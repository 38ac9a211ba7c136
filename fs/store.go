package fs

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/docplan"
)

// Ensure Store implements the storage interfaces at compile time.
var (
	_ docplan.ArtifactStore = (*Store)(nil)
	_ docplan.ProjectStore  = (*Store)(nil)
)

// Store keeps artifacts and project metadata under a base directory.
// Every file is written to a temporary name and renamed into place, so
// readers never observe a partial artifact.
type Store struct {
	baseDir    string
	provenance bool
}

// Option configures a Store.
type Option func(*Store)

// WithProvenance controls whether artifacts start with an
// "<!-- Original URL: ... -->" header. Enabled by default.
func WithProvenance(enabled bool) Option {
	return func(s *Store) {
		s.provenance = enabled
	}
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string, opts ...Option) *Store {
	s := &Store{baseDir: baseDir, provenance: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the output directory for a project.
func (s *Store) Dir(projectName string) string {
	return filepath.Join(s.baseDir, docplan.OutputDirPrefix+projectName)
}

// Save writes the artifact into the plan's output directory. An empty
// Filename is derived from the artifact URL.
func (s *Store) Save(ctx context.Context, plan *docplan.Plan, a *docplan.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.Filename == "" {
		a.Filename = Filename(a.URL, plan.BaseURL)
	}
	if a.Filename != filepath.Base(a.Filename) || strings.HasPrefix(a.Filename, ".") {
		return docplan.Errorf(docplan.EINVALID, "invalid artifact filename %q", a.Filename)
	}

	dir := s.Dir(plan.ProjectName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, a.Filename), []byte(FormatArtifact(a, s.provenance)))
}

// FindArtifacts reads every markdown artifact of a project, sorted by
// filename. Artifacts without a provenance header get a URL reconstructed
// from their filename when project metadata is available.
func (s *Store) FindArtifacts(ctx context.Context, projectName string) ([]*docplan.Artifact, error) {
	dir := s.Dir(projectName)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, docplan.Errorf(docplan.ENOTFOUND, "no output for project %q", projectName)
	} else if err != nil {
		return nil, err
	}

	project, err := s.FindProject(ctx, projectName)
	if err != nil && docplan.ErrorCode(err) != docplan.ENOTFOUND {
		return nil, err
	}

	var artifacts []*docplan.Artifact
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ext {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		sourceURL, body, ok := ParseArtifact(string(data))
		if !ok && project != nil {
			if u, err := ReconstructURL(name, project); err == nil {
				sourceURL = u
			}
		}

		artifacts = append(artifacts, &docplan.Artifact{
			URL:      sourceURL,
			Filename: name,
			Content:  body,
		})
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Filename < artifacts[j].Filename })
	return artifacts, nil
}

// SaveProject writes the project's metadata file.
func (s *Store) SaveProject(ctx context.Context, project *docplan.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	dir := s.Dir(project.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, MetaFilename), data)
}

// FindProject reads a project's metadata file.
func (s *Store) FindProject(ctx context.Context, name string) (*docplan.Project, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(name), MetaFilename))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, docplan.Errorf(docplan.ENOTFOUND, "project %q not found", name)
	} else if err != nil {
		return nil, err
	}

	var project docplan.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, docplan.Errorf(docplan.EINVALID, "corrupt metadata for project %q: %v", name, err)
	}
	return &project, nil
}

// FindProjects returns every project directory that holds metadata, sorted by name.
func (s *Store) FindProjects(ctx context.Context) ([]*docplan.Project, error) {
	entries, err := os.ReadDir(s.baseDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var projects []*docplan.Project
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), docplan.OutputDirPrefix) {
			continue
		}
		name := strings.TrimPrefix(entry.Name(), docplan.OutputDirPrefix)
		project, err := s.FindProject(ctx, name)
		if docplan.ErrorCode(err) == docplan.ENOTFOUND {
			continue
		} else if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// writeAtomic writes data to a temporary file in the target directory and
// renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
