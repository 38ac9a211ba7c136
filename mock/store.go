package mock

import (
	"context"

	"github.com/fwojciec/docplan"
)

var _ docplan.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is a mock implementation of docplan.ArtifactStore.
type ArtifactStore struct {
	SaveFn          func(ctx context.Context, plan *docplan.Plan, artifact *docplan.Artifact) error
	FindArtifactsFn func(ctx context.Context, projectName string) ([]*docplan.Artifact, error)
}

func (s *ArtifactStore) Save(ctx context.Context, plan *docplan.Plan, artifact *docplan.Artifact) error {
	return s.SaveFn(ctx, plan, artifact)
}

func (s *ArtifactStore) FindArtifacts(ctx context.Context, projectName string) ([]*docplan.Artifact, error) {
	return s.FindArtifactsFn(ctx, projectName)
}

var _ docplan.ProjectStore = (*ProjectStore)(nil)

// ProjectStore is a mock implementation of docplan.ProjectStore.
type ProjectStore struct {
	SaveProjectFn  func(ctx context.Context, project *docplan.Project) error
	FindProjectFn  func(ctx context.Context, name string) (*docplan.Project, error)
	FindProjectsFn func(ctx context.Context) ([]*docplan.Project, error)
}

func (s *ProjectStore) SaveProject(ctx context.Context, project *docplan.Project) error {
	return s.SaveProjectFn(ctx, project)
}

func (s *ProjectStore) FindProject(ctx context.Context, name string) (*docplan.Project, error) {
	return s.FindProjectFn(ctx, name)
}

func (s *ProjectStore) FindProjects(ctx context.Context) ([]*docplan.Project, error) {
	return s.FindProjectsFn(ctx)
}

var _ docplan.RunService = (*RunService)(nil)

// RunService is a mock implementation of docplan.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *docplan.Run) error
	FindRunsFn  func(ctx context.Context, filter docplan.RunFilter) ([]*docplan.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *docplan.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRuns(ctx context.Context, filter docplan.RunFilter) ([]*docplan.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
