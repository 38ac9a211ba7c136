package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docplan"
	"github.com/fwojciec/docplan/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("delegates to SaveFn", func(t *testing.T) {
		t.Parallel()

		var got *docplan.Artifact
		s := &mock.ArtifactStore{
			SaveFn: func(_ context.Context, _ *docplan.Plan, a *docplan.Artifact) error {
				got = a
				return nil
			},
		}

		a := &docplan.Artifact{URL: "https://example.com/a.html", Filename: "a.md", Content: "# A"}
		err := s.Save(context.Background(), &docplan.Plan{}, a)

		require.NoError(t, err)
		assert.Same(t, a, got)
	})

	t.Run("returns error from SaveFn", func(t *testing.T) {
		t.Parallel()

		s := &mock.ArtifactStore{
			SaveFn: func(context.Context, *docplan.Plan, *docplan.Artifact) error {
				return docplan.Errorf(docplan.EINTERNAL, "disk full")
			},
		}

		err := s.Save(context.Background(), &docplan.Plan{}, &docplan.Artifact{})

		require.Error(t, err)
		assert.Equal(t, "disk full", docplan.ErrorMessage(err))
	})
}
