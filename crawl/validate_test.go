package crawl_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"sync"
	"testing"

	"github.com/fwojciec/docplan"
	"github.com/fwojciec/docplan/crawl"
	"github.com/fwojciec/docplan/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedArtifacts(n int) []*docplan.Artifact {
	artifacts := make([]*docplan.Artifact, n)
	for i := range n {
		name := string(rune('a' + i))
		artifacts[i] = &docplan.Artifact{
			URL:      "https://docs.example.com/guide/" + name + ".html",
			Filename: name + ".md",
			Content:  "# " + name,
		}
	}
	return artifacts
}

func artifactStore(artifacts []*docplan.Artifact) *mock.ArtifactStore {
	return &mock.ArtifactStore{
		FindArtifactsFn: func(context.Context, string) ([]*docplan.Artifact, error) {
			return artifacts, nil
		},
	}
}

// liveRenderer serves each URL as its stored content, except for the listed overrides.
func liveRenderer(overrides map[string]string) *mock.Renderer {
	return &mock.Renderer{
		RenderFn: func(_ context.Context, url string) (string, error) {
			if html, ok := overrides[url]; ok {
				return html, nil
			}
			name := url[len("https://docs.example.com/guide/") : len(url)-len(".html")]
			return "# " + name, nil
		},
	}
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	t.Run("identical content passes without comparing", func(t *testing.T) {
		t.Parallel()

		v := &crawl.Validator{
			Artifacts: artifactStore(storedArtifacts(3)),
			Renderer:  liveRenderer(nil),
			Extractor: echoExtractor(),
			Comparer: &mock.Comparer{
				CompareFn: func(context.Context, string, string) (*docplan.Verdict, error) {
					t.Fatal("compare must not be called")
					return nil, nil
				},
			},
			Concurrency: 1,
		}

		report, err := v.Validate(context.Background(), "demo", testPlan(docplan.StrategyStatic))

		require.NoError(t, err)
		assert.Equal(t, 3, report.Artifacts)
		require.Len(t, report.Samples, 3)
		assert.Equal(t, 3, report.Passed)
		for _, s := range report.Samples {
			assert.True(t, s.Identical)
			assert.True(t, s.Passed())
		}
	})

	t.Run("samples at most the sample size without repeats", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var rendered []string
		v := &crawl.Validator{
			Artifacts: artifactStore(storedArtifacts(10)),
			Renderer: &mock.Renderer{
				RenderFn: func(_ context.Context, url string) (string, error) {
					mu.Lock()
					rendered = append(rendered, url)
					mu.Unlock()
					return "<main>x</main>", nil
				},
			},
			Extractor: echoExtractor(),
			Rand:      rand.New(rand.NewPCG(1, 2)),
		}

		report, err := v.Validate(context.Background(), "demo", testPlan(docplan.StrategyStatic))

		require.NoError(t, err)
		assert.Len(t, report.Samples, crawl.DefaultSampleSize)
		assert.Len(t, rendered, crawl.DefaultSampleSize)

		sort.Strings(rendered)
		for i := 1; i < len(rendered); i++ {
			assert.NotEqual(t, rendered[i-1], rendered[i])
		}
	})

	t.Run("same seed picks the same samples", func(t *testing.T) {
		t.Parallel()

		pick := func() []string {
			v := &crawl.Validator{
				Artifacts:  artifactStore(storedArtifacts(8)),
				Renderer:   liveRenderer(nil),
				Extractor:  echoExtractor(),
				SampleSize: 3,
				Rand:       rand.New(rand.NewPCG(7, 7)),
			}
			report, err := v.Validate(context.Background(), "demo", testPlan(docplan.StrategyStatic))
			require.NoError(t, err)
			var names []string
			for _, s := range report.Samples {
				names = append(names, s.Filename)
			}
			return names
		}

		assert.Equal(t, pick(), pick())
	})

	t.Run("differing content is judged by the comparer", func(t *testing.T) {
		t.Parallel()

		artifacts := storedArtifacts(2)
		v := &crawl.Validator{
			Artifacts: artifactStore(artifacts),
			Renderer: liveRenderer(map[string]string{
				artifacts[0].URL: "# a, reworded",
				artifacts[1].URL: "# something else",
			}),
			Extractor: echoExtractor(),
			Comparer: &mock.Comparer{
				CompareFn: func(_ context.Context, stored, live string) (*docplan.Verdict, error) {
					if live == "# a, reworded" {
						assert.Equal(t, "# a", stored)
						return &docplan.Verdict{IsMatch: true, Confidence: 0.9, Reason: "same topic"}, nil
					}
					return &docplan.Verdict{IsMatch: false, Confidence: 0.8, Reason: "different page"}, nil
				},
			},
		}

		report, err := v.Validate(context.Background(), "demo", testPlan(docplan.StrategyStatic))

		require.NoError(t, err)
		assert.Equal(t, 1, report.Passed)
		for _, s := range report.Samples {
			require.NotNil(t, s.Verdict)
			assert.False(t, s.Identical)
		}
	})

	t.Run("per-sample failures count as failed", func(t *testing.T) {
		t.Parallel()

		artifacts := storedArtifacts(4)
		artifacts[3].URL = ""
		v := &crawl.Validator{
			Artifacts: artifactStore(artifacts),
			Renderer: &mock.Renderer{
				RenderFn: func(_ context.Context, url string) (string, error) {
					switch url {
					case artifacts[0].URL:
						return "", errors.New("navigation timeout")
					case artifacts[1].URL:
						return "", nil
					}
					return "# c", nil
				},
			},
			Extractor: echoExtractor(),
			Comparer: &mock.Comparer{
				CompareFn: func(context.Context, string, string) (*docplan.Verdict, error) {
					return nil, errors.New("quota exceeded")
				},
			},
		}

		report, err := v.Validate(context.Background(), "demo", testPlan(docplan.StrategyStatic))

		require.NoError(t, err)
		require.Len(t, report.Samples, 4)
		assert.Equal(t, 1, report.Passed)

		byFile := make(map[string]*crawl.Sample)
		for _, s := range report.Samples {
			byFile[s.Filename] = s
		}
		assert.ErrorContains(t, byFile["a.md"].Err, "navigation timeout")
		assert.ErrorIs(t, byFile["b.md"].Err, crawl.ErrEmptyContent)
		assert.True(t, byFile["c.md"].Passed())
		assert.Equal(t, docplan.ENOTFOUND, docplan.ErrorCode(byFile["d.md"].Err))
	})

	t.Run("differing content fails without a comparer", func(t *testing.T) {
		t.Parallel()

		artifacts := storedArtifacts(1)
		v := &crawl.Validator{
			Artifacts: artifactStore(artifacts),
			Renderer:  liveRenderer(map[string]string{artifacts[0].URL: "# changed"}),
			Extractor: echoExtractor(),
		}

		report, err := v.Validate(context.Background(), "demo", testPlan(docplan.StrategyStatic))

		require.NoError(t, err)
		assert.Equal(t, 0, report.Passed)
		assert.False(t, report.Samples[0].Passed())
	})

	t.Run("regenerates the plan from project metadata", func(t *testing.T) {
		t.Parallel()

		var proposedFrom string
		var extractedWith []string
		var mu sync.Mutex
		v := &crawl.Validator{
			Artifacts: artifactStore(storedArtifacts(2)),
			Projects: &mock.ProjectStore{
				FindProjectFn: func(_ context.Context, name string) (*docplan.Project, error) {
					return &docplan.Project{Name: name, StartURL: "https://docs.example.com/guide/index.html"}, nil
				},
			},
			Renderer: liveRenderer(map[string]string{"https://docs.example.com/guide/index.html": entryHTML}),
			Extractor: &mock.ContentExtractor{
				ExtractFn: func(html string, plan *docplan.Plan) (string, error) {
					mu.Lock()
					extractedWith = append(extractedWith, plan.ContentSelector)
					mu.Unlock()
					return html, nil
				},
			},
			Planner: &mock.Planner{
				ProposeFn: func(_ context.Context, name, startURL, html string) (*docplan.Plan, error) {
					proposedFrom = html
					p := testPlan(docplan.StrategyDynamic)
					p.ProjectName = name
					p.StartURL = startURL
					p.ContentSelector = "article"
					return p, nil
				},
			},
		}

		report, err := v.Validate(context.Background(), "demo", nil)

		require.NoError(t, err)
		assert.Equal(t, entryHTML, proposedFrom)
		assert.Equal(t, "article", report.Plan.ContentSelector)
		assert.Equal(t, []string{"article", "article"}, extractedWith)
		assert.Equal(t, 2, report.Passed)
	})

	t.Run("fails when the project has no metadata", func(t *testing.T) {
		t.Parallel()

		v := &crawl.Validator{
			Artifacts: artifactStore(storedArtifacts(1)),
			Projects: &mock.ProjectStore{
				FindProjectFn: func(_ context.Context, name string) (*docplan.Project, error) {
					return nil, docplan.Errorf(docplan.ENOTFOUND, "project %q not found", name)
				},
			},
			Planner: &mock.Planner{},
		}

		_, err := v.Validate(context.Background(), "demo", nil)

		require.Error(t, err)
		assert.Equal(t, docplan.ENOTFOUND, docplan.ErrorCode(err))
	})

	t.Run("fails when the project has no artifacts", func(t *testing.T) {
		t.Parallel()

		v := &crawl.Validator{
			Artifacts: &mock.ArtifactStore{
				FindArtifactsFn: func(_ context.Context, name string) ([]*docplan.Artifact, error) {
					return nil, docplan.Errorf(docplan.ENOTFOUND, "no output for project %q", name)
				},
			},
		}

		_, err := v.Validate(context.Background(), "missing", testPlan(docplan.StrategyStatic))

		require.Error(t, err)
		assert.Equal(t, docplan.ENOTFOUND, docplan.ErrorCode(err))
	})
}
