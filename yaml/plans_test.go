package yaml_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/docplan"
	"github.com/fwojciec/docplan/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPlans(t *testing.T) {
	t.Parallel()

	plans := yaml.DefaultPlans()

	plan, err := plans.Find("ros_humble_manual")
	require.NoError(t, err)
	assert.Equal(t, "ros_humble_manual", plan.ProjectName)
	assert.Equal(t, "https://docs.ros.org/en/humble/index.html", plan.StartURL)
	assert.Equal(t, "https://docs.ros.org/en/humble/", plan.BaseURL)
	assert.Equal(t, docplan.StrategyStatic, plan.FetchStrategy)
	assert.Equal(t, "div.wy-menu-vertical", plan.NavSelector)
	assert.Equal(t, "div[role='main']", plan.ContentSelector)
	assert.Equal(t, []string{"div.admonition-warning", "a.headerlink"}, plan.RemoveSelectors)
}

func TestLoadPlans(t *testing.T) {
	t.Parallel()

	t.Run("fills defaults", func(t *testing.T) {
		t.Parallel()

		plans, err := yaml.LoadPlans(strings.NewReader(`
plans:
  fastapi:
    start_url: https://fastapi.tiangolo.com/tutorial/
    nav_selector: nav.md-nav--primary
    content_selector: article
`))

		require.NoError(t, err)
		plan, err := plans.Find("fastapi")
		require.NoError(t, err)
		assert.Equal(t, "fastapi", plan.ProjectName)
		assert.Equal(t, "https://fastapi.tiangolo.com/tutorial/", plan.BaseURL)
		assert.Equal(t, docplan.StrategyStatic, plan.FetchStrategy)
		assert.Empty(t, plan.RemoveSelectors)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadPlans(strings.NewReader(`
plans:
  x:
    start_url: https://example.com/
    nav_selector: nav
    content_selector: main
    navigation: nav
`))

		require.Error(t, err)
		assert.Equal(t, docplan.EINVALID, docplan.ErrorCode(err))
	})

	t.Run("rejects invalid plans", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadPlans(strings.NewReader(`
plans:
  broken:
    start_url: https://example.com/
    fetch_strategy: teleport
    nav_selector: nav
    content_selector: main
`))

		require.Error(t, err)
		assert.Contains(t, docplan.ErrorMessage(err), "broken")
	})

	t.Run("accepts an empty file", func(t *testing.T) {
		t.Parallel()

		plans, err := yaml.LoadPlans(strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, plans)
	})

	t.Run("unknown plan is not found", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Plans{}.Find("nope")

		assert.Equal(t, docplan.ENOTFOUND, docplan.ErrorCode(err))
	})
}

func TestLoadPlansFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
plans:
  ros_humble_manual:
    start_url: https://docs.ros.org/en/humble/index.html
    fetch_strategy: dynamic
    nav_selector: nav.bd-docs-nav
    content_selector: main
`), 0o644))

	user, err := yaml.LoadPlansFile(path)
	require.NoError(t, err)

	merged := yaml.DefaultPlans().Merge(user)
	plan, err := merged.Find("ros_humble_manual")
	require.NoError(t, err)
	assert.Equal(t, docplan.StrategyDynamic, plan.FetchStrategy)
	assert.Equal(t, "nav.bd-docs-nav", plan.NavSelector)
	assert.Equal(t, []string{"ros_humble_manual"}, merged.Names())
}
