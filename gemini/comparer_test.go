package gemini_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/docplan"
	"github.com/fwojciec/docplan/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparer_Compare(t *testing.T) {
	t.Parallel()

	t.Run("returns the model verdict", func(t *testing.T) {
		t.Parallel()

		var prompt string
		gen := reply(`{"is_match": true, "confidence": 0.92, "reason": "same topic and code"}`, &prompt)

		v, err := gemini.NewComparer(gen).Compare(context.Background(), "# Stored", "# Live")

		require.NoError(t, err)
		assert.True(t, v.IsMatch)
		assert.InDelta(t, 0.92, v.Confidence, 1e-9)
		assert.Equal(t, "same topic and code", v.Reason)
		assert.Contains(t, prompt, "# Stored")
		assert.Contains(t, prompt, "# Live")
	})

	t.Run("clamps confidence", func(t *testing.T) {
		t.Parallel()

		v, err := gemini.NewComparer(reply(`{"is_match": false, "confidence": 7, "reason": "x"}`, nil)).Compare(context.Background(), "a", "b")

		require.NoError(t, err)
		assert.InDelta(t, 1.0, v.Confidence, 1e-9)
	})

	t.Run("truncates long documents", func(t *testing.T) {
		t.Parallel()

		var prompt string
		gen := reply(`{"is_match": true, "confidence": 1, "reason": "x"}`, &prompt)
		long := strings.Repeat("a", 10000)

		_, err := gemini.NewComparer(gen).Compare(context.Background(), long, long)

		require.NoError(t, err)
		assert.Less(t, len(prompt), 2*gemini.CompareLen+2000)
	})

	t.Run("fails on malformed reply", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewComparer(reply(`{"is_match": tru`, nil)).Compare(context.Background(), "a", "b")

		require.Error(t, err)
		assert.Equal(t, docplan.EINVALID, docplan.ErrorCode(err))
	})
}

func TestCompactHTML(t *testing.T) {
	t.Parallel()

	t.Run("drops scripts styles svg and comments", func(t *testing.T) {
		t.Parallel()

		out := gemini.CompactHTML(`<html><head><style>.x{}</style><script>alert(1)</script></head><body><!-- note --><svg><path d="M0"/></svg><nav class="menu">Menu</nav></body></html>`, 10000)

		assert.Contains(t, out, `<nav class="menu">Menu</nav>`)
		assert.NotContains(t, out, "alert")
		assert.NotContains(t, out, ".x{}")
		assert.NotContains(t, out, "note")
		assert.NotContains(t, out, "<svg")
	})

	t.Run("truncates on a rune boundary", func(t *testing.T) {
		t.Parallel()

		out := gemini.CompactHTML("<p>"+strings.Repeat("é", 100)+"</p>", 50)

		assert.LessOrEqual(t, len(out), 50)
		assert.True(t, strings.HasPrefix(out, "<html>"))
		assert.NotContains(t, out, "�")
	})
}
