// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteTables(t *testing.T) {
	t.Run("no tables", func(t *testing.T) {
		out, n, err := RewriteTables("# Title\n\ntext")
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, "# Title\n\ntext", out)
	})

	t.Run("two tables", func(t *testing.T) {
		in := "intro\n" +
			"<table><tr><th>Model</th><th>BLEU</th></tr><tr><td>Base</td><td>27.3</td></tr></table>\n" +
			"middle\n" +
			"<TABLE border=\"1\"><tr><th>h</th></tr><tr><td>x</td></tr></TABLE>\n" +
			"end"
		out, n, err := RewriteTables(in)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.NotContains(t, out, "<table")
		assert.NotContains(t, out, "<TABLE")
		assert.Contains(t, out, "Model")
		assert.Contains(t, out, "27.3")
		assert.Contains(t, out, "intro\n")
		assert.Contains(t, out, "\nmiddle\n")
		assert.Contains(t, out, "\nend")
	})
}
