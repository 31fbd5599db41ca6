package search

import (
	"testing"

	"github.com/PanagiotisDrakatos/TraceMatrix/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeIdentityHits(t *testing.T) {
	t.Run("dedup across sources keeps first position", func(t *testing.T) {
		a := []core.IdentityHit{
			{URL: "https://github.com/ada", Site: "GitHub", Source: "username"},
		}
		b := []core.IdentityHit{
			{URL: "https://www.github.com/ada/", Site: "github", Source: "email"},
			{URL: "https://twitter.com/ada", Site: "Twitter", Source: "email"},
		}

		out := MergeIdentityHits(a, b, "username")
		require.Len(t, out, 2)
		assert.Equal(t, "https://github.com/ada", out[0].URL)
		assert.Equal(t, "username", out[0].Source)
		assert.Equal(t, "https://twitter.com/ada", out[1].URL)
	})

	t.Run("preferred source replaces in place", func(t *testing.T) {
		a := []core.IdentityHit{
			{URL: "https://github.com/ada", Site: "gh-poor", Source: "email"},
			{URL: "https://gitlab.com/ada", Site: "gl", Source: "email"},
		}
		b := []core.IdentityHit{
			{URL: "https://github.com/ada", Site: "gh-rich", Source: "username"},
		}

		out := MergeIdentityHits(a, b, "username")
		require.Len(t, out, 2)
		// Position kept, fields upgraded to the preferred variant.
		assert.Equal(t, "gh-rich", out[0].Site)
		assert.Equal(t, "username", out[0].Source)
		assert.Equal(t, "gl", out[1].Site)
	})

	t.Run("non-preferred duplicate never replaces", func(t *testing.T) {
		a := []core.IdentityHit{{URL: "https://github.com/ada", Site: "keep", Source: "username"}}
		b := []core.IdentityHit{{URL: "https://github.com/ada", Site: "drop", Source: "email"}}

		out := MergeIdentityHits(a, b, "username")
		require.Len(t, out, 1)
		assert.Equal(t, "keep", out[0].Site)
	})

	t.Run("empty urls dropped", func(t *testing.T) {
		out := MergeIdentityHits([]core.IdentityHit{{Site: "no-url"}}, nil, "username")
		assert.Empty(t, out)
	})
}

func TestIdentityKey(t *testing.T) {
	assert.Equal(t, identityKey("https://www.GitHub.com/ada/"), identityKey("http://github.com/ada"))
	assert.NotEqual(t, identityKey("https://github.com/ada"), identityKey("https://github.com/grace"))
}
