package settings_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/settings"
)

func TestFlatten(t *testing.T) {
	t.Parallel()

	got := settings.Flatten(map[string]any{
		"theme": "light",
		"features": map[string]any{
			"reports": map[string]any{
				"enabled": true,
			},
			"limit": 10,
		},
		"tags": []string{"a", "b"},
	})

	assert.Equal(t, map[string]any{
		"theme":                    "light",
		"features.reports.enabled": true,
		"features.limit":           10,
		"tags":                     []string{"a", "b"},
	}, got)
}

func TestStoreMergeAndReset(t *testing.T) {
	t.Parallel()

	defaults := map[string]any{
		"theme": "light",
		"features": map[string]any{
			"reports": true,
			"exports": false,
		},
	}

	t.Run("overrides win over defaults", func(t *testing.T) {
		t.Parallel()

		s := settings.New(defaults)
		s.Merge(map[string]any{
			"theme": "dark",
			"features": map[string]any{
				"exports": true,
			},
		})

		assert.Equal(t, "dark", s.GetString("theme", ""))
		assert.True(t, s.GetBool("features.exports", false))
		// Untouched sibling keys survive the merge.
		assert.True(t, s.GetBool("features.reports", false))
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		t.Parallel()

		s := settings.New(defaults)
		s.Merge(map[string]any{"theme": "dark", "extra": "x"})
		s.Reset()

		assert.Equal(t, "light", s.GetString("theme", ""))
		_, ok := s.Get("extra")
		assert.False(t, ok)
	})

	t.Run("reset does not leak across merges", func(t *testing.T) {
		t.Parallel()

		s := settings.New(defaults)
		s.Merge(map[string]any{"theme": "dark"})
		s.Reset()
		s.Merge(map[string]any{"features": map[string]any{"exports": true}})

		assert.Equal(t, "light", s.GetString("theme", ""))
		assert.True(t, s.GetBool("features.exports", false))
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("parses nested defaults", func(t *testing.T) {
		t.Parallel()

		src := `
theme: light
features:
  reports: true
  limit: 25
`
		s, err := settings.FromYAML(strings.NewReader(src))
		require.NoError(t, err)

		assert.Equal(t, "light", s.GetString("theme", ""))
		assert.True(t, s.GetBool("features.reports", false))
		assert.Equal(t, 25, s.GetInt("features.limit", 0))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := settings.FromYAML(strings.NewReader("theme: [unclosed"))
		require.Error(t, err)
	})
}

func TestTypedGetters(t *testing.T) {
	t.Parallel()

	s := settings.New(map[string]any{
		"str":       "value",
		"boolean":   true,
		"boolStr":   "true",
		"count":     7,
		"countF":    float64(7),
		"countStr":  "7",
		"ratio":     1.5,
		"fraction":  "0.25",
		"nonNumber": "abc",
	})

	t.Run("string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "value", s.GetString("str", ""))
		assert.Equal(t, "7", s.GetString("count", ""))
		assert.Equal(t, "fallback", s.GetString("missing", "fallback"))
	})

	t.Run("bool", func(t *testing.T) {
		t.Parallel()
		assert.True(t, s.GetBool("boolean", false))
		assert.True(t, s.GetBool("boolStr", false))
		assert.False(t, s.GetBool("nonNumber", false))
		assert.True(t, s.GetBool("missing", true))
	})

	t.Run("int", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 7, s.GetInt("count", 0))
		assert.Equal(t, 7, s.GetInt("countF", 0))
		assert.Equal(t, 7, s.GetInt("countStr", 0))
		assert.Equal(t, 9, s.GetInt("ratio", 9))
		assert.Equal(t, 9, s.GetInt("missing", 9))
	})

	t.Run("float", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 1.5, s.GetFloat("ratio", 0))
		assert.Equal(t, 7.0, s.GetFloat("count", 0))
		assert.Equal(t, 0.25, s.GetFloat("fraction", 0))
		assert.Equal(t, 2.5, s.GetFloat("missing", 2.5))
	})
}
