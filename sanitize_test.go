package onetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	in := map[string]any{
		"a": "",
		"b": nil,
		"c": map[string]any{
			"d": "",
			"e": 1,
			"f": []any{"", nil, "x", map[string]any{"g": ""}},
		},
	}

	t.Run("drops empty strings and nulls", func(t *testing.T) {
		want := map[string]any{
			"c": map[string]any{
				"e": 1,
				"f": []any{"x", map[string]any{}},
			},
		}
		assert.Equal(t, want, Sanitize(in, false))
	})

	t.Run("keeps nulls when allowed", func(t *testing.T) {
		want := map[string]any{
			"b": nil,
			"c": map[string]any{
				"e": 1,
				"f": []any{nil, "x", map[string]any{}},
			},
		}
		assert.Equal(t, want, Sanitize(in, true))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := Sanitize(in, false)
		assert.Equal(t, once, Sanitize(once, false))
		onceNulls := Sanitize(in, true)
		assert.Equal(t, onceNulls, Sanitize(onceNulls, true))
	})

	t.Run("scalars pass through", func(t *testing.T) {
		assert.Equal(t, "", Sanitize("", false))
		assert.Nil(t, Sanitize(nil, false))
		assert.Equal(t, 3, Sanitize(3, false))
	})
}
