package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalBool(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	t.Run("element membership", func(t *testing.T) {
		ctx := map[string]any{
			"army": map[string]any{"terrain_elements": []string{"air", "water"}},
		}
		ok, err := reg.EvalBool("'water' in army.terrain_elements", ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = reg.EvalBool("'fire' in army.terrain_elements", ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("combined predicate", func(t *testing.T) {
		ctx := map[string]any{
			"caster": map[string]any{"species": "elf"},
			"army":   map[string]any{"unit_count": 3},
			"game":   map[string]any{"turn": 2},
		}
		ok, err := reg.EvalBool("caster.species == 'elf' && army.unit_count >= 2", ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("non-boolean expression is rejected at compile time", func(t *testing.T) {
		_, err := reg.EvalBool("1 + 1", map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must evaluate to bool")
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := reg.EvalBool("army.terrain_elements in in", map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to compile")
	})

	t.Run("missing variable key", func(t *testing.T) {
		ctx := map[string]any{"army": map[string]any{}}
		_, err := reg.EvalBool("'water' in army.terrain_elements", ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to evaluate")
	})
}

func TestCompileCaches(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	const expr = "game.turn > 1"
	require.NoError(t, reg.Compile(expr))
	require.Len(t, reg.programs, 1)

	// A second compile of the same expression reuses the cached program.
	require.NoError(t, reg.Compile(expr))
	require.Len(t, reg.programs, 1)

	ok, err := reg.EvalBool(expr, map[string]any{"game": map[string]any{"turn": 3}})
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, reg.programs, 1)
}
