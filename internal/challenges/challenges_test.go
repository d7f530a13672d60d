package challenges

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figrac0/quantum-game/internal/game"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Equal(t, 15, c.Len())

	first := c.ByLevel(1)
	assert.Equal(t, "Сумма чисел", first.Title)
	require.Len(t, first.Slots, 1)
	assert.Equal(t, "+", first.Slots[0].Correct)
	assert.Contains(t, first.Code, "return a ___ b;")
	assert.Len(t, first.Elements, 4)

	ternary := c.ByLevel(5)
	assert.Equal(t, []game.Slot{{ID: "s1", Correct: "?"}, {ID: "s2", Correct: ":"}}, ternary.Slots)

	concat := c.ByLevel(14)
	assert.Equal(t, 2, concat.BlankCount())

	assert.Equal(t, "!==", c.ByLevel(15).Slots[0].Correct)
	assert.Equal(t, game.KindExpression, c.ByLevel(10).Elements[0].Kind)
}

func TestDefaultCatalogInvariants(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, ch := range c.All() {
		t.Run(ch.Title, func(t *testing.T) {
			assert.Equal(t, len(ch.Slots), strings.Count(ch.Code, game.BlankMarker))
			assert.GreaterOrEqual(t, len(ch.Elements), 2, "answer plus decoys")
			for _, s := range ch.Slots {
				assert.True(t, ch.HasValue(s.Correct), "slot %s", s.ID)
			}
			for _, el := range ch.Elements {
				assert.NotEmpty(t, el.Kind)
			}
			assert.NotEmpty(t, ch.Hint)
		})
	}
}

func TestParseDerivesMissingKinds(t *testing.T) {
	c, err := Parse([]byte(`
challenges:
  - level: 1
    title: "push"
    code: "xs.___(1)"
    slots: [{ id: s1, correct: push }]
    elements:
      - { id: e1, value: push }
      - { id: e2, value: "===" }
      - { id: e3, value: size, type: property }
      - { id: e4, value: len }
`))
	require.NoError(t, err)
	els := c.ByLevel(1).Elements
	assert.Equal(t, game.KindMethod, els[0].Kind)
	assert.Equal(t, game.KindOperator, els[1].Kind)
	assert.Equal(t, game.KindProperty, els[2].Kind)
	assert.Equal(t, game.KindOther, els[3].Kind)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		errMsg string
	}{
		{"empty", "challenges: []", "catalog is empty"},
		{"not yaml", "challenges: [", "decode"},
		{"unknown field", "challenges:\n  - level: 1\n    titel: x\n", "field titel not found"},
		{
			"answer missing from elements",
			"challenges:\n  - level: 1\n    title: t\n    code: a ___ b\n    slots: [{id: s1, correct: '+'}]\n    elements: [{id: e1, value: '-'}]\n",
			"not among the elements",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
challenges:
  - level: 1
    title: "and"
    code: "a ___ b"
    slots: [{ id: s1, correct: "&&" }]
    elements: [{ id: e1, value: "&&" }, { id: e2, value: "||" }]
`), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestInitUsesEmbeddedByDefault(t *testing.T) {
	t.Setenv(EnvFile, "")
	require.NoError(t, Init(""))
	require.NotNil(t, Catalog())

	src, levels, slots := Stats()
	assert.Equal(t, "embedded", src)
	assert.Equal(t, 15, levels)
	assert.Equal(t, 17, slots)
}
