package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogRejectsBadChallenges(t *testing.T) {
	valid := func() Challenge { return testChallenges()[0] }

	tests := []struct {
		name   string
		mutate func(*Challenge)
		errMsg string
	}{
		{"missing title", func(c *Challenge) { c.Title = " " }, "title is required"},
		{"no slots", func(c *Challenge) { c.Slots = nil }, "at least one slot"},
		{"blank mismatch", func(c *Challenge) { c.Code = "a ___ b ___ c" }, "2 blanks but 1 slots"},
		{"answer not offered", func(c *Challenge) { c.Slots[0].Correct = "%" }, "not among the elements"},
		{"duplicate element", func(c *Challenge) { c.Elements[1].ID = "e1" }, `duplicate element id "e1"`},
		{"empty slot id", func(c *Challenge) { c.Slots[0].ID = "" }, "slot id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := valid()
			tt.mutate(&ch)
			_, err := NewCatalog([]Challenge{ch})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewCatalogRequiresSequentialLevels(t *testing.T) {
	chs := testChallenges()
	chs[1].Level = 5
	_, err := NewCatalog(chs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has level 5, want 2")

	_, err = NewCatalog(nil)
	assert.Error(t, err)
}

func TestCatalogIsImmutable(t *testing.T) {
	c := testCatalog(t)
	assert.Equal(t, 3, c.Len())

	ch := c.ByLevel(1)
	ch.Slots[0].Correct = "-"
	ch.Elements[0].Value = "x"
	assert.Equal(t, "+", c.ByLevel(1).Slots[0].Correct)
	assert.Equal(t, "+", c.ByLevel(1).Elements[0].Value)

	all := c.All()
	all[0].Title = "changed"
	assert.Equal(t, "Сумма чисел", c.ByLevel(1).Title)
}

func TestByLevelOutOfRangePanics(t *testing.T) {
	c := testCatalog(t)
	assert.Panics(t, func() { c.ByLevel(0) })
	assert.Panics(t, func() { c.ByLevel(4) })
	assert.NotPanics(t, func() { c.ByLevel(3) })
}

func TestSegments(t *testing.T) {
	ch := testChallenges()[1]
	assert.Equal(t, []Segment{
		{Text: "return age >= 18 "},
		{SlotID: "s1"},
		{Text: ` "adult" `},
		{SlotID: "s2"},
		{Text: ` "child";`},
	}, ch.Segments())

	leading := Challenge{Code: "___(x)", Slots: []Slot{{ID: "s1"}}}
	assert.Equal(t, []Segment{{SlotID: "s1"}, {Text: "(x)"}}, leading.Segments())
}

func TestKindForValue(t *testing.T) {
	tests := map[string]Kind{
		"+":       KindOperator,
		"!==":     KindOperator,
		"?":       KindOperator,
		"||":      KindOperator,
		"map":     KindMethod,
		"unshift": KindMethod,
		"const":   KindOther,
		"> 0":     KindOther,
	}
	for value, want := range tests {
		assert.Equal(t, want, KindForValue(value), value)
	}
}
