package domain

import (
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testItems() []Item {
	return []Item{
		{ID: 1, Name: "Salada de Frutas", UnitPrice: decimal.RequireFromString("6.00")},
		{ID: 2, Name: "Suco de Jambo", UnitPrice: decimal.RequireFromString("3.00")},
		{ID: 3, Name: "Brownie Zero Açúcar", UnitPrice: decimal.RequireFromString("5.50")},
		{ID: 6, Name: "Suco Detox", UnitPrice: decimal.RequireFromString("7.00")},
	}
}

func names(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func TestNewCatalog_RejectsInvalidItems(t *testing.T) {
	_, err := NewCatalog([]Item{{ID: 0, Name: "x"}})
	require.ErrorIs(t, err, ErrInvalidItemID)

	_, err = NewCatalog([]Item{{ID: 1, Name: "  "}})
	require.ErrorIs(t, err, ErrEmptyItemName)

	_, err = NewCatalog([]Item{{ID: 1, Name: "x", UnitPrice: decimal.NewFromInt(-1)}})
	require.ErrorIs(t, err, ErrNegativePrice)

	_, err = NewCatalog([]Item{{ID: 1, Name: "x"}, {ID: 1, Name: "y"}})
	require.ErrorIs(t, err, ErrDuplicateItemID)
}

func TestCatalog_Lookup(t *testing.T) {
	c, err := NewCatalog(testItems())
	require.NoError(t, err)

	item, ok := c.Lookup(2)
	require.True(t, ok)
	require.Equal(t, "Suco de Jambo", item.Name)

	_, ok = c.Lookup(42)
	require.False(t, ok)
}

func TestCatalog_ListFiltersCaseInsensitively(t *testing.T) {
	c, err := NewCatalog(testItems())
	require.NoError(t, err)

	require.Equal(t, []string{"Suco de Jambo", "Suco Detox"}, names(slices.Collect(c.List("SUCO"))))
	require.Equal(t, []string{"Brownie Zero Açúcar"}, names(slices.Collect(c.List("açúcar"))))
	require.Empty(t, slices.Collect(c.List("pizza")))
}

func TestCatalog_ListKeepsWhitespaceInFilter(t *testing.T) {
	c, err := NewCatalog(testItems())
	require.NoError(t, err)

	require.Equal(t, []string{"Salada de Frutas", "Suco de Jambo"}, names(slices.Collect(c.List("de "))))
	require.Equal(t, []string{"Salada de Frutas", "Suco de Jambo", "Suco Detox"}, names(slices.Collect(c.List("de"))))
	require.Len(t, slices.Collect(c.List(" ")), 4)
}

func TestCatalog_ListEmptyFilterKeepsMenuOrder(t *testing.T) {
	c, err := NewCatalog(testItems())
	require.NoError(t, err)

	seq := c.List("")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.Len(t, first, 4)
	require.Equal(t, first, second)
	require.Equal(t, int64(1), first[0].ID)
	require.Equal(t, int64(6), first[3].ID)
}

func TestCatalog_ListStopsEarly(t *testing.T) {
	c, err := NewCatalog(testItems())
	require.NoError(t, err)

	var seen int
	for range c.List("") {
		seen++
		if seen == 2 {
			break
		}
	}
	require.Equal(t, 2, seen)
}
