package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-kiosk/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-kiosk/internal/domains/catalog/ports"
)

var _ ports.Source = (*Source)(nil)

// Source serves a fixed list of items.
type Source struct {
	items []domain.Item
}

// NewSource copies items so later changes by the caller are not observed.
func NewSource(items []domain.Item) *Source {
	return &Source{items: append([]domain.Item(nil), items...)}
}

// NewCafeteriaSource returns the default cafeteria menu.
func NewCafeteriaSource() *Source {
	return NewSource(CafeteriaMenu())
}

func (s *Source) Items(_ context.Context) ([]domain.Item, error) {
	return append([]domain.Item(nil), s.items...), nil
}

// CafeteriaMenu is the menu served when no catalog file is configured.
func CafeteriaMenu() []domain.Item {
	return []domain.Item{
		{ID: 1, Name: "Salada de Frutas", UnitPrice: decimal.RequireFromString("6.00"), ImageRef: "https://i.imgur.com/T0n2q5d.jpeg"},
		{ID: 2, Name: "Suco de Jambo", UnitPrice: decimal.RequireFromString("3.00"), ImageRef: "https://i.imgur.com/kFLk5Yk.jpeg"},
		{ID: 3, Name: "Brownie Zero Açúcar", UnitPrice: decimal.RequireFromString("5.50"), ImageRef: "https://i.imgur.com/5DE2i3L.jpeg"},
		{ID: 4, Name: "Cookies Fitness", UnitPrice: decimal.RequireFromString("4.00"), ImageRef: "https://i.imgur.com/mJ5T4pZ.jpeg"},
		{ID: 5, Name: "Sanduíche Natural", UnitPrice: decimal.RequireFromString("8.00"), ImageRef: "https://i.imgur.com/1G6UjGd.jpeg"},
		{ID: 6, Name: "Suco Detox", UnitPrice: decimal.RequireFromString("7.00"), ImageRef: "https://i.imgur.com/eBwFmOC.jpeg"},
	}
}
