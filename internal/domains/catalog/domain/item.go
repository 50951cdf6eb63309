package domain

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

var (
	ErrInvalidItemID   = errors.New("catalog item id must be greater than zero")
	ErrEmptyItemName   = errors.New("catalog item name is required")
	ErrNegativePrice   = errors.New("catalog item price must be greater or equal to zero")
	ErrDuplicateItemID = errors.New("catalog item id is duplicated")
)

// Item is a purchasable menu entry. Items never change after the catalog is built.
type Item struct {
	ID        int64
	Name      string
	UnitPrice decimal.Decimal
	ImageRef  string
}

// Validate enforces the item invariants.
func (i Item) Validate() error {
	if i.ID <= 0 {
		return ErrInvalidItemID
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyItemName
	}
	if i.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Catalog is the read-only, ordered menu.
type Catalog struct {
	items  []Item
	index  map[int64]int
	folded []string
}

// NewCatalog validates every item and freezes the menu in the given order.
func NewCatalog(items []Item) (*Catalog, error) {
	c := &Catalog{
		items:  make([]Item, 0, len(items)),
		index:  make(map[int64]int, len(items)),
		folded: make([]string, 0, len(items)),
	}
	fold := cases.Fold()
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", item.ID, err)
		}
		if _, dup := c.index[item.ID]; dup {
			return nil, fmt.Errorf("item %d: %w", item.ID, ErrDuplicateItemID)
		}
		c.index[item.ID] = len(c.items)
		c.items = append(c.items, item)
		c.folded = append(c.folded, fold.String(item.Name))
	}
	return c, nil
}

// Lookup resolves an item by id.
func (c *Catalog) Lookup(id int64) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	pos, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[pos], true
}

// List yields the items whose name contains filter, ignoring case, in menu order.
// The filter is matched as given, surrounding whitespace included.
// The sequence can be ranged over any number of times.
func (c *Catalog) List(filter string) iter.Seq[Item] {
	needle := cases.Fold().String(filter)
	return func(yield func(Item) bool) {
		if c == nil {
			return
		}
		for i, item := range c.items {
			if needle != "" && !strings.Contains(c.folded[i], needle) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}
