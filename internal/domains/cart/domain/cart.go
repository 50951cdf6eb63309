package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

var (
	ErrInvalidItemID   = errors.New("cart item id must be greater than zero")
	ErrInvalidQuantity = errors.New("cart quantity must be at least one")
	ErrDuplicateLine   = errors.New("cart already holds a line for this item")
	ErrQuantityLimit   = errors.New("cart line quantity limit reached")
)

// Line is one cart entry. A cart never holds two lines for the same item.
type Line struct {
	ItemID   int64
	Quantity int
}

// PriceLookup resolves the unit price of a catalog item.
type PriceLookup func(itemID int64) (decimal.Decimal, bool)

// Cart aggregates the items a student selected before checkout.
type Cart struct {
	lines []Line
	index map[int64]int
}

// New rebuilds a cart from persisted lines, preserving their order.
func New(lines []Line) (*Cart, error) {
	c := &Cart{index: make(map[int64]int, len(lines))}
	for _, line := range lines {
		if line.ItemID <= 0 {
			return nil, ErrInvalidItemID
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("item %d: %w", line.ItemID, ErrInvalidQuantity)
		}
		if _, dup := c.index[line.ItemID]; dup {
			return nil, fmt.Errorf("item %d: %w", line.ItemID, ErrDuplicateLine)
		}
		c.index[line.ItemID] = len(c.lines)
		c.lines = append(c.lines, line)
	}
	return c, nil
}

// Add puts one more unit of itemID in the cart. maxQuantity <= 0 means no cap.
func (c *Cart) Add(itemID int64, maxQuantity int) error {
	if itemID <= 0 {
		return ErrInvalidItemID
	}
	if pos, ok := c.index[itemID]; ok {
		if maxQuantity > 0 && c.lines[pos].Quantity >= maxQuantity {
			return fmt.Errorf("item %d: %w (%d)", itemID, ErrQuantityLimit, maxQuantity)
		}
		c.lines[pos].Quantity++
		return nil
	}
	if c.index == nil {
		c.index = map[int64]int{}
	}
	c.index[itemID] = len(c.lines)
	c.lines = append(c.lines, Line{ItemID: itemID, Quantity: 1})
	return nil
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = map[int64]int{}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalCount sums the quantities of all lines.
func (c *Cart) TotalCount() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums quantity times unit price. Any unresolvable item is a data integrity fault.
func (c *Cart) TotalPrice(lookup PriceLookup) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range c.lines {
		price, ok := lookup(line.ItemID)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: cart references unknown item %d", faults.ErrDataIntegrity, line.ItemID)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// Snapshot returns a copy of the lines in insertion order.
func (c *Cart) Snapshot() []Line {
	if len(c.lines) == 0 {
		return []Line{}
	}
	return append([]Line(nil), c.lines...)
}

// Clone returns an independent copy of the cart.
func (c *Cart) Clone() *Cart {
	clone, _ := New(c.lines)
	return clone
}
