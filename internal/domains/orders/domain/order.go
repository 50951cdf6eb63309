package domain

import (
	"errors"
	"fmt"
)

// Status enumerates the order lifecycle. Orders only move forward:
// pending -> preparing -> delivered.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusDelivered Status = "delivered"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusPreparing, StatusDelivered}

var (
	ErrEmptyCart         = errors.New("cannot submit an empty cart")
	ErrInvalidOrderID    = errors.New("order id must be greater than zero")
	ErrInvalidLine       = errors.New("order line is invalid")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status cannot advance")
)

// ParseStatus validates a status name.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusDelivered:
		return true
	default:
		return false
	}
}

// Next returns the following status; delivered is terminal.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusPending:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// Action names the staff button offered for an order in this status, empty when none.
func (s Status) Action() string {
	switch s {
	case StatusPending:
		return "prepare"
	case StatusPreparing:
		return "deliver"
	default:
		return ""
	}
}

// Line is one item of a submitted order.
type Line struct {
	ItemID   int64
	Quantity int
}

// Order is a submitted cart snapshot. Its lines never change; its status only advances.
type Order struct {
	id     int64
	lines  []Line
	status Status
}

// NewOrder creates a pending order from a cart snapshot.
func NewOrder(id int64, lines []Line) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	return Restore(id, lines, StatusPending)
}

// Restore rebuilds an order from persisted state.
func Restore(id int64, lines []Line, status Status) (*Order, error) {
	if id <= 0 {
		return nil, ErrInvalidOrderID
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("order %d: %w: no lines", id, ErrInvalidLine)
	}
	seen := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		if line.ItemID <= 0 || line.Quantity < 1 {
			return nil, fmt.Errorf("order %d: %w: item %d quantity %d", id, ErrInvalidLine, line.ItemID, line.Quantity)
		}
		if _, dup := seen[line.ItemID]; dup {
			return nil, fmt.Errorf("order %d: %w: duplicate item %d", id, ErrInvalidLine, line.ItemID)
		}
		seen[line.ItemID] = struct{}{}
	}
	if !status.Valid() {
		return nil, fmt.Errorf("order %d: %w: %q", id, ErrInvalidStatus, status)
	}
	return &Order{id: id, lines: append([]Line(nil), lines...), status: status}, nil
}

func (o *Order) ID() int64 { return o.id }

func (o *Order) Status() Status { return o.status }

// Lines returns a copy of the order lines.
func (o *Order) Lines() []Line {
	return append([]Line(nil), o.lines...)
}

// Advance moves the order one step forward. Delivered orders fail with ErrInvalidTransition.
func (o *Order) Advance() error {
	next, ok := o.status.Next()
	if !ok {
		return fmt.Errorf("order %d is %s: %w", o.id, o.status, ErrInvalidTransition)
	}
	o.status = next
	return nil
}

// Clone returns an independent copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	return &Order{id: o.id, lines: append([]Line(nil), o.lines...), status: o.status}
}
