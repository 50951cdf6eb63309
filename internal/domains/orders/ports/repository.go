package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists the order store. The store is always written in full.
type Repository interface {
	// Load returns every order in submission order; an absent store yields none.
	Load(ctx context.Context) ([]*domain.Order, error)
	// Save replaces the persisted store with orders.
	Save(ctx context.Context, orders []*domain.Order) error
}
