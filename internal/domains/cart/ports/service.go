package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-kiosk/internal/domains/cart/domain"
)

// Service exposes cart use cases to adapters.
type Service interface {
	AddItem(ctx context.Context, itemID int64) error
	Clear(ctx context.Context) error
	TotalCount(ctx context.Context) int
	TotalPrice(ctx context.Context) (decimal.Decimal, error)
	Snapshot(ctx context.Context) []domain.Line
}
