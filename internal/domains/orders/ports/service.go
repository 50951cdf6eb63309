package ports

import (
	"context"
	"iter"

	"github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
)

// Service exposes order lifecycle use cases to adapters.
type Service interface {
	Submit(ctx context.Context, lines []domain.Line) (int64, error)
	Advance(ctx context.Context, id int64) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.Status) iter.Seq[*domain.Order]
	QueueDepths(ctx context.Context) map[domain.Status]int
}
