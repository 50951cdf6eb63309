package ports

import (
	"context"

	"github.com/Apurer/go-gin-kiosk/internal/domains/cart/domain"
)

// Repository persists the whole cart as one record.
type Repository interface {
	// Load returns the persisted lines; an absent record yields no lines.
	Load(ctx context.Context) ([]domain.Line, error)
	// Save replaces the persisted record with lines.
	Save(ctx context.Context, lines []domain.Line) error
}
