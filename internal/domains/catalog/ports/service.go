package ports

import (
	"context"
	"errors"
	"iter"

	"github.com/Apurer/go-gin-kiosk/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("catalog item not found")

// Source supplies the menu items the catalog is built from.
type Source interface {
	Items(ctx context.Context) ([]domain.Item, error)
}

// Service exposes catalog queries to adapters.
type Service interface {
	Lookup(ctx context.Context, id int64) (domain.Item, error)
	List(ctx context.Context, filter string) iter.Seq[domain.Item]
}
