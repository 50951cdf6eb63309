package application

import (
	"context"
	"fmt"
	"iter"

	"github.com/Apurer/go-gin-kiosk/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-kiosk/internal/domains/catalog/ports"
)

// Service answers menu queries over a frozen catalog.
type Service struct {
	catalog *domain.Catalog
}

// NewService loads the items from source once and freezes them.
func NewService(ctx context.Context, source ports.Source) (*Service, error) {
	items, err := source.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalog, err := domain.NewCatalog(items)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return &Service{catalog: catalog}, nil
}

// Lookup resolves an item or returns ports.ErrNotFound.
func (s *Service) Lookup(_ context.Context, id int64) (domain.Item, error) {
	item, ok := s.catalog.Lookup(id)
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: %d", ports.ErrNotFound, id)
	}
	return item, nil
}

// List yields menu items matching filter.
func (s *Service) List(_ context.Context, filter string) iter.Seq[domain.Item] {
	return s.catalog.List(filter)
}

var _ ports.Service = (*Service)(nil)
