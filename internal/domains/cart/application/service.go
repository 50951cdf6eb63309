package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-kiosk/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-kiosk/internal/domains/cart/ports"
	catalogports "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

// Service owns the session cart and mirrors every mutation to the repository.
type Service struct {
	mu          sync.Mutex
	repo        ports.Repository
	catalog     catalogports.Service
	cart        *domain.Cart
	maxQuantity int
}

type Option func(*Service)

// WithMaxLineQuantity caps the quantity of a single line. Zero or less disables the cap.
func WithMaxLineQuantity(n int) Option {
	return func(s *Service) {
		s.maxQuantity = n
	}
}

// NewService loads the persisted cart and returns a service ready for use.
func NewService(ctx context.Context, repo ports.Repository, catalog catalogports.Service, opts ...Option) (*Service, error) {
	if repo == nil || catalog == nil {
		return nil, errors.New("cart service requires a repository and a catalog")
	}
	lines, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	cart, err := domain.New(lines)
	if err != nil {
		return nil, fmt.Errorf("%w: restore cart: %w", faults.ErrDataIntegrity, err)
	}
	s := &Service{repo: repo, catalog: catalog, cart: cart}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// AddItem puts one unit of a catalog item in the cart and persists the cart.
func (s *Service) AddItem(ctx context.Context, itemID int64) error {
	if _, err := s.catalog.Lookup(ctx, itemID); err != nil {
		return mapError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cart.Clone()
	if err := next.Add(itemID, s.maxQuantity); err != nil {
		return mapError(err)
	}
	return s.commit(ctx, next)
}

// Clear empties the cart and persists the empty cart.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cart.Clone()
	next.Clear()
	return s.commit(ctx, next)
}

func (s *Service) TotalCount(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalCount()
}

// TotalPrice fails with faults.ErrDataIntegrity when a line no longer resolves in the catalog.
func (s *Service) TotalPrice(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice(func(itemID int64) (decimal.Decimal, bool) {
		item, err := s.catalog.Lookup(ctx, itemID)
		if err != nil {
			return decimal.Zero, false
		}
		return item.UnitPrice, true
	})
}

func (s *Service) Snapshot(_ context.Context) []domain.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// commit persists next and only then makes it the current cart.
func (s *Service) commit(ctx context.Context, next *domain.Cart) error {
	if err := s.repo.Save(ctx, next.Snapshot()); err != nil {
		return mapError(err)
	}
	s.cart = next
	return nil
}

var _ ports.Service = (*Service)(nil)
