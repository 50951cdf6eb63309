package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-kiosk/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

// Service owns the order store. Committed state is never mutated in place:
// every change builds a new slice, persists it, then swaps it in.
type Service struct {
	mu        sync.RWMutex
	repo      ports.Repository
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time

	orders []*domain.Order
	index  map[int64]int
	lastID int64
}

type Option func(*Service)

// WithPublisher forwards committed changes. Publish failures are logged and ignored.
func WithPublisher(p ports.EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source used for order ids and events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService loads the persisted order store.
func NewService(ctx context.Context, repo ports.Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("order service requires a repository")
	}
	s := &Service{
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		index:  map[int64]int{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	orders, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	for _, order := range orders {
		if _, dup := s.index[order.ID()]; dup {
			return nil, fmt.Errorf("%w: duplicate order id %d", faults.ErrDataIntegrity, order.ID())
		}
		s.index[order.ID()] = len(s.orders)
		s.orders = append(s.orders, order)
		s.lastID = max(s.lastID, order.ID())
	}
	return s, nil
}

// Submit stores a new pending order built from a cart snapshot and returns its id.
// Clearing the cart afterwards is the caller's job.
func (s *Service) Submit(ctx context.Context, lines []domain.Line) (int64, error) {
	if len(lines) == 0 {
		return 0, domain.ErrEmptyCart
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID()
	order, err := domain.NewOrder(id, lines)
	if err != nil {
		return 0, mapError(err)
	}
	next := append(slices.Clone(s.orders), order)
	if err := s.repo.Save(ctx, next); err != nil {
		return 0, err
	}
	s.index[id] = len(s.orders)
	s.orders = next
	s.lastID = id

	s.publish(ctx, ports.Event{
		Type:       ports.EventSubmitted,
		OrderID:    id,
		Status:     order.Status(),
		Lines:      order.Lines(),
		OccurredAt: s.now(),
	})
	return id, nil
}

// Advance moves an order one lifecycle step and persists the store.
func (s *Service) Advance(ctx context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ports.ErrNotFound, id)
	}
	current := s.orders[pos]
	updated := current.Clone()
	if err := updated.Advance(); err != nil {
		return nil, err
	}
	next := slices.Clone(s.orders)
	next[pos] = updated
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, err
	}
	s.orders = next

	s.publish(ctx, ports.Event{
		Type:       ports.EventAdvanced,
		OrderID:    id,
		Status:     updated.Status(),
		Previous:   current.Status(),
		Lines:      updated.Lines(),
		OccurredAt: s.now(),
	})
	return updated.Clone(), nil
}

func (s *Service) Get(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ports.ErrNotFound, id)
	}
	return s.orders[pos].Clone(), nil
}

// ListByStatus yields orders with status, oldest first. The sequence reflects the
// store at call time and can be ranged over repeatedly.
func (s *Service) ListByStatus(_ context.Context, status domain.Status) iter.Seq[*domain.Order] {
	s.mu.RLock()
	orders := s.orders
	s.mu.RUnlock()
	return func(yield func(*domain.Order) bool) {
		for _, order := range orders {
			if order.Status() != status {
				continue
			}
			if !yield(order.Clone()) {
				return
			}
		}
	}
}

// QueueDepths counts orders per status; every status is present in the result.
func (s *Service) QueueDepths(_ context.Context) map[domain.Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[domain.Status]int, len(domain.Statuses))
	for _, status := range domain.Statuses {
		result[status] = 0
	}
	for _, order := range s.orders {
		result[order.Status()]++
	}
	return result
}

// nextID derives ids from the wall clock in milliseconds, bumping past the last id
// so ids stay unique when two orders land in the same millisecond or the clock moves back.
func (s *Service) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}

func (s *Service) publish(ctx context.Context, event ports.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order event",
			slog.String("event", string(event.Type)),
			slog.Int64("order.id", event.OrderID),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
