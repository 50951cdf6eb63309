// Package kiosk ties the catalog, the cart and the order store into one
// session and exposes the named commands and view models the HTTP layer serves.
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	cartlocal "github.com/Apurer/go-gin-kiosk/internal/domains/cart/adapters/localstorage"
	cartobs "github.com/Apurer/go-gin-kiosk/internal/domains/cart/adapters/observability"
	cartapp "github.com/Apurer/go-gin-kiosk/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-gin-kiosk/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-kiosk/internal/domains/cart/ports"
	catalogmemory "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/ports"
	orderslocal "github.com/Apurer/go-gin-kiosk/internal/domains/orders/adapters/localstorage"
	ordersmemory "github.com/Apurer/go-gin-kiosk/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-gin-kiosk/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/go-gin-kiosk/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-kiosk/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-kiosk/internal/platform/localstorage"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

// Session owns the catalog, the cart and the order store of one kiosk process.
type Session struct {
	Catalog catalogports.Service
	Cart    cartports.Service
	Orders  ordersports.Service
	// Idempotency remembers which order each checkout key produced.
	Idempotency ordersports.IdempotencyStore

	logger  *slog.Logger
	closers []func() error
}

type openOptions struct {
	store          localstorage.Store
	catalogSource  catalogports.Source
	ordersRepo     ordersports.Repository
	publisher      ordersports.EventPublisher
	idempotency    ordersports.IdempotencyStore
	maxQuantity    int
	resetCorrupt   bool
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	closers        []func() error
}

type Option func(*openOptions)

// WithStore selects the local storage backend. Defaults to an in-memory store.
func WithStore(store localstorage.Store) Option {
	return func(o *openOptions) { o.store = store }
}

// WithCatalogSource replaces the built-in cafeteria menu.
func WithCatalogSource(src catalogports.Source) Option {
	return func(o *openOptions) { o.catalogSource = src }
}

// WithOrdersRepository stores orders somewhere other than the "pedidos" record.
func WithOrdersRepository(repo ordersports.Repository) Option {
	return func(o *openOptions) { o.ordersRepo = repo }
}

func WithEventPublisher(p ordersports.EventPublisher) Option {
	return func(o *openOptions) { o.publisher = p }
}

// WithIdempotencyStore keeps checkout keys somewhere durable. Defaults to memory.
func WithIdempotencyStore(store ordersports.IdempotencyStore) Option {
	return func(o *openOptions) { o.idempotency = store }
}

func WithMaxLineQuantity(n int) Option {
	return func(o *openOptions) { o.maxQuantity = n }
}

// WithResetCorruptState starts with an empty collection when a persisted record
// fails validation instead of refusing to open.
func WithResetCorruptState(reset bool) Option {
	return func(o *openOptions) { o.resetCorrupt = reset }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) { o.logger = logger }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *openOptions) { o.tracerProvider = tp }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *openOptions) { o.meterProvider = mp }
}

// WithCloser registers a function run by Close, after the store is closed.
func WithCloser(fn func() error) Option {
	return func(o *openOptions) {
		if fn != nil {
			o.closers = append(o.closers, fn)
		}
	}
}

// Open loads the catalog, the cart and the order store.
func Open(ctx context.Context, opts ...Option) (*Session, error) {
	o := openOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.store == nil {
		o.store = localstorage.NewMemoryStore()
	}
	if o.catalogSource == nil {
		o.catalogSource = catalogmemory.NewCafeteriaSource()
	}
	if o.ordersRepo == nil {
		o.ordersRepo = orderslocal.NewRepository(o.store)
	}
	if o.idempotency == nil {
		o.idempotency = ordersmemory.NewIdempotencyStore()
	}

	s := &Session{
		Idempotency: o.idempotency,
		logger:      o.logger,
		closers:     append([]func() error{o.store.Close}, o.closers...),
	}

	catalog, err := catalogapp.NewService(ctx, o.catalogSource)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s.Catalog = catalog

	cartRepo := cartlocal.NewRepository(o.store)
	cartSvc, err := openWithReset(ctx, o, "cart", func() (*cartapp.Service, error) {
		return cartapp.NewService(ctx, cartRepo, catalog, cartapp.WithMaxLineQuantity(o.maxQuantity))
	}, func() error {
		return cartRepo.Save(ctx, []cartdomain.Line{})
	})
	if err != nil {
		return nil, err
	}

	ordersOpts := []ordersapp.Option{ordersapp.WithLogger(o.logger)}
	if o.publisher != nil {
		ordersOpts = append(ordersOpts, ordersapp.WithPublisher(o.publisher))
	}
	ordersSvc, err := openWithReset(ctx, o, "orders", func() (*ordersapp.Service, error) {
		return ordersapp.NewService(ctx, o.ordersRepo, ordersOpts...)
	}, func() error {
		return o.ordersRepo.Save(ctx, []*ordersdomain.Order{})
	})
	if err != nil {
		return nil, err
	}

	cartDecorators := []cartobs.Option{cartobs.WithLogger(o.logger)}
	ordersDecorators := []ordersobs.Option{ordersobs.WithLogger(o.logger)}
	if o.tracerProvider != nil {
		cartDecorators = append(cartDecorators, cartobs.WithTracer(o.tracerProvider.Tracer("internal.cart.service")))
		ordersDecorators = append(ordersDecorators, ordersobs.WithTracer(o.tracerProvider.Tracer("internal.orders.service")))
	}
	if o.meterProvider != nil {
		cartDecorators = append(cartDecorators, cartobs.WithMeter(o.meterProvider.Meter("internal.cart.service")))
		ordersDecorators = append(ordersDecorators, ordersobs.WithMeter(o.meterProvider.Meter("internal.orders.service")))
	}
	s.Cart = cartobs.New(cartSvc, cartDecorators...)
	s.Orders = ordersobs.New(ordersSvc, ordersDecorators...)
	return s, nil
}

// openWithReset builds a service; on a data integrity fault it either fails or,
// when resetting is enabled, overwrites the record with an empty collection and retries.
func openWithReset[T any](ctx context.Context, o openOptions, name string, build func() (T, error), reset func() error) (T, error) {
	svc, err := build()
	if err == nil {
		return svc, nil
	}
	var zero T
	if !errors.Is(err, faults.ErrDataIntegrity) || !o.resetCorrupt {
		return zero, fmt.Errorf("open %s: %w", name, err)
	}
	o.logger.LogAttrs(ctx, slog.LevelWarn, "persisted state is corrupt, starting empty",
		slog.String("record", name),
		slog.String("error", err.Error()))
	if err := reset(); err != nil {
		return zero, fmt.Errorf("reset %s: %w", name, err)
	}
	svc, err = build()
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", name, err)
	}
	return svc, nil
}

// Close releases storage backends.
func (s *Session) Close() error {
	var errs []error
	for _, closer := range s.closers {
		errs = append(errs, closer())
	}
	return errors.Join(errs...)
}

func (s *Session) AddToCart(ctx context.Context, itemID int64) error {
	return s.Cart.AddItem(ctx, itemID)
}

func (s *Session) ClearCart(ctx context.Context) error {
	return s.Cart.Clear(ctx)
}

// CartLines returns the cart snapshot as order lines.
func (s *Session) CartLines(ctx context.Context) []ordersdomain.Line {
	snapshot := s.Cart.Snapshot(ctx)
	lines := make([]ordersdomain.Line, 0, len(snapshot))
	for _, line := range snapshot {
		lines = append(lines, ordersdomain.Line{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return lines
}

// ClearSubmitted empties the cart when it still holds exactly the submitted
// lines and reports whether it did. A cart changed since the snapshot is kept.
func (s *Session) ClearSubmitted(ctx context.Context, lines []ordersdomain.Line) (bool, error) {
	if !sameLines(s.CartLines(ctx), lines) {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "cart changed since checkout snapshot, keeping it",
			slog.Int("snapshot.lines", len(lines)))
		return false, nil
	}
	if err := s.ClearCart(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func sameLines(a, b []ordersdomain.Line) bool {
	if len(a) != len(b) {
		return false
	}
	want := make(map[int64]int, len(b))
	for _, line := range b {
		want[line.ItemID] += line.Quantity
	}
	for _, line := range a {
		if want[line.ItemID] != line.Quantity {
			return false
		}
		delete(want, line.ItemID)
	}
	return len(want) == 0
}

func (s *Session) SubmitLines(ctx context.Context, lines []ordersdomain.Line) (int64, error) {
	return s.Orders.Submit(ctx, lines)
}

// Checkout submits the cart as a new order and then empties the cart.
// If clearing fails the order stands and its id is returned with the error.
func (s *Session) Checkout(ctx context.Context) (int64, error) {
	lines := s.CartLines(ctx)
	if len(lines) == 0 {
		return 0, ordersdomain.ErrEmptyCart
	}
	id, err := s.SubmitLines(ctx, lines)
	if err != nil {
		return 0, err
	}
	if err := s.ClearCart(ctx); err != nil {
		return id, fmt.Errorf("order %d submitted but cart not cleared: %w", id, err)
	}
	return id, nil
}

func (s *Session) Advance(ctx context.Context, orderID int64) (*ordersdomain.Order, error) {
	return s.Orders.Advance(ctx, orderID)
}
