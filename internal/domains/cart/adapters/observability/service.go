package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartdomain "github.com/Apurer/go-gin-kiosk/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-kiosk/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/go-gin-kiosk/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) AddItem(ctx context.Context, itemID int64) error {
	ctx, span := s.tracer.Start(ctx, "CartService.AddItem", trace.WithAttributes(attribute.Int64("item.id", itemID)))
	defer span.End()

	if err := s.inner.AddItem(ctx, itemID); err != nil {
		return s.handleError(ctx, span, err, "failed to add item to cart", slog.Int64("item.id", itemID))
	}
	s.metrics.recordAdded(ctx, itemID)
	s.logInfo(ctx, "item added to cart", slog.Int64("item.id", itemID))
	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "CartService.Clear")
	defer span.End()

	if err := s.inner.Clear(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to clear cart")
	}
	s.metrics.recordCleared(ctx)
	s.logInfo(ctx, "cart cleared")
	return nil
}

func (s *Service) TotalCount(ctx context.Context) int {
	return s.inner.TotalCount(ctx)
}

func (s *Service) TotalPrice(ctx context.Context) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.TotalPrice")
	defer span.End()

	total, err := s.inner.TotalPrice(ctx)
	if err != nil {
		return decimal.Zero, s.handleError(ctx, span, err, "failed to price cart")
	}
	span.SetAttributes(attribute.String("cart.total", total.StringFixed(2)))
	return total, nil
}

func (s *Service) Snapshot(ctx context.Context) []cartdomain.Line {
	return s.inner.Snapshot(ctx)
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	itemsAdded metric.Int64Counter
	cleared    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemsAdded, _ := m.Int64Counter("cart.service.items_added", metric.WithDescription("Number of units added to the cart"))
	cleared, _ := m.Int64Counter("cart.service.cleared", metric.WithDescription("Number of cart clears"))
	return serviceMetrics{itemsAdded: itemsAdded, cleared: cleared}
}

func (m serviceMetrics) recordAdded(ctx context.Context, itemID int64) {
	if m.itemsAdded != nil {
		m.itemsAdded.Add(ctx, 1, metric.WithAttributes(attribute.Int64("item.id", itemID)))
	}
}

func (m serviceMetrics) recordCleared(ctx context.Context) {
	if m.cleared != nil {
		m.cleared.Add(ctx, 1)
	}
}

var _ cartports.Service = (*Service)(nil)
