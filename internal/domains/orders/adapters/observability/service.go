package observability

import (
	"context"
	"io"
	"iter"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-kiosk/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-kiosk/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
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

func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) Submit(ctx context.Context, lines []ordersdomain.Line) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Submit", trace.WithAttributes(attribute.Int("order.lines", len(lines))))
	defer span.End()

	id, err := s.inner.Submit(ctx, lines)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to submit order", slog.Int("order.lines", len(lines)))
	}
	span.SetAttributes(attribute.Int64("order.id", id))
	s.metrics.recordSubmitted(ctx)
	s.logInfo(ctx, "order submitted", slog.Int64("order.id", id), slog.Int("order.lines", len(lines)))
	return id, nil
}

func (s *Service) Advance(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Advance", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.inner.Advance(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to advance order", slog.Int64("order.id", id))
	}
	status := string(order.Status())
	span.SetAttributes(attribute.String("order.status", status))
	s.metrics.recordAdvanced(ctx, status)
	s.logInfo(ctx, "order advanced", slog.Int64("order.id", id), slog.String("status", status))
	return order, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.inner.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return order, nil
}

func (s *Service) ListByStatus(ctx context.Context, status ordersdomain.Status) iter.Seq[*ordersdomain.Order] {
	return s.inner.ListByStatus(ctx, status)
}

func (s *Service) QueueDepths(ctx context.Context) map[ordersdomain.Status]int {
	return s.inner.QueueDepths(ctx)
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

type serviceMetrics struct {
	submitted metric.Int64Counter
	advanced  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	submitted, _ := m.Int64Counter("orders.service.submitted", metric.WithDescription("Number of orders submitted"))
	advanced, _ := m.Int64Counter("orders.service.advanced", metric.WithDescription("Number of order status transitions"))
	return serviceMetrics{submitted: submitted, advanced: advanced}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context) {
	if m.submitted != nil {
		m.submitted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordAdvanced(ctx context.Context, status string) {
	if m.advanced != nil {
		m.advanced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", status)))
	}
}

var _ ordersports.Service = (*Service)(nil)
