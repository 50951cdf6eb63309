// Package workflows runs the checkout command as a Temporal workflow on a
// worker embedded in the API process.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-kiosk/internal/kiosk"
	checkoutactivities "github.com/Apurer/go-gin-kiosk/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/go-gin-kiosk/internal/platform/temporal/workflows/checkout"
)

var (
	_ kiosk.CheckoutRunner = (*TemporalCheckout)(nil)
	_ kiosk.CheckoutRunner = (*kiosk.InlineCheckout)(nil)
)

// DefaultWaitTimeout bounds how long Checkout waits for the workflow result.
const DefaultWaitTimeout = time.Minute

// TemporalCheckout starts the checkout workflow and waits for its result.
// The wait outlives the caller's context so the command always finishes
// under the dispatcher lock; only the wait timeout cuts it short.
type TemporalCheckout struct {
	client      client.Client
	taskQueue   string
	session     *kiosk.Session
	fallback    kiosk.CheckoutRunner
	logger      *slog.Logger
	waitTimeout time.Duration
}

type Option func(*TemporalCheckout)

// WithFallback runs checkout through r when the Temporal frontend is unavailable.
func WithFallback(r kiosk.CheckoutRunner) Option {
	return func(o *TemporalCheckout) { o.fallback = r }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *TemporalCheckout) { o.logger = logger }
}

func WithWaitTimeout(d time.Duration) Option {
	return func(o *TemporalCheckout) {
		if d > 0 {
			o.waitTimeout = d
		}
	}
}

func NewTemporalCheckout(c client.Client, session *kiosk.Session, opts ...Option) *TemporalCheckout {
	o := &TemporalCheckout{
		client:      c,
		taskQueue:   checkoutworkflows.CheckoutTaskQueue,
		session:     session,
		logger:      slog.Default(),
		waitTimeout: DefaultWaitTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *TemporalCheckout) Checkout(ctx context.Context) (int64, error) {
	if o == nil || o.client == nil || o.session == nil {
		return 0, errors.New("temporal checkout not configured")
	}
	lines := o.session.CartLines(ctx)
	if len(lines) == 0 {
		return 0, ordersdomain.ErrEmptyCart
	}
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.waitTimeout)
	defer cancel()

	workflowID := "checkout-" + uuid.NewString()
	run, err := o.client.ExecuteWorkflow(waitCtx,
		client.StartWorkflowOptions{ID: workflowID, TaskQueue: o.taskQueue},
		checkoutworkflows.CheckoutWorkflowName,
		checkoutworkflows.CheckoutWorkflowInput{Lines: lines, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var unavailable *serviceerror.Unavailable
		if errors.As(err, &unavailable) && o.fallback != nil {
			o.logger.LogAttrs(ctx, slog.LevelWarn, "temporal unavailable, running checkout inline",
				slog.String("error", err.Error()))
			return o.fallback.Checkout(waitCtx)
		}
		return 0, fmt.Errorf("start checkout workflow %s: %w", workflowID, err)
	}

	var result checkoutworkflows.CheckoutWorkflowResult
	if err := run.Get(waitCtx, &result); err != nil {
		return 0, restoreError(err)
	}
	if !result.CartCleared {
		cause := checkoutactivities.Restore(result.ClearErrorType)
		if cause == nil {
			cause = errors.New(result.ClearErrorType)
		}
		return result.OrderID, fmt.Errorf("order %d submitted but cart not cleared: %w", result.OrderID, cause)
	}
	return result.OrderID, nil
}

// NewWorker registers the checkout workflow and its activities bound to session.
func NewWorker(c client.Client, session *kiosk.Session) worker.Worker {
	w := worker.New(c, checkoutworkflows.CheckoutTaskQueue, worker.Options{})
	acts := checkoutactivities.NewActivities(session)
	w.RegisterWorkflowWithOptions(checkoutworkflows.CheckoutWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.CheckoutWorkflowName})
	w.RegisterActivityWithOptions(acts.SubmitOrder, activity.RegisterOptions{Name: checkoutactivities.SubmitOrderActivityName})
	w.RegisterActivityWithOptions(acts.ClearCart, activity.RegisterOptions{Name: checkoutactivities.ClearCartActivityName})
	return w
}

// restoreError re-attaches the sentinel named by the activity's application error type.
func restoreError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		if sentinel := checkoutactivities.Restore(appErr.Type()); sentinel != nil {
			return fmt.Errorf("%w: %s", sentinel, appErr.Error())
		}
	}
	return err
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
