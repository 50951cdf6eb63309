package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	cartdomain "github.com/Apurer/go-gin-kiosk/internal/domains/cart/domain"
	catalogports "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/ports"
	ordersdomain "github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-kiosk/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

const (
	// SubmitOrderActivityName stores the cart snapshot as a pending order.
	SubmitOrderActivityName = "kiosk.activities.SubmitOrder"
	// ClearCartActivityName empties the cart after a successful submit when it
	// still holds the submitted lines.
	ClearCartActivityName = "kiosk.activities.ClearCart"
)

// Application error types carried across the Temporal boundary so callers can
// restore the original failure class.
const (
	ErrTypeEmptyCart     = "EmptyCart"
	ErrTypePersistence   = "PersistenceFailure"
	ErrTypeDataIntegrity = "DataIntegrity"
	ErrTypeNotFound      = "NotFound"
	ErrTypeQuantityLimit = "QuantityLimit"
	ErrTypeInternal      = "Internal"
)

// Session is the part of the kiosk session the activities drive.
type Session interface {
	SubmitLines(ctx context.Context, lines []ordersdomain.Line) (int64, error)
	ClearSubmitted(ctx context.Context, lines []ordersdomain.Line) (bool, error)
}

// SubmitOrderInput carries the cart snapshot taken when checkout started.
type SubmitOrderInput struct {
	Lines []ordersdomain.Line
}

type SubmitOrderResult struct {
	OrderID int64
}

// ClearCartInput repeats the submitted snapshot so items added afterwards survive.
type ClearCartInput struct {
	Lines []ordersdomain.Line
}

type ClearCartResult struct {
	Cleared bool
}

type Activities struct {
	session Session
}

func NewActivities(session Session) *Activities {
	return &Activities{session: session}
}

func (a *Activities) SubmitOrder(ctx context.Context, input SubmitOrderInput) (*SubmitOrderResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.session == nil {
		logger.Error("submit order activity not initialized")
		return nil, errors.New("submit order activity not initialized")
	}
	logger.Info("SubmitOrder activity started", "lines", len(input.Lines))
	id, err := a.session.SubmitLines(ctx, input.Lines)
	if err != nil {
		logger.Error("SubmitOrder activity failed", "error", err)
		return nil, Classify(err)
	}
	logger.Info("SubmitOrder activity completed", "orderId", id)
	return &SubmitOrderResult{OrderID: id}, nil
}

func (a *Activities) ClearCart(ctx context.Context, input ClearCartInput) (*ClearCartResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.session == nil {
		logger.Error("clear cart activity not initialized")
		return nil, errors.New("clear cart activity not initialized")
	}
	cleared, err := a.session.ClearSubmitted(ctx, input.Lines)
	if err != nil {
		logger.Error("ClearCart activity failed", "error", err)
		return nil, Classify(err)
	}
	logger.Info("ClearCart activity completed", "cleared", cleared)
	return &ClearCartResult{Cleared: cleared}, nil
}

// Classify wraps err in a non-retryable application error tagged with its failure class.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), errorType(err), err)
}

// Restore maps an application error type back to the matching sentinel, or nil when unknown.
func Restore(errType string) error {
	switch errType {
	case ErrTypeEmptyCart:
		return ordersdomain.ErrEmptyCart
	case ErrTypePersistence:
		return faults.ErrPersistence
	case ErrTypeDataIntegrity:
		return faults.ErrDataIntegrity
	case ErrTypeNotFound:
		return catalogports.ErrNotFound
	case ErrTypeQuantityLimit:
		return cartdomain.ErrQuantityLimit
	default:
		return nil
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ordersdomain.ErrEmptyCart):
		return ErrTypeEmptyCart
	case errors.Is(err, faults.ErrPersistence):
		return ErrTypePersistence
	case errors.Is(err, faults.ErrDataIntegrity):
		return ErrTypeDataIntegrity
	case errors.Is(err, catalogports.ErrNotFound), errors.Is(err, ordersports.ErrNotFound):
		return ErrTypeNotFound
	case errors.Is(err, cartdomain.ErrQuantityLimit):
		return ErrTypeQuantityLimit
	default:
		return ErrTypeInternal
	}
}
