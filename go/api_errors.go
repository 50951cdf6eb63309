package kioskserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	cartapp "github.com/Apurer/go-gin-kiosk/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-gin-kiosk/internal/domains/cart/domain"
	catalogports "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/go-gin-kiosk/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-kiosk/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-kiosk/internal/kiosk"
	apierrors "github.com/Apurer/go-gin-kiosk/internal/shared/errors"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

// NewResponder returns a problem responder that understands kiosk errors.
func NewResponder() *apierrors.Responder {
	return apierrors.NewResponder("", MapKioskError)
}

// MapKioskError maps domain and application errors to problems. Persistence is
// checked before integrity so a failed write is reported as retryable.
func MapKioskError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "menuItem"), true
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "order"), true
	case errors.Is(err, ordersdomain.ErrEmptyCart):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, cartdomain.ErrQuantityLimit):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, ordersdomain.ErrInvalidTransition):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()).WithExtension("reason", "idempotency-key-reused"), true
	case errors.Is(err, faults.ErrPersistence):
		return apierrors.ErrPersistence.WithDetail(err.Error()), true
	case errors.Is(err, faults.ErrDataIntegrity):
		return apierrors.ErrDataIntegrity.WithDetail(err.Error()), true
	case errors.Is(err, cartapp.ErrInvalidInput),
		errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, ordersdomain.ErrInvalidStatus),
		errors.Is(err, kiosk.ErrUnknownCommand):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}

func respondError(c *gin.Context, responder *apierrors.Responder, err error) {
	if responder == nil {
		responder = NewResponder()
	}
	responder.RespondError(c, err)
}
