package kioskserver

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	ordersdomain "github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	apierrors "github.com/Apurer/go-gin-kiosk/internal/shared/errors"
)

var errNotPositive = errors.New("must be greater than zero")

// bindIDParam binds a positive int64 path parameter, answering 400 on failure.
func bindIDParam(c *gin.Context, responder *apierrors.Responder, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err == nil && id <= 0 {
		err = errNotPositive
	}
	if err != nil {
		responder.Respond(c, apierrors.NewInvalidParamProblem(name, err))
		return 0, false
	}
	return id, true
}

// bindOptionalQuery binds an optional form-style query parameter.
func bindOptionalQuery(c *gin.Context, responder *apierrors.Responder, name string, dest *string) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), dest); err != nil {
		responder.Respond(c, apierrors.NewInvalidParamProblem(name, err))
		return false
	}
	return true
}

// bindStatusQuery binds the required status filter of the order listing.
func bindStatusQuery(c *gin.Context, responder *apierrors.Responder) (ordersdomain.Status, bool) {
	var raw string
	if err := runtime.BindQueryParameter("form", true, true, "status", c.Request.URL.Query(), &raw); err != nil {
		responder.Respond(c, apierrors.NewInvalidParamProblem("status", err))
		return "", false
	}
	status, err := ordersdomain.ParseStatus(raw)
	if err != nil {
		responder.Respond(c, apierrors.NewInvalidParamProblem("status", err))
		return "", false
	}
	return status, true
}
