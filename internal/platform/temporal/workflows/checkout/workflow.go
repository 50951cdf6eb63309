package checkout

import (
	"errors"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	checkoutactivities "github.com/Apurer/go-gin-kiosk/internal/platform/temporal/activities/checkout"
	"github.com/Apurer/go-gin-kiosk/internal/platform/temporal/sequences"
)

const (
	// CheckoutWorkflowName is the public identifier for registering the workflow.
	CheckoutWorkflowName = "kiosk.workflows.Checkout"
	// CheckoutTaskQueue is consumed by the worker embedded in the API process.
	CheckoutTaskQueue = "KIOSK_CHECKOUT"
)

type CheckoutWorkflowInput struct {
	Lines   []ordersdomain.Line
	TraceID string
}

// CheckoutWorkflowResult carries the new order id. A failed cart clear still
// reports the id with CartCleared false and the failure class in ClearErrorType.
type CheckoutWorkflowResult struct {
	OrderID        int64
	CartCleared    bool
	ClearErrorType string
}

func CheckoutWorkflow(ctx workflow.Context, input CheckoutWorkflowInput) (*CheckoutWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("CheckoutWorkflow started", withTraceID(input.TraceID, "lines", len(input.Lines))...)
	id, err := sequences.RunCheckoutSequence(ctx, checkoutactivities.SubmitOrderInput{Lines: input.Lines})
	if err != nil {
		if id == 0 {
			logger.Error("CheckoutWorkflow failed", withTraceID(input.TraceID, "error", err)...)
			return nil, err
		}
		logger.Warn("CheckoutWorkflow submitted order but cart clear failed", withTraceID(input.TraceID, "orderId", id, "error", err)...)
		result := &CheckoutWorkflowResult{OrderID: id, ClearErrorType: checkoutactivities.ErrTypeInternal}
		var appErr *temporal.ApplicationError
		if errors.As(err, &appErr) {
			result.ClearErrorType = appErr.Type()
		}
		return result, nil
	}
	logger.Info("CheckoutWorkflow completed", withTraceID(input.TraceID, "orderId", id)...)
	return &CheckoutWorkflowResult{OrderID: id, CartCleared: true}, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
