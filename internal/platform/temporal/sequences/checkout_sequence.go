package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	checkoutactivities "github.com/Apurer/go-gin-kiosk/internal/platform/temporal/activities/checkout"
)

// RunCheckoutSequence submits the snapshot and then clears the cart if it still
// holds that snapshot. Each step runs once; a failed submit leaves the cart untouched.
func RunCheckoutSequence(ctx workflow.Context, input checkoutactivities.SubmitOrderInput) (int64, error) {
	logger := workflow.GetLogger(ctx)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var submitted checkoutactivities.SubmitOrderResult
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.SubmitOrderActivityName, input).Get(ctx, &submitted); err != nil {
		logger.Error("checkout sequence submit failed", "error", err)
		return 0, err
	}
	logger.Info("checkout sequence submitted order", "orderId", submitted.OrderID)

	var cleared checkoutactivities.ClearCartResult
	clearInput := checkoutactivities.ClearCartInput{Lines: input.Lines}
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.ClearCartActivityName, clearInput).Get(ctx, &cleared); err != nil {
		logger.Error("checkout sequence clear failed", "orderId", submitted.OrderID, "error", err)
		return submitted.OrderID, err
	}
	if !cleared.Cleared {
		logger.Warn("checkout sequence kept a cart changed after the snapshot", "orderId", submitted.OrderID)
	}
	return submitted.OrderID, nil
}
