package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	ordersdomain "github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	checkoutactivities "github.com/Apurer/go-gin-kiosk/internal/platform/temporal/activities/checkout"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

type fakeSession struct {
	submitted   [][]ordersdomain.Line
	cleared     int
	clearedWith []ordersdomain.Line
	cartChanged bool
	submitErr   error
	clearErr    error
}

func (f *fakeSession) SubmitLines(_ context.Context, lines []ordersdomain.Line) (int64, error) {
	if f.submitErr != nil {
		return 0, f.submitErr
	}
	f.submitted = append(f.submitted, lines)
	return 1700000000000, nil
}

func (f *fakeSession) ClearSubmitted(_ context.Context, lines []ordersdomain.Line) (bool, error) {
	if f.clearErr != nil {
		return false, f.clearErr
	}
	f.clearedWith = lines
	if f.cartChanged {
		return false, nil
	}
	f.cleared++
	return true, nil
}

func newEnv(t *testing.T, session *fakeSession) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := checkoutactivities.NewActivities(session)
	env.RegisterActivityWithOptions(acts.SubmitOrder, activity.RegisterOptions{Name: checkoutactivities.SubmitOrderActivityName})
	env.RegisterActivityWithOptions(acts.ClearCart, activity.RegisterOptions{Name: checkoutactivities.ClearCartActivityName})
	return env
}

func TestCheckoutWorkflow_SubmitsThenClears(t *testing.T) {
	session := &fakeSession{}
	env := newEnv(t, session)
	lines := []ordersdomain.Line{{ItemID: 2, Quantity: 2}, {ItemID: 5, Quantity: 1}}

	env.ExecuteWorkflow(CheckoutWorkflow, CheckoutWorkflowInput{Lines: lines})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var result CheckoutWorkflowResult
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, int64(1700000000000), result.OrderID)
	assert.True(t, result.CartCleared)
	assert.Equal(t, [][]ordersdomain.Line{lines}, session.submitted)
	assert.Equal(t, 1, session.cleared)
	assert.Equal(t, lines, session.clearedWith)
}

func TestCheckoutWorkflow_KeepsCartChangedAfterSnapshot(t *testing.T) {
	session := &fakeSession{cartChanged: true}
	env := newEnv(t, session)
	lines := []ordersdomain.Line{{ItemID: 2, Quantity: 1}}

	env.ExecuteWorkflow(CheckoutWorkflow, CheckoutWorkflowInput{Lines: lines})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var result CheckoutWorkflowResult
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, int64(1700000000000), result.OrderID)
	assert.Equal(t, lines, session.clearedWith)
	assert.Zero(t, session.cleared)
}

func TestCheckoutWorkflow_FailedSubmitKeepsCart(t *testing.T) {
	session := &fakeSession{submitErr: errors.Join(faults.ErrPersistence, errors.New("disk full"))}
	env := newEnv(t, session)

	env.ExecuteWorkflow(CheckoutWorkflow, CheckoutWorkflowInput{Lines: []ordersdomain.Line{{ItemID: 1, Quantity: 1}}})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, checkoutactivities.ErrTypePersistence, appErr.Type())
	assert.Zero(t, session.cleared)
}

func TestCheckoutWorkflow_FailedClearReportsOrder(t *testing.T) {
	session := &fakeSession{clearErr: errors.Join(faults.ErrPersistence, errors.New("disk full"))}
	env := newEnv(t, session)

	env.ExecuteWorkflow(CheckoutWorkflow, CheckoutWorkflowInput{Lines: []ordersdomain.Line{{ItemID: 1, Quantity: 1}}})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var result CheckoutWorkflowResult
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, int64(1700000000000), result.OrderID)
	assert.False(t, result.CartCleared)
	assert.Equal(t, checkoutactivities.ErrTypePersistence, result.ClearErrorType)
}
