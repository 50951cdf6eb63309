package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_StartsPending(t *testing.T) {
	lines := []Line{{ItemID: 2, Quantity: 2}, {ItemID: 5, Quantity: 1}}
	order, err := NewOrder(10, lines)
	require.NoError(t, err)

	assert.Equal(t, int64(10), order.ID())
	assert.Equal(t, StatusPending, order.Status())
	assert.Equal(t, lines, order.Lines())

	lines[0].Quantity = 99
	assert.Equal(t, 2, order.Lines()[0].Quantity, "order must not alias the snapshot")
}

func TestNewOrder_EmptyCart(t *testing.T) {
	_, err := NewOrder(1, nil)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrder_AdvanceFollowsLifecycle(t *testing.T) {
	order, err := NewOrder(1, []Line{{ItemID: 1, Quantity: 1}})
	require.NoError(t, err)

	require.NoError(t, order.Advance())
	assert.Equal(t, StatusPreparing, order.Status())
	require.NoError(t, order.Advance())
	assert.Equal(t, StatusDelivered, order.Status())

	require.ErrorIs(t, order.Advance(), ErrInvalidTransition)
	assert.Equal(t, StatusDelivered, order.Status())
}

func TestOrder_LinesCannotBeMutatedThroughAccessor(t *testing.T) {
	order, err := NewOrder(1, []Line{{ItemID: 1, Quantity: 1}})
	require.NoError(t, err)

	got := order.Lines()
	got[0].Quantity = 50

	assert.Equal(t, 1, order.Lines()[0].Quantity)
}

func TestRestore_Validates(t *testing.T) {
	_, err := Restore(0, []Line{{ItemID: 1, Quantity: 1}}, StatusPending)
	require.ErrorIs(t, err, ErrInvalidOrderID)

	_, err = Restore(1, []Line{{ItemID: 1, Quantity: 0}}, StatusPending)
	require.ErrorIs(t, err, ErrInvalidLine)

	_, err = Restore(1, []Line{{ItemID: 1, Quantity: 1}, {ItemID: 1, Quantity: 2}}, StatusPending)
	require.ErrorIs(t, err, ErrInvalidLine)

	_, err = Restore(1, []Line{{ItemID: 1, Quantity: 1}}, Status("cancelled"))
	require.ErrorIs(t, err, ErrInvalidStatus)

	order, err := Restore(1, []Line{{ItemID: 1, Quantity: 1}}, StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, order.Status())
}

func TestStatus_Action(t *testing.T) {
	assert.Equal(t, "prepare", StatusPending.Action())
	assert.Equal(t, "deliver", StatusPreparing.Action())
	assert.Empty(t, StatusDelivered.Action())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("preparing")
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, s)

	_, err = ParseStatus("pendente")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestClone_IsIndependent(t *testing.T) {
	order, err := NewOrder(3, []Line{{ItemID: 1, Quantity: 1}})
	require.NoError(t, err)
	clone := order.Clone()

	require.NoError(t, clone.Advance())

	assert.Equal(t, StatusPending, order.Status())
	assert.Equal(t, StatusPreparing, clone.Status())
}
