package checkout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	cartdomain "github.com/Apurer/go-gin-kiosk/internal/domains/cart/domain"
	ordersdomain "github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-kiosk/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

func TestClassify_TagsFailureClass(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"empty cart":     {ordersdomain.ErrEmptyCart, ErrTypeEmptyCart},
		"persistence":    {fmt.Errorf("save: %w", faults.ErrPersistence), ErrTypePersistence},
		"data integrity": {faults.ErrDataIntegrity, ErrTypeDataIntegrity},
		"not found":      {ordersports.ErrNotFound, ErrTypeNotFound},
		"quantity limit": {cartdomain.ErrQuantityLimit, ErrTypeQuantityLimit},
		"other":          {errors.New("boom"), ErrTypeInternal},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var appErr *temporal.ApplicationError
			require.True(t, errors.As(Classify(tc.err), &appErr))
			assert.Equal(t, tc.want, appErr.Type())
			assert.True(t, appErr.NonRetryable())
		})
	}
}

func TestRestore_MapsTypesToSentinels(t *testing.T) {
	assert.ErrorIs(t, Restore(ErrTypePersistence), faults.ErrPersistence)
	assert.ErrorIs(t, Restore(ErrTypeEmptyCart), ordersdomain.ErrEmptyCart)
	assert.Nil(t, Restore(ErrTypeInternal))
	assert.Nil(t, Classify(nil))
}
