package localstorage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-kiosk/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-kiosk/internal/platform/localstorage"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

func TestRepository_MissingRecordIsEmptyCart(t *testing.T) {
	repo := NewRepository(localstorage.NewMemoryStore())

	lines, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRepository_RoundTrip(t *testing.T) {
	store := localstorage.NewMemoryStore()
	repo := NewRepository(store)
	ctx := context.Background()
	want := []domain.Line{{ItemID: 2, Quantity: 2}, {ItemID: 5, Quantity: 1}}

	require.NoError(t, repo.Save(ctx, want))

	raw, err := store.Get(ctx, localstorage.KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2,"quantity":2},{"id":5,"quantity":1}]`, string(raw))

	got, err := NewRepository(store).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRepository_EmptyCartIsEmptyArray(t *testing.T) {
	store := localstorage.NewMemoryStore()
	require.NoError(t, NewRepository(store).Save(context.Background(), nil))

	raw, err := store.Get(context.Background(), localstorage.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestDecode_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"not json":          `{{`,
		"object not array":  `{"id":1,"quantity":1}`,
		"zero id":           `[{"id":0,"quantity":1}]`,
		"missing quantity":  `[{"id":1}]`,
		"negative quantity": `[{"id":1,"quantity":-2}]`,
		"duplicate item":    `[{"id":1,"quantity":1},{"id":1,"quantity":3}]`,
		"fractional id":     `[{"id":1.5,"quantity":1}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(raw))
			require.ErrorIs(t, err, faults.ErrDataIntegrity)
		})
	}
}

func TestDecode_NullIsEmpty(t *testing.T) {
	lines, err := Decode([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, lines)
}
