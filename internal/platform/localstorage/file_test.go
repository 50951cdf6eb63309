package localstorage

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

func TestFileStore_GetMissingRecord(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), KeyCart)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_PutReplacesWholeRecord(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := NewFileStore(fs, "/data")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, KeyOrders, []byte(`[{"id":1}]`)))
	require.NoError(t, store.Put(ctx, KeyOrders, []byte(`[]`)))

	got, err := store.Get(ctx, KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	entries, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "pedidos.json", entries[0].Name())
}

func TestFileStore_RejectsUnsafeKeys(t *testing.T) {
	store := NewMemoryStore()

	require.Error(t, store.Put(context.Background(), "../etc/passwd", []byte("x")))
	_, err := store.Get(context.Background(), "")
	require.Error(t, err)
}

func TestFileStore_WriteFailureIsPersistenceError(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/data", 0o755))
	store := &FileStore{fs: afero.NewReadOnlyFs(base), dir: "/data"}

	err := store.Put(context.Background(), KeyCart, []byte("[]"))
	require.ErrorIs(t, err, faults.ErrPersistence)
}

func TestFileStore_HonoursCancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Put(ctx, KeyCart, []byte("[]")), context.Canceled)
}
