package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-kiosk/internal/app/api"
	"github.com/Apurer/go-gin-kiosk/internal/platform/localstorage"
)

func seedStateDir(t *testing.T, cart, orders string) string {
	t.Helper()
	dir := t.TempDir()
	store, err := localstorage.NewDiskStore(dir)
	require.NoError(t, err)
	ctx := context.Background()
	if cart != "" {
		require.NoError(t, store.Put(ctx, localstorage.KeyCart, []byte(cart)))
	}
	if orders != "" {
		require.NoError(t, store.Put(ctx, localstorage.KeyOrders, []byte(orders)))
	}
	require.NoError(t, store.Close())
	return dir
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func TestRun_HealthyState(t *testing.T) {
	dir := seedStateDir(t,
		`[{"id":2,"quantity":2}]`,
		`[{"id":1700000000000,"items":[{"id":5,"quantity":1}],"status":"pendente"}]`)
	logger, logs := testLogger()

	healthy, err := run(context.Background(), api.Config{StorageBackend: api.BackendFile, StateDir: dir}, logger)

	require.NoError(t, err)
	assert.True(t, healthy)
	assert.Contains(t, logs.String(), "orders record ok")
	assert.NotContains(t, logs.String(), "missing from the catalog")
}

func TestRun_EmptyStateIsHealthy(t *testing.T) {
	logger, _ := testLogger()

	healthy, err := run(context.Background(), api.Config{StorageBackend: api.BackendFile, StateDir: t.TempDir()}, logger)

	require.NoError(t, err)
	assert.True(t, healthy)
}

func TestRun_CorruptOrdersSuggestReset(t *testing.T) {
	dir := seedStateDir(t, `[]`, `[{"id":1,"items":[],"status":"unknown"}]`)
	logger, logs := testLogger()

	healthy, err := run(context.Background(), api.Config{StorageBackend: api.BackendFile, StateDir: dir}, logger)

	require.NoError(t, err)
	assert.False(t, healthy)
	assert.Contains(t, logs.String(), "RESET_CORRUPT_STATE=1")
	assert.Contains(t, logs.String(), `"record":"orders"`)
}

func TestRun_WarnsAboutItemsMissingFromCatalog(t *testing.T) {
	dir := seedStateDir(t,
		`[{"id":99,"quantity":1}]`,
		`[{"id":1700000000000,"items":[{"id":98,"quantity":1}],"status":"entregue"}]`)
	logger, logs := testLogger()

	healthy, err := run(context.Background(), api.Config{StorageBackend: api.BackendFile, StateDir: dir}, logger)

	require.NoError(t, err)
	assert.True(t, healthy)
	assert.Contains(t, logs.String(), "cart references an item missing from the catalog")
	assert.Contains(t, logs.String(), "order references an item missing from the catalog")
}

func TestRun_MemoryBackendHasNothingToCheck(t *testing.T) {
	logger, _ := testLogger()

	_, err := run(context.Background(), api.Config{StorageBackend: api.BackendMemory}, logger)

	require.Error(t, err)
}
