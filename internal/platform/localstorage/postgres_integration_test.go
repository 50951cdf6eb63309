//go:build integration

package localstorage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-kiosk/internal/platform/migrations"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

func setupRecordsPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("kiosk_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestPostgresStore_PutGetOverwrite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupRecordsPostgresContainer(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()

	_, err := store.Get(ctx, KeyCart)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, KeyCart, []byte(`[{"id":2,"quantity":2}]`)))
	got, err := store.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2,"quantity":2}]`, string(got))

	require.NoError(t, store.Put(ctx, KeyCart, []byte(`[]`)))
	got, err = store.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	var rows int64
	require.NoError(t, db.Model(&RecordRow{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	require.NoError(t, store.Put(ctx, KeyOrders, []byte(`[]`)))
	_, err = store.Get(ctx, KeyOrders)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestPostgresStore_ClosedPoolIsPersistenceFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupRecordsPostgresContainer(t)
	defer cleanup()

	store := NewPostgresStore(db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = store.Put(context.Background(), KeyCart, []byte(`[]`))
	require.ErrorIs(t, err, faults.ErrPersistence)
	_, err = store.Get(context.Background(), KeyCart)
	require.ErrorIs(t, err, faults.ErrPersistence)
}

func TestPostgresStore_RejectsInvalidKey(t *testing.T) {
	store := NewPostgresStore(nil)
	require.Error(t, store.Put(context.Background(), "../etc", []byte(`[]`)))
	_, err := store.Get(context.Background(), "cart")
	require.ErrorIs(t, err, faults.ErrPersistence)
}
