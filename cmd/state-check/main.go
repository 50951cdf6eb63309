// Command state-check decodes the persisted cart and order records of the
// configured backend and reports whether the kiosk can start from them.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-gin-kiosk/internal/app/api"
	cartlocal "github.com/Apurer/go-gin-kiosk/internal/domains/cart/adapters/localstorage"
	catalogmemory "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/adapters/memory"
	catalogyaml "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/adapters/yamlfile"
	catalogdomain "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/domain"
	orderslocal "github.com/Apurer/go-gin-kiosk/internal/domains/orders/adapters/localstorage"
	orderspostgres "github.com/Apurer/go-gin-kiosk/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/Apurer/go-gin-kiosk/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-kiosk/internal/platform/localstorage"
	platformobservability "github.com/Apurer/go-gin-kiosk/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-kiosk/internal/platform/postgres"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cfg, err := api.LoadConfig()
	if err != nil {
		cancel()
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := platformobservability.NewLogger(os.Stdout, cfg.LogLevel)

	healthy, err := run(ctx, cfg, logger)
	cancel()
	if err != nil {
		log.Fatalf("state check failed: %v", err)
	}
	if !healthy {
		os.Exit(1)
	}
	log.Printf("state check completed")
}

// run opens the configured backend, checks both records and releases the
// backend before returning.
func run(ctx context.Context, cfg api.Config, logger *slog.Logger) (bool, error) {
	var (
		store      localstorage.Store
		ordersRepo ordersports.Repository
	)
	switch cfg.StorageBackend {
	case api.BackendPostgres:
		db, closeDB, err := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return false, fmt.Errorf("open postgres storage: %w", err)
		}
		defer func() { _ = closeDB() }()
		store = localstorage.NewPostgresStore(db)
		ordersRepo = orderspostgres.NewRepository(db)
	case api.BackendMemory:
		return false, errors.New("STORAGE_BACKEND=memory keeps no state to check")
	default:
		disk, err := localstorage.NewDiskStore(cfg.StateDir)
		if err != nil {
			return false, fmt.Errorf("open state directory: %w", err)
		}
		store = disk
		ordersRepo = orderslocal.NewRepository(store)
	}
	defer func() { _ = store.Close() }()

	known, err := catalogIDs(ctx, cfg)
	if err != nil {
		return false, fmt.Errorf("load catalog: %w", err)
	}
	return checkState(ctx, logger, store, ordersRepo, known), nil
}

func checkState(ctx context.Context, logger *slog.Logger, store localstorage.Store, ordersRepo ordersports.Repository, known map[int64]struct{}) bool {
	healthy := true
	lines, err := cartlocal.NewRepository(store).Load(ctx)
	if err != nil {
		healthy = false
		report(logger, "cart", err)
	} else {
		logger.Info("cart record ok", slog.Int("lines", len(lines)))
		for _, line := range lines {
			if _, ok := known[line.ItemID]; !ok {
				logger.Warn("cart references an item missing from the catalog", slog.Int64("item_id", line.ItemID))
			}
		}
	}

	orders, err := ordersRepo.Load(ctx)
	if err != nil {
		healthy = false
		report(logger, "orders", err)
	} else {
		counts := map[string]int{}
		for _, order := range orders {
			counts[string(order.Status())]++
			for _, line := range order.Lines() {
				if _, ok := known[line.ItemID]; !ok {
					logger.Warn("order references an item missing from the catalog",
						slog.Int64("order_id", order.ID()),
						slog.Int64("item_id", line.ItemID))
				}
			}
		}
		logger.Info("orders record ok", slog.Int("orders", len(orders)), slog.Any("by_status", counts))
	}
	return healthy
}

func catalogIDs(ctx context.Context, cfg api.Config) (map[int64]struct{}, error) {
	var (
		items []catalogdomain.Item
		err   error
	)
	if cfg.CatalogFile != "" {
		items, err = catalogyaml.NewSource(cfg.CatalogFile).Items(ctx)
	} else {
		items, err = catalogmemory.NewCafeteriaSource().Items(ctx)
	}
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]struct{}, len(items))
	for _, item := range items {
		ids[item.ID] = struct{}{}
	}
	return ids, nil
}

func report(logger *slog.Logger, record string, err error) {
	switch {
	case errors.Is(err, faults.ErrDataIntegrity):
		logger.Error("record is corrupt, start with RESET_CORRUPT_STATE=1 to discard it",
			slog.String("record", record), slog.String("error", err.Error()))
	case errors.Is(err, faults.ErrPersistence):
		logger.Error("record could not be read", slog.String("record", record), slog.String("error", err.Error()))
	default:
		logger.Error("record check failed", slog.String("record", record), slog.String("error", err.Error()))
	}
}
