// Package localstorage persists the cart as the "cart" record:
// a JSON array of {"id": <item id>, "quantity": <n>}.
package localstorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-kiosk/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-kiosk/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-kiosk/internal/platform/localstorage"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

var _ ports.Repository = (*Repository)(nil)

type lineRecord struct {
	ID       int64 `json:"id" validate:"gt=0"`
	Quantity int   `json:"quantity" validate:"gte=1"`
}

// Repository stores the cart under a single record key.
type Repository struct {
	store localstorage.Store
	key   string
}

func NewRepository(store localstorage.Store) *Repository {
	return &Repository{store: store, key: localstorage.KeyCart}
}

func (r *Repository) Load(ctx context.Context) ([]domain.Line, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, localstorage.ErrNotFound) {
			return []domain.Line{}, nil
		}
		return nil, err
	}
	return Decode(data)
}

func (r *Repository) Save(ctx context.Context, lines []domain.Line) error {
	data, err := Encode(lines)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, r.key, data)
}

// Decode parses and validates a cart record.
func Decode(data []byte) ([]domain.Line, error) {
	var records []lineRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode cart record: %w", faults.ErrDataIntegrity, err)
	}
	seen := make(map[int64]struct{}, len(records))
	lines := make([]domain.Line, 0, len(records))
	for i, rec := range records {
		if err := localstorage.Validator().Struct(rec); err != nil {
			return nil, fmt.Errorf("%w: cart line %d: %w", faults.ErrDataIntegrity, i, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%w: cart line %d: duplicate item %d", faults.ErrDataIntegrity, i, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		lines = append(lines, domain.Line{ItemID: rec.ID, Quantity: rec.Quantity})
	}
	return lines, nil
}

// Encode renders lines in the persisted record format.
func Encode(lines []domain.Line) ([]byte, error) {
	records := make([]lineRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, lineRecord{ID: line.ItemID, Quantity: line.Quantity})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("%w: encode cart record: %w", faults.ErrPersistence, err)
	}
	return data, nil
}
