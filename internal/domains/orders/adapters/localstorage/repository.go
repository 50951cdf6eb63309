// Package localstorage persists the order store as the "pedidos" record:
// a JSON array of {"id", "items": [{"id", "quantity"}], "status"} where status
// uses the wire values pendente, preparacao and entregue.
package localstorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-kiosk/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-kiosk/internal/platform/localstorage"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

var _ ports.Repository = (*Repository)(nil)

const (
	wirePending   = "pendente"
	wirePreparing = "preparacao"
	wireDelivered = "entregue"
)

type orderRecord struct {
	ID     int64        `json:"id" validate:"gt=0"`
	Items  []itemRecord `json:"items" validate:"required,min=1,dive"`
	Status string       `json:"status" validate:"oneof=pendente preparacao entregue"`
}

type itemRecord struct {
	ID       int64 `json:"id" validate:"gt=0"`
	Quantity int   `json:"quantity" validate:"gte=1"`
}

type Repository struct {
	store localstorage.Store
	key   string
}

func NewRepository(store localstorage.Store) *Repository {
	return &Repository{store: store, key: localstorage.KeyOrders}
}

func (r *Repository) Load(ctx context.Context) ([]*domain.Order, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, localstorage.ErrNotFound) {
			return []*domain.Order{}, nil
		}
		return nil, err
	}
	return Decode(data)
}

func (r *Repository) Save(ctx context.Context, orders []*domain.Order) error {
	data, err := Encode(orders)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, r.key, data)
}

// Decode parses and validates a pedidos record.
func Decode(data []byte) ([]*domain.Order, error) {
	var records []orderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode order record: %w", faults.ErrDataIntegrity, err)
	}
	seen := make(map[int64]struct{}, len(records))
	orders := make([]*domain.Order, 0, len(records))
	for i, rec := range records {
		if err := localstorage.Validator().Struct(rec); err != nil {
			return nil, fmt.Errorf("%w: order %d: %w", faults.ErrDataIntegrity, i, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate order id %d", faults.ErrDataIntegrity, rec.ID)
		}
		seen[rec.ID] = struct{}{}

		lines := make([]domain.Line, 0, len(rec.Items))
		for _, item := range rec.Items {
			lines = append(lines, domain.Line{ItemID: item.ID, Quantity: item.Quantity})
		}
		order, err := domain.Restore(rec.ID, lines, statusFromWire(rec.Status))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", faults.ErrDataIntegrity, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Encode renders orders in the persisted record format.
func Encode(orders []*domain.Order) ([]byte, error) {
	records := make([]orderRecord, 0, len(orders))
	for _, order := range orders {
		lines := order.Lines()
		items := make([]itemRecord, 0, len(lines))
		for _, line := range lines {
			items = append(items, itemRecord{ID: line.ItemID, Quantity: line.Quantity})
		}
		records = append(records, orderRecord{
			ID:     order.ID(),
			Items:  items,
			Status: statusToWire(order.Status()),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("%w: encode order record: %w", faults.ErrPersistence, err)
	}
	return data, nil
}

func statusToWire(s domain.Status) string {
	switch s {
	case domain.StatusPending:
		return wirePending
	case domain.StatusPreparing:
		return wirePreparing
	case domain.StatusDelivered:
		return wireDelivered
	default:
		return string(s)
	}
}

func statusFromWire(raw string) domain.Status {
	switch raw {
	case wirePending:
		return domain.StatusPending
	case wirePreparing:
		return domain.StatusPreparing
	case wireDelivered:
		return domain.StatusDelivered
	default:
		return domain.Status(raw)
	}
}
