package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-kiosk/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the order store in the orders table using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle;
// the schema is applied by the migrations package.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record maps an order to a row. Lines are stored as two parallel arrays.
type Record struct {
	ID         int64         `gorm:"primaryKey;autoIncrement:false;column:id"`
	ItemIDs    pq.Int64Array `gorm:"column:item_ids;type:bigint[];not null"`
	Quantities pq.Int64Array `gorm:"column:quantities;type:bigint[];not null"`
	Status     string        `gorm:"column:status;type:varchar(32);index"`
	CreatedAt  time.Time     `gorm:"column:created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at"`
}

func (Record) TableName() string { return "orders" }

// Load returns every order by ascending id, which is submission order.
func (r *Repository) Load(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []Record
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: list orders: %w", faults.ErrPersistence, err)
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Save upserts every order and drops rows that are no longer part of the store,
// all in one transaction.
func (r *Repository) Save(ctx context.Context, orders []*domain.Order) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]int64, 0, len(orders))
		for _, order := range orders {
			if order == nil {
				return errors.New("order is nil")
			}
			record := toRecord(order)
			ids = append(ids, record.ID)
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"item_ids":   record.ItemIDs,
					"quantities": record.Quantities,
					"status":     record.Status,
					"updated_at": gorm.Expr("NOW()"),
				}),
			}).Create(&record).Error; err != nil {
				return err
			}
		}
		stale := tx.Model(&Record{})
		if len(ids) > 0 {
			stale = stale.Where("id NOT IN ?", ids)
		} else {
			stale = stale.Where("1 = 1")
		}
		return stale.Delete(&Record{}).Error
	})
	if err != nil {
		return fmt.Errorf("%w: save orders: %w", faults.ErrPersistence, err)
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return fmt.Errorf("%w: postgres order repository not configured", faults.ErrPersistence)
	}
	return nil
}

func toRecord(order *domain.Order) Record {
	lines := order.Lines()
	rec := Record{
		ID:         order.ID(),
		ItemIDs:    make(pq.Int64Array, 0, len(lines)),
		Quantities: make(pq.Int64Array, 0, len(lines)),
		Status:     string(order.Status()),
	}
	for _, line := range lines {
		rec.ItemIDs = append(rec.ItemIDs, line.ItemID)
		rec.Quantities = append(rec.Quantities, int64(line.Quantity))
	}
	return rec
}

func (r Record) toDomain() (*domain.Order, error) {
	if len(r.ItemIDs) != len(r.Quantities) {
		return nil, fmt.Errorf("%w: order %d has %d item ids and %d quantities",
			faults.ErrDataIntegrity, r.ID, len(r.ItemIDs), len(r.Quantities))
	}
	lines := make([]domain.Line, 0, len(r.ItemIDs))
	for i, itemID := range r.ItemIDs {
		lines = append(lines, domain.Line{ItemID: itemID, Quantity: int(r.Quantities[i])})
	}
	order, err := domain.Restore(r.ID, lines, domain.Status(r.Status))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", faults.ErrDataIntegrity, err)
	}
	return order, nil
}
