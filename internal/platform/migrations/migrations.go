package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the kiosk schema: the named record table, the relational order
// store and the checkout idempotency keys.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&kioskRecord{},
		&orderRecord{},
		&checkoutIdempotencyKey{},
	)
}

// kioskRecord mirrors the localstorage Postgres store.
type kioskRecord struct {
	Key       string    `gorm:"primaryKey;column:key;size:64"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (kioskRecord) TableName() string { return "kiosk_records" }

// orderRecord mirrors the orders Postgres adapter.
type orderRecord struct {
	ID         int64         `gorm:"primaryKey;autoIncrement:false;column:id"`
	ItemIDs    pq.Int64Array `gorm:"column:item_ids;type:bigint[];not null"`
	Quantities pq.Int64Array `gorm:"column:quantities;type:bigint[];not null"`
	Status     string        `gorm:"column:status;type:varchar(32);index"`
	CreatedAt  time.Time     `gorm:"column:created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// checkoutIdempotencyKey mirrors the orders idempotency store.
type checkoutIdempotencyKey struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (checkoutIdempotencyKey) TableName() string { return "checkout_idempotency_keys" }
