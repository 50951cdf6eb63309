package localstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-kiosk/internal/shared/faults"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps records as rows of the kiosk_records table.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore wires a GORM-backed store. The schema is owned by the migrations package.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// RecordRow maps one named record.
type RecordRow struct {
	Key       string    `gorm:"primaryKey;column:key;size:64"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (RecordRow) TableName() string { return "kiosk_records" }

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var row RecordRow
	if err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: read %s: %w", faults.ErrPersistence, key, err)
	}
	return []byte(row.Value), nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}
	row := RecordRow{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value":      row.Value,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", faults.ErrPersistence, key, err)
	}
	return nil
}

// Close is a no-op; the caller owns the connection pool.
func (s *PostgresStore) Close() error { return nil }

func (s *PostgresStore) ensureDB() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("%w: postgres record store not configured", faults.ErrPersistence)
	}
	return nil
}
