// Package localstorage keeps named JSON records, the server-side stand-in for the
// browser's localStorage. Every record is read and written whole.
package localstorage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Record keys used by the kiosk.
const (
	KeyCart   = "cart"
	KeyOrders = "pedidos"
)

// ErrNotFound reports that no record exists under the key.
var ErrNotFound = errors.New("record not found")

var validKey = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Store reads and replaces whole records.
type Store interface {
	// Get returns the record bytes or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put atomically replaces the record.
	Put(ctx context.Context, key string, value []byte) error
	// Close releases backend resources.
	Close() error
}

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid record key %q", key)
	}
	return nil
}
