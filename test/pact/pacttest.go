//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "kiosk-api"
	ConsumerName = "kiosk-screen"

	StateMenuBaseline   = "cafeteria menu baseline"
	StateCartEmpty      = "the cart is empty"
	StateCartHasItems   = "the cart holds two fruit salads"
	StateOrderPending   = "order 301 is pending"
	StateOrderDelivered = "order 302 is delivered"
	StateOrderMissing   = "no order with id 999"
)

const (
	FruitSaladID  int64 = 1
	MissingItemID int64 = 404

	PendingOrderID   int64 = 301
	DeliveredOrderID int64 = 302
	MissingOrderID   int64 = 999
)

// ExampleMenuItemPayload is the first item of the default cafeteria menu.
func ExampleMenuItemPayload() map[string]any {
	return map[string]any{
		"id":        FruitSaladID,
		"name":      "Salada de Frutas",
		"unitPrice": "6.00",
		"imageRef":  "https://i.imgur.com/T0n2q5d.jpeg",
	}
}

// ExampleOrderPayload is the pending order seeded by StateOrderPending after it advanced once.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"id":     PendingOrderID,
		"status": "preparing",
		"action": "deliver",
		"lines": []map[string]any{{
			"itemId":   FruitSaladID,
			"name":     "Salada de Frutas",
			"quantity": 2,
			"label":    "Salada de Frutas 2x",
		}},
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the kiosk screen consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
