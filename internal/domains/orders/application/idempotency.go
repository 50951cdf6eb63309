package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
)

type normalizedLine struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

// FingerprintLines builds a deterministic hash of a checkout snapshot. Line
// order does not affect the result.
func FingerprintLines(lines []domain.Line) (string, error) {
	normalized := make([]normalizedLine, 0, len(lines))
	for _, line := range lines {
		normalized = append(normalized, normalizedLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	slices.SortFunc(normalized, func(a, b normalizedLine) int {
		switch {
		case a.ItemID < b.ItemID:
			return -1
		case a.ItemID > b.ItemID:
			return 1
		default:
			return a.Quantity - b.Quantity
		}
	})
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
