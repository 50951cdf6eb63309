package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
)

type EventType string

const (
	EventSubmitted EventType = "order.submitted"
	EventAdvanced  EventType = "order.advanced"
)

// Event describes a committed change to the order store.
type Event struct {
	Type       EventType
	OrderID    int64
	Status     domain.Status
	Previous   domain.Status
	Lines      []domain.Line
	OccurredAt time.Time
}

// EventPublisher forwards committed order changes to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
