// Package rabbitmq publishes order events to a topic exchange. Routing keys are
// order.submitted and order.advanced.<status>.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Apurer/go-gin-kiosk/internal/domains/orders/ports"
)

// Exchange is the topic exchange order events are published on.
const Exchange = "kiosk.orders"

// Sender is satisfied by the platform rabbitmq client.
type Sender interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

var _ ports.EventPublisher = (*Publisher)(nil)

type Publisher struct {
	sender   Sender
	exchange string
	timeout  time.Duration
}

type Option func(*Publisher)

func WithExchange(name string) Option {
	return func(p *Publisher) { p.exchange = name }
}

// WithTimeout bounds how long a publish waits for the broker.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) { p.timeout = d }
}

func NewPublisher(sender Sender, opts ...Option) *Publisher {
	p := &Publisher{sender: sender, exchange: Exchange, timeout: 2 * time.Second}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

type message struct {
	Type       string        `json:"type"`
	OrderID    int64         `json:"orderId"`
	Status     string        `json:"status"`
	Previous   string        `json:"previousStatus,omitempty"`
	Items      []messageItem `json:"items"`
	OccurredAt time.Time     `json:"occurredAt"`
}

type messageItem struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

func (p *Publisher) Publish(ctx context.Context, event ports.Event) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.sender.Publish(ctx, p.exchange, RoutingKey(event), body); err != nil {
		return fmt.Errorf("publish %s for order %d: %w", event.Type, event.OrderID, err)
	}
	return nil
}

// RoutingKey derives the routing key; advanced events carry the new status.
func RoutingKey(event ports.Event) string {
	if event.Type == ports.EventAdvanced {
		return string(event.Type) + "." + string(event.Status)
	}
	return string(event.Type)
}

// Encode renders the JSON message body.
func Encode(event ports.Event) ([]byte, error) {
	msg := message{
		Type:       string(event.Type),
		OrderID:    event.OrderID,
		Status:     string(event.Status),
		Previous:   string(event.Previous),
		Items:      make([]messageItem, 0, len(event.Lines)),
		OccurredAt: event.OccurredAt.UTC(),
	}
	for _, line := range event.Lines {
		msg.Items = append(msg.Items, messageItem{ID: line.ItemID, Quantity: line.Quantity})
	}
	return json.Marshal(msg)
}
