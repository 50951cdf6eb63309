package kiosk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/domain"
	ordersdomain "github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
)

// CartLineView is one row of the cart screen.
type CartLineView struct {
	Item      catalogdomain.Item
	Quantity  int
	LineTotal decimal.Decimal
}

// CartView is the cart screen plus the badge count. Lines whose item no longer
// resolves in the catalog are left out and listed in SkippedItemIDs; TotalCount
// and TotalPrice cover the rendered lines only.
type CartView struct {
	Lines          []CartLineView
	TotalCount     int
	TotalPrice     decimal.Decimal
	SkippedItemIDs []int64
}

// OrderLineView renders as "<name> <qty>x" on a dashboard card.
type OrderLineView struct {
	ItemID   int64
	Name     string
	Quantity int
}

func (l OrderLineView) Label() string {
	return fmt.Sprintf("%s %dx", l.Name, l.Quantity)
}

// OrderCard is one order on the staff dashboard.
type OrderCard struct {
	ID             int64
	Status         ordersdomain.Status
	Lines          []OrderLineView
	Action         string
	SkippedItemIDs []int64
}

// Queue is one dashboard column. Count is the store's depth for the status.
type Queue struct {
	Status ordersdomain.Status
	Count  int
	Orders []OrderCard
}

// Dashboard holds one queue per status in lifecycle order.
type Dashboard struct {
	Queues []Queue
}

func (s *Session) CartView(ctx context.Context) CartView {
	view := CartView{
		Lines:      []CartLineView{},
		TotalPrice: decimal.Zero,
	}
	for _, line := range s.Cart.Snapshot(ctx) {
		item, err := s.Catalog.Lookup(ctx, line.ItemID)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "cart line references unknown item",
				slog.Int64("item.id", line.ItemID))
			view.SkippedItemIDs = append(view.SkippedItemIDs, line.ItemID)
			continue
		}
		total := item.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Lines = append(view.Lines, CartLineView{Item: item, Quantity: line.Quantity, LineTotal: total})
		view.TotalCount += line.Quantity
		view.TotalPrice = view.TotalPrice.Add(total)
	}
	return view
}

func (s *Session) OrderCard(ctx context.Context, order *ordersdomain.Order) OrderCard {
	card := OrderCard{
		ID:     order.ID(),
		Status: order.Status(),
		Lines:  []OrderLineView{},
		Action: order.Status().Action(),
	}
	for _, line := range order.Lines() {
		item, err := s.Catalog.Lookup(ctx, line.ItemID)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "order line references unknown item",
				slog.Int64("order.id", order.ID()),
				slog.Int64("item.id", line.ItemID))
			card.SkippedItemIDs = append(card.SkippedItemIDs, line.ItemID)
			continue
		}
		card.Lines = append(card.Lines, OrderLineView{ItemID: item.ID, Name: item.Name, Quantity: line.Quantity})
	}
	return card
}

func (s *Session) OrderCards(ctx context.Context, status ordersdomain.Status) []OrderCard {
	cards := []OrderCard{}
	for order := range s.Orders.ListByStatus(ctx, status) {
		cards = append(cards, s.OrderCard(ctx, order))
	}
	return cards
}

func (s *Session) Dashboard(ctx context.Context) Dashboard {
	dashboard := Dashboard{Queues: make([]Queue, 0, len(ordersdomain.Statuses))}
	depths := s.Orders.QueueDepths(ctx)
	for _, status := range ordersdomain.Statuses {
		dashboard.Queues = append(dashboard.Queues, Queue{
			Status: status,
			Count:  depths[status],
			Orders: s.OrderCards(ctx, status),
		})
	}
	return dashboard
}
