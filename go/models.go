package kioskserver

import (
	catalogdomain "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-kiosk/internal/kiosk"
)

// Prices are rendered as decimal strings with two places, e.g. "14.00".

type MenuItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	ImageRef  string `json:"imageRef,omitempty"`
}

type CartLine struct {
	ItemID    int64  `json:"itemId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

type Cart struct {
	Lines          []CartLine `json:"lines"`
	TotalCount     int        `json:"totalCount"`
	TotalPrice     string     `json:"totalPrice"`
	SkippedItemIDs []int64    `json:"skippedItemIds,omitempty"`
}

type AddCartItemRequest struct {
	ItemID int64 `json:"itemId" binding:"required,gt=0"`
}

type CheckoutResponse struct {
	OrderID int64 `json:"orderId"`
}

type OrderLine struct {
	ItemID   int64  `json:"itemId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Label    string `json:"label"`
}

type Order struct {
	ID             int64       `json:"id"`
	Status         string      `json:"status"`
	Lines          []OrderLine `json:"lines"`
	Action         string      `json:"action,omitempty"`
	SkippedItemIDs []int64     `json:"skippedItemIds,omitempty"`
}

type Queue struct {
	Status string  `json:"status"`
	Count  int     `json:"count"`
	Orders []Order `json:"orders"`
}

type Dashboard struct {
	Queues []Queue `json:"queues"`
}

type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func fromItem(item catalogdomain.Item) MenuItem {
	return MenuItem{
		ID:        item.ID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice.StringFixed(2),
		ImageRef:  item.ImageRef,
	}
}

func fromItems(items []catalogdomain.Item) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		out = append(out, fromItem(item))
	}
	return out
}

func fromCartView(view kiosk.CartView) Cart {
	cart := Cart{
		Lines:          make([]CartLine, 0, len(view.Lines)),
		TotalCount:     view.TotalCount,
		TotalPrice:     view.TotalPrice.StringFixed(2),
		SkippedItemIDs: view.SkippedItemIDs,
	}
	for _, line := range view.Lines {
		cart.Lines = append(cart.Lines, CartLine{
			ItemID:    line.Item.ID,
			Name:      line.Item.Name,
			UnitPrice: line.Item.UnitPrice.StringFixed(2),
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal.StringFixed(2),
		})
	}
	return cart
}

func fromOrderCard(card kiosk.OrderCard) Order {
	order := Order{
		ID:             card.ID,
		Status:         string(card.Status),
		Lines:          make([]OrderLine, 0, len(card.Lines)),
		Action:         card.Action,
		SkippedItemIDs: card.SkippedItemIDs,
	}
	for _, line := range card.Lines {
		order.Lines = append(order.Lines, OrderLine{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Label:    line.Label(),
		})
	}
	return order
}

func fromOrderCards(cards []kiosk.OrderCard) []Order {
	out := make([]Order, 0, len(cards))
	for _, card := range cards {
		out = append(out, fromOrderCard(card))
	}
	return out
}

func fromDashboard(d kiosk.Dashboard) Dashboard {
	out := Dashboard{Queues: make([]Queue, 0, len(d.Queues))}
	for _, q := range d.Queues {
		out.Queues = append(out.Queues, Queue{
			Status: string(q.Status),
			Count:  q.Count,
			Orders: fromOrderCards(q.Orders),
		})
	}
	return out
}
