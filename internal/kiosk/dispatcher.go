package kiosk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	catalogdomain "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/domain"
	ordersapp "github.com/Apurer/go-gin-kiosk/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-gin-kiosk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-kiosk/internal/domains/orders/ports"
)

// CommandName identifies one user action.
type CommandName string

const (
	CommandAddToCart    CommandName = "add-to-cart"
	CommandClearCart    CommandName = "clear-cart"
	CommandCheckout     CommandName = "checkout"
	CommandAdvanceOrder CommandName = "advance-order"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command carries the arguments of a user action. Only the fields the named
// command needs are read.
type Command struct {
	Name    CommandName
	ItemID  int64
	OrderID int64
	// IdempotencyKey makes a retried checkout return the order of the first attempt.
	IdempotencyKey string
}

// Result reports what a command changed.
type Result struct {
	OrderID int64
	Order   *ordersdomain.Order
	// Replayed is set when checkout answered from an earlier attempt with the same key.
	Replayed bool
}

// CheckoutRunner performs the checkout command.
type CheckoutRunner interface {
	Checkout(ctx context.Context) (int64, error)
}

// InlineCheckout runs checkout directly against the session.
type InlineCheckout struct {
	session *Session
}

func NewInlineCheckout(session *Session) *InlineCheckout {
	return &InlineCheckout{session: session}
}

func (c *InlineCheckout) Checkout(ctx context.Context) (int64, error) {
	if c == nil || c.session == nil {
		return 0, errors.New("inline checkout not configured")
	}
	return c.session.Checkout(ctx)
}

// Dispatcher runs commands one at a time against a session. Views take a read
// lock so they never observe a command halfway through.
type Dispatcher struct {
	mu       sync.RWMutex
	session  *Session
	checkout CheckoutRunner
}

type DispatcherOption func(*Dispatcher)

func WithCheckoutRunner(r CheckoutRunner) DispatcherOption {
	return func(d *Dispatcher) { d.checkout = r }
}

func NewDispatcher(session *Session, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{session: session}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.checkout == nil {
		d.checkout = NewInlineCheckout(session)
	}
	return d
}

func (d *Dispatcher) Session() *Session { return d.session }

// Dispatch executes cmd to completion before any other command starts.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch cmd.Name {
	case CommandAddToCart:
		return Result{}, d.session.AddToCart(ctx, cmd.ItemID)
	case CommandClearCart:
		return Result{}, d.session.ClearCart(ctx)
	case CommandCheckout:
		return d.checkoutOnce(ctx, strings.TrimSpace(cmd.IdempotencyKey))
	case CommandAdvanceOrder:
		order, err := d.session.Advance(ctx, cmd.OrderID)
		if err != nil {
			return Result{}, err
		}
		return Result{OrderID: order.ID(), Order: order}, nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}
}

// checkoutOnce runs checkout, replaying the recorded order when key was
// already used. A retry finds the cart either empty or holding the same lines;
// any other cart under a known key is a conflict.
func (d *Dispatcher) checkoutOnce(ctx context.Context, key string) (Result, error) {
	if key == "" || d.session.Idempotency == nil {
		id, err := d.checkout.Checkout(ctx)
		return Result{OrderID: id}, err
	}

	lines := d.session.CartLines(ctx)
	hash, err := ordersapp.FingerprintLines(lines)
	if err != nil {
		return Result{}, err
	}
	existing, err := d.session.Idempotency.Get(ctx, key)
	if err != nil {
		return Result{}, err
	}
	if existing != nil {
		if len(lines) == 0 || existing.RequestHash == hash {
			return Result{OrderID: existing.OrderID, Replayed: true}, nil
		}
		return Result{OrderID: existing.OrderID}, fmt.Errorf("%w: key %q already placed order %d", ordersports.ErrIdempotencyConflict, key, existing.OrderID)
	}

	id, checkoutErr := d.checkout.Checkout(ctx)
	if id == 0 {
		return Result{}, checkoutErr
	}
	if _, err := d.session.Idempotency.Save(ctx, ordersports.IdempotencyRecord{Key: key, RequestHash: hash, OrderID: id}); err != nil {
		d.session.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record checkout idempotency key",
			slog.String("idempotency_key", key),
			slog.Int64("order.id", id),
			slog.String("error", err.Error()))
	}
	return Result{OrderID: id}, checkoutErr
}

// Menu lists catalog items whose name contains filter.
func (d *Dispatcher) Menu(ctx context.Context, filter string) []catalogdomain.Item {
	return slices.Collect(d.session.Catalog.List(ctx, filter))
}

func (d *Dispatcher) MenuItem(ctx context.Context, id int64) (catalogdomain.Item, error) {
	return d.session.Catalog.Lookup(ctx, id)
}

func (d *Dispatcher) Cart(ctx context.Context) CartView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.session.CartView(ctx)
}

func (d *Dispatcher) Orders(ctx context.Context, status ordersdomain.Status) []OrderCard {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.session.OrderCards(ctx, status)
}

func (d *Dispatcher) Order(ctx context.Context, id int64) (OrderCard, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	order, err := d.session.Orders.Get(ctx, id)
	if err != nil {
		return OrderCard{}, err
	}
	return d.session.OrderCard(ctx, order), nil
}

func (d *Dispatcher) Dashboard(ctx context.Context) Dashboard {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.session.Dashboard(ctx)
}
