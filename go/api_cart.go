package kioskserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-kiosk/internal/kiosk"
	apierrors "github.com/Apurer/go-gin-kiosk/internal/shared/errors"
)

// CartAPI serves the student's cart and the checkout command.
type CartAPI struct {
	dispatcher *kiosk.Dispatcher
	responder  *apierrors.Responder
}

func NewCartAPI(dispatcher *kiosk.Dispatcher, responder *apierrors.Responder) CartAPI {
	if responder == nil {
		responder = NewResponder()
	}
	return CartAPI{dispatcher: dispatcher, responder: responder}
}

// Get /v1/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, fromCartView(api.dispatcher.Cart(c.Request.Context())))
}

// Post /v1/cart/items
// Adds one unit of a menu item to the cart
func (api *CartAPI) AddCartItem(c *gin.Context) {
	var payload AddCartItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	ctx := c.Request.Context()
	if _, err := api.dispatcher.Dispatch(ctx, kiosk.Command{Name: kiosk.CommandAddToCart, ItemID: payload.ItemID}); err != nil {
		respondError(c, api.responder, err)
		return
	}
	c.JSON(http.StatusOK, fromCartView(api.dispatcher.Cart(ctx)))
}

// Delete /v1/cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	if _, err := api.dispatcher.Dispatch(c.Request.Context(), kiosk.Command{Name: kiosk.CommandClearCart}); err != nil {
		respondError(c, api.responder, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/checkout
// Submits the cart as a new order and empties the cart. A repeated
// Idempotency-Key answers 200 with the order placed by the first attempt.
func (api *CartAPI) Checkout(c *gin.Context) {
	res, err := api.dispatcher.Dispatch(c.Request.Context(), kiosk.Command{
		Name:           kiosk.CommandCheckout,
		IdempotencyKey: c.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		problem := api.responder.Problem(err)
		if res.OrderID != 0 {
			problem = problem.WithExtension("orderId", res.OrderID)
		}
		_ = c.Error(err)
		api.responder.Respond(c, problem)
		return
	}
	if res.Replayed {
		c.Header(HeaderIdempotentReplayed, "true")
		c.JSON(http.StatusOK, CheckoutResponse{OrderID: res.OrderID})
		return
	}
	c.JSON(http.StatusCreated, CheckoutResponse{OrderID: res.OrderID})
}
