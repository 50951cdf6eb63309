package kioskserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-kiosk/internal/kiosk"
	apierrors "github.com/Apurer/go-gin-kiosk/internal/shared/errors"
)

// OrdersAPI serves the staff dashboard and the advance command.
type OrdersAPI struct {
	dispatcher *kiosk.Dispatcher
	responder  *apierrors.Responder
}

func NewOrdersAPI(dispatcher *kiosk.Dispatcher, responder *apierrors.Responder) OrdersAPI {
	if responder == nil {
		responder = NewResponder()
	}
	return OrdersAPI{dispatcher: dispatcher, responder: responder}
}

// Get /v1/orders
// Lists orders in one status, oldest first
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	status, ok := bindStatusQuery(c, api.responder)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, fromOrderCards(api.dispatcher.Orders(c.Request.Context(), status)))
}

// Get /v1/orders/:orderId
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	id, ok := bindIDParam(c, api.responder, "orderId")
	if !ok {
		return
	}
	card, err := api.dispatcher.Order(c.Request.Context(), id)
	if err != nil {
		respondError(c, api.responder, err)
		return
	}
	c.JSON(http.StatusOK, fromOrderCard(card))
}

// Post /v1/orders/:orderId/advance
// Moves an order to its next status
func (api *OrdersAPI) AdvanceOrder(c *gin.Context) {
	id, ok := bindIDParam(c, api.responder, "orderId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	res, err := api.dispatcher.Dispatch(ctx, kiosk.Command{Name: kiosk.CommandAdvanceOrder, OrderID: id})
	if err != nil {
		respondError(c, api.responder, err)
		return
	}
	c.JSON(http.StatusOK, fromOrderCard(api.dispatcher.Session().OrderCard(ctx, res.Order)))
}

// Get /v1/dashboard
func (api *OrdersAPI) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, fromDashboard(api.dispatcher.Dashboard(c.Request.Context())))
}
