package kioskserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route binds one HTTP method and path to a handler.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API area.
type ApiHandleFunctions struct {
	MenuAPI   MenuAPI
	CartAPI   CartAPI
	OrdersAPI OrdersAPI
	HealthAPI HealthAPI
}

// NewRouter returns a gin engine with recovery and every kiosk route.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine registers the kiosk routes on an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"ListMenu", http.MethodGet, "/v1/menu", handleFunctions.MenuAPI.ListMenu},
		{"GetMenuItem", http.MethodGet, "/v1/menu/:itemId", handleFunctions.MenuAPI.GetMenuItem},
		{"GetCart", http.MethodGet, "/v1/cart", handleFunctions.CartAPI.GetCart},
		{"AddCartItem", http.MethodPost, "/v1/cart/items", handleFunctions.CartAPI.AddCartItem},
		{"ClearCart", http.MethodDelete, "/v1/cart", handleFunctions.CartAPI.ClearCart},
		{"Checkout", http.MethodPost, "/v1/checkout", handleFunctions.CartAPI.Checkout},
		{"ListOrders", http.MethodGet, "/v1/orders", handleFunctions.OrdersAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/v1/orders/:orderId", handleFunctions.OrdersAPI.GetOrder},
		{"AdvanceOrder", http.MethodPost, "/v1/orders/:orderId/advance", handleFunctions.OrdersAPI.AdvanceOrder},
		{"GetDashboard", http.MethodGet, "/v1/dashboard", handleFunctions.OrdersAPI.GetDashboard},
		{"Health", http.MethodGet, "/healthz", handleFunctions.HealthAPI.Health},
	}
}
