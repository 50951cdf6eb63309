package kioskserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-kiosk/internal/kiosk"
	apierrors "github.com/Apurer/go-gin-kiosk/internal/shared/errors"
)

// MenuAPI serves the catalog.
type MenuAPI struct {
	dispatcher *kiosk.Dispatcher
	responder  *apierrors.Responder
}

func NewMenuAPI(dispatcher *kiosk.Dispatcher, responder *apierrors.Responder) MenuAPI {
	if responder == nil {
		responder = NewResponder()
	}
	return MenuAPI{dispatcher: dispatcher, responder: responder}
}

// Get /v1/menu
// Lists menu items whose name contains q, ignoring case
func (api *MenuAPI) ListMenu(c *gin.Context) {
	var filter string
	if !bindOptionalQuery(c, api.responder, "q", &filter) {
		return
	}
	c.JSON(http.StatusOK, fromItems(api.dispatcher.Menu(c.Request.Context(), filter)))
}

// Get /v1/menu/:itemId
func (api *MenuAPI) GetMenuItem(c *gin.Context) {
	id, ok := bindIDParam(c, api.responder, "itemId")
	if !ok {
		return
	}
	item, err := api.dispatcher.MenuItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, api.responder, err)
		return
	}
	c.JSON(http.StatusOK, fromItem(item))
}
