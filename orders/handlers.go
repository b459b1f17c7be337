package orders

import (
	"log"
	"net/http"

	"brewhaus/adminapi"
	"brewhaus/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	Store *Store
	Admin *adminapi.Client
}

func NewHandlers(store *Store, admin *adminapi.Client) *Handlers {
	return &Handlers{Store: store, Admin: admin}
}

// Confirmation answers GET /api/orders/confirmation. The remote lookup
// wins when it succeeds; the session cache covers admin outages; with no
// order identity at all the most recent local order is shown.
func (h *Handlers) Confirmation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid := utils.GetSessionIDFromRequest(r)
	orderNumber := r.URL.Query().Get("orderNumber")
	email := r.URL.Query().Get("email")

	if orderNumber == "" {
		order, ok := h.Store.MostRecent(r.Context(), sid)
		if !ok {
			utils.RespondWithError(w, http.StatusNotFound, "No recent order found")
			return
		}
		utils.SendResponse(w, http.StatusOK, utils.M{"order": order, "source": "local"}, "Most recent order", nil)
		return
	}

	if order, err := h.Admin.LookupOrder(r.Context(), orderNumber, email); err == nil {
		utils.SendResponse(w, http.StatusOK, utils.M{"order": order, "source": "remote"}, "Order found", nil)
		return
	} else {
		log.Printf("remote order lookup failed for %s: %v", orderNumber, err)
	}

	if order, ok := h.Store.FindByNumber(r.Context(), sid, orderNumber, email); ok {
		utils.SendResponse(w, http.StatusOK, utils.M{"order": order, "source": "local"}, "Order found (cached)", nil)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Order not found. Check the order number and email.")
}

// ListOrders returns the session's cached order history.
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid := utils.GetSessionIDFromRequest(r)
	l := h.Store.List(r.Context(), sid)
	utils.SendResponse(w, http.StatusOK, utils.M{"orders": l.Orders}, "", nil)
}
