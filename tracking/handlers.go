package tracking

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"brewhaus/docstore"
	"brewhaus/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	Tracker *Tracker
	Guard   docstore.Store
}

func NewHandlers(tracker *Tracker, guard docstore.Store) *Handlers {
	return &Handlers{Tracker: tracker, Guard: guard}
}

// GetTracking handles GET /api/order-tracking?orderNumber=&email=.
// The route sits behind middleware.Authenticate; an anonymous request
// never reaches the admin API.
func (h *Handlers) GetTracking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customerID := utils.GetCustomerIDFromRequest(r)
	orderNumber := r.URL.Query().Get("orderNumber")
	email := r.URL.Query().Get("email")

	view, err := h.Tracker.Fetch(r.Context(), customerID, orderNumber, email)
	if err != nil {
		h.respondError(w, orderNumber, err)
		return
	}
	utils.SendResponse(w, http.StatusOK, view, "", nil)
}

// ConfirmDelivered handles POST /api/order-tracking/confirm. A guard per
// order keeps a double click from appending two terminal entries.
func (h *Handlers) ConfirmDelivered(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customerID := utils.GetCustomerIDFromRequest(r)

	var body struct {
		OrderNumber string `json:"orderNumber"`
		Email       string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if body.OrderNumber == "" || body.Email == "" {
		http.Error(w, "orderNumber and email are required", http.StatusBadRequest)
		return
	}

	guardKey := "tracking:confirm:" + body.OrderNumber
	ok, err := h.Guard.SetNX(r.Context(), guardKey, []byte("1"), 15*time.Second)
	switch {
	case err != nil:
		log.Println("confirm guard error:", err)
	case !ok:
		http.Error(w, "Confirmation already in progress", http.StatusConflict)
		return
	default:
		defer h.Guard.Del(r.Context(), guardKey)
	}

	view, err := h.Tracker.ConfirmDelivered(r.Context(), customerID, body.OrderNumber, body.Email)
	if err != nil {
		if errors.Is(err, ErrNotReady) {
			utils.RespondWithError(w, http.StatusConflict, "Only a ready order can be confirmed")
			return
		}
		h.respondError(w, body.OrderNumber, err)
		return
	}
	utils.SendResponse(w, http.StatusOK, view, "Delivery confirmed", nil)
}

func (h *Handlers) respondError(w http.ResponseWriter, orderNumber string, err error) {
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found. Check the order number and email.")
		return
	}
	log.Printf("tracking fetch failed for %s: %v", orderNumber, err)
	utils.RespondWithError(w, http.StatusBadGateway, "Could not load tracking right now. Please try again.")
}
