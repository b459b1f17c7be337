package checkout

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
	Pipeline *Pipeline
	Guard    docstore.Store
}

func NewHandlers(p *Pipeline, guard docstore.Store) *Handlers {
	return &Handlers{Pipeline: p, Guard: guard}
}

// PlaceOrder handles POST /api/checkout. A per-session in-flight marker
// keeps a double click on "Place Order" from producing two orders.
func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid := utils.GetSessionIDFromRequest(r)
	if sid == "" {
		http.Error(w, "Missing session", http.StatusBadRequest)
		return
	}

	guardKey := "checkout:inflight:" + sid
	ok, err := h.Guard.SetNX(r.Context(), guardKey, []byte("1"), 30*time.Second)
	switch {
	case err != nil:
		// guard storage trouble must not block checkout, but a marker we
		// never acquired is not ours to release
		log.Println("checkout guard error:", err)
	case !ok:
		http.Error(w, "An order is already being placed", http.StatusConflict)
		return
	default:
		defer h.Guard.Del(r.Context(), guardKey)
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("PlaceOrder decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	result, err := h.Pipeline.PlaceOrder(r.Context(), sid, req)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			utils.RespondWithError(w, http.StatusBadRequest, ve.Error())
			return
		}
		log.Println("PlaceOrder pipeline error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	message := "Order placed"
	if result.Local {
		message = "Order saved offline; it will be submitted automatically"
	}
	utils.SendResponse(w, http.StatusCreated, utils.M{
		"orderId":            result.Order.ID,
		"orderNumber":        result.Order.OrderNumber,
		"estimatedReadyTime": result.Order.EstimatedReadyTime,
		"total":              result.Order.Total,
		"local":              result.Local,
	}, message, nil)
}
