package cart

import (
	"encoding/json"
	"log"
	"net/http"

	"brewhaus/models"
	"brewhaus/utils"

	"github.com/julienschmidt/httprouter"
)

// Handlers exposes the cart store over HTTP, keyed by the session id the
// session middleware guarantees.
type Handlers struct {
	Store *Store
}

func NewHandlers(store *Store) *Handlers {
	return &Handlers{Store: store}
}

func (h *Handlers) respondCart(w http.ResponseWriter, c models.Cart) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"cart":       c,
		"totalItems": c.TotalItems(),
		"totalPrice": utils.Round2(c.TotalPrice()),
	})
}

// GetCart returns the session cart with derived totals.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid := utils.GetSessionIDFromRequest(r)
	h.respondCart(w, h.Store.Get(r.Context(), sid))
}

// AddItem handles POST /api/cart/items.
func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Item                models.CatalogItem `json:"item"`
		Quantity            int                `json:"quantity"`
		SpecialInstructions string             `json:"specialInstructions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("AddItem decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if body.Item.Name == "" && body.Item.RemoteID == "" && body.Item.LegacyID == 0 {
		http.Error(w, "Missing item", http.StatusBadRequest)
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	sid := utils.GetSessionIDFromRequest(r)
	c, err := h.Store.AddItem(r.Context(), sid, body.Item, body.Quantity, body.SpecialInstructions)
	if err != nil {
		log.Println("AddItem persist error:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}
	h.respondCart(w, c)
}

// UpdateQuantity handles PATCH /api/cart/items/:itemid. Both fields are
// optional; an absent quantity leaves the line's quantity alone, while a
// supplied quantity of zero or below removes the line.
func (h *Handlers) UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Quantity            *int    `json:"quantity"`
		SpecialInstructions *string `json:"specialInstructions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("UpdateQuantity decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	sid := utils.GetSessionIDFromRequest(r)
	itemID := ps.ByName("itemid")

	c := h.Store.Get(r.Context(), sid)
	if body.SpecialInstructions != nil {
		var err error
		c, err = h.Store.SetInstructions(r.Context(), sid, itemID, *body.SpecialInstructions)
		if err != nil {
			log.Println("UpdateQuantity instructions error:", err)
			http.Error(w, "Failed to update cart", http.StatusInternalServerError)
			return
		}
	}
	if body.Quantity != nil {
		var err error
		c, err = h.Store.SetQuantity(r.Context(), sid, itemID, *body.Quantity)
		if err != nil {
			log.Println("UpdateQuantity persist error:", err)
			http.Error(w, "Failed to update cart", http.StatusInternalServerError)
			return
		}
	}
	h.respondCart(w, c)
}

// RemoveItem handles DELETE /api/cart/items/:itemid.
func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sid := utils.GetSessionIDFromRequest(r)
	c, err := h.Store.RemoveItem(r.Context(), sid, ps.ByName("itemid"))
	if err != nil {
		log.Println("RemoveItem persist error:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}
	h.respondCart(w, c)
}

// ClearCart handles DELETE /api/cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid := utils.GetSessionIDFromRequest(r)
	if err := h.Store.Clear(r.Context(), sid); err != nil {
		log.Println("ClearCart persist error:", err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}
	h.respondCart(w, models.Cart{})
}
