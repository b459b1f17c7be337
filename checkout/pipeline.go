// Package checkout turns a session cart into a durable order: validate,
// snapshot, price, then a best-effort remote attempt with a local
// fallback. A customer with a valid cart always walks away with a
// confirmable order identity.
package checkout

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"brewhaus/adminapi"
	"brewhaus/cart"
	"brewhaus/models"
	"brewhaus/orders"
	"brewhaus/utils"
)

const (
	TaxRate         = 0.08
	DeliveryFee     = 2.50
	PickupReadyIn   = 20 * time.Minute
	DeliveryReadyIn = 45 * time.Minute
)

// ValidationError blocks submission; the cart is left untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// PendingQueue records locally synthesized orders for later sync to the
// admin API.
type PendingQueue interface {
	Enqueue(ctx context.Context, pending models.PendingOrder) error
}

// Advisor delivers non-blocking notices (offline mode and the like) to
// the session.
type Advisor interface {
	Advise(ctx context.Context, adv models.Advisory)
}

// Request is the customer-submitted half of an order.
type Request struct {
	OrderType           string              `json:"orderType"`
	CustomerInfo        models.CustomerInfo `json:"customerInfo"`
	SpecialInstructions string              `json:"specialInstructions"`
}

type Pipeline struct {
	Cart    *cart.Store
	Orders  *orders.Store
	Admin   *adminapi.Client
	Pending PendingQueue
	Advisor Advisor
	now     func() time.Time
}

func NewPipeline(cartStore *cart.Store, orderStore *orders.Store, admin *adminapi.Client, pending PendingQueue, advisor Advisor) *Pipeline {
	return &Pipeline{
		Cart:    cartStore,
		Orders:  orderStore,
		Admin:   admin,
		Pending: pending,
		Advisor: advisor,
		now:     time.Now,
	}
}

// Result reports what PlaceOrder produced.
type Result struct {
	Order models.Order `json:"order"`
	Local bool         `json:"local"`
}

// PlaceOrder runs the pipeline for one session. Validation failures
// return a *ValidationError and leave the cart alone. Remote failures do
// not surface as errors: the local fallback order takes over and an
// offline advisory is emitted. The cart is cleared only after the order
// has been recorded in the session store.
func (p *Pipeline) PlaceOrder(ctx context.Context, sessionID string, req Request) (Result, error) {
	current := p.Cart.Get(ctx, sessionID)

	if err := validate(current, req); err != nil {
		return Result{}, err
	}

	items := make([]models.OrderItem, 0, len(current.Lines))
	for i, line := range current.Lines {
		items = append(items, snapshotLine(line, i))
	}

	subtotal := current.TotalPrice()
	fee := 0.0
	if req.OrderType == models.OrderTypeDelivery {
		fee = DeliveryFee
	}
	tax := subtotal * TaxRate

	order := models.Order{
		Items:               items,
		Subtotal:            utils.Round2(subtotal),
		DeliveryFee:         fee,
		Tax:                 utils.Round2(tax),
		Total:               utils.Round2(subtotal + fee + tax),
		OrderType:           req.OrderType,
		CustomerInfo:        req.CustomerInfo,
		SpecialInstructions: strings.TrimSpace(req.SpecialInstructions),
		Status:              models.StatusPending,
		OrderTime:           p.now(),
	}

	res, err := p.Admin.CreateOrder(ctx, order)
	local := false
	if err == nil {
		order.ID = res.OrderID
		order.OrderNumber = res.OrderNumber
		order.EstimatedReadyTime = res.EstimatedReadyTime
	} else {
		log.Printf("order creation fell back to local: %v", err)
		local = true
		p.localize(&order)
	}

	// Record the order first; only then may the cart go.
	recorded, err := p.Orders.AddOrder(ctx, sessionID, order)
	if err != nil {
		// in-memory state is already correct; storage trouble is logged,
		// the customer still gets their confirmation
		log.Printf("order store persist failed: %v", err)
		recorded = order
	}
	if err := p.Cart.Clear(ctx, sessionID); err != nil {
		log.Printf("cart clear persist failed: %v", err)
	}

	if local {
		p.enqueueForSync(ctx, sessionID, recorded)
		if p.Advisor != nil {
			p.Advisor.Advise(ctx, models.Advisory{
				SessionID: sessionID,
				Kind:      models.AdvisoryOffline,
				Message:   "We could not reach the shop just now. Your order was saved and will be submitted automatically.",
				OrderID:   recorded.ID,
				At:        p.now(),
			})
		}
	}

	return Result{Order: recorded, Local: local}, nil
}

// localize stamps the fallback identity onto an order the admin API
// never saw.
func (p *Pipeline) localize(order *models.Order) {
	now := p.now()
	order.ID = orders.NewLocalOrderID(now)
	order.OrderNumber = orders.NewLocalOrderNumber(now)
	order.Status = models.StatusPending
	order.Local = true

	eta := now.Add(PickupReadyIn)
	if order.OrderType == models.OrderTypeDelivery {
		eta = now.Add(DeliveryReadyIn)
	}
	order.EstimatedReadyTime = &eta
}

func (p *Pipeline) enqueueForSync(ctx context.Context, sessionID string, order models.Order) {
	if p.Pending == nil {
		return
	}
	err := p.Pending.Enqueue(ctx, models.PendingOrder{
		LocalID:    order.ID,
		SessionID:  sessionID,
		Order:      order,
		EnqueuedAt: p.now(),
	})
	if err != nil {
		log.Printf("pending order enqueue failed: %v", err)
	}
}

func validate(c models.Cart, req Request) error {
	if len(c.Lines) == 0 {
		return &ValidationError{Field: "cart", Reason: "is empty"}
	}
	if req.OrderType != models.OrderTypePickup && req.OrderType != models.OrderTypeDelivery {
		return &ValidationError{Field: "orderType", Reason: "must be pickup or delivery"}
	}
	info := req.CustomerInfo
	if strings.TrimSpace(info.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(info.Email) == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if strings.TrimSpace(info.Phone) == "" {
		return &ValidationError{Field: "phone", Reason: "is required"}
	}
	if req.OrderType == models.OrderTypeDelivery && strings.TrimSpace(info.Address) == "" {
		return &ValidationError{Field: "address", Reason: "is required for delivery"}
	}
	return nil
}

// snapshotLine freezes a cart line into an order item. Missing fields get
// safe defaults; a malformed catalog record never aborts the order.
func snapshotLine(line models.CartLine, position int) models.OrderItem {
	item := line.Item

	id := line.ItemID
	if id == "" {
		id = models.ResolveID(item, position)
	}
	name := item.Name
	if name == "" {
		name = "Menu item"
	}
	price := item.Price
	if price < 0 {
		price = 0
	}
	qty := line.Quantity
	if qty < 1 {
		qty = 1
	}

	return models.OrderItem{
		MenuItemID:          id,
		Name:                name,
		Description:         item.Description,
		Price:               price,
		Category:            item.Category,
		Image:               item.Image,
		IsVegan:             item.IsVegan,
		IsGlutenFree:        item.IsGlutenFree,
		PrepTime:            item.PrepTime,
		Calories:            item.Calories,
		Quantity:            qty,
		SpecialInstructions: line.SpecialInstructions,
	}
}
