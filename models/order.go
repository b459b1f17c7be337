package models

import "time"

// Order status values. Forward path is pending → accepted → preparing →
// ready → delivered; rejected and cancelled are side terminals reachable
// from pending/accepted. The storefront only ever reads the status and,
// at ready, appends the customer's delivered confirmation.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	OrderTypePickup   = "pickup"
	OrderTypeDelivery = "delivery"
)

// OrderItem is a frozen copy of the catalog fields at purchase time.
// Orders must not change when the catalog does.
type OrderItem struct {
	MenuItemID          string  `json:"menuItemId" bson:"menuItemId"`
	Name                string  `json:"name" bson:"name"`
	Description         string  `json:"description,omitempty" bson:"description,omitempty"`
	Price               float64 `json:"price" bson:"price"`
	Category            string  `json:"category,omitempty" bson:"category,omitempty"`
	Image               string  `json:"image,omitempty" bson:"image,omitempty"`
	IsVegan             bool    `json:"isVegan,omitempty" bson:"isVegan,omitempty"`
	IsGlutenFree        bool    `json:"isGlutenFree,omitempty" bson:"isGlutenFree,omitempty"`
	PrepTime            int     `json:"prepTime,omitempty" bson:"prepTime,omitempty"`
	Calories            int     `json:"calories,omitempty" bson:"calories,omitempty"`
	Quantity            int     `json:"quantity" bson:"quantity"`
	SpecialInstructions string  `json:"specialInstructions,omitempty" bson:"specialInstructions,omitempty"`
}

type CustomerInfo struct {
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
}

// Order is a placed order, either server-issued or synthesized locally
// when the admin API was unreachable. Total equals subtotal + deliveryFee
// + tax at creation time and is never recomputed.
type Order struct {
	ID                  string       `json:"id" bson:"_id"`
	OrderNumber         string       `json:"orderNumber" bson:"orderNumber"`
	Items               []OrderItem  `json:"items" bson:"items"`
	Subtotal            float64      `json:"subtotal" bson:"subtotal"`
	DeliveryFee         float64      `json:"deliveryFee" bson:"deliveryFee"`
	Tax                 float64      `json:"tax" bson:"tax"`
	Total               float64      `json:"total" bson:"total"`
	OrderType           string       `json:"orderType" bson:"orderType"`
	CustomerInfo        CustomerInfo `json:"customerInfo" bson:"customerInfo"`
	SpecialInstructions string       `json:"specialInstructions,omitempty" bson:"specialInstructions,omitempty"`
	Status              string       `json:"status" bson:"status"`
	OrderTime           time.Time    `json:"orderTime" bson:"orderTime"`
	EstimatedReadyTime  *time.Time   `json:"estimatedReadyTime,omitempty" bson:"estimatedReadyTime,omitempty"`
	Local               bool         `json:"local,omitempty" bson:"local,omitempty"`
}

// OrderList is the per-session order document, most recent first.
type OrderList struct {
	Orders []Order `json:"orders"`
}

// TrackingEntry is one append-only status-history record. Authored by the
// admin system, except the customer's terminal delivered confirmation.
type TrackingEntry struct {
	OrderID         string    `json:"orderId" bson:"orderId"`
	Status          string    `json:"status" bson:"status"`
	AdminNotes      string    `json:"adminNotes,omitempty" bson:"adminNotes,omitempty"`
	CustomerNotes   string    `json:"customerNotes,omitempty" bson:"customerNotes,omitempty"`
	StatusChangedAt time.Time `json:"statusChangedAt" bson:"statusChangedAt"`
	ChangedBy       string    `json:"changedBy" bson:"changedBy"`
}

const (
	ChangedByAdmin    = "admin"
	ChangedByCustomer = "customer"
)

// StatusMeta is the fixed icon/label/description triple for one status.
type StatusMeta struct {
	Icon        string `json:"icon"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// StatusDisplay maps each status to its timeline presentation.
var StatusDisplay = map[string]StatusMeta{
	StatusPending:   {Icon: "receipt", Label: "Order Placed", Description: "We have received your order."},
	StatusAccepted:  {Icon: "check", Label: "Order Accepted", Description: "The shop has accepted your order."},
	StatusRejected:  {Icon: "cross", Label: "Order Rejected", Description: "The shop could not take this order."},
	StatusPreparing: {Icon: "kettle", Label: "Preparing", Description: "Your drinks are being made."},
	StatusReady:     {Icon: "bell", Label: "Ready for Pickup/Delivery", Description: "Your order is ready."},
	StatusDelivered: {Icon: "cup", Label: "Delivered", Description: "Enjoy your coffee."},
	StatusCancelled: {Icon: "cross", Label: "Cancelled", Description: "This order was cancelled."},
}
