package models

import "time"

// Customer mirrors the admin API's customer record. The password hash is
// only set on locally-registered fallback accounts and never leaves the
// storefront.
type Customer struct {
	CustomerID   string    `json:"customerId" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	PasswordHash string    `json:"-" bson:"passwordHash,omitempty"`
	AdminToken   string    `json:"-" bson:"adminToken,omitempty"`
	Degraded     bool      `json:"degraded,omitempty" bson:"degraded,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	LastLogin    time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

// PendingOrder is a locally synthesized order queued for sync to the
// admin API once it is reachable again.
type PendingOrder struct {
	LocalID    string    `json:"localId" bson:"_id"`
	SessionID  string    `json:"sessionId" bson:"sessionId"`
	Order      Order     `json:"order" bson:"order"`
	Attempts   int       `json:"attempts" bson:"attempts"`
	LastError  string    `json:"lastError,omitempty" bson:"lastError,omitempty"`
	EnqueuedAt time.Time `json:"enqueuedAt" bson:"enqueuedAt"`
	SyncedAt   time.Time `json:"syncedAt,omitempty" bson:"syncedAt,omitempty"`
}

// IdempotencyRecord caches the response of a replayable mutating request.
type IdempotencyRecord struct {
	Key         string         `json:"key" bson:"key"`
	Method      string         `json:"method" bson:"method"`
	Path        string         `json:"path" bson:"path"`
	SessionID   string         `json:"sessionId" bson:"sessionId"`
	RequestHash string         `json:"requestHash" bson:"request_hash"`
	Response    map[string]any `json:"response,omitempty" bson:"response,omitempty"`
	CreatedAt   time.Time      `json:"createdAt" bson:"created_at"`
	ExpiresAt   time.Time      `json:"expiresAt" bson:"expires_at"`
}

// Advisory is a non-blocking notice pushed to connected sessions instead
// of a modal dialog.
type Advisory struct {
	SessionID string    `json:"sessionId,omitempty"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	OrderID   string    `json:"orderId,omitempty"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}

const (
	AdvisoryOffline     = "offline-mode"
	AdvisoryOrderSynced = "order-synced"
	AdvisoryStatus      = "order-status"
)

// NotificationPrefs is the per-session notification preference document.
type NotificationPrefs struct {
	OrderUpdates bool `json:"orderUpdates"`
	Promotions   bool `json:"promotions"`
	Sound        bool `json:"sound"`
}

// DefaultNotificationPrefs matches a fresh session.
func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{OrderUpdates: true, Promotions: false, Sound: true}
}
