// Package orders keeps the session's placed orders: a most-recent-first
// cache persisted like the cart, plus the confirmation surface. The admin
// API stays the source of truth; this store only answers when the remote
// lookup fails or no order identity is in play.
package orders

import (
	"context"
	"fmt"
	"time"

	"brewhaus/docstore"
	"brewhaus/models"
	"brewhaus/utils"
)

type Store struct {
	docs docstore.Store
}

func NewStore(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

func listKey(sessionID string) string {
	return "orders:" + sessionID
}

// List rehydrates the session's order list, most recent first.
func (s *Store) List(ctx context.Context, sessionID string) models.OrderList {
	var l models.OrderList
	docstore.Load(ctx, s.docs, listKey(sessionID), &l)
	return l
}

func (s *Store) persist(ctx context.Context, sessionID string, l models.OrderList) error {
	if err := docstore.Save(ctx, s.docs, listKey(sessionID), l); err != nil {
		return fmt.Errorf("persist orders: %w", err)
	}
	return nil
}

// AddOrder prepends the order, generating id and timestamp when the
// caller left them empty.
func (s *Store) AddOrder(ctx context.Context, sessionID string, order models.Order) (models.Order, error) {
	if order.ID == "" {
		order.ID = NewLocalOrderID(time.Now())
	}
	if order.OrderTime.IsZero() {
		order.OrderTime = time.Now()
	}
	l := s.List(ctx, sessionID)
	l.Orders = append([]models.Order{order}, l.Orders...)
	return order, s.persist(ctx, sessionID, l)
}

// UpdateOrderStatus replaces the status of the matching entry; missing
// orders are a no-op.
func (s *Store) UpdateOrderStatus(ctx context.Context, sessionID, orderID, status string) error {
	l := s.List(ctx, sessionID)
	changed := false
	for i := range l.Orders {
		if l.Orders[i].ID == orderID {
			l.Orders[i].Status = status
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}
	return s.persist(ctx, sessionID, l)
}

// ReplaceOrder swaps a locally synthesized order for its server-issued
// identity after a successful background sync.
func (s *Store) ReplaceOrder(ctx context.Context, sessionID, oldID string, order models.Order) error {
	l := s.List(ctx, sessionID)
	for i := range l.Orders {
		if l.Orders[i].ID == oldID {
			l.Orders[i] = order
			return s.persist(ctx, sessionID, l)
		}
	}
	return nil
}

// FindByNumber returns the cached order with the given number, matching
// the customer email when one is supplied.
func (s *Store) FindByNumber(ctx context.Context, sessionID, orderNumber, email string) (models.Order, bool) {
	for _, o := range s.List(ctx, sessionID).Orders {
		if o.OrderNumber != orderNumber {
			continue
		}
		if email != "" && o.CustomerInfo.Email != email {
			continue
		}
		return o, true
	}
	return models.Order{}, false
}

// MostRecent returns the newest cached order, if any.
func (s *Store) MostRecent(ctx context.Context, sessionID string) (models.Order, bool) {
	l := s.List(ctx, sessionID)
	if len(l.Orders) == 0 {
		return models.Order{}, false
	}
	return l.Orders[0], true
}

// NewLocalOrderID builds the identity of an order synthesized while the
// admin API was unreachable: local-<unix ms>-<random>.
func NewLocalOrderID(now time.Time) string {
	return fmt.Sprintf("local-%d-%s", now.UnixMilli(), utils.GenerateRandomString(6))
}

// NewLocalOrderNumber derives the customer-facing #LOC- number from the
// same timestamp (its last six digits).
func NewLocalOrderNumber(now time.Time) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "#LOC-" + ms
}
