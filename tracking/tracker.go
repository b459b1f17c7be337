// Package tracking is the read-and-confirm path over the admin API's
// order-status history. Unlike the order cache there is no local
// fallback here: fabricating tracking history would mislead, so failures
// surface as errors.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"log"

	"brewhaus/adminapi"
	"brewhaus/models"
)

var (
	ErrNotReady = errors.New("order is not ready for confirmation")
	ErrNotFound = errors.New("order not found")
)

// TokenSource supplies the admin API bearer token for a logged-in
// customer.
type TokenSource interface {
	AdminToken(ctx context.Context, customerID string) (string, error)
}

type Tracker struct {
	Admin  *adminapi.Client
	Tokens TokenSource
}

func NewTracker(admin *adminapi.Client, tokens TokenSource) *Tracker {
	return &Tracker{Admin: admin, Tokens: tokens}
}

// TimelineStep is one rendered history entry: the raw record plus its
// fixed presentation triple.
type TimelineStep struct {
	models.TrackingEntry
	Meta models.StatusMeta `json:"meta"`
}

// View is what the order-status page renders.
type View struct {
	Order      models.Order   `json:"order"`
	Timeline   []TimelineStep `json:"timeline"`
	CanConfirm bool           `json:"canConfirm"`
}

// Fetch retrieves the order and its history. The order's own status
// field defines the current step; it must match the last entry, and a
// divergence is logged rather than papered over.
func (t *Tracker) Fetch(ctx context.Context, customerID, orderNumber, email string) (*View, error) {
	if orderNumber == "" || email == "" {
		return nil, fmt.Errorf("orderNumber and email are required")
	}

	token, err := t.Tokens.AdminToken(ctx, customerID)
	if err != nil {
		return nil, err
	}

	res, err := t.Admin.FetchTracking(ctx, orderNumber, email, token)
	if err != nil {
		if errors.Is(err, adminapi.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if n := len(res.Tracking); n > 0 && res.Tracking[n-1].Status != res.Order.Status {
		log.Printf("tracking mismatch for %s: order status %q, last entry %q",
			orderNumber, res.Order.Status, res.Tracking[n-1].Status)
	}

	timeline := make([]TimelineStep, 0, len(res.Tracking))
	for _, entry := range res.Tracking {
		timeline = append(timeline, TimelineStep{
			TrackingEntry: entry,
			Meta:          models.StatusDisplay[entry.Status],
		})
	}

	return &View{
		Order:      res.Order,
		Timeline:   timeline,
		CanConfirm: res.Order.Status == models.StatusReady,
	}, nil
}

// ConfirmDelivered appends the customer's terminal confirmation and
// re-fetches the authoritative history. It only has effect while the
// order is ready; any other status is rejected without an upstream
// write.
func (t *Tracker) ConfirmDelivered(ctx context.Context, customerID, orderNumber, email string) (*View, error) {
	view, err := t.Fetch(ctx, customerID, orderNumber, email)
	if err != nil {
		return nil, err
	}
	if view.Order.Status != models.StatusReady {
		return view, ErrNotReady
	}

	token, err := t.Tokens.AdminToken(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := t.Admin.AppendTracking(ctx, view.Order.ID, models.StatusDelivered, models.ChangedByCustomer, token); err != nil {
		return nil, err
	}

	// no optimistic mutation: the server's history is the truth
	return t.Fetch(ctx, customerID, orderNumber, email)
}
