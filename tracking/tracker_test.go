package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"brewhaus/adminapi"
	"brewhaus/models"
)

type staticTokens struct{}

func (staticTokens) AdminToken(context.Context, string) (string, error) {
	return "admin-token", nil
}

// fakeTrackingServer is a minimal admin tracking API with an append-only
// history per order.
type fakeTrackingServer struct {
	mu      sync.Mutex
	order   models.Order
	history []models.TrackingEntry
	*httptest.Server
}

func newFakeTrackingServer(t *testing.T, status string) *fakeTrackingServer {
	t.Helper()
	f := &fakeTrackingServer{
		order: models.Order{
			ID:           "srv-1",
			OrderNumber:  "#ORD-042",
			Status:       status,
			CustomerInfo: models.CustomerInfo{Email: "ada@example.com"},
		},
	}
	f.history = []models.TrackingEntry{
		{OrderID: "srv-1", Status: models.StatusPending, ChangedBy: models.ChangedByAdmin, StatusChangedAt: time.Now().Add(-time.Hour)},
	}
	if status != models.StatusPending {
		f.history = append(f.history, models.TrackingEntry{
			OrderID: "srv-1", Status: status, ChangedBy: models.ChangedByAdmin, StatusChangedAt: time.Now(),
		})
	}

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer admin-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "unauthorized"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet:
			if r.URL.Query().Get("orderNumber") != f.order.OrderNumber {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "not found"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    map[string]any{"order": f.order, "tracking": f.history},
			})
		case r.Method == http.MethodPost:
			var body struct {
				OrderID   string `json:"orderId"`
				Status    string `json:"status"`
				ChangedBy string `json:"changedBy"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			f.history = append(f.history, models.TrackingEntry{
				OrderID: body.OrderID, Status: body.Status, ChangedBy: body.ChangedBy, StatusChangedAt: time.Now(),
			})
			f.order.Status = body.Status
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		}
	}))
	return f
}

func newTracker(url string) *Tracker {
	admin := adminapi.New()
	admin.BaseURL = url
	admin.HTTP = &http.Client{Timeout: 2 * time.Second}
	return NewTracker(admin, staticTokens{})
}

func TestFetchBuildsTimeline(t *testing.T) {
	srv := newFakeTrackingServer(t, models.StatusPreparing)
	defer srv.Close()

	view, err := newTracker(srv.URL).Fetch(context.Background(), "c1", "#ORD-042", "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Timeline) != 2 {
		t.Fatalf("timeline length = %d, want 2", len(view.Timeline))
	}
	if view.Timeline[0].Meta.Label != "Order Placed" {
		t.Errorf("pending label = %q", view.Timeline[0].Meta.Label)
	}
	if view.Timeline[1].Meta.Label != "Preparing" {
		t.Errorf("preparing label = %q", view.Timeline[1].Meta.Label)
	}
	// order status defines the current step and equals the last entry
	if last := view.Timeline[len(view.Timeline)-1]; last.Status != view.Order.Status {
		t.Errorf("order status %q != last entry %q", view.Order.Status, last.Status)
	}
	if view.CanConfirm {
		t.Error("preparing order must not be confirmable")
	}
}

func TestFetchRequiresIdentity(t *testing.T) {
	srv := newFakeTrackingServer(t, models.StatusPending)
	defer srv.Close()
	tr := newTracker(srv.URL)

	if _, err := tr.Fetch(context.Background(), "c1", "", "ada@example.com"); err == nil {
		t.Error("missing orderNumber must fail")
	}
	if _, err := tr.Fetch(context.Background(), "c1", "#ORD-042", ""); err == nil {
		t.Error("missing email must fail")
	}
}

func TestFetchNotFound(t *testing.T) {
	srv := newFakeTrackingServer(t, models.StatusPending)
	defer srv.Close()

	_, err := newTracker(srv.URL).Fetch(context.Background(), "c1", "#NOPE", "ada@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConfirmDeliveredHappyPath(t *testing.T) {
	srv := newFakeTrackingServer(t, models.StatusReady)
	defer srv.Close()

	view, err := newTracker(srv.URL).ConfirmDelivered(context.Background(), "c1", "#ORD-042", "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if view.Order.Status != models.StatusDelivered {
		t.Errorf("status after confirm = %q, want delivered", view.Order.Status)
	}
	last := view.Timeline[len(view.Timeline)-1]
	if last.Status != models.StatusDelivered || last.ChangedBy != models.ChangedByCustomer {
		t.Errorf("terminal entry = %+v", last)
	}
	if view.CanConfirm {
		t.Error("delivered order must not be confirmable again")
	}
}

func TestConfirmDeliveredGatedOnReady(t *testing.T) {
	for _, status := range []string{
		models.StatusPending, models.StatusAccepted, models.StatusPreparing,
		models.StatusDelivered, models.StatusRejected, models.StatusCancelled,
	} {
		t.Run(status, func(t *testing.T) {
			srv := newFakeTrackingServer(t, status)
			defer srv.Close()

			_, err := newTracker(srv.URL).ConfirmDelivered(context.Background(), "c1", "#ORD-042", "ada@example.com")
			if !errors.Is(err, ErrNotReady) {
				t.Fatalf("expected ErrNotReady for %s, got %v", status, err)
			}

			// nothing may have been appended upstream
			srv.mu.Lock()
			for _, e := range srv.history {
				if e.ChangedBy == models.ChangedByCustomer {
					t.Errorf("customer entry appended while %s: %+v", status, e)
				}
			}
			srv.mu.Unlock()
		})
	}
}
