package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brewhaus/docstore"
)

// flakyGuard fails every SetNX and counts deletes, standing in for a
// guard store that is briefly unreachable.
type flakyGuard struct {
	docstore.Store
	dels []string
}

func (g *flakyGuard) SetNX(context.Context, string, []byte, time.Duration) (bool, error) {
	return false, errors.New("guard store down")
}

func (g *flakyGuard) Del(_ context.Context, key string) error {
	g.dels = append(g.dels, key)
	return nil
}

func postCheckout(t *testing.T, h *Handlers) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"orderType":"pickup","customerInfo":{"name":"Ada","email":"ada@example.com","phone":"555-0101"}}`
	req := httptest.NewRequest(http.MethodPost, "http://storefront/api/checkout", strings.NewReader(body))
	req.Header.Set("X-Session-ID", sid)
	rec := httptest.NewRecorder()
	h.PlaceOrder(rec, req, nil)
	return rec
}

func TestPlaceOrderGuardErrorDoesNotReleaseForeignMarker(t *testing.T) {
	srv := fakeAdmin(t, "#ORD-042")
	defer srv.Close()

	f := newFixture(srv.URL)
	f.fillCart(t)

	guard := &flakyGuard{Store: docstore.NewMemStore()}
	h := NewHandlers(f.pipeline, guard)

	rec := postCheckout(t, h)
	if rec.Code != http.StatusCreated {
		t.Fatalf("guard trouble must not block checkout: status = %d", rec.Code)
	}
	if len(guard.dels) != 0 {
		t.Errorf("deleted a marker it never acquired: %v", guard.dels)
	}
}

func TestPlaceOrderConflictsWhileGuardHeld(t *testing.T) {
	srv := fakeAdmin(t, "#ORD-042")
	defer srv.Close()

	f := newFixture(srv.URL)
	f.fillCart(t)

	h := NewHandlers(f.pipeline, f.docs)
	ctx := context.Background()
	if _, err := f.docs.SetNX(ctx, "checkout:inflight:"+sid, []byte("1"), time.Minute); err != nil {
		t.Fatal(err)
	}

	rec := postCheckout(t, h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 while guard held", rec.Code)
	}
	if c := f.carts.Get(ctx, sid); len(c.Lines) != 2 {
		t.Errorf("conflicting request touched the cart: %+v", c.Lines)
	}
}
