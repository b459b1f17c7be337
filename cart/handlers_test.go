package cart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"brewhaus/docstore"

	"github.com/julienschmidt/httprouter"
)

func patchLine(t *testing.T, h *Handlers, itemID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "http://storefront/api/cart/items/"+itemID, strings.NewReader(body))
	req.Header.Set("X-Session-ID", sid)
	rec := httptest.NewRecorder()
	h.UpdateQuantity(rec, req, httprouter.Params{{Key: "itemid", Value: itemID}})
	return rec
}

func TestUpdateQuantityInstructionsOnlyKeepsLine(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	store.AddItem(ctx, sid, espresso(), 2, "")

	h := NewHandlers(store)
	rec := patchLine(t, h, "esp1", `{"specialInstructions":"oat milk"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	c := store.Get(ctx, sid)
	if len(c.Lines) != 1 {
		t.Fatalf("instruction-only update must not remove the line, got %+v", c.Lines)
	}
	if c.Lines[0].Quantity != 2 {
		t.Errorf("quantity = %d, want unchanged 2", c.Lines[0].Quantity)
	}
	if c.Lines[0].SpecialInstructions != "oat milk" {
		t.Errorf("instructions = %q", c.Lines[0].SpecialInstructions)
	}
}

func TestUpdateQuantityZeroStillRemovesLine(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	store.AddItem(ctx, sid, espresso(), 2, "")

	h := NewHandlers(store)
	rec := patchLine(t, h, "esp1", `{"quantity":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if c := store.Get(ctx, sid); len(c.Lines) != 0 {
		t.Fatalf("explicit zero quantity must remove the line, got %+v", c.Lines)
	}
}

func TestUpdateQuantityBothFields(t *testing.T) {
	store := NewStore(docstore.NewMemStore())
	ctx := context.Background()
	store.AddItem(ctx, sid, espresso(), 2, "")

	h := NewHandlers(store)
	patchLine(t, h, "esp1", `{"quantity":5,"specialInstructions":"decaf"}`)

	c := store.Get(ctx, sid)
	if c.Lines[0].Quantity != 5 || c.Lines[0].SpecialInstructions != "decaf" {
		t.Errorf("line after combined update = %+v", c.Lines[0])
	}
}
