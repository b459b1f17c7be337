package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"brewhaus/adminapi"
	"brewhaus/cart"
	"brewhaus/docstore"
	"brewhaus/models"
	"brewhaus/orders"
)

const sid = "sess-test"

type recordingQueue struct {
	enqueued []models.PendingOrder
}

func (q *recordingQueue) Enqueue(_ context.Context, p models.PendingOrder) error {
	q.enqueued = append(q.enqueued, p)
	return nil
}

type recordingAdvisor struct {
	advisories []models.Advisory
}

func (a *recordingAdvisor) Advise(_ context.Context, adv models.Advisory) {
	a.advisories = append(a.advisories, adv)
}

type fixture struct {
	docs     *docstore.MemStore
	carts    *cart.Store
	orders   *orders.Store
	queue    *recordingQueue
	advisor  *recordingAdvisor
	pipeline *Pipeline
}

func newFixture(adminURL string) *fixture {
	docs := docstore.NewMemStore()
	carts := cart.NewStore(docs)
	orderStore := orders.NewStore(docs)
	queue := &recordingQueue{}
	advisor := &recordingAdvisor{}

	admin := adminapi.New()
	admin.BaseURL = adminURL
	admin.HTTP = &http.Client{Timeout: 2 * time.Second}

	return &fixture{
		docs:     docs,
		carts:    carts,
		orders:   orderStore,
		queue:    queue,
		advisor:  advisor,
		pipeline: NewPipeline(carts, orderStore, admin, queue, advisor),
	}
}

func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.carts.AddItem(ctx, sid, models.CatalogItem{RemoteID: "esp1", Name: "Espresso", Price: 3.50}, 2, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := f.carts.AddItem(ctx, sid, models.CatalogItem{LegacyID: 2, Name: "Cappuccino", Price: 4.25}, 1, ""); err != nil {
		t.Fatal(err)
	}
}

func pickupRequest() Request {
	return Request{
		OrderType: models.OrderTypePickup,
		CustomerInfo: models.CustomerInfo{
			Name:  "Ada",
			Email: "ada@example.com",
			Phone: "555-0101",
		},
	}
}

func fakeAdmin(t *testing.T, orderNumber string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/public/orders" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var order models.Order
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			t.Errorf("bad order payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"orderId":     "srv-1",
				"orderNumber": orderNumber,
				"total":       order.Total,
			},
		})
	}))
}

func TestPlaceOrderRemoteSuccess(t *testing.T) {
	srv := fakeAdmin(t, "#ORD-042")
	defer srv.Close()

	f := newFixture(srv.URL)
	f.fillCart(t)
	ctx := context.Background()

	res, err := f.pipeline.PlaceOrder(ctx, sid, pickupRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res.Local {
		t.Error("remote success must not be marked local")
	}

	o := res.Order
	if o.OrderNumber != "#ORD-042" {
		t.Errorf("orderNumber = %q, want #ORD-042", o.OrderNumber)
	}
	if math.Abs(o.Subtotal-11.25) > 1e-9 {
		t.Errorf("subtotal = %v, want 11.25", o.Subtotal)
	}
	if math.Abs(o.Tax-0.90) > 1e-9 {
		t.Errorf("tax = %v, want 0.90", o.Tax)
	}
	if o.DeliveryFee != 0 {
		t.Errorf("pickup deliveryFee = %v, want 0", o.DeliveryFee)
	}
	if math.Abs(o.Total-12.15) > 1e-9 {
		t.Errorf("total = %v, want 12.15", o.Total)
	}
	if math.Abs(o.Total-(o.Subtotal+o.DeliveryFee+o.Tax)) > 1e-9 {
		t.Errorf("total %v != subtotal+fee+tax %v", o.Total, o.Subtotal+o.DeliveryFee+o.Tax)
	}

	// order store holds it, cart is empty
	stored, ok := f.orders.MostRecent(ctx, sid)
	if !ok || stored.OrderNumber != "#ORD-042" {
		t.Errorf("order store first entry = %+v", stored)
	}
	if c := f.carts.Get(ctx, sid); len(c.Lines) != 0 {
		t.Errorf("cart not cleared: %+v", c.Lines)
	}
	if len(f.queue.enqueued) != 0 {
		t.Errorf("remote success must not enqueue sync: %+v", f.queue.enqueued)
	}
}

func TestPlaceOrderDeliveryFeeAndTax(t *testing.T) {
	srv := fakeAdmin(t, "#ORD-100")
	defer srv.Close()

	f := newFixture(srv.URL)
	f.fillCart(t)

	req := pickupRequest()
	req.OrderType = models.OrderTypeDelivery
	req.CustomerInfo.Address = "1 Bean St"

	res, err := f.pipeline.PlaceOrder(context.Background(), sid, req)
	if err != nil {
		t.Fatal(err)
	}
	o := res.Order
	if o.DeliveryFee != DeliveryFee {
		t.Errorf("deliveryFee = %v, want %v", o.DeliveryFee, DeliveryFee)
	}
	want := 11.25 + 2.50 + 0.90
	if math.Abs(o.Total-want) > 1e-9 {
		t.Errorf("total = %v, want %v", o.Total, want)
	}
}

var localNumberRe = regexp.MustCompile(`^#LOC-\d{6}$`)

func TestPlaceOrderFallsBackWhenRemoteUnreachable(t *testing.T) {
	// point at a server that is already closed
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := newFixture(url)
	f.fillCart(t)
	ctx := context.Background()

	before := time.Now()
	res, err := f.pipeline.PlaceOrder(ctx, sid, pickupRequest())
	if err != nil {
		t.Fatalf("remote failure must not surface as an error: %v", err)
	}
	if !res.Local {
		t.Fatal("expected a local fallback order")
	}

	o := res.Order
	if !localNumberRe.MatchString(o.OrderNumber) {
		t.Errorf("orderNumber = %q, want #LOC- with six digits", o.OrderNumber)
	}
	if o.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", o.Status)
	}
	if o.EstimatedReadyTime == nil {
		t.Fatal("estimatedReadyTime missing")
	}
	eta := o.EstimatedReadyTime.Sub(before)
	if eta < 19*time.Minute || eta > 21*time.Minute {
		t.Errorf("pickup eta = %v, want ~20m", eta)
	}

	if _, ok := f.orders.MostRecent(ctx, sid); !ok {
		t.Error("fallback order missing from order store")
	}
	if c := f.carts.Get(ctx, sid); len(c.Lines) != 0 {
		t.Errorf("cart not cleared after fallback: %+v", c.Lines)
	}

	if len(f.queue.enqueued) != 1 {
		t.Fatalf("expected one queued sync, got %d", len(f.queue.enqueued))
	}
	if len(f.advisor.advisories) != 1 || f.advisor.advisories[0].Kind != models.AdvisoryOffline {
		t.Errorf("expected one offline advisory, got %+v", f.advisor.advisories)
	}
}

func TestPlaceOrderFallsBackOnSuccessFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "kitchen closed"})
	}))
	defer srv.Close()

	f := newFixture(srv.URL)
	f.fillCart(t)

	res, err := f.pipeline.PlaceOrder(context.Background(), sid, pickupRequest())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Local {
		t.Error("success=false must take the fallback path")
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	srv := fakeAdmin(t, "#ORD-042")
	defer srv.Close()

	cases := []struct {
		name   string
		fill   bool
		mutate func(*Request)
	}{
		{"empty cart", false, func(r *Request) {}},
		{"missing name", true, func(r *Request) { r.CustomerInfo.Name = " " }},
		{"missing email", true, func(r *Request) { r.CustomerInfo.Email = "" }},
		{"missing phone", true, func(r *Request) { r.CustomerInfo.Phone = "" }},
		{"delivery without address", true, func(r *Request) { r.OrderType = models.OrderTypeDelivery }},
		{"bad order type", true, func(r *Request) { r.OrderType = "teleport" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(srv.URL)
			if tc.fill {
				f.fillCart(t)
			}
			req := pickupRequest()
			tc.mutate(&req)

			ctx := context.Background()
			_, err := f.pipeline.PlaceOrder(ctx, sid, req)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}

			// the cart must be untouched
			if tc.fill {
				if c := f.carts.Get(ctx, sid); len(c.Lines) != 2 {
					t.Errorf("validation failure touched the cart: %+v", c.Lines)
				}
			}
			if _, ok := f.orders.MostRecent(ctx, sid); ok {
				t.Error("validation failure must not record an order")
			}
		})
	}
}

func TestSnapshotSubstitutesDefaults(t *testing.T) {
	// an item with no ids, no name and a junk price still snapshots
	line := models.CartLine{
		Item:     models.CatalogItem{Price: -1},
		Quantity: 0,
	}
	item := snapshotLine(line, 3)
	if item.MenuItemID != "item-3" {
		t.Errorf("menuItemId = %q, want positional placeholder", item.MenuItemID)
	}
	if item.Name == "" {
		t.Error("name default missing")
	}
	if item.Price != 0 {
		t.Errorf("price = %v, want clamped to 0", item.Price)
	}
	if item.Quantity != 1 {
		t.Errorf("quantity = %d, want floor of 1", item.Quantity)
	}
}

func TestSnapshotFreezesItemFields(t *testing.T) {
	line := models.CartLine{
		ItemID: "esp1",
		Item: models.CatalogItem{
			RemoteID: "esp1", Name: "Espresso", Price: 3.50,
			Category: "coffee", PrepTime: 4, Calories: 5, IsVegan: true,
		},
		Quantity:            2,
		SpecialInstructions: "double shot",
	}
	item := snapshotLine(line, 0)
	if item.Name != "Espresso" || item.Price != 3.50 || item.PrepTime != 4 || !item.IsVegan {
		t.Errorf("snapshot dropped fields: %+v", item)
	}
	if item.SpecialInstructions != "double shot" {
		t.Errorf("instructions = %q", item.SpecialInstructions)
	}
}
