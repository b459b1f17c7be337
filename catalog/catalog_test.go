package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brewhaus/adminapi"
	"brewhaus/docstore"
)

func newHandlers(url string) *Handlers {
	admin := adminapi.New()
	admin.BaseURL = url
	admin.HTTP = &http.Client{Timeout: 2 * time.Second}
	return NewHandlers(admin, docstore.NewMemStore())
}

func getContent(t *testing.T, h *Handlers, path string, fallback any) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "http://storefront"+path, nil)
	rec := httptest.NewRecorder()
	h.Content(path, fallback)(rec, req, nil)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("content endpoints must answer 200, got %d", rec.Code)
	}
	return body
}

func TestContentProxiesAdminData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []map[string]any{{"name": "Espresso", "price": 3.5}},
		})
	}))
	defer srv.Close()

	body := getContent(t, newHandlers(srv.URL), "/api/public/menu", FallbackMenu)
	if body["fallback"] == true {
		t.Error("live admin data must not be marked fallback")
	}
	items, ok := body["data"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("data = %v", body["data"])
	}
}

func TestContentFallsBackWhenAdminDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	body := getContent(t, newHandlers(url), "/api/public/menu", FallbackMenu)
	if body["fallback"] != true {
		t.Error("expected fallback marker")
	}
	if body["success"] != true {
		t.Error("fallback must still report success")
	}
	items, ok := body["data"].([]any)
	if !ok || len(items) != len(FallbackMenu) {
		t.Fatalf("expected compiled fallback menu, got %v", body["data"])
	}
}

func TestContentServesStaleCacheBeforeFallback(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    map[string]any{"headline": "fresh"},
			})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	h := newHandlers(srv.URL)
	getContent(t, h, "/api/home-content", FallbackHomeContent)

	// age the cache past its TTL, then break the admin API
	h.now = func() time.Time { return time.Now().Add(cacheTTL + time.Minute) }

	body := getContent(t, h, "/api/home-content", FallbackHomeContent)
	if body["stale"] != true {
		t.Errorf("expected stale cached copy, got %v", body)
	}
	data, _ := body["data"].(map[string]any)
	if data["headline"] != "fresh" {
		t.Errorf("stale data = %v", data)
	}
}

func TestContentUsesFreshCacheWithoutRefetch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": "x"})
	}))
	defer srv.Close()

	h := newHandlers(srv.URL)
	getContent(t, h, "/api/coffee-facts", FallbackCoffeeFacts)
	getContent(t, h, "/api/coffee-facts", FallbackCoffeeFacts)

	if calls != 1 {
		t.Errorf("expected one upstream call, got %d", calls)
	}
}
