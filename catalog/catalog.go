// Package catalog serves the storefront's read-only content: menu,
// marketing copy, branch data. Everything is proxied from the admin API
// with a short-lived cache; when the admin API is down the most recent
// cached copy answers, and failing that the compiled-in fallback
// dataset. A content page never hard-fails.
package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"brewhaus/adminapi"
	"brewhaus/docstore"
	"brewhaus/utils"

	"github.com/julienschmidt/httprouter"
)

const cacheTTL = 5 * time.Minute

type Handlers struct {
	Admin *adminapi.Client
	Cache docstore.Store
	now   func() time.Time
}

func NewHandlers(admin *adminapi.Client, cache docstore.Store) *Handlers {
	return &Handlers{Admin: admin, Cache: cache, now: time.Now}
}

type cachedContent struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// Content builds a handler for one admin content path with its fallback
// payload.
func (h *Handlers) Content(path string, fallback any) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h.serveContent(w, r.Context(), path, fallback)
	}
}

func (h *Handlers) serveContent(w http.ResponseWriter, ctx context.Context, path string, fallback any) {
	cacheKey := "content:" + path

	var cached cachedContent
	hasFresh := docstore.Load(ctx, h.Cache, cacheKey, &cached) &&
		h.now().Sub(cached.FetchedAt) < cacheTTL

	if hasFresh {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": cached.Data})
		return
	}

	data, err := h.Admin.GetContent(ctx, path)
	if err == nil {
		if cerr := docstore.Save(ctx, h.Cache, cacheKey, cachedContent{Data: data, FetchedAt: h.now()}); cerr != nil {
			log.Printf("content cache write failed for %s: %v", path, cerr)
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": data})
		return
	}
	log.Printf("content fetch failed for %s: %v", path, err)

	// stale cache beats compiled fallback
	if cached.Data != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": cached.Data, "stale": true})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": fallback, "fallback": true})
}
