package catalog

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"brewhaus/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

// MenuImage serves a menu photo from the local asset cache, fetching it
// from the admin API on first use. ?w= resizes to that width while
// keeping aspect ratio.
func (h *Handlers) MenuImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	file := filepath.Base(ps.ByName("file"))
	if file == "." || file == "/" || file == "" {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}

	dir := utils.GetEnv("ASSET_CACHE_DIR", "static/menupic")
	if err := utils.EnsureDir(dir); err != nil {
		log.Println("asset dir error:", err)
		http.Error(w, "Asset cache unavailable", http.StatusInternalServerError)
		return
	}
	path := filepath.Join(dir, file)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		raw, err := h.Admin.FetchStatic(r.Context(), "/static/menupic/"+file)
		if err != nil {
			log.Println("asset fetch error:", err)
			http.Error(w, "Image not found", http.StatusNotFound)
			return
		}
		if err := os.WriteFile(path, raw, 0644); err != nil {
			log.Println("asset cache write error:", err)
		}
	}

	width := 0
	if ws := r.URL.Query().Get("w"); ws != "" {
		if n, err := strconv.Atoi(ws); err == nil && n > 0 && n <= 2000 {
			width = n
		}
	}

	if width == 0 {
		http.ServeFile(w, r, path)
		return
	}

	img, err := imaging.Open(path)
	if err != nil {
		log.Println("asset open error:", err)
		http.Error(w, "Unreadable image", http.StatusInternalServerError)
		return
	}
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	format := imaging.PNG
	contentType := "image/png"
	switch strings.ToLower(filepath.Ext(file)) {
	case ".jpg", ".jpeg":
		format = imaging.JPEG
		contentType = "image/jpeg"
	case ".gif":
		format = imaging.GIF
		contentType = "image/gif"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if err := imaging.Encode(w, resized, format); err != nil {
		log.Println("asset encode error:", err)
	}
}
