package checkout

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"brewhaus/db"
	"brewhaus/models"
	"brewhaus/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/julienschmidt/httprouter"
)

// InitIdempotencyIndexes creates the unique-key and TTL indexes backing
// Idempotency-Key replay.
func InitIdempotencyIndexes(ctx context.Context) error {
	idxs := []mongo.IndexModel{
		{
			Keys:    bson.M{"key": 1},
			Options: options.Index().SetUnique(true).SetName("unique_key"),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	}
	_, err := db.IdempotencyCollection.Indexes().CreateMany(ctx, idxs)
	return err
}

func requestHash(r *http.Request, body []byte, sessionID string) string {
	h := sha256.New()
	h.Write([]byte(r.Method + ":" + r.URL.Path + ":" + sessionID + ":"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// captureWriter records status and body so a replayed request can return
// the original response.
type captureWriter struct {
	w          http.ResponseWriter
	statusCode int
	buf        bytes.Buffer
	wrote      bool
}

func (c *captureWriter) Header() http.Header { return c.w.Header() }

func (c *captureWriter) WriteHeader(statusCode int) {
	if !c.wrote {
		c.statusCode = statusCode
		c.w.WriteHeader(statusCode)
		c.wrote = true
	}
}

func (c *captureWriter) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.w.Write(b)
}

func isDuplicateKeyError(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}

// Idempotent makes a mutating handler safe to replay when the client
// sends an Idempotency-Key: a repeated key with the same request hash
// returns the cached response, a mismatched hash is a conflict.
func Idempotent(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		key := r.Header.Get("Idempotency-Key")
		if key == "" || db.IdempotencyCollection == nil {
			next(w, r, ps)
			return
		}

		sid := utils.GetSessionIDFromRequest(r)

		bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		hash := requestHash(r, bodyBytes, sid)
		now := time.Now()
		rec := models.IdempotencyRecord{
			Key:         key,
			Method:      r.Method,
			Path:        r.URL.Path,
			SessionID:   sid,
			RequestHash: hash,
			CreatedAt:   now,
			ExpiresAt:   now.Add(24 * time.Hour),
		}

		ctx := r.Context()
		_, err = db.IdempotencyCollection.InsertOne(ctx, rec)
		if err == nil {
			cw := &captureWriter{w: w, statusCode: http.StatusOK}
			next(cw, r, ps)

			var parsed any
			if err := json.Unmarshal(cw.buf.Bytes(), &parsed); err != nil {
				parsed = cw.buf.String()
			}
			_, _ = db.IdempotencyCollection.UpdateOne(ctx,
				bson.M{"key": key},
				bson.M{"$set": bson.M{"response": bson.M{"status": cw.statusCode, "body": parsed}}},
			)
			return
		}

		if !isDuplicateKeyError(err) {
			http.Error(w, "idempotency lookup error", http.StatusInternalServerError)
			return
		}

		var existing models.IdempotencyRecord
		if err := db.IdempotencyCollection.FindOne(ctx, bson.M{"key": key}).Decode(&existing); err != nil {
			http.Error(w, "idempotency lookup error", http.StatusInternalServerError)
			return
		}
		if existing.RequestHash != hash {
			http.Error(w, "idempotency-key conflict", http.StatusConflict)
			return
		}
		if existing.Response != nil {
			statusFloat, _ := existing.Response["status"].(float64)
			status := int(statusFloat)
			if status == 0 {
				if s32, ok := existing.Response["status"].(int32); ok {
					status = int(s32)
				}
			}
			if status == 0 {
				status = http.StatusOK
			}
			utils.RespondWithJSON(w, status, existing.Response["body"])
			return
		}

		// record exists but no response yet: the first attempt is still
		// in flight, run the handler (the checkout guard serializes it)
		next(w, r, ps)
	}
}
