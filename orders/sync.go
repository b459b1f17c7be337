package orders

import (
	"context"
	"log"
	"time"

	"brewhaus/adminapi"
	"brewhaus/db"
	"brewhaus/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPendingQueue persists locally synthesized orders until the admin
// API accepts them.
type MongoPendingQueue struct{}

func (MongoPendingQueue) Enqueue(ctx context.Context, pending models.PendingOrder) error {
	if db.PendingOrdersCollection == nil {
		return nil
	}
	_, err := db.PendingOrdersCollection.InsertOne(ctx, pending)
	return err
}

// Advisor matches checkout.Advisor; redeclared here to keep the sync
// worker free of a checkout import.
type Advisor interface {
	Advise(ctx context.Context, adv models.Advisory)
}

// SyncWorker retries queued offline orders against the admin API.
type SyncWorker struct {
	Admin    *adminapi.Client
	Store    *Store
	Advisor  Advisor
	Interval time.Duration
}

func NewSyncWorker(admin *adminapi.Client, store *Store, advisor Advisor) *SyncWorker {
	return &SyncWorker{Admin: admin, Store: store, Advisor: advisor, Interval: 30 * time.Second}
}

// Run flushes the pending queue on a ticker until ctx is cancelled.
func (w *SyncWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.flushOnce(ctx)
		}
	}
}

func (w *SyncWorker) flushOnce(ctx context.Context) {
	if db.PendingOrdersCollection == nil {
		return
	}

	filter := bson.M{"syncedAt": bson.M{"$in": []any{nil, time.Time{}}}}
	cursor, err := db.PendingOrdersCollection.Find(ctx, filter, options.Find().SetLimit(50))
	if err != nil {
		log.Println("pending orders scan error:", err)
		return
	}
	var pending []models.PendingOrder
	if err := cursor.All(ctx, &pending); err != nil {
		log.Println("pending orders cursor error:", err)
		return
	}

	for _, p := range pending {
		w.syncOne(ctx, p)
	}
}

func (w *SyncWorker) syncOne(ctx context.Context, p models.PendingOrder) {
	payload := p.Order
	// the admin API assigns identity; strip the local one from the payload
	payload.ID = ""
	payload.OrderNumber = ""
	payload.Local = false

	res, err := w.Admin.CreateOrder(ctx, payload)
	if err != nil {
		_, uerr := db.PendingOrdersCollection.UpdateOne(ctx,
			bson.M{"_id": p.LocalID},
			bson.M{"$inc": bson.M{"attempts": 1}, "$set": bson.M{"lastError": err.Error()}},
		)
		if uerr != nil {
			log.Println("pending order attempt update error:", uerr)
		}
		return
	}

	synced := p.Order
	synced.ID = res.OrderID
	synced.OrderNumber = res.OrderNumber
	synced.Local = false
	if res.EstimatedReadyTime != nil {
		synced.EstimatedReadyTime = res.EstimatedReadyTime
	}

	if err := w.Store.ReplaceOrder(ctx, p.SessionID, p.LocalID, synced); err != nil {
		log.Println("order store replace error:", err)
	}

	_, err = db.PendingOrdersCollection.UpdateOne(ctx,
		bson.M{"_id": p.LocalID},
		bson.M{"$set": bson.M{"syncedAt": time.Now()}},
	)
	if err != nil {
		log.Println("pending order mark-synced error:", err)
	}

	log.Printf("offline order %s synced as %s", p.LocalID, synced.OrderNumber)
	if w.Advisor != nil {
		w.Advisor.Advise(ctx, models.Advisory{
			SessionID: p.SessionID,
			Kind:      models.AdvisoryOrderSynced,
			Message:   "Your offline order has reached the shop as " + synced.OrderNumber + ".",
			OrderID:   synced.ID,
			At:        time.Now(),
		})
	}
}
