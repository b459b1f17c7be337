package db

import (
	"context"
	"time"

	"brewhaus/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	CustomersCollection     *mongo.Collection
	PendingOrdersCollection *mongo.Collection
	IdempotencyCollection   *mongo.Collection
	Client                  *mongo.Client
)

// Init connects to MongoDB and binds the storefront collections.
func Init(ctx context.Context) error {
	uri := utils.GetEnv("MONGO_URI", "mongodb://localhost:27017")

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return err
	}

	Client = client
	database := client.Database(utils.GetEnv("MONGO_DB", "brewhaus"))
	CustomersCollection = database.Collection("customers")
	PendingOrdersCollection = database.Collection("pending_orders")
	IdempotencyCollection = database.Collection("idempotency")
	return nil
}

func Close(ctx context.Context) {
	if Client != nil {
		_ = Client.Disconnect(ctx)
	}
}
