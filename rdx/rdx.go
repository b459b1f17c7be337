package rdx

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"brewhaus/utils"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Init connects to Redis. The storefront can limp along without it (carts
// fall back to process memory), so failure is reported, not fatal.
func Init() error {
	Conn = redis.NewClient(&redis.Options{
		Addr:     utils.GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: utils.GetEnv("REDIS_PASSWORD", ""),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := Conn.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable: %v", err)
		return err
	}
	return nil
}

const AdvisoryChannel = "storefront-advisories"

// PublishAdvisory fans an advisory out to every storefront instance.
func PublishAdvisory(ctx context.Context, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("advisory marshal failed: %v", err)
		return
	}
	if err := Conn.Publish(ctx, AdvisoryChannel, data).Err(); err != nil {
		log.Printf("advisory publish failed: %v", err)
	}
}
