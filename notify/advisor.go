package notify

import (
	"context"
	"encoding/json"
	"log"

	"brewhaus/models"
	"brewhaus/rdx"
)

// Advisor publishes advisories on the shared Redis channel so every
// storefront instance can relay them to its connected sessions.
type Advisor struct{}

func (Advisor) Advise(ctx context.Context, adv models.Advisory) {
	rdx.PublishAdvisory(ctx, adv)
}

// Subscribe bridges the Redis advisory channel into the hub. It returns
// once ctx is cancelled or the subscription dies.
func Subscribe(ctx context.Context, hub *Hub) {
	if rdx.Conn == nil {
		return
	}
	sub := rdx.Conn.Subscribe(ctx, rdx.AdvisoryChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var adv models.Advisory
			if err := json.Unmarshal([]byte(msg.Payload), &adv); err != nil {
				log.Printf("advisory decode failed: %v", err)
				continue
			}
			if adv.SessionID == "" {
				continue
			}
			hub.Broadcast(adv.SessionID, []byte(msg.Payload))
		}
	}
}
