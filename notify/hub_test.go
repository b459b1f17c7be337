package notify

import (
	"encoding/json"
	"testing"
	"time"

	"brewhaus/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "sess-1",
	}
	hub.Register(client)

	adv := models.Advisory{SessionID: "sess-1", Kind: models.AdvisoryOffline, Message: "Working offline"}
	data, _ := json.Marshal(adv)
	hub.Broadcast("sess-1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.Unregister(client)
}

func TestHubRegisterAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		hub.Register(&Client{Send: make(chan []byte, 1), Room: "sess-1"})
		hub.Unregister(&Client{Send: make(chan []byte, 1), Room: "sess-1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("register against a stopped hub blocked")
	}
}

func TestHubBroadcastScopedToRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	mine := &Client{Send: make(chan []byte, 10), Room: "sess-a"}
	other := &Client{Send: make(chan []byte, 10), Room: "sess-b"}
	hub.Register(mine)
	hub.Register(other)

	hub.Broadcast("sess-a", []byte(`{"kind":"order-status"}`))

	select {
	case <-mine.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	select {
	case got := <-other.Send:
		t.Fatalf("other session received %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}
