package models

import (
	"encoding/json"
	"testing"
	"time"
)

func subscribe(hub *Hub, orgCode string, buffer int) *Client {
	client := &Client{
		Hub:     hub,
		Send:    make(chan []byte, buffer),
		OrgCode: orgCode,
	}
	hub.Clients[client] = true
	if _, ok := hub.OrgClients[orgCode]; !ok {
		hub.OrgClients[orgCode] = make(map[*Client]bool)
	}
	hub.OrgClients[orgCode][client] = true
	return client
}

func TestPublishEventScopedToOrganization(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	subscriber := subscribe(hub, "ABC123", 1)
	bystander := subscribe(hub, "XYZ789", 1)

	event := FeedEvent{
		Type:         "check-in",
		OrgCode:      "ABC123",
		EmployeeID:   "e1",
		EmployeeName: "Alice",
		At:           time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	hub.PublishEvent(event)

	select {
	case payload := <-subscriber.Send:
		var got FeedEvent
		if err := json.Unmarshal(payload, &got); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if got.Type != "check-in" || got.EmployeeName != "Alice" {
			t.Errorf("delivered event = %+v, want the published one", got)
		}
	default:
		t.Fatal("subscriber on the event's organization received nothing")
	}

	select {
	case <-bystander.Send:
		t.Fatal("subscriber on another organization received the event")
	default:
	}
}

func TestPublishEventDropsSlowClients(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	slow := subscribe(hub, "ABC123", 1)
	slow.Send <- []byte("backlog") // Buffer full, next send would block.

	hub.PublishEvent(FeedEvent{Type: "check-in", OrgCode: "ABC123"})

	if hub.SubscriberCount("ABC123") != 0 {
		t.Errorf("SubscriberCount = %d after dropping the slow client, want 0", hub.SubscriberCount("ABC123"))
	}
	if hub.Clients[slow] {
		t.Error("slow client still registered after being dropped")
	}
}

func TestSubscriberCount(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	if hub.SubscriberCount("ABC123") != 0 {
		t.Fatal("fresh hub reports subscribers")
	}
	subscribe(hub, "ABC123", 1)
	subscribe(hub, "ABC123", 1)
	subscribe(hub, "XYZ789", 1)

	if got := hub.SubscriberCount("ABC123"); got != 2 {
		t.Errorf("SubscriberCount(ABC123) = %d, want 2", got)
	}
	if got := hub.SubscriberCount("XYZ789"); got != 1 {
		t.Errorf("SubscriberCount(XYZ789) = %d, want 1", got)
	}
}
