package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendRequest(t *testing.T, conn *websocket.Conn, action string, auctionID int) {
	t.Helper()
	err := conn.WriteJSON(map[string]any{"action": action, "auction_id": auctionID})
	if err != nil {
		t.Fatalf("failed to send %s: %v", action, err)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to decode message %q: %v", data, err)
	}
	return msg
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected no message, got %q", data)
	}
}

func TestHub_PublishToRoom(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(hub)
	defer server.Close()

	subscriber := dialHub(t, server)
	bystander := dialHub(t, server)

	sendRequest(t, subscriber, "join_auction", 1)
	if msg := readMessage(t, subscriber); msg["event"] != "status" {
		t.Fatalf("expected status ack, got %v", msg)
	}
	sendRequest(t, bystander, "join_auction", 2)
	readMessage(t, bystander)

	hub.Publish(1, Event{
		Event:     "new_bid",
		AuctionID: 1,
		Amount:    "950",
		Bidder:    "Anonymous",
		Timestamp: "12:30:05",
	})

	msg := readMessage(t, subscriber)
	if msg["event"] != "new_bid" {
		t.Errorf("event = %v, want new_bid", msg["event"])
	}
	if msg["auction_id"] != float64(1) {
		t.Errorf("auction_id = %v, want 1", msg["auction_id"])
	}
	if msg["amount"] != "950" {
		t.Errorf("amount = %v, want 950", msg["amount"])
	}
	if msg["bidder"] != "Anonymous" {
		t.Errorf("bidder = %v, want Anonymous", msg["bidder"])
	}

	// Other rooms hear nothing
	expectSilence(t, bystander)
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dialHub(t, server)
	sendRequest(t, conn, "join_auction", 7)
	readMessage(t, conn)
	sendRequest(t, conn, "leave_auction", 7)
	readMessage(t, conn)

	hub.Publish(7, Event{Event: "new_bid", AuctionID: 7, Amount: "100", Bidder: "Anonymous"})
	expectSilence(t, conn)
}

func TestHub_InvalidRequests(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dialHub(t, server)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if msg := readMessage(t, conn); msg["event"] != "error" {
		t.Errorf("event = %v, want error", msg["event"])
	}

	sendRequest(t, conn, "shout", 3)
	if msg := readMessage(t, conn); msg["event"] != "error" {
		t.Errorf("event = %v, want error", msg["event"])
	}
}

func TestHub_PublishToEmptyRoom(t *testing.T) {
	hub := NewHub()
	// No subscribers; must not panic or block.
	hub.Publish(42, Event{Event: "new_bid", AuctionID: 42, Amount: "10", Bidder: "Anonymous"})
}
