// Package ws implements the real-time notification channel: a hub of
// websocket clients subscribed to per-auction rooms. Delivery is best
// effort; a client that cannot be written to is dropped.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin policy is enforced by the CORS layer in front.
	},
}

// Event is a broadcast payload scoped to one auction's room. Bidder is
// always the anonymized label, never an account name.
type Event struct {
	Event     string `json:"event"`
	AuctionID int    `json:"auction_id"`
	Amount    string `json:"amount"`
	Bidder    string `json:"bidder"`
	Timestamp string `json:"timestamp"`
}

// request is what clients send: join or leave an auction's room.
type request struct {
	Action    string `json:"action"`
	AuctionID int    `json:"auction_id"`
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes to conn
}

func (c *client) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks connected clients and their room memberships.
type Hub struct {
	mu    sync.RWMutex
	rooms map[int]map[*client]bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{rooms: make(map[int]map[*client]bool)}
}

// Publish broadcasts ev to every subscriber of the auction's room.
// Fire and forget: write failures drop the client, nothing is returned
// to the caller.
func (h *Hub) Publish(auctionID int, ev Event) {
	h.mu.RLock()
	subscribers := make([]*client, 0, len(h.rooms[auctionID]))
	for c := range h.rooms[auctionID] {
		subscribers = append(subscribers, c)
	}
	h.mu.RUnlock()

	for _, c := range subscribers {
		if err := c.send(ev); err != nil {
			log.WithFields(log.Fields{"client": c.id, "auction_id": auctionID}).
				WithError(err).Warn("dropping websocket client")
			h.dropClient(c)
			c.conn.Close()
		}
	}
}

// ServeHTTP upgrades the connection and services join/leave requests
// until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("failed to upgrade connection")
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}
	log.WithField("client", c.id).Info("websocket client connected")

	defer func() {
		h.dropClient(c)
		conn.Close()
		log.WithField("client", c.id).Info("websocket client disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req request
		if err := json.Unmarshal(data, &req); err != nil || req.AuctionID <= 0 {
			c.send(map[string]string{"event": "error", "msg": "invalid request"})
			continue
		}

		switch req.Action {
		case "join_auction":
			h.join(req.AuctionID, c)
			c.send(map[string]any{"event": "status", "msg": "joined auction", "auction_id": req.AuctionID})
		case "leave_auction":
			h.leave(req.AuctionID, c)
			c.send(map[string]any{"event": "status", "msg": "left auction", "auction_id": req.AuctionID})
		default:
			c.send(map[string]string{"event": "error", "msg": "unknown action"})
		}
	}
}

func (h *Hub) join(auctionID int, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[auctionID] == nil {
		h.rooms[auctionID] = make(map[*client]bool)
	}
	h.rooms[auctionID][c] = true
}

func (h *Hub) leave(auctionID int, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[auctionID], c)
	if len(h.rooms[auctionID]) == 0 {
		delete(h.rooms, auctionID)
	}
}

func (h *Hub) dropClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, id)
		}
	}
}
