package websockets

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeSubscribe  = "subscribe"
	MsgTypeTripUpdate = "trip_update"
)

// Client represents a connected WebSocket user following one trip session.
type Client struct {
	Conn      *websocket.Conn
	SessionID string
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	register   chan *Client
	unregister chan *websocket.Conn
	events     chan TripEvent
	mu         sync.Mutex
}

// TripEvent carries one recalculation outcome to every follower of a session.
type TripEvent struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Payload   interface{} `json:"payload"`
}

// subscribeMessage is what a connected client sends to switch sessions.
type subscribeMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}
