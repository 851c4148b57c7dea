package websockets

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketManager initializes a WebSocketManager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]*Client),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		events:     make(chan TripEvent, 16),
	}
}

// Run starts the WebSocket manager
func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.Conn] = client
			manager.mu.Unlock()

		case conn := <-manager.unregister:
			manager.mu.Lock()
			if client, exists := manager.clients[conn]; exists {
				delete(manager.clients, conn)
				conn.Close()
				log.Printf("Client following session %s disconnected", client.SessionID)
			}
			manager.mu.Unlock()

		case event := <-manager.events:
			payload, err := json.Marshal(event)
			if err != nil {
				log.Println("failed to marshal trip event:", err)
				continue
			}
			manager.mu.Lock()
			for conn, client := range manager.clients {
				if client.SessionID != event.SessionID {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					conn.Close()
					delete(manager.clients, conn)
				}
			}
			manager.mu.Unlock()
		}
	}
}

// PublishTripUpdate fans a recalculation outcome out to every client
// following the session.
func (manager *WebSocketManager) PublishTripUpdate(sessionID string, payload interface{}) {
	manager.events <- TripEvent{
		Type:      MsgTypeTripUpdate,
		SessionID: sessionID,
		Payload:   payload,
	}
}

// HandleConnections upgrades the request and keeps the client registered
// until it disconnects. The initial session comes from the session_id query
// parameter; clients may re-subscribe to another session mid-connection.
func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	manager.register <- &Client{Conn: conn, SessionID: r.URL.Query().Get("session_id")}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			manager.unregister <- conn
			break
		}

		var sub subscribeMessage
		if err := json.Unmarshal(message, &sub); err != nil || sub.Type != MsgTypeSubscribe {
			continue
		}
		manager.mu.Lock()
		if client, exists := manager.clients[conn]; exists {
			client.SessionID = sub.SessionID
		}
		manager.mu.Unlock()
	}
}
