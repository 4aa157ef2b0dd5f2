package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of hash-stream
	// WebSocket connections allowed at once.
	MaxWSConnectionsTotal = 64

	// MaxWSConnectionsPerIP is the maximum hash-stream connections
	// allowed from a single IP.
	MaxWSConnectionsPerIP = 4

	hashBroadcastInterval = 16 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("websocket connection rejected from origin: %s", origin)
		return false
	},
}

type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// HashHub pushes {frame, hash} messages to connected desync-watching
// clients as the rollback controller's current frame advances. The
// current frame may still hold a predicted remote input.
type HashHub struct {
	controller ControllerInterface
	metrics    *Metrics

	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	wsLimiter *WebSocketRateLimiter

	lastBroadcastFrame int32
	stopCh             chan struct{}
}

// NewHashHub constructs a hub bound to controller for polling the
// current frame/hash on a broadcast loop.
func NewHashHub(controller ControllerInterface, metrics *Metrics) *HashHub {
	return &HashHub{
		controller:         controller,
		metrics:            metrics,
		clients:            make(map[*websocket.Conn]*wsClient),
		broadcast:          make(chan []byte, 256),
		register:           make(chan *wsClient),
		unregister:         make(chan *websocket.Conn),
		wsLimiter:          NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
		lastBroadcastFrame: -1,
		stopCh:             make(chan struct{}),
	}
}

// Run processes the register/unregister/broadcast channels until Stop
// is called. Must be started in its own goroutine.
func (h *HashHub) Run() {
	for {
		select {
		case <-h.stopCh:
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			h.mu.Unlock()
			if h.metrics != nil {
				h.metrics.WSConnectionsActive.Set(float64(h.ClientCount()))
			}

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				h.wsLimiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()
			if h.metrics != nil {
				h.metrics.WSConnectionsActive.Set(float64(h.ClientCount()))
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			var failed []*websocket.Conn
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					failed = append(failed, conn)
				}
			}
			h.mu.RUnlock()

			for _, conn := range failed {
				h.unregister <- conn
			}
			if h.metrics != nil {
				h.metrics.WSMessagesTotal.Inc()
			}
		}
	}
}

// Stop ends the hub's background loops.
func (h *HashHub) Stop() {
	close(h.stopCh)
}

// ClientCount returns the number of connected clients.
func (h *HashHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop periodically pushes the current frame/hash pair
// to every connected client.
func (h *HashHub) StartBroadcastLoop() {
	ticker := time.NewTicker(hashBroadcastInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.stopCh:
				return
			case <-ticker.C:
				h.broadcastLatest()
			}
		}
	}()
}

func (h *HashHub) broadcastLatest() {
	if h.ClientCount() == 0 {
		return
	}

	frame := h.controller.CurrentFrame()
	if frame == h.lastBroadcastFrame || frame < 0 {
		return
	}

	hash, err := h.controller.StateHashAt(frame)
	if err != nil {
		return
	}
	h.lastBroadcastFrame = frame

	payload, err := json.Marshal(map[string]interface{}{"frame": frame, "hash": hash})
	if err != nil {
		return
	}

	select {
	case h.broadcast <- payload:
	default:
	}
}

// HandleWebSocket upgrades and registers a new hash-stream client.
func (h *HashHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.ClientCount() >= MaxWSConnectionsTotal {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		http.Error(w, "too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.wsLimiter.Release(ip)
		return
	}

	client := &wsClient{conn: conn, ip: ip}
	h.register <- client

	go func() {
		defer func() {
			h.unregister <- conn
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
