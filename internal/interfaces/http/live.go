package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/vidpulse/vidpulse/internal/telemetry"
	"github.com/vidpulse/vidpulse/internal/video"
)

// liveHub pushes refreshed rising batches to connected WebSocket clients.
type liveHub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
	metrics  *telemetry.Metrics
}

// liveUpdate is the wire frame sent on each refresh.
type liveUpdate struct {
	Type        string         `json:"type"`
	Items       []video.Record `json:"items"`
	RefreshedAt time.Time      `json:"refreshed_at"`
}

func newLiveHub(m *telemetry.Metrics) *liveHub {
	return &liveHub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		metrics: m,
	}
}

func (h *liveHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.add(conn)
	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("Live client connected")

	// Drain the read side until the client disconnects.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// run refreshes the rising batch on the given interval and broadcasts it.
// Refreshes are skipped while no clients are connected to avoid burning
// provider quota on an unwatched feed.
func (h *liveHub) run(ctx context.Context, interval time.Duration, fetch func(context.Context) []video.Record) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			if h.clientCount() == 0 {
				continue
			}
			records := fetch(ctx)
			h.broadcast(liveUpdate{
				Type:        "rising",
				Items:       records,
				RefreshedAt: time.Now().UTC(),
			})
		}
	}
}

func (h *liveHub) broadcast(update liveUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(update); err != nil {
			log.Debug().Err(err).Msg("Live client write failed, dropping")
			conn.Close()
			delete(h.clients, conn)
			h.gauge()
		}
	}
}

func (h *liveHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	h.gauge()
}

func (h *liveHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
		h.gauge()
	}
}

func (h *liveHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *liveHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	h.gauge()
}

// gauge updates the connected client metric; callers hold the lock.
func (h *liveHub) gauge() {
	if h.metrics != nil {
		h.metrics.LiveClients.Set(float64(len(h.clients)))
	}
}
