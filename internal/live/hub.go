package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"trendhub/pkg/models"
)

// Hub fans snapshot events out to connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Add(ws *websocket.Conn) {
	h.mu.Lock()
	h.clients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for ws := range h.clients {
		_ = ws.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.clients, ws)
		}
	}
}

type snapshotEvent struct {
	Type        string    `json:"type"`
	SnapshotID  string    `json:"snapshot_id"`
	TotalItems  int       `json:"total_items"`
	GeneratedAt time.Time `json:"generated_at"`
}

// SnapshotPublished implements the pipeline's Notifier: clients learn
// a new snapshot landed without polling /trending.
func (h *Hub) SnapshotPublished(snap *models.TrendingSnapshot) {
	h.BroadcastJSON(snapshotEvent{
		Type:        "snapshot_published",
		SnapshotID:  snap.ID,
		TotalItems:  snap.TotalItems,
		GeneratedAt: snap.GeneratedAt,
	})
}
