package sync

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"shopcatalog/internal/catalog"
)

const writeTimeout = 2 * time.Second

// Hub fans catalog snapshots out to TCP and websocket clients as
// newline-terminated JSON. New clients get the latest snapshot first.
type Hub struct {
	mu        sync.Mutex
	clients   map[net.Conn]struct{}
	wsClients map[*websocket.Conn]struct{}
	last      []byte
	log       *zap.Logger
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[net.Conn]struct{}),
		wsClients: make(map[*websocket.Conn]struct{}),
		log:       log.Named("hub"),
	}
}

func (h *Hub) Add(conn net.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
	if h.last != nil && !writeConn(conn, h.last) {
		delete(h.clients, conn)
		_ = conn.Close()
	}
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *Hub) AddWS(ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.wsClients[ws] = struct{}{}
	if h.last != nil && !writeWS(ws, h.last) {
		delete(h.wsClients, ws)
		_ = ws.Close()
	}
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.wsClients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// Follow broadcasts every snapshot from updates until ctx is done or the
// channel closes.
func (h *Hub) Follow(ctx context.Context, updates <-chan catalog.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			h.Broadcast(snap)
		}
	}
}

func (h *Hub) Broadcast(snap catalog.Snapshot) {
	b, err := json.Marshal(CatalogEvent{
		Type:     SnapshotEvent,
		Seq:      snap.Seq,
		Query:    snap.Query,
		Count:    len(snap.Products),
		Products: snap.Products,
		At:       snap.At,
	})
	if err != nil {
		h.log.Error("marshal snapshot", zap.Error(err))
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = b

	for c := range h.clients {
		if !writeConn(c, b) {
			_ = c.Close()
			delete(h.clients, c)
		}
	}
	for ws := range h.wsClients {
		if !writeWS(ws, b) {
			_ = ws.Close()
			delete(h.wsClients, ws)
		}
	}
	h.log.Debug("broadcast snapshot",
		zap.Uint64("seq", snap.Seq),
		zap.Int("tcp_clients", len(h.clients)),
		zap.Int("ws_clients", len(h.wsClients)),
	)
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.clients),
		WSClients:  len(h.wsClients),
	}
}

func writeConn(c net.Conn, b []byte) bool {
	_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := c.Write(b)
	return err == nil
}

func writeWS(ws *websocket.Conn, b []byte) bool {
	_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ws.WriteMessage(websocket.TextMessage, b) == nil
}
