package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/scenecast/server/internal/domain"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// writeLocks serializes writes per connection. The frame pump and the ws
// read-loop handlers write to the same conns from different goroutines, and
// gorilla/websocket supports at most one concurrent writer.
type writeLocks struct {
	mu    sync.Mutex
	locks map[*websocket.Conn]*sync.Mutex
}

func newWriteLocks() *writeLocks {
	return &writeLocks{locks: make(map[*websocket.Conn]*sync.Mutex)}
}

func (w *writeLocks) lockFor(conn *websocket.Conn) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()

	l, exists := w.locks[conn]
	if !exists {
		l = &sync.Mutex{}
		w.locks[conn] = l
	}

	return l
}

func (w *writeLocks) release(conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.locks, conn)
}

func (c controller) writeToConn(ctx context.Context, conn *websocket.Conn, output *Output) error {
	l := c.writes.lockFor(conn)
	l.Lock()
	defer l.Unlock()

	return conn.WriteJSON(output)
}

// broadcast delivers to every conn it can reach; one dead viewer must not
// cut the rest off, so per-conn failures are logged and not returned.
func (c controller) broadcast(ctx context.Context, conns []*websocket.Conn, output *Output) {
	for _, conn := range conns {
		if err := c.writeToConn(ctx, conn, output); err != nil {
			c.logger.InfoContext(ctx, "failed to write to conn", "message_type", output.Type, "error", err)
		}
	}
}

func (c controller) broadcastPlayerUpdated(ctx context.Context, conns []*websocket.Conn, state *domain.PlayerState) {
	c.broadcast(ctx, conns, &Output{
		Type: "PLAYER_UPDATED",
		Payload: map[string]any{
			"state": state,
		},
	})
}

// broadcastFrameSnapshot renders one frame outside the pump so paused viewers
// see the result of a seek, step or scene change immediately.
func (c controller) broadcastFrameSnapshot(ctx context.Context, playerId string) error {
	renderResp, err := c.playerService.RenderFrame(ctx, playerId)
	if err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}

	c.broadcast(ctx, renderResp.Conns, &Output{
		Type:    "FRAME",
		Payload: renderResp.Frame,
	})

	return nil
}
