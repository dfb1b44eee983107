package controller

import (
	"context"
	"sync"
	"time"
)

// pumpRegistry tracks the one frame pump a playing session may have. Stopping
// a pump cancels its context; the pump goroutine exits on the next tick.
type pumpRegistry struct {
	mu     sync.Mutex
	cancel map[string]context.CancelFunc
}

func newPumpRegistry() *pumpRegistry {
	return &pumpRegistry{cancel: make(map[string]context.CancelFunc)}
}

func (p *pumpRegistry) add(playerId string, cancel context.CancelFunc) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.cancel[playerId]; exists {
		return false
	}
	p.cancel[playerId] = cancel

	return true
}

func (p *pumpRegistry) remove(playerId string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cancel, exists := p.cancel[playerId]; exists {
		cancel()
		delete(p.cancel, playerId)
	}
}

// startFramePump is idempotent: a session gets at most one pump. The pump
// context is detached from the triggering message so it survives the read
// loop moving on to the next message.
func (c controller) startFramePump(ctx context.Context, playerId string) {
	pumpCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if !c.pumps.add(playerId, cancel) {
		cancel()
		return
	}

	go c.runFramePump(pumpCtx, playerId)
}

// stopFramePump must be called before any operation that swaps or rebuilds
// the active scene, so no stale tick renders against the old one.
func (c controller) stopFramePump(playerId string) {
	c.pumps.remove(playerId)
}

func (c controller) runFramePump(ctx context.Context, playerId string) {
	ticker := time.NewTicker(c.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		renderResp, err := c.playerService.RenderFrame(ctx, playerId)
		if err != nil {
			c.logger.InfoContext(ctx, "frame pump stopped", "player_id", playerId, "error", err)
			c.stopFramePump(playerId)
			return
		}

		c.broadcast(ctx, renderResp.Conns, &Output{
			Type:    "FRAME",
			Payload: renderResp.Frame,
		})

		// The clock pauses itself at the end of the scene.
		if !renderResp.Frame.IsPlaying {
			if stateResp, err := c.playerService.GetState(ctx, playerId); err == nil {
				c.broadcastPlayerUpdated(ctx, stateResp.Conns, &stateResp.State)
			}
			c.stopFramePump(playerId)
			return
		}
	}
}
