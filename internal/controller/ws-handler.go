package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/scenecast/server/internal/service/player"
)

var ErrValidationError = errors.New("validation error")

func decodeInput(payload json.RawMessage, input any) error {
	if len(payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, input); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationError, err)
	}

	return nil
}

func (c controller) connectPlayer(w http.ResponseWriter, r *http.Request) {
	playerId := chi.URLParam(r, "player-id")
	if playerId == "" {
		c.logger.DebugContext(r.Context(), "empty player id")
		return
	}

	connectToken := r.URL.Query().Get("connect-token")

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	connectResp, err := c.playerService.ConnectViewer(r.Context(), &player.ConnectViewerParams{
		Conn:         conn,
		PlayerId:     playerId,
		ConnectToken: connectToken,
	})
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to connect viewer", "error", err)
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(4001, "permission denied"), time.Now().Add(time.Second*5))
		return
	}
	defer c.disconnect(r.Context(), conn)

	if err := c.writeToConn(r.Context(), conn, &Output{
		Type: "PLAYER_CONNECTED",
		Payload: map[string]any{
			"player_id": playerId,
			"state":     connectResp.State,
		},
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to write json", "error", err)
		return
	}

	ctx := context.WithValue(r.Context(), playerIdCtxKey, playerId)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(r.Context(), "conn closed", "error", err)
	}
}

func (c controller) disconnect(ctx context.Context, conn *websocket.Conn) {
	disconnectResp, err := c.playerService.DisconnectViewer(ctx, conn)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect viewer", "error", err)
		return
	}

	c.writes.release(conn)

	// The pump must be gone before the session is, so no tick renders
	// against a removed player.
	if disconnectResp.LastViewer {
		c.stopFramePump(disconnectResp.PlayerId)
		if err := c.playerService.RemovePlayer(ctx, disconnectResp.PlayerId); err != nil {
			c.logger.WarnContext(ctx, "failed to remove player", "error", err)
		}
	}
}

func (c controller) handleAlive(_ context.Context, _ *websocket.Conn, _ json.RawMessage) error {
	return nil
}

func (c controller) handlePlay(ctx context.Context, _ *websocket.Conn, _ json.RawMessage) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	playResp, err := c.playerService.Play(ctx, playerId)
	if err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	c.broadcastPlayerUpdated(ctx, playResp.Conns, &playResp.State)

	c.startFramePump(ctx, playerId)

	return nil
}

func (c controller) handlePause(ctx context.Context, _ *websocket.Conn, _ json.RawMessage) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	c.stopFramePump(playerId)

	pauseResp, err := c.playerService.Pause(ctx, playerId)
	if err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}

	c.broadcastPlayerUpdated(ctx, pauseResp.Conns, &pauseResp.State)

	return c.broadcastFrameSnapshot(ctx, playerId)
}

func (c controller) handleStop(ctx context.Context, _ *websocket.Conn, _ json.RawMessage) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	c.stopFramePump(playerId)

	stopResp, err := c.playerService.Stop(ctx, playerId)
	if err != nil {
		return fmt.Errorf("failed to stop: %w", err)
	}

	c.broadcastPlayerUpdated(ctx, stopResp.Conns, &stopResp.State)

	return c.broadcastFrameSnapshot(ctx, playerId)
}

type SeekInput struct {
	PositionMs *int     `json:"position_ms"`
	Percent    *float64 `json:"percent"`
}

func (c controller) handleSeek(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	var input SeekInput
	if err := decodeInput(payload, &input); err != nil {
		return err
	}

	seekResp, err := c.playerService.Seek(ctx, &player.SeekParams{
		PlayerId:   playerId,
		PositionMs: input.PositionMs,
		Percent:    input.Percent,
	})
	if err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	c.broadcastPlayerUpdated(ctx, seekResp.Conns, &seekResp.State)

	// A running pump picks the new position up on its next tick.
	if !seekResp.State.IsPlaying {
		return c.broadcastFrameSnapshot(ctx, playerId)
	}

	return nil
}

type StepInput struct {
	Direction string `json:"direction"`
	StepMs    int    `json:"step_ms"`
}

func (c controller) handleStep(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	var input StepInput
	if err := decodeInput(payload, &input); err != nil {
		return err
	}

	stepResp, err := c.playerService.Step(ctx, &player.StepParams{
		PlayerId:  playerId,
		Direction: input.Direction,
		StepMs:    input.StepMs,
	})
	if err != nil {
		return fmt.Errorf("failed to step: %w", err)
	}

	c.broadcastPlayerUpdated(ctx, stepResp.Conns, &stepResp.State)

	if !stepResp.State.IsPlaying {
		return c.broadcastFrameSnapshot(ctx, playerId)
	}

	return nil
}

type SetSpeedInput struct {
	Speed float64 `json:"speed"`
}

func (c controller) handleSetSpeed(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	var input SetSpeedInput
	if err := decodeInput(payload, &input); err != nil {
		return err
	}

	setSpeedResp, err := c.playerService.SetSpeed(ctx, &player.SetSpeedParams{
		PlayerId: playerId,
		Speed:    input.Speed,
	})
	if err != nil {
		return fmt.Errorf("failed to set speed: %w", err)
	}

	c.broadcastPlayerUpdated(ctx, setSpeedResp.Conns, &setSpeedResp.State)

	return nil
}

type SelectSceneInput struct {
	SceneIndex int `json:"scene_index"`
}

func (c controller) handleSelectScene(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	var input SelectSceneInput
	if err := decodeInput(payload, &input); err != nil {
		return err
	}

	c.stopFramePump(playerId)

	selectResp, err := c.playerService.SelectScene(ctx, &player.SelectSceneParams{
		PlayerId:   playerId,
		SceneIndex: input.SceneIndex,
	})
	if err != nil {
		return fmt.Errorf("failed to select scene: %w", err)
	}

	c.broadcast(ctx, selectResp.Conns, &Output{
		Type: "SCENE_SELECTED",
		Payload: map[string]any{
			"state": selectResp.State,
		},
	})

	return c.broadcastFrameSnapshot(ctx, playerId)
}

type AddSceneInput struct {
	Text      string `json:"text"`
	Template  string `json:"template"`
	FontSize  int    `json:"font_size"`
	Color     string `json:"color"`
	Alignment string `json:"alignment"`
}

func (c controller) handleAddScene(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	var input AddSceneInput
	if err := decodeInput(payload, &input); err != nil {
		return err
	}

	addResp, err := c.playerService.AddScene(ctx, &player.AddSceneParams{
		PlayerId:  playerId,
		Text:      input.Text,
		Template:  input.Template,
		FontSize:  input.FontSize,
		Color:     input.Color,
		Alignment: input.Alignment,
	})
	if err != nil {
		return fmt.Errorf("failed to add scene: %w", err)
	}

	c.broadcast(ctx, addResp.Conns, &Output{
		Type: "SCENE_ADDED",
		Payload: map[string]any{
			"scene_index": addResp.SceneIndex,
			"state":       addResp.State,
		},
	})

	return nil
}

type UpdateSceneInput struct {
	Text      string `json:"text"`
	Template  string `json:"template"`
	FontSize  int    `json:"font_size"`
	Color     string `json:"color"`
	Alignment string `json:"alignment"`
}

func (c controller) handleUpdateScene(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	var input UpdateSceneInput
	if err := decodeInput(payload, &input); err != nil {
		return err
	}

	c.stopFramePump(playerId)

	updateResp, err := c.playerService.UpdateScene(ctx, &player.UpdateSceneParams{
		PlayerId:  playerId,
		Text:      input.Text,
		Template:  input.Template,
		FontSize:  input.FontSize,
		Color:     input.Color,
		Alignment: input.Alignment,
	})
	if err != nil {
		return fmt.Errorf("failed to update scene: %w", err)
	}

	c.broadcast(ctx, updateResp.Conns, &Output{
		Type: "SCENE_UPDATED",
		Payload: map[string]any{
			"state": updateResp.State,
		},
	})

	return c.broadcastFrameSnapshot(ctx, playerId)
}

type GenerateSceneInput struct {
	Text string `json:"text"`
}

func (c controller) handleGenerateScene(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	var input GenerateSceneInput
	if err := decodeInput(payload, &input); err != nil {
		return err
	}

	c.stopFramePump(playerId)

	generateResp, err := c.playerService.GenerateScene(ctx, &player.GenerateSceneParams{
		PlayerId: playerId,
		Text:     input.Text,
	})
	if err != nil {
		// The session keeps its scene on analyzer failure; resume the pump
		// if it was playing when we stopped it.
		if stateResp, stateErr := c.playerService.GetState(ctx, playerId); stateErr == nil && stateResp.State.IsPlaying {
			c.startFramePump(ctx, playerId)
		}
		return fmt.Errorf("failed to generate scene: %w", err)
	}

	c.broadcast(ctx, generateResp.Conns, &Output{
		Type: "SCENE_GENERATED",
		Payload: map[string]any{
			"analysis": generateResp.Analysis,
			"state":    generateResp.State,
		},
	})

	return c.broadcastFrameSnapshot(ctx, playerId)
}

func (c controller) handleGetState(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	stateResp, err := c.playerService.GetState(ctx, playerId)
	if err != nil {
		return fmt.Errorf("failed to get state: %w", err)
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type: "PLAYER_UPDATED",
		Payload: map[string]any{
			"state": stateResp.State,
		},
	}); err != nil {
		return fmt.Errorf("failed to write to conn: %w", err)
	}

	return nil
}
