package controller

import (
	"context"

	"github.com/gorilla/websocket"

	"github.com/scenecast/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Handle("ALIVE", c.handleAlive)

	// playback
	mux.Handle("PLAY", c.handlePlay)
	mux.Handle("PAUSE", c.handlePause)
	mux.Handle("STOP", c.handleStop)
	mux.Handle("SEEK", c.handleSeek)
	mux.Handle("STEP", c.handleStep)
	mux.Handle("SET_SPEED", c.handleSetSpeed)
	mux.Handle("GET_STATE", c.handleGetState)

	// scenes
	mux.Handle("SELECT_SCENE", c.handleSelectScene)
	mux.Handle("ADD_SCENE", c.handleAddScene)
	mux.Handle("UPDATE_SCENE", c.handleUpdateScene)
	mux.Handle("GENERATE_SCENE", c.handleGenerateScene)

	mux.OnError(func(ctx context.Context, conn *websocket.Conn, messageType string, err error) {
		c.logger.InfoContext(ctx, "failed to handle message", "message_type", messageType, "error", err)

		if writeErr := c.writeToConn(ctx, conn, &Output{
			Type: "ERROR",
			Payload: map[string]any{
				"message_type": messageType,
				"error":        err.Error(),
			},
		}); writeErr != nil {
			c.logger.InfoContext(ctx, "failed to write error to conn", "error", writeErr)
		}
	})

	return mux
}
