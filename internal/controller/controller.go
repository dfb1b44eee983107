package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scenecast/server/internal/service/player"
	"github.com/scenecast/server/pkg/validator"
	"github.com/scenecast/server/pkg/wsrouter"
)

type iPlayerService interface {
	CreatePlayer(context.Context, *player.CreatePlayerParams) (player.CreatePlayerResponse, error)
	CreateConnectToken(context.Context, string) (player.CreateConnectTokenResponse, error)
	ConnectViewer(context.Context, *player.ConnectViewerParams) (player.ConnectViewerResponse, error)
	DisconnectViewer(context.Context, *websocket.Conn) (player.DisconnectViewerResponse, error)
	RemovePlayer(context.Context, string) error
	Play(context.Context, string) (player.StateResponse, error)
	Pause(context.Context, string) (player.StateResponse, error)
	Stop(context.Context, string) (player.StateResponse, error)
	Seek(context.Context, *player.SeekParams) (player.StateResponse, error)
	Step(context.Context, *player.StepParams) (player.StateResponse, error)
	SetSpeed(context.Context, *player.SetSpeedParams) (player.StateResponse, error)
	SelectScene(context.Context, *player.SelectSceneParams) (player.StateResponse, error)
	AddScene(context.Context, *player.AddSceneParams) (player.AddSceneResponse, error)
	UpdateScene(context.Context, *player.UpdateSceneParams) (player.StateResponse, error)
	GenerateScene(context.Context, *player.GenerateSceneParams) (player.GenerateSceneResponse, error)
	RenderFrame(context.Context, string) (player.RenderFrameResponse, error)
	GetState(context.Context, string) (player.StateResponse, error)
}

type controller struct {
	playerService iPlayerService
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	logger        *slog.Logger
	frameInterval time.Duration
	pumps         *pumpRegistry
	writes        *writeLocks
	wsmux         *wsrouter.WSRouter
}

func NewController(playerService iPlayerService, logger *slog.Logger, frameInterval time.Duration) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		playerService: playerService,
		validate:      validator.NewValidator(),
		logger:        logger,
		frameInterval: frameInterval,
		pumps:         newPumpRegistry(),
		writes:        newWriteLocks(),
	}
	c.wsmux = c.getWSRouter()

	return c
}
