package player

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scenecast/server/internal/domain"
	"github.com/scenecast/server/internal/repository/token"
	"github.com/scenecast/server/internal/timeline"
	"github.com/scenecast/server/pkg/randstr"
)

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUnsupportedSpeed   = errors.New("unsupported playback speed")
	ErrInvalidDirection   = errors.New("invalid step direction")
	ErrEmptySeekTarget    = errors.New("seek target not provided")
	ErrScenesLimitReached = errors.New("scenes limit reached")
)

type iSessionRepo interface {
	Add(playerId string, player *timeline.Player) error
	Get(playerId string) (*timeline.Player, error)
	Remove(playerId string) error
}

type iConnRepo interface {
	Add(conn *websocket.Conn, playerId string) error
	RemoveByConn(conn *websocket.Conn) (string, int, error)
	GetPlayerId(conn *websocket.Conn) (string, error)
	GetConns(playerId string) []*websocket.Conn
}

type iTokenRepo interface {
	SetConnectToken(context.Context, *token.SetConnectTokenParams) error
	GetPlayerIdByConnectToken(context.Context, string) (string, error)
}

type iAnalyzer interface {
	Analyze(ctx context.Context, text string) (domain.Analysis, error)
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	CanvasWidth   int
	CanvasHeight  int
	ScenesLimit   int
	DefaultStepMs int
	AllowedSpeeds []float64
}

type service struct {
	sessionRepo iSessionRepo
	connRepo    iConnRepo
	tokenRepo   iTokenRepo
	analyzer    iAnalyzer
	generator   iGenerator
	nowFunc     func() time.Time

	canvasWidth   int
	canvasHeight  int
	scenesLimit   int
	defaultStepMs int
	allowedSpeeds []float64
}

func NewService(sessionRepo iSessionRepo, connRepo iConnRepo, tokenRepo iTokenRepo, analyzer iAnalyzer, cfg *Config) *service {
	s := service{
		sessionRepo:   sessionRepo,
		connRepo:      connRepo,
		tokenRepo:     tokenRepo,
		analyzer:      analyzer,
		nowFunc:       time.Now,
		canvasWidth:   cfg.CanvasWidth,
		canvasHeight:  cfg.CanvasHeight,
		scenesLimit:   cfg.ScenesLimit,
		defaultStepMs: cfg.DefaultStepMs,
		allowedSpeeds: cfg.AllowedSpeeds,
	}

	letterBytes := []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	s.generator = randstr.New(letterBytes)

	return &s
}

func (s service) getPlayer(playerId string) (*timeline.Player, error) {
	player, err := s.sessionRepo.Get(playerId)
	if err != nil {
		return nil, ErrPlayerNotFound
	}

	return player, nil
}

func (s service) isSpeedAllowed(speed float64) bool {
	for _, allowed := range s.allowedSpeeds {
		if speed == allowed {
			return true
		}
	}

	return false
}
