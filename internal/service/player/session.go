package player

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/scenecast/server/internal/domain"
	"github.com/scenecast/server/internal/repository/token"
	"github.com/scenecast/server/internal/timeline"
)

const connectTokenLength = 32

type CreatePlayerParams struct {
	Text      string
	Template  string
	FontSize  int
	Color     string
	Alignment string
}

type CreatePlayerResponse struct {
	PlayerId     string
	ConnectToken string
	State        domain.PlayerState
}

// CreatePlayer builds the initial scene from the manual-editor payload,
// starts a session around it and issues a one-time connect token for the
// websocket upgrade.
func (s service) CreatePlayer(ctx context.Context, params *CreatePlayerParams) (CreatePlayerResponse, error) {
	scene, err := s.buildManualScene(params.Text, params.Template, params.FontSize, params.Color, params.Alignment)
	if err != nil {
		return CreatePlayerResponse{}, err
	}

	playerId := uuid.NewString()
	player := timeline.NewPlayer(scene, s.nowFunc)

	if err := s.sessionRepo.Add(playerId, player); err != nil {
		return CreatePlayerResponse{}, fmt.Errorf("failed to add session: %w", err)
	}

	connectToken := s.generator.GenerateRandomString(connectTokenLength)
	if err := s.tokenRepo.SetConnectToken(ctx, &token.SetConnectTokenParams{
		ConnectToken: connectToken,
		PlayerId:     playerId,
	}); err != nil {
		return CreatePlayerResponse{}, fmt.Errorf("failed to set connect token: %w", err)
	}

	return CreatePlayerResponse{
		PlayerId:     playerId,
		ConnectToken: connectToken,
		State:        player.State(),
	}, nil
}

type CreateConnectTokenResponse struct {
	ConnectToken string
}

// CreateConnectToken issues an additional one-time token so another viewer
// can join an existing session.
func (s service) CreateConnectToken(ctx context.Context, playerId string) (CreateConnectTokenResponse, error) {
	if _, err := s.getPlayer(playerId); err != nil {
		return CreateConnectTokenResponse{}, err
	}

	connectToken := s.generator.GenerateRandomString(connectTokenLength)
	if err := s.tokenRepo.SetConnectToken(ctx, &token.SetConnectTokenParams{
		ConnectToken: connectToken,
		PlayerId:     playerId,
	}); err != nil {
		return CreateConnectTokenResponse{}, fmt.Errorf("failed to set connect token: %w", err)
	}

	return CreateConnectTokenResponse{ConnectToken: connectToken}, nil
}

type ConnectViewerParams struct {
	Conn         *websocket.Conn
	PlayerId     string
	ConnectToken string
}

type ConnectViewerResponse struct {
	State domain.PlayerState
}

func (s service) ConnectViewer(ctx context.Context, params *ConnectViewerParams) (ConnectViewerResponse, error) {
	tokenPlayerId, err := s.tokenRepo.GetPlayerIdByConnectToken(ctx, params.ConnectToken)
	if err != nil {
		return ConnectViewerResponse{}, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	if tokenPlayerId != params.PlayerId {
		return ConnectViewerResponse{}, ErrPermissionDenied
	}

	player, err := s.getPlayer(params.PlayerId)
	if err != nil {
		return ConnectViewerResponse{}, err
	}

	if err := s.connRepo.Add(params.Conn, params.PlayerId); err != nil {
		return ConnectViewerResponse{}, fmt.Errorf("failed to add connection: %w", err)
	}

	return ConnectViewerResponse{State: player.State()}, nil
}

type DisconnectViewerResponse struct {
	PlayerId   string
	LastViewer bool
}

// DisconnectViewer detaches a connection and reports whether it was the
// session's last viewer. Tearing the session down is a separate step
// (RemovePlayer) so the caller can cancel the frame pump in between.
func (s service) DisconnectViewer(ctx context.Context, conn *websocket.Conn) (DisconnectViewerResponse, error) {
	playerId, remaining, err := s.connRepo.RemoveByConn(conn)
	if err != nil {
		return DisconnectViewerResponse{}, fmt.Errorf("failed to remove connection: %w", err)
	}

	return DisconnectViewerResponse{PlayerId: playerId, LastViewer: remaining == 0}, nil
}

func (s service) RemovePlayer(ctx context.Context, playerId string) error {
	if err := s.sessionRepo.Remove(playerId); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	return nil
}
