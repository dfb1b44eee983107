package player

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/scenecast/server/internal/domain"
)

// StateResponse is what every playback control operation returns: the fresh
// player state and the connections it should be broadcast to.
type StateResponse struct {
	State domain.PlayerState
	Conns []*websocket.Conn
}

func (s service) stateResponse(playerId string, state domain.PlayerState) StateResponse {
	return StateResponse{
		State: state,
		Conns: s.connRepo.GetConns(playerId),
	}
}

func (s service) Play(ctx context.Context, playerId string) (StateResponse, error) {
	player, err := s.getPlayer(playerId)
	if err != nil {
		return StateResponse{}, err
	}

	player.Play()

	return s.stateResponse(playerId, player.State()), nil
}

func (s service) Pause(ctx context.Context, playerId string) (StateResponse, error) {
	player, err := s.getPlayer(playerId)
	if err != nil {
		return StateResponse{}, err
	}

	player.Pause()

	return s.stateResponse(playerId, player.State()), nil
}

func (s service) Stop(ctx context.Context, playerId string) (StateResponse, error) {
	player, err := s.getPlayer(playerId)
	if err != nil {
		return StateResponse{}, err
	}

	player.Stop()

	return s.stateResponse(playerId, player.State()), nil
}

type SeekParams struct {
	PlayerId   string
	PositionMs *int
	Percent    *float64
}

// Seek accepts either an absolute position or a percentage of the scene
// duration. Out-of-range targets are clamped by the clock, not rejected:
// scrubbing past either end is a normal UI gesture.
func (s service) Seek(ctx context.Context, params *SeekParams) (StateResponse, error) {
	player, err := s.getPlayer(params.PlayerId)
	if err != nil {
		return StateResponse{}, err
	}

	switch {
	case params.PositionMs != nil:
		player.SeekMs(*params.PositionMs)
	case params.Percent != nil:
		player.SeekPercent(*params.Percent)
	default:
		return StateResponse{}, ErrEmptySeekTarget
	}

	return s.stateResponse(params.PlayerId, player.State()), nil
}

const (
	DirectionForward  = "forward"
	DirectionBackward = "backward"
)

type StepParams struct {
	PlayerId  string
	Direction string
	StepMs    int
}

func (s service) Step(ctx context.Context, params *StepParams) (StateResponse, error) {
	player, err := s.getPlayer(params.PlayerId)
	if err != nil {
		return StateResponse{}, err
	}

	stepMs := params.StepMs
	if stepMs == 0 {
		stepMs = s.defaultStepMs
	}

	switch params.Direction {
	case DirectionForward:
		player.StepMs(stepMs)
	case DirectionBackward:
		player.StepMs(-stepMs)
	default:
		return StateResponse{}, fmt.Errorf("%w: %q", ErrInvalidDirection, params.Direction)
	}

	return s.stateResponse(params.PlayerId, player.State()), nil
}

type SetSpeedParams struct {
	PlayerId string
	Speed    float64
}

func (s service) SetSpeed(ctx context.Context, params *SetSpeedParams) (StateResponse, error) {
	if !s.isSpeedAllowed(params.Speed) {
		return StateResponse{}, fmt.Errorf("%w: %v", ErrUnsupportedSpeed, params.Speed)
	}

	player, err := s.getPlayer(params.PlayerId)
	if err != nil {
		return StateResponse{}, err
	}

	player.SetSpeed(params.Speed)

	return s.stateResponse(params.PlayerId, player.State()), nil
}

type SelectSceneParams struct {
	PlayerId   string
	SceneIndex int
}

// SelectScene switches the active scene. The caller must cancel the frame
// pump before invoking it so no stale tick renders against the old scene.
func (s service) SelectScene(ctx context.Context, params *SelectSceneParams) (StateResponse, error) {
	player, err := s.getPlayer(params.PlayerId)
	if err != nil {
		return StateResponse{}, err
	}

	if err := player.SelectScene(params.SceneIndex); err != nil {
		return StateResponse{}, fmt.Errorf("failed to select scene: %w", err)
	}

	return s.stateResponse(params.PlayerId, player.State()), nil
}

type RenderFrameResponse struct {
	Frame domain.Frame
	Conns []*websocket.Conn
}

// RenderFrame samples the session once for the frame pump.
func (s service) RenderFrame(ctx context.Context, playerId string) (RenderFrameResponse, error) {
	player, err := s.getPlayer(playerId)
	if err != nil {
		return RenderFrameResponse{}, err
	}

	return RenderFrameResponse{
		Frame: player.Frame(),
		Conns: s.connRepo.GetConns(playerId),
	}, nil
}

func (s service) GetState(ctx context.Context, playerId string) (StateResponse, error) {
	player, err := s.getPlayer(playerId)
	if err != nil {
		return StateResponse{}, err
	}

	return s.stateResponse(playerId, player.State()), nil
}
