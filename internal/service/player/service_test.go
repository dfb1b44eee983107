package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenecast/server/internal/domain"
	connInmemory "github.com/scenecast/server/internal/repository/connection/inmemory"
	sessionInmemory "github.com/scenecast/server/internal/repository/session/inmemory"
	tokenRedis "github.com/scenecast/server/internal/repository/token/redis"
)

type stubAnalyzer struct {
	analysis domain.Analysis
	err      error
}

func (a stubAnalyzer) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	return a.analysis, a.err
}

func newTestService(t *testing.T, analyzer iAnalyzer) *service {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return NewService(
		sessionInmemory.NewRepo(),
		connInmemory.NewRepo(),
		tokenRedis.NewRepo(rc, 10*time.Minute),
		analyzer,
		&Config{
			CanvasWidth:   800,
			CanvasHeight:  600,
			ScenesLimit:   25,
			DefaultStepMs: 500,
			AllowedSpeeds: []float64{0.5, 1, 1.5, 2},
		},
	)
}

func createTestPlayer(t *testing.T, s *service) CreatePlayerResponse {
	t.Helper()

	resp, err := s.CreatePlayer(context.Background(), &CreatePlayerParams{
		Text:     "Title\nSubtitle\nfirst point\nsecond point",
		Template: "presentation",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.PlayerId)
	require.NotEmpty(t, resp.ConnectToken)

	return resp
}

func TestCreatePlayerAndConnect(t *testing.T) {
	s := newTestService(t, stubAnalyzer{})
	ctx := context.Background()

	created := createTestPlayer(t, s)
	assert.Equal(t, "Title", created.State.SceneName)
	assert.Equal(t, 1, created.State.SceneCount)
	assert.False(t, created.State.IsPlaying)
	assert.Len(t, created.State.Markers, 4)

	connectResp, err := s.ConnectViewer(ctx, &ConnectViewerParams{
		Conn:         &websocket.Conn{},
		PlayerId:     created.PlayerId,
		ConnectToken: created.ConnectToken,
	})
	require.NoError(t, err)
	assert.Equal(t, created.State.SceneName, connectResp.State.SceneName)

	// The token is one-time: a second connect with it must be rejected.
	_, err = s.ConnectViewer(ctx, &ConnectViewerParams{
		Conn:         &websocket.Conn{},
		PlayerId:     created.PlayerId,
		ConnectToken: created.ConnectToken,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCreatePlayerRejectsEmptyText(t *testing.T) {
	s := newTestService(t, stubAnalyzer{})

	_, err := s.CreatePlayer(context.Background(), &CreatePlayerParams{
		Text:     "   \n\n  ",
		Template: "presentation",
	})
	assert.Error(t, err)
}

func TestPlaybackControls(t *testing.T) {
	s := newTestService(t, stubAnalyzer{})
	ctx := context.Background()
	created := createTestPlayer(t, s)

	playResp, err := s.Play(ctx, created.PlayerId)
	require.NoError(t, err)
	assert.True(t, playResp.State.IsPlaying)

	pauseResp, err := s.Pause(ctx, created.PlayerId)
	require.NoError(t, err)
	assert.False(t, pauseResp.State.IsPlaying)

	positionMs := 1000
	seekResp, err := s.Seek(ctx, &SeekParams{PlayerId: created.PlayerId, PositionMs: &positionMs})
	require.NoError(t, err)
	assert.Equal(t, 1000, seekResp.State.ElapsedMs)

	percent := 50.0
	seekResp, err = s.Seek(ctx, &SeekParams{PlayerId: created.PlayerId, Percent: &percent})
	require.NoError(t, err)
	assert.Equal(t, seekResp.State.TotalDurationMs/2, seekResp.State.ElapsedMs)

	_, err = s.Seek(ctx, &SeekParams{PlayerId: created.PlayerId})
	assert.ErrorIs(t, err, ErrEmptySeekTarget)

	stepResp, err := s.Step(ctx, &StepParams{PlayerId: created.PlayerId, Direction: DirectionBackward, StepMs: 250})
	require.NoError(t, err)
	assert.Equal(t, seekResp.State.ElapsedMs-250, stepResp.State.ElapsedMs)

	_, err = s.Step(ctx, &StepParams{PlayerId: created.PlayerId, Direction: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidDirection)

	stopResp, err := s.Stop(ctx, created.PlayerId)
	require.NoError(t, err)
	assert.Equal(t, 0, stopResp.State.ElapsedMs)
	assert.False(t, stopResp.State.IsPlaying)
}

func TestSetSpeedValidatesMultiplier(t *testing.T) {
	s := newTestService(t, stubAnalyzer{})
	ctx := context.Background()
	created := createTestPlayer(t, s)

	resp, err := s.SetSpeed(ctx, &SetSpeedParams{PlayerId: created.PlayerId, Speed: 1.5})
	require.NoError(t, err)
	assert.Equal(t, 1.5, resp.State.Speed)

	_, err = s.SetSpeed(ctx, &SetSpeedParams{PlayerId: created.PlayerId, Speed: 3})
	assert.ErrorIs(t, err, ErrUnsupportedSpeed)
}

func TestAddAndSelectScene(t *testing.T) {
	s := newTestService(t, stubAnalyzer{})
	ctx := context.Background()
	created := createTestPlayer(t, s)

	addResp, err := s.AddScene(ctx, &AddSceneParams{
		PlayerId: created.PlayerId,
		Text:     "History\n1990\n2000\n2010",
		Template: "timeline",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, addResp.SceneIndex)
	assert.Equal(t, 2, addResp.State.SceneCount)

	positionMs := 700
	_, err = s.Seek(ctx, &SeekParams{PlayerId: created.PlayerId, PositionMs: &positionMs})
	require.NoError(t, err)

	selectResp, err := s.SelectScene(ctx, &SelectSceneParams{PlayerId: created.PlayerId, SceneIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, selectResp.State.ActiveSceneIndex)
	assert.Equal(t, 0, selectResp.State.ElapsedMs, "scene switch resets the position")
	assert.Equal(t, "History", selectResp.State.SceneName)

	_, err = s.SelectScene(ctx, &SelectSceneParams{PlayerId: created.PlayerId, SceneIndex: 9})
	assert.Error(t, err)
}

func TestGenerateSceneReplacesActive(t *testing.T) {
	s := newTestService(t, stubAnalyzer{analysis: domain.Analysis{
		Title:              "Generated",
		MainIdeas:          []string{"a", "b", "c"},
		SuggestedStructure: domain.SceneTemplateMindmap,
	}})
	ctx := context.Background()
	created := createTestPlayer(t, s)

	resp, err := s.GenerateScene(ctx, &GenerateSceneParams{PlayerId: created.PlayerId, Text: "free text"})
	require.NoError(t, err)
	assert.Equal(t, "Generated", resp.State.SceneName)
	assert.Equal(t, 0, resp.State.ElapsedMs)
	assert.Equal(t, "Generated", resp.Analysis.Title)
}

func TestGenerateSceneFailureKeepsCurrentScene(t *testing.T) {
	s := newTestService(t, stubAnalyzer{err: errors.New("model timed out")})
	ctx := context.Background()
	created := createTestPlayer(t, s)

	positionMs := 900
	_, err := s.Seek(ctx, &SeekParams{PlayerId: created.PlayerId, PositionMs: &positionMs})
	require.NoError(t, err)

	_, err = s.GenerateScene(ctx, &GenerateSceneParams{PlayerId: created.PlayerId, Text: "free text"})
	require.Error(t, err)

	stateResp, err := s.GetState(ctx, created.PlayerId)
	require.NoError(t, err)
	assert.Equal(t, "Title", stateResp.State.SceneName, "the prior scene stays")
	assert.Equal(t, 900, stateResp.State.ElapsedMs, "the position is untouched")
}

func TestDisconnectLastViewerRemovesSession(t *testing.T) {
	s := newTestService(t, stubAnalyzer{})
	ctx := context.Background()
	created := createTestPlayer(t, s)

	conn := &websocket.Conn{}
	_, err := s.ConnectViewer(ctx, &ConnectViewerParams{
		Conn:         conn,
		PlayerId:     created.PlayerId,
		ConnectToken: created.ConnectToken,
	})
	require.NoError(t, err)

	disconnectResp, err := s.DisconnectViewer(ctx, conn)
	require.NoError(t, err)
	assert.True(t, disconnectResp.LastViewer)
	assert.Equal(t, created.PlayerId, disconnectResp.PlayerId)

	// the session survives until the caller tears it down
	_, err = s.GetState(ctx, created.PlayerId)
	require.NoError(t, err)

	require.NoError(t, s.RemovePlayer(ctx, created.PlayerId))

	_, err = s.GetState(ctx, created.PlayerId)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
