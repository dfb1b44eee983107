package timeline

import (
	"testing"
	"time"

	"github.com/scenecast/server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestScene(t *testing.T, lines ...string) domain.Scene {
	t.Helper()
	scene, err := BuildScene(&BuildSceneParams{
		Name:         lines[0],
		Template:     domain.SceneTemplatePresentation,
		Lines:        lines,
		CanvasWidth:  800,
		CanvasHeight: 600,
	})
	require.NoError(t, err)

	return scene
}

func TestPlayerFrameWhilePlaying(t *testing.T) {
	ft := newFakeTime()
	player := NewPlayer(buildTestScene(t, "title", "subtitle", "bullet"), ft.now)

	player.Play()
	ft.advance(1250 * time.Millisecond)

	frame := player.Frame()
	assert.True(t, frame.IsPlaying)
	assert.Equal(t, 1250, frame.ElapsedMs)
	assert.Equal(t, 0, frame.SceneIndex)
	assert.Len(t, frame.Instructions, 3)
}

func TestPlayerSelectSceneResetsClock(t *testing.T) {
	ft := newFakeTime()
	player := NewPlayer(buildTestScene(t, "one"), ft.now)
	index := player.AddScene(buildTestScene(t, "two", "sub"))
	require.Equal(t, 1, index)

	player.Play()
	ft.advance(800 * time.Millisecond)

	require.NoError(t, player.SelectScene(1))

	state := player.State()
	assert.Equal(t, 1, state.ActiveSceneIndex)
	assert.Equal(t, 0, state.ElapsedMs, "switching scenes resets the position to zero")
	assert.False(t, state.IsPlaying)
	assert.Equal(t, "two", state.SceneName)

	assert.ErrorIs(t, player.SelectScene(5), ErrSceneIndexOutOfRange)
	assert.ErrorIs(t, player.SelectScene(-1), ErrSceneIndexOutOfRange)
}

func TestPlayerReplaceActiveSceneResetsClock(t *testing.T) {
	ft := newFakeTime()
	player := NewPlayer(buildTestScene(t, "old", "sub"), ft.now)

	player.Play()
	ft.advance(600 * time.Millisecond)

	player.ReplaceActiveScene(buildTestScene(t, "new"))

	state := player.State()
	assert.Equal(t, 0, state.ElapsedMs)
	assert.False(t, state.IsPlaying)
	assert.Equal(t, "new", state.SceneName)
	assert.Equal(t, 1, state.SceneCount)
}

func TestPlayerSeekPercent(t *testing.T) {
	player := NewPlayer(buildTestScene(t, "title", "subtitle", "bullet"), newFakeTime().now)

	// Total duration is 1500ms for one bullet.
	player.SeekPercent(50)
	assert.Equal(t, 750, player.State().ElapsedMs)

	player.SeekPercent(250)
	assert.Equal(t, 1500, player.State().ElapsedMs, "percent seeks clamp like any other seek")
}

func TestPlayerStateMarkers(t *testing.T) {
	player := NewPlayer(buildTestScene(t, "title", "subtitle", "bullet"), newFakeTime().now)

	state := player.State()
	require.Len(t, state.Markers, 3)
	assert.Equal(t, 1.0, state.Speed)
	assert.Equal(t, 1500, state.TotalDurationMs)
}
