package timeline

import (
	"testing"

	"github.com/scenecast/server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textElement(text string, offsetMs, durationMs int) domain.SceneElement {
	return domain.SceneElement{
		Kind:             domain.ElementKindText,
		Text:             text,
		X:                100,
		Y:                100,
		Size:             18,
		Color:            "#ffffff",
		StartOffsetMs:    offsetMs,
		RevealDurationMs: durationMs,
	}
}

func TestRenderBeforeRevealWindowOpens(t *testing.T) {
	el := textElement("hello", 1000, 500)

	_, drawn := Render(el, 999)
	assert.False(t, drawn, "element must be entirely absent before its start offset")

	_, drawn = Render(el, 0)
	assert.False(t, drawn)
}

func TestRenderAtWindowStart(t *testing.T) {
	el := textElement("hello", 1000, 500)

	instruction, drawn := Render(el, 1000)
	require.True(t, drawn)
	assert.Equal(t, "", instruction.Text, "nothing of the text is visible at zero progress")
}

func TestRenderCompleteAndIdempotentPastCompletion(t *testing.T) {
	el := textElement("hello", 1000, 500)

	at := func(elapsedMs int) domain.DrawInstruction {
		instruction, drawn := Render(el, elapsedMs)
		require.True(t, drawn)
		return instruction
	}

	assert.Equal(t, "hello", at(1500).Text)
	assert.Equal(t, at(1500), at(2000), "progress stays clamped at 1 past completion")
	assert.Equal(t, at(1500), at(100000))
}

func TestRenderTextHalfReveal(t *testing.T) {
	el := textElement("12345678", 0, 1000)

	// Ease(0.5) == 0.5 exactly, so half the runes are visible.
	instruction, drawn := Render(el, 500)
	require.True(t, drawn)
	assert.Equal(t, "1234", instruction.Text)
}

func TestRenderCircleArcAndLabel(t *testing.T) {
	el := domain.SceneElement{
		Kind:             domain.ElementKindCircle,
		Text:             "core",
		X:                400,
		Y:                300,
		Radius:           64,
		Size:             18,
		Color:            "#ffcc00",
		StartOffsetMs:    0,
		RevealDurationMs: 1000,
	}

	half, drawn := Render(el, 500)
	require.True(t, drawn)
	assert.Equal(t, float64(-90), half.ArcStartDeg)
	assert.InDelta(t, 180, half.ArcSweepDeg, 1e-9)
	assert.Equal(t, "", half.Text, "label is hidden until past half reveal")

	full, drawn := Render(el, 1000)
	require.True(t, drawn)
	assert.InDelta(t, 360, full.ArcSweepDeg, 1e-9)
	assert.Equal(t, "core", full.Text)
}

func TestRenderLinePartialSegment(t *testing.T) {
	el := domain.SceneElement{
		Kind:             domain.ElementKindLine,
		X:                100,
		Y:                200,
		X2:               300,
		Y2:               400,
		Size:             2,
		Color:            "#ffffff",
		StartOffsetMs:    0,
		RevealDurationMs: 1000,
	}

	half, drawn := Render(el, 500)
	require.True(t, drawn)
	assert.Equal(t, 100, half.X, "the start point is fixed")
	assert.Equal(t, 200, half.Y)
	assert.Equal(t, 200, half.X2)
	assert.Equal(t, 300, half.Y2)

	full, _ := Render(el, 1500)
	assert.Equal(t, 300, full.X2)
	assert.Equal(t, 400, full.Y2)
}

func TestRenderPresentationSceneScenario(t *testing.T) {
	scene, err := BuildScene(&BuildSceneParams{
		Name:         "intro",
		Template:     domain.SceneTemplatePresentation,
		Lines:        []string{"TitleText__", "subtitle", "bullet-1", "bullet-2", "bullet-3"},
		CanvasWidth:  800,
		CanvasHeight: 600,
	})
	require.NoError(t, err)

	instructions := RenderScene(scene, 1250)
	require.Len(t, instructions, 3, "bullets 2 and 3 must not be drawn at 1250ms")

	// Title finished its 1000ms reveal.
	assert.Equal(t, "TitleText__", instructions[0].Text)
	// Subtitle and the first bullet are both 250ms into a 500ms window.
	assert.Equal(t, "subt", instructions[1].Text)
	assert.Equal(t, "bull", instructions[2].Text)
}

func TestRenderMindmapSceneScenario(t *testing.T) {
	scene, err := BuildScene(&BuildSceneParams{
		Name:         "map",
		Template:     domain.SceneTemplateMindmap,
		Lines:        []string{"center", "node-1", "node-2", "node-3", "node-4"},
		CanvasWidth:  800,
		CanvasHeight: 600,
	})
	require.NoError(t, err)

	instructions := RenderScene(scene, 1450)
	require.Len(t, instructions, 3, "nodes 3 and 4 must not be drawn at 1450ms")

	assert.InDelta(t, 360, instructions[0].ArcSweepDeg, 1e-9, "center node is fully drawn")
	assert.InDelta(t, 360, instructions[1].ArcSweepDeg, 1e-9, "node 1 is fully drawn")
	assert.InDelta(t, 180, instructions[2].ArcSweepDeg, 1e-9, "node 2 is half drawn")
}
