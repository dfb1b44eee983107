package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/scenecast/server/internal/domain"
	"github.com/scenecast/server/internal/timeline"
)

func (s service) buildManualScene(text, template string, fontSize int, color, alignment string) (domain.Scene, error) {
	lines := splitLines(text)
	name := ""
	if len(lines) > 0 {
		name = lines[0]
	}

	scene, err := timeline.BuildScene(&timeline.BuildSceneParams{
		Name:     name,
		Template: domain.SceneTemplate(template),
		Lines:    lines,
		Style: timeline.Style{
			FontSize:  fontSize,
			Color:     color,
			Alignment: alignment,
		},
		CanvasWidth:  s.canvasWidth,
		CanvasHeight: s.canvasHeight,
	})
	if err != nil {
		return domain.Scene{}, fmt.Errorf("failed to build scene: %w", err)
	}

	return scene, nil
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

type AddSceneParams struct {
	PlayerId  string
	Text      string
	Template  string
	FontSize  int
	Color     string
	Alignment string
}

type AddSceneResponse struct {
	SceneIndex int
	StateResponse
}

// AddScene appends a manually authored scene to the session's catalog without
// touching playback of the active scene.
func (s service) AddScene(ctx context.Context, params *AddSceneParams) (AddSceneResponse, error) {
	player, err := s.getPlayer(params.PlayerId)
	if err != nil {
		return AddSceneResponse{}, err
	}

	if player.SceneCount() >= s.scenesLimit {
		return AddSceneResponse{}, ErrScenesLimitReached
	}

	scene, err := s.buildManualScene(params.Text, params.Template, params.FontSize, params.Color, params.Alignment)
	if err != nil {
		return AddSceneResponse{}, err
	}

	index := player.AddScene(scene)

	return AddSceneResponse{
		SceneIndex:    index,
		StateResponse: s.stateResponse(params.PlayerId, player.State()),
	}, nil
}

type UpdateSceneParams struct {
	PlayerId  string
	Text      string
	Template  string
	FontSize  int
	Color     string
	Alignment string
}

// UpdateScene regenerates the active scene from a manual payload and resets
// the position to zero. The caller must cancel the frame pump first.
func (s service) UpdateScene(ctx context.Context, params *UpdateSceneParams) (StateResponse, error) {
	player, err := s.getPlayer(params.PlayerId)
	if err != nil {
		return StateResponse{}, err
	}

	scene, err := s.buildManualScene(params.Text, params.Template, params.FontSize, params.Color, params.Alignment)
	if err != nil {
		return StateResponse{}, err
	}

	player.ReplaceActiveScene(scene)

	return s.stateResponse(params.PlayerId, player.State()), nil
}

type GenerateSceneParams struct {
	PlayerId string
	Text     string
}

type GenerateSceneResponse struct {
	Analysis domain.Analysis
	StateResponse
}

// GenerateScene asks the external analyzer to structure free text, builds a
// scene from the analysis and swaps it in for the active scene. Analyzer
// failures are recoverable: the error propagates to the caller and the
// session keeps its current scene and playback position untouched.
func (s service) GenerateScene(ctx context.Context, params *GenerateSceneParams) (GenerateSceneResponse, error) {
	player, err := s.getPlayer(params.PlayerId)
	if err != nil {
		return GenerateSceneResponse{}, err
	}

	analysis, err := s.analyzer.Analyze(ctx, params.Text)
	if err != nil {
		return GenerateSceneResponse{}, fmt.Errorf("failed to analyze text: %w", err)
	}

	scene, err := timeline.BuildSceneFromAnalysis(&analysis, timeline.Style{}, s.canvasWidth, s.canvasHeight)
	if err != nil {
		return GenerateSceneResponse{}, fmt.Errorf("failed to build scene from analysis: %w", err)
	}

	player.ReplaceActiveScene(scene)

	return GenerateSceneResponse{
		Analysis:      analysis,
		StateResponse: s.stateResponse(params.PlayerId, player.State()),
	}, nil
}
