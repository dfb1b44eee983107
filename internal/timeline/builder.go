package timeline

import (
	"fmt"
	"math"

	"github.com/scenecast/server/internal/domain"
)

// Reveal cadence per template, milliseconds. Title first, body next, detail
// last, so a scene reads as a directed narrative instead of appearing at once.
const (
	presentationTitleDurationMs  = 1000
	presentationDetailDurationMs = 500

	mindmapCenterDurationMs    = 1000
	mindmapSatelliteDurationMs = 300

	timelineTitleDurationMs  = 500
	timelineBaseDurationMs   = 1000
	timelineMarkerDurationMs = 200
)

const (
	canvasMargin      = 60
	bulletLineSpacing = 44
	satelliteDistance = 180
	centerNodeRadius  = 64
	satelliteRadius   = 44
	markerTickHeight  = 12
)

type Style struct {
	FontSize  int
	Color     string
	Alignment string
}

const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

func (s Style) withDefaults() Style {
	if s.FontSize == 0 {
		s.FontSize = 18
	}
	if s.Color == "" {
		s.Color = "#e8e8e8"
	}
	if s.Alignment == "" {
		s.Alignment = AlignCenter
	}

	return s
}

type BuildSceneParams struct {
	Name     string
	Template domain.SceneTemplate
	// Lines is the manual-editor payload: the first line is the title (or the
	// center node for mindmaps), the rest become body elements.
	Lines        []string
	Style        Style
	CanvasWidth  int
	CanvasHeight int
}

// BuildScene deterministically constructs one scene from a template and raw
// lines. Per-element timing is computed here, once, and stored on the
// elements; the renderer never branches on element indexes.
func BuildScene(params *BuildSceneParams) (domain.Scene, error) {
	if len(params.Lines) == 0 {
		return domain.Scene{}, ErrNoElements
	}

	style := params.Style.withDefaults()

	var elements []domain.SceneElement
	switch params.Template {
	case domain.SceneTemplatePresentation:
		elements = presentationElements(params.Lines, style, params.CanvasWidth)
	case domain.SceneTemplateMindmap:
		elements = mindmapElements(params.Lines, style, params.CanvasWidth, params.CanvasHeight)
	case domain.SceneTemplateTimeline:
		elements = timelineElements(params.Lines, style, params.CanvasWidth, params.CanvasHeight)
	default:
		return domain.Scene{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, params.Template)
	}

	assignTiming(params.Template, elements)

	scene := domain.Scene{
		Name:            params.Name,
		Template:        params.Template,
		Elements:        elements,
		TotalDurationMs: latestElementEnd(elements),
	}

	if err := ValidateScene(scene); err != nil {
		return domain.Scene{}, fmt.Errorf("failed to build %s scene: %w", params.Template, err)
	}

	return scene, nil
}

// BuildSceneFromAnalysis maps the language-model analysis of a free text onto
// the template it suggested.
func BuildSceneFromAnalysis(analysis *domain.Analysis, style Style, canvasWidth, canvasHeight int) (domain.Scene, error) {
	lines := []string{analysis.Title}
	switch analysis.SuggestedStructure {
	case domain.SceneTemplatePresentation:
		if len(analysis.KeyConcepts) > 0 {
			lines = append(lines, analysis.KeyConcepts[0])
		}
		lines = append(lines, analysis.MainIdeas...)
	case domain.SceneTemplateMindmap, domain.SceneTemplateTimeline:
		lines = append(lines, analysis.MainIdeas...)
	default:
		return domain.Scene{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, analysis.SuggestedStructure)
	}

	return BuildScene(&BuildSceneParams{
		Name:         analysis.Title,
		Template:     analysis.SuggestedStructure,
		Lines:        lines,
		Style:        style,
		CanvasWidth:  canvasWidth,
		CanvasHeight: canvasHeight,
	})
}

func presentationElements(lines []string, style Style, canvasWidth int) []domain.SceneElement {
	x := alignedX(style.Alignment, canvasWidth)

	elements := []domain.SceneElement{{
		Kind:  domain.ElementKindText,
		Text:  lines[0],
		X:     x,
		Y:     canvasMargin + style.FontSize,
		Size:  style.FontSize + 10,
		Color: style.Color,
	}}

	if len(lines) > 1 {
		elements = append(elements, domain.SceneElement{
			Kind:  domain.ElementKindText,
			Text:  lines[1],
			X:     x,
			Y:     canvasMargin + style.FontSize + bulletLineSpacing,
			Size:  style.FontSize,
			Color: style.Color,
		})
	}

	bulletTop := canvasMargin + style.FontSize + 2*bulletLineSpacing
	for i, line := range lines[2:] {
		elements = append(elements, domain.SceneElement{
			Kind:  domain.ElementKindBullet,
			Text:  line,
			X:     canvasMargin,
			Y:     bulletTop + i*bulletLineSpacing,
			Size:  style.FontSize,
			Color: style.Color,
		})
	}

	return elements
}

func mindmapElements(lines []string, style Style, canvasWidth, canvasHeight int) []domain.SceneElement {
	centerX := canvasWidth / 2
	centerY := canvasHeight / 2

	elements := []domain.SceneElement{{
		Kind:   domain.ElementKindCircle,
		Text:   lines[0],
		X:      centerX,
		Y:      centerY,
		Radius: centerNodeRadius,
		Size:   style.FontSize,
		Color:  style.Color,
	}}

	satellites := lines[1:]
	for i, line := range satellites {
		// Satellites are placed clockwise starting from the top, matching the
		// arc direction circles reveal with.
		angle := (-90 + float64(i)*360/float64(len(satellites))) * math.Pi / 180

		elements = append(elements, domain.SceneElement{
			Kind:   domain.ElementKindCircle,
			Text:   line,
			X:      centerX + int(math.Round(satelliteDistance*math.Cos(angle))),
			Y:      centerY + int(math.Round(satelliteDistance*math.Sin(angle))),
			Radius: satelliteRadius,
			Size:   style.FontSize,
			Color:  style.Color,
		})
	}

	return elements
}

func timelineElements(lines []string, style Style, canvasWidth, canvasHeight int) []domain.SceneElement {
	baseY := canvasHeight / 2

	elements := []domain.SceneElement{
		{
			Kind:  domain.ElementKindText,
			Text:  lines[0],
			X:     alignedX(style.Alignment, canvasWidth),
			Y:     canvasMargin + style.FontSize,
			Size:  style.FontSize + 10,
			Color: style.Color,
		},
		{
			Kind:  domain.ElementKindLine,
			X:     canvasMargin,
			Y:     baseY,
			X2:    canvasWidth - canvasMargin,
			Y2:    baseY,
			Size:  2,
			Color: style.Color,
		},
	}

	events := lines[1:]
	for i, line := range events {
		x := eventX(i, len(events), canvasWidth)

		elements = append(elements,
			domain.SceneElement{
				Kind:  domain.ElementKindLine,
				X:     x,
				Y:     baseY - markerTickHeight,
				X2:    x,
				Y2:    baseY + markerTickHeight,
				Size:  2,
				Color: style.Color,
			},
			domain.SceneElement{
				Kind:  domain.ElementKindText,
				Text:  line,
				X:     x,
				Y:     baseY + markerTickHeight + bulletLineSpacing/2,
				Size:  style.FontSize - 2,
				Color: style.Color,
			},
		)
	}

	return elements
}

func assignTiming(template domain.SceneTemplate, elements []domain.SceneElement) {
	for i := range elements {
		var offsetMs, durationMs int

		switch template {
		case domain.SceneTemplatePresentation:
			switch i {
			case 0:
				offsetMs, durationMs = 0, presentationTitleDurationMs
			case 1:
				offsetMs, durationMs = presentationTitleDurationMs, presentationDetailDurationMs
			default:
				offsetMs = presentationTitleDurationMs + presentationDetailDurationMs*(i-2)
				durationMs = presentationDetailDurationMs
			}

		case domain.SceneTemplateMindmap:
			if i == 0 {
				offsetMs, durationMs = 0, mindmapCenterDurationMs
			} else {
				offsetMs = mindmapCenterDurationMs + mindmapSatelliteDurationMs*(i-1)
				durationMs = mindmapSatelliteDurationMs
			}

		case domain.SceneTemplateTimeline:
			switch i {
			case 0:
				offsetMs, durationMs = 0, timelineTitleDurationMs
			case 1:
				offsetMs, durationMs = timelineTitleDurationMs, timelineBaseDurationMs
			default:
				offsetMs = timelineTitleDurationMs + timelineBaseDurationMs + timelineMarkerDurationMs*(i-2)
				durationMs = timelineMarkerDurationMs
			}
		}

		elements[i].StartOffsetMs = offsetMs
		elements[i].RevealDurationMs = durationMs
	}
}

func latestElementEnd(elements []domain.SceneElement) int {
	latest := 0
	for _, el := range elements {
		if end := el.StartOffsetMs + el.RevealDurationMs; end > latest {
			latest = end
		}
	}

	return latest
}

func alignedX(alignment string, canvasWidth int) int {
	switch alignment {
	case AlignLeft:
		return canvasMargin
	case AlignRight:
		return canvasWidth - canvasMargin
	default:
		return canvasWidth / 2
	}
}

func eventX(i, count, canvasWidth int) int {
	if count == 1 {
		return canvasWidth / 2
	}

	usable := canvasWidth - 2*canvasMargin
	return canvasMargin + i*usable/(count-1)
}
