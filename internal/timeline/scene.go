package timeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/scenecast/server/internal/domain"
)

var (
	ErrNoElements      = errors.New("scene has no elements")
	ErrInvalidElement  = errors.New("invalid scene element")
	ErrUnknownTemplate = errors.New("unknown scene template")
)

// ValidateScene checks a scene for structural errors: an empty element list,
// non-positive reveal durations, negative start offsets, or geometry a kind
// requires but the element lacks. These are producer bugs and are rejected at
// construction time so they can never surface mid-playback.
func ValidateScene(scene domain.Scene) error {
	if len(scene.Elements) == 0 {
		return ErrNoElements
	}

	latestEnd := 0
	for i, el := range scene.Elements {
		if err := validateElement(el); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}

		if end := el.StartOffsetMs + el.RevealDurationMs; end > latestEnd {
			latestEnd = end
		}
	}

	if scene.TotalDurationMs < latestEnd {
		return fmt.Errorf("%w: total duration %dms is before the latest element end %dms", ErrInvalidElement, scene.TotalDurationMs, latestEnd)
	}

	return nil
}

func validateElement(el domain.SceneElement) error {
	if el.RevealDurationMs <= 0 {
		return fmt.Errorf("%w: reveal duration must be positive", ErrInvalidElement)
	}
	if el.StartOffsetMs < 0 {
		return fmt.Errorf("%w: start offset must not be negative", ErrInvalidElement)
	}

	switch el.Kind {
	case domain.ElementKindText, domain.ElementKindBullet:
		if el.Text == "" {
			return fmt.Errorf("%w: %s element without text", ErrInvalidElement, el.Kind)
		}
	case domain.ElementKindCircle:
		if el.Radius <= 0 {
			return fmt.Errorf("%w: circle without radius", ErrInvalidElement)
		}
	case domain.ElementKindLine:
		if el.X == el.X2 && el.Y == el.Y2 {
			return fmt.Errorf("%w: line without a second endpoint", ErrInvalidElement)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidElement, el.Kind)
	}

	return nil
}

// SceneMarkers derives one UI timeline marker per element, sorted by start
// offset.
func SceneMarkers(scene domain.Scene) []domain.Marker {
	markers := make([]domain.Marker, 0, len(scene.Elements))
	for _, el := range scene.Elements {
		markers = append(markers, domain.Marker{
			TimeMs: el.StartOffsetMs,
			Color:  el.Color,
			Label:  markerLabel(el),
		})
	}

	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].TimeMs < markers[j].TimeMs
	})

	return markers
}

func markerLabel(el domain.SceneElement) string {
	if el.Text != "" {
		return el.Text
	}

	return string(el.Kind)
}
