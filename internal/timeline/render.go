package timeline

import (
	"math"

	"github.com/scenecast/server/internal/domain"
)

// Circle arcs sweep clockwise starting from the top of the circle.
const arcStartDeg = -90

// Render computes the draw instruction for one element at the given elapsed
// scene time. The second return value is false when the element's reveal
// window has not opened yet, meaning the element is entirely absent this
// frame, not an empty shape.
func Render(el domain.SceneElement, elapsedMs int) (domain.DrawInstruction, bool) {
	if elapsedMs < el.StartOffsetMs {
		return domain.DrawInstruction{}, false
	}

	progress := float64(elapsedMs-el.StartOffsetMs) / float64(el.RevealDurationMs)
	eased := Ease(progress)

	instruction := domain.DrawInstruction{
		Kind:  el.Kind,
		X:     el.X,
		Y:     el.Y,
		Size:  el.Size,
		Color: el.Color,
	}

	switch el.Kind {
	case domain.ElementKindText, domain.ElementKindBullet:
		runes := []rune(el.Text)
		visible := int(eased * float64(len(runes)))
		instruction.Text = string(runes[:visible])

	case domain.ElementKindCircle:
		instruction.Radius = el.Radius
		instruction.ArcStartDeg = arcStartDeg
		instruction.ArcSweepDeg = eased * 360
		// The center label is a binary reveal, not eased itself.
		if eased > 0.5 {
			instruction.Text = el.Text
		}

	case domain.ElementKindLine:
		instruction.X2 = el.X + int(math.Round(eased*float64(el.X2-el.X)))
		instruction.Y2 = el.Y + int(math.Round(eased*float64(el.Y2-el.Y)))
	}

	return instruction, true
}

// RenderScene samples every element of a scene at the given elapsed time.
// Elements whose reveal window has not opened are omitted entirely.
func RenderScene(scene domain.Scene, elapsedMs int) []domain.DrawInstruction {
	instructions := make([]domain.DrawInstruction, 0, len(scene.Elements))
	for _, el := range scene.Elements {
		if instruction, drawn := Render(el, elapsedMs); drawn {
			instructions = append(instructions, instruction)
		}
	}

	return instructions
}
