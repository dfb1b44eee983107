package domain

type ElementKind string

const (
	ElementKindText   ElementKind = "text"
	ElementKindBullet ElementKind = "bullet"
	ElementKindCircle ElementKind = "circle"
	ElementKindLine   ElementKind = "line"
)

type SceneTemplate string

const (
	SceneTemplatePresentation SceneTemplate = "presentation"
	SceneTemplateMindmap      SceneTemplate = "mindmap"
	SceneTemplateTimeline     SceneTemplate = "timeline"
)

// SceneElement is one visual primitive with its own reveal window. Timing is
// assigned once at scene construction, never derived from the element index at
// render time.
type SceneElement struct {
	Kind ElementKind `json:"kind"`

	X      int `json:"x"`
	Y      int `json:"y"`
	X2     int `json:"x2,omitempty"`
	Y2     int `json:"y2,omitempty"`
	Radius int `json:"radius,omitempty"`

	Text  string `json:"text,omitempty"`
	Size  int    `json:"size"`
	Color string `json:"color"`

	StartOffsetMs    int `json:"start_offset_ms"`
	RevealDurationMs int `json:"reveal_duration_ms"`
}

type Scene struct {
	Name            string         `json:"name"`
	Template        SceneTemplate  `json:"template"`
	Elements        []SceneElement `json:"elements"`
	TotalDurationMs int            `json:"total_duration_ms"`
}

// Marker annotates the UI timeline with one entry per element.
type Marker struct {
	TimeMs int    `json:"time_ms"`
	Color  string `json:"color"`
	Label  string `json:"label"`
}
