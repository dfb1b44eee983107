package domain

// DrawInstruction tells a client what fraction of an element to draw this
// frame. The surface is cleared and redrawn from scratch every frame, so each
// instruction is complete on its own.
type DrawInstruction struct {
	Kind ElementKind `json:"kind"`

	X  int `json:"x"`
	Y  int `json:"y"`
	X2 int `json:"x2,omitempty"`
	Y2 int `json:"y2,omitempty"`

	// Circle arc, degrees. Sweep grows from 0 to 360 as the element reveals.
	Radius      int     `json:"radius,omitempty"`
	ArcStartDeg float64 `json:"arc_start_deg,omitempty"`
	ArcSweepDeg float64 `json:"arc_sweep_deg,omitempty"`

	// For text kinds: the visible prefix. For circles: the center label once
	// past half reveal, empty before that.
	Text string `json:"text,omitempty"`

	Size  int    `json:"size"`
	Color string `json:"color"`
}

// Frame is one sampled tick of a player session: the elapsed position and the
// full list of instructions to redraw the surface with.
type Frame struct {
	SceneIndex   int               `json:"scene_index"`
	ElapsedMs    int               `json:"elapsed_ms"`
	IsPlaying    bool              `json:"is_playing"`
	Instructions []DrawInstruction `json:"instructions"`
}
