package domain

// PlayerState is the read model of one player session, sent to UI clients on
// connect and after every control operation.
type PlayerState struct {
	ActiveSceneIndex int      `json:"active_scene_index"`
	SceneCount       int      `json:"scene_count"`
	SceneName        string   `json:"scene_name"`
	ElapsedMs        int      `json:"elapsed_ms"`
	TotalDurationMs  int      `json:"total_duration_ms"`
	IsPlaying        bool     `json:"is_playing"`
	Speed            float64  `json:"speed"`
	Markers          []Marker `json:"markers"`
}
