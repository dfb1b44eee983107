package timeline

import (
	"errors"
	"sync"
	"time"

	"github.com/scenecast/server/internal/domain"
)

var ErrSceneIndexOutOfRange = errors.New("scene index out of range")

// Player owns one scene catalog and one clock. The catalog is read by the
// render path and written by the authoring path; callers must cancel the
// frame pump before any mutation that redirects playback (scene switch or
// regeneration), so a stale in-flight tick can never render against the old
// element list. All methods are safe for concurrent use.
type Player struct {
	mu     sync.Mutex
	scenes []domain.Scene
	active int
	clock  *Clock
}

// NewPlayer creates a stopped player over an initial scene catalog. The scene
// must already be validated by its builder. A nil now falls back to time.Now.
func NewPlayer(initial domain.Scene, now func() time.Time) *Player {
	return &Player{
		scenes: []domain.Scene{initial},
		clock:  NewClock(time.Duration(initial.TotalDurationMs)*time.Millisecond, now),
	}
}

func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock.Play()
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock.Pause()
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock.Stop()
}

func (p *Player) SeekMs(positionMs int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock.SeekMs(positionMs)
}

// SeekPercent seeks to a fraction of the active scene's duration, percent in
// [0,100] (clamped like any other seek).
func (p *Player) SeekPercent(percent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	totalMs := p.scenes[p.active].TotalDurationMs
	p.clock.SeekMs(int(percent / 100 * float64(totalMs)))
}

func (p *Player) StepMs(deltaMs int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock.StepMs(deltaMs)
}

func (p *Player) SetSpeed(speed float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock.SetSpeed(speed)
}

// SelectScene switches the active scene, resetting the clock to stopped at
// position zero.
func (p *Player) SelectScene(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.scenes) {
		return ErrSceneIndexOutOfRange
	}

	p.active = index
	p.clock.SetTotal(time.Duration(p.scenes[index].TotalDurationMs) * time.Millisecond)

	return nil
}

// AddScene appends a scene to the catalog and returns its index. Playback of
// the active scene is unaffected.
func (p *Player) AddScene(scene domain.Scene) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.scenes = append(p.scenes, scene)

	return len(p.scenes) - 1
}

// ReplaceActiveScene swaps the active scene's content for a regenerated one
// and resets the clock.
func (p *Player) ReplaceActiveScene(scene domain.Scene) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.scenes[p.active] = scene
	p.clock.SetTotal(time.Duration(scene.TotalDurationMs) * time.Millisecond)
}

// Frame samples the active scene at the clock's current position.
func (p *Player) Frame() domain.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsedMs := p.clock.ElapsedMs()
	scene := p.scenes[p.active]

	return domain.Frame{
		SceneIndex:   p.active,
		ElapsedMs:    elapsedMs,
		IsPlaying:    p.clock.State() == StatePlaying,
		Instructions: RenderScene(scene, elapsedMs),
	}
}

// State builds the read model exposed to UI clients.
func (p *Player) State() domain.PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()

	scene := p.scenes[p.active]

	return domain.PlayerState{
		ActiveSceneIndex: p.active,
		SceneCount:       len(p.scenes),
		SceneName:        scene.Name,
		ElapsedMs:        p.clock.ElapsedMs(),
		TotalDurationMs:  scene.TotalDurationMs,
		IsPlaying:        p.clock.State() == StatePlaying,
		Speed:            p.clock.Speed(),
		Markers:          SceneMarkers(scene),
	}
}

func (p *Player) SceneCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.scenes)
}
