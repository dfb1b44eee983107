package timeline

import "time"

type ClockState int

const (
	StateStopped ClockState = iota
	StatePlaying
	StatePaused
)

func (s ClockState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// Clock maps wall-clock time, playback speed and seek operations onto an
// elapsed position within a scene's duration.
//
// While playing, the position is always recomputed from a fixed reference
// timestamp: elapsed = (now - reference) * speed. Per-frame deltas are never
// accumulated, so variable frame rates cannot drift the position. Every
// transition that would bend the mapping (resume, seek while playing, speed
// change) recaptures the reference as now - elapsed/speed, so the position is
// continuous across it.
//
// Clock is not safe for concurrent use; the owning session serializes access.
type Clock struct {
	now func() time.Time

	state     ClockState
	speed     float64
	total     time.Duration
	elapsed   time.Duration // authoritative while not playing
	reference time.Time     // wall-clock anchor while playing
}

// NewClock creates a stopped clock over the given scene duration. A nil now
// falls back to time.Now; tests inject a fake.
func NewClock(total time.Duration, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}

	return &Clock{
		now:   now,
		speed: 1,
		total: total,
	}
}

func (c *Clock) State() ClockState { return c.state }
func (c *Clock) Speed() float64    { return c.speed }

// TotalMs returns the scene duration the clock is bounded by.
func (c *Clock) TotalMs() int {
	return int(c.total.Milliseconds())
}

// ElapsedMs returns the current position. When playback has run past the end
// of the scene the clock auto-transitions to paused, holding the position at
// the total duration (not resetting, so the final frame stays up).
func (c *Clock) ElapsedMs() int {
	if c.state == StatePlaying {
		elapsed := c.scale(c.now().Sub(c.reference))
		if elapsed >= c.total {
			c.state = StatePaused
			c.elapsed = c.total
		} else {
			c.elapsed = elapsed
		}
	}

	return int(c.elapsed.Milliseconds())
}

// Playing reports whether the clock is still advancing, applying the terminal
// transition first.
func (c *Clock) Playing() bool {
	c.ElapsedMs()
	return c.state == StatePlaying
}

// Play starts or resumes playback. Starting from stopped begins at position
// zero; resuming from paused continues from the frozen position.
func (c *Clock) Play() {
	switch c.state {
	case StatePlaying:
		return
	case StateStopped:
		c.elapsed = 0
	}

	c.reference = c.anchor()
	c.state = StatePlaying
}

// Pause freezes the position at its last computed value.
func (c *Clock) Pause() {
	if c.state != StatePlaying {
		return
	}

	c.ElapsedMs()
	c.state = StatePaused
}

// Stop resets the position to zero from any state.
func (c *Clock) Stop() {
	c.state = StateStopped
	c.elapsed = 0
}

// Seek moves the position, silently clamping to [0, total]: scrubbing past
// either end is a normal UI gesture, not an error. The play state is
// unchanged; while playing the reference is recaptured so playback continues
// smoothly from the new position.
func (c *Clock) Seek(position time.Duration) {
	if position < 0 {
		position = 0
	}
	if position > c.total {
		position = c.total
	}

	c.elapsed = position
	if c.state == StatePlaying {
		c.reference = c.anchor()
	}
}

// SeekMs is Seek with a millisecond position.
func (c *Clock) SeekMs(positionMs int) {
	c.Seek(time.Duration(positionMs) * time.Millisecond)
}

// StepMs nudges the position by a signed millisecond delta without changing
// the play state.
func (c *Clock) StepMs(deltaMs int) {
	if c.state == StatePlaying {
		c.ElapsedMs()
	}
	c.Seek(c.elapsed + time.Duration(deltaMs)*time.Millisecond)
}

// SetSpeed changes the playback multiplier. The position immediately before
// and after the change is identical: the current elapsed value is captured
// first and the reference recomputed under the new speed.
func (c *Clock) SetSpeed(speed float64) {
	if speed <= 0 || speed == c.speed {
		return
	}

	c.ElapsedMs()
	c.speed = speed
	if c.state == StatePlaying {
		c.reference = c.anchor()
	}
}

// SetTotal rebounds the clock to a new scene duration, resetting it to
// stopped at position zero. Used on scene switch and regeneration.
func (c *Clock) SetTotal(total time.Duration) {
	c.total = total
	c.Stop()
}

// anchor computes the reference timestamp such that the current elapsed value
// reproduces itself under the current speed.
func (c *Clock) anchor() time.Time {
	return c.now().Add(-time.Duration(float64(c.elapsed) / c.speed))
}

func (c *Clock) scale(real time.Duration) time.Duration {
	return time.Duration(float64(real) * c.speed)
}
