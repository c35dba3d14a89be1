package play

import "time"

// AudioClock is the authoritative playback position, usually the audio
// track being played.
type AudioClock interface {
	Position() time.Duration
	Playing() bool
}

// Lengther is implemented by clocks that know how long the song is.
type Lengther interface {
	Length() time.Duration
}

// Clock follows an AudioClock. While playing it snaps to the audio
// position; while paused it eases toward it so that seeking slides instead
// of jumping.
type Clock struct {
	Seconds float64
	Playing bool
}

// Advance moves the clock after dtMillis of wall time.
func (c *Clock) Advance(audio float64, playing bool, dtMillis float64) {
	c.Playing = playing
	f := 1.0
	if !playing {
		f = dtMillis / 100
		if f > 1 {
			f = 1
		}
		if f < 0 {
			f = 0
		}
	}
	c.Seconds += (audio - c.Seconds) * f
}
