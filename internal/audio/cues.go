package audio

import (
	"io"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

// tone is a sine at freq Hz that decays to silence over length.
func tone(sr beep.SampleRate, freq float64, length time.Duration) beep.Streamer {
	total := sr.N(length)
	n := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if n >= total {
			return 0, false
		}
		i := 0
		for ; i < len(samples) && n < total; i++ {
			env := 1 - float64(n)/float64(total)
			v := math.Sin(2*math.Pi*freq*float64(n)/float64(sr)) * env * env
			samples[i] = [2]float64{v, v}
			n++
		}
		return i, true
	})
}

// Cues plays the short sounds that accompany notes. It satisfies the
// session's feedback interface.
type Cues struct {
	sr   beep.SampleRate
	bell io.Writer // receives a terminal bell in place of vibration
}

func NewCues(t *Track, bell io.Writer) *Cues {
	return &Cues{sr: t.SampleRate(), bell: bell}
}

func (c *Cues) play(s beep.Streamer) {
	speaker.Play(&effects.Volume{Streamer: s, Base: 2, Volume: -2})
}

func (c *Cues) Click() {
	c.play(tone(c.sr, 1760, 40*time.Millisecond))
}

func (c *Cues) Vibrate(time.Duration) {
	if nil != c.bell {
		c.bell.Write([]byte("\a"))
	}
}

func (c *Cues) Million() {
	gap := c.sr.N(90 * time.Millisecond)
	c.play(beep.Seq(
		tone(c.sr, 523.25, 200*time.Millisecond), beep.Silence(gap),
		tone(c.sr, 659.25, 200*time.Millisecond), beep.Silence(gap),
		tone(c.sr, 783.99, 400*time.Millisecond),
	))
}
