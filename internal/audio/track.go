package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Track is the song being played. Its position is the authoritative
// playback clock.
type Track struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	// rate speeds playback up by running the speaker faster than the
	// song's own sample rate.
	rate    float64
	started bool
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}
	f.Close()
	return nil, beep.Format{}, fmt.Errorf("unsupported audio file %v", path)
}

// Open decodes the song at path. rate 1 plays at normal speed.
func Open(path string, rate float64) (*Track, error) {
	streamer, format, err := decode(path)
	if nil != err {
		return nil, fmt.Errorf("unable to decode %v: %w", path, err)
	}
	return newTrack(streamer, format, rate), nil
}

func newTrack(streamer beep.StreamSeekCloser, format beep.Format, rate float64) *Track {
	if rate <= 0 {
		rate = 1
	}
	return &Track{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: streamer, Paused: true},
		rate:     rate,
	}
}

// SampleRate is the rate the speaker runs at.
func (t *Track) SampleRate() beep.SampleRate {
	return beep.SampleRate(math.Round(float64(t.format.SampleRate) * t.rate))
}

// Start opens the speaker and begins playback after delay.
func (t *Track) Start(delay time.Duration) error {
	sr := t.SampleRate()
	if err := speaker.Init(sr, sr.N(time.Second/60)); nil != err {
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	speaker.Play(t.ctrl)
	go func() {
		time.Sleep(delay)
		speaker.Lock()
		t.started = true
		t.ctrl.Paused = false
		speaker.Unlock()
	}()
	return nil
}

// Position is the song time, independent of the playback rate.
func (t *Track) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return t.format.SampleRate.D(t.streamer.Position())
}

func (t *Track) Length() time.Duration {
	return t.format.SampleRate.D(t.streamer.Len())
}

func (t *Track) Playing() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return t.started && !t.ctrl.Paused && t.streamer.Position() < t.streamer.Len()
}

// Toggle pauses or resumes playback.
func (t *Track) Toggle() {
	speaker.Lock()
	t.started = true
	t.ctrl.Paused = !t.ctrl.Paused
	speaker.Unlock()
}

// Seek moves playback by d, clamped to the song.
func (t *Track) Seek(d time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()
	pos := t.streamer.Position() + t.format.SampleRate.N(d)
	if pos < 0 {
		pos = 0
	}
	if pos >= t.streamer.Len() {
		pos = t.streamer.Len() - 1
	}
	if pos < 0 {
		return nil
	}
	return t.streamer.Seek(pos)
}

func (t *Track) Close() error {
	speaker.Lock()
	t.ctrl.Paused = true
	speaker.Unlock()
	return t.streamer.Close()
}
