package play

import (
	"fmt"
	"math/rand"
	"time"

	"git.lost.host/meutraa/scanline/internal/field"
	"git.lost.host/meutraa/scanline/internal/game"
	"git.lost.host/meutraa/scanline/internal/log"
	"git.lost.host/meutraa/scanline/internal/render"
	"git.lost.host/meutraa/scanline/internal/score"
)

type Options struct {
	MaxFPS       float64
	Mode         field.Mode
	BandoriSpeed float64
	PixelRatio   float64
	NoteSize     float64
	ComboStep    int
	ClickSound   bool
	Haptics      bool
	// Million plays the celebration when the score first reaches the
	// maximum during playback.
	Million bool
	Debug   bool
}

func DefaultOptions() Options {
	return Options{
		MaxFPS:       300,
		Mode:         field.ModeScanline,
		BandoriSpeed: field.DefaultBandoriSpeed,
		PixelRatio:   1,
		NoteSize:     1,
		ComboStep:    25,
		Million:      true,
	}
}

// Feedback receives one-shot cues. Implementations must not block.
type Feedback interface {
	Click()
	Vibrate(d time.Duration)
	Million()
}

type silent struct{}

func (silent) Click() {}

func (silent) Vibrate(time.Duration) {}

func (silent) Million() {}

// Session plays one chart against an audio clock and draws it onto a
// canvas. Hosts call Tick from their frame loop.
type Session struct {
	opts     Options
	canvas   render.Canvas
	audio    AudioClock
	feedback Feedback
	log      *log.Logger
	scorer   score.Scorer
	rand     *rand.Rand

	field field.Resolver
	chart *game.Chart
	notes []noteState

	clock       Clock
	currentTick int
	elapsed     time.Duration
	pending     time.Duration
	effects     []Effect
	lastScore   int

	fpsLine, warnLine, resLine, audioLine *log.Line
}

func NewSession(canvas render.Canvas, audio AudioClock, logger *log.Logger, opts Options) *Session {
	if opts.MaxFPS <= 0 {
		opts.MaxFPS = DefaultOptions().MaxFPS
	}
	if opts.ComboStep <= 0 {
		opts.ComboStep = DefaultOptions().ComboStep
	}
	if opts.NoteSize <= 0 {
		opts.NoteSize = 1
	}
	if nil == logger {
		logger = log.Discard()
	}
	s := &Session{
		opts:     opts,
		canvas:   canvas,
		audio:    audio,
		feedback: silent{},
		log:      logger,
		scorer:   &score.DefaultScorer{},
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	logger.SetClock(func() time.Duration { return s.elapsed })
	s.fpsLine = logger.Pin("Renderer", "FPS: 0")
	s.warnLine = logger.Pin("Renderer", "Frame rate is below 20 FPS")
	s.warnLine.Hidden = true
	s.resLine = logger.Pin("Renderer", "Resolution: unknown")
	s.audioLine = logger.Pin("Audio", "Audio is paused")
	s.resize()
	return s
}

func (s *Session) SetFeedback(f Feedback) {
	if nil == f {
		f = silent{}
	}
	s.feedback = f
}

func (s *Session) SetScorer(sc score.Scorer) {
	s.scorer = sc
}

// Load prepares c and makes it the current chart. A chart that fails
// validation leaves the current one in place.
func (s *Session) Load(c *game.Chart) error {
	if err := c.Prepare(); nil != err {
		s.log.Errorf("unable to load chart: %v", err)
		return err
	}
	s.chart = c
	s.notes = make([]noteState, len(c.Notes))
	s.effects = nil
	s.lastScore = 0
	s.currentTick = c.TimeToTick(s.chartMillis())
	s.log.Tagf("Chart", "Loaded %q: %v notes on %v pages", c.Meta.Title, len(c.Notes), len(c.Pages))
	return nil
}

func (s *Session) Chart() *game.Chart {
	return s.chart
}

func (s *Session) CurrentTick() int {
	return s.currentTick
}

// PlaybackTime is the smoothed audio position.
func (s *Session) PlaybackTime() time.Duration {
	return time.Duration(s.clock.Seconds * float64(time.Second))
}

func (s *Session) Options() Options {
	return s.opts
}

func (s *Session) SetMode(m field.Mode) {
	s.opts.Mode = m
	s.field.Mode = m
}

func (s *Session) SetBandoriSpeed(speed float64) {
	s.opts.BandoriSpeed = speed
	s.field.BandoriSpeed = speed
}

func (s *Session) SetDebug(debug bool) {
	s.opts.Debug = debug
}

func (s *Session) Logger() *log.Logger {
	return s.log
}

// chartMillis is the chart time of the smoothed clock, with the song
// offset applied.
func (s *Session) chartMillis() float64 {
	ms := s.clock.Seconds * 1000
	if nil != s.chart {
		ms -= s.chart.Meta.Offset
	}
	return ms
}

func (s *Session) resize() {
	w, h := s.canvas.Size()
	if w == s.field.Width && h == s.field.Height && s.field.Ratio != 0 {
		return
	}
	s.field = field.Resolver{
		Layout:       field.NewLayout(w, h, s.opts.PixelRatio),
		Mode:         s.opts.Mode,
		BandoriSpeed: s.opts.BandoriSpeed,
	}
	s.resLine.Content = fmt.Sprintf("Resolution: %.0fx%.0f @ %.3fx", w, h, s.field.Ratio)
}

// Tick advances the session by delta of wall time. Frames closer together
// than the frame rate cap are skipped; Tick reports whether it drew.
func (s *Session) Tick(delta time.Duration) bool {
	s.elapsed += delta
	s.pending += delta
	if s.pending < time.Duration(float64(time.Second)/s.opts.MaxFPS) {
		return false
	}
	dt := s.pending
	s.pending = 0
	dtMillis := float64(dt) / float64(time.Millisecond)

	s.warnLine.Hidden = dtMillis < 50
	s.fpsLine.Content = fmt.Sprintf("FPS: %.2f", 1000/dtMillis)

	playing := s.audio.Playing()
	s.clock.Advance(s.audio.Position().Seconds(), playing, dtMillis)
	if playing {
		s.audioLine.Content = "Audio is playing"
	} else {
		s.audioLine.Content = "Audio is paused"
	}

	s.resize()
	if nil != s.chart {
		s.currentTick = s.chart.TimeToTick(s.chartMillis())
	}

	s.canvas.Clear()
	s.renderBack()
	s.renderNotes()
	s.renderUI()
	if s.opts.Debug {
		s.renderDebug()
	}
	s.updateEffects()
	return true
}
