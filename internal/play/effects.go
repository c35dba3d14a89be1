package play

import (
	"math"

	"git.lost.host/meutraa/scanline/internal/field"
	"git.lost.host/meutraa/scanline/internal/render"
)

const (
	burstLength   = 500.0 // milliseconds
	burstSparks   = 8
	millionLength = 3000.0
)

// Effect is a short lived animation drawn above the notes until it
// finishes.
type Effect interface {
	Update(s *Session)
	Finished() bool
}

type judgeEffect struct {
	position render.Point
	start    float64
	sparks   []render.Point // unit directions scaled by speed
	progress float64
}

func (s *Session) spawnJudge(i int) {
	e := &judgeEffect{position: s.point(i), start: s.chartMillis()}
	if s.field.Mode == field.ModeBandori {
		e.position.Y = s.y(s.chart.PageAt(s.currentTick), s.currentTick)
	}
	for k := 0; k < burstSparks; k++ {
		a := s.rand.Float64() * 2 * math.Pi
		v := 0.5 + s.rand.Float64()/2
		e.sparks = append(e.sparks, render.Point{X: math.Cos(a) * v, Y: math.Sin(a) * v})
	}
	s.effects = append(s.effects, e)
}

func (e *judgeEffect) Update(s *Session) {
	e.progress = (s.chartMillis() - e.start) / burstLength
	if e.progress < 0 || e.Finished() {
		return
	}
	reach := 120 * s.field.Ratio * math.Sqrt(e.progress)
	particles := make([]render.Point, len(e.sparks))
	for k, p := range e.sparks {
		particles[k] = render.Point{X: e.position.X + p.X*reach, Y: e.position.Y + p.Y*reach}
	}
	s.canvas.Burst(render.Burst{Position: e.position, Progress: e.progress, Particles: particles})
}

// Finished also covers seeking backwards past the effect's start.
func (e *judgeEffect) Finished() bool {
	return e.progress >= 1 || e.progress < 0
}

type millionEffect struct {
	start    float64
	progress float64
}

func (e *millionEffect) Update(s *Session) {
	e.progress = (s.chartMillis() - e.start) / millionLength
	if e.Finished() {
		return
	}
	s.canvas.Celebration(render.Celebration{Progress: e.progress})
}

func (e *millionEffect) Finished() bool {
	return e.progress >= 1 || e.progress < 0
}

// Effects returns the animations still running.
func (s *Session) Effects() []Effect {
	return s.effects
}

func (s *Session) updateEffects() {
	live := s.effects[:0]
	for _, e := range s.effects {
		e.Update(s)
		if !e.Finished() {
			live = append(live, e)
		}
	}
	for k := len(live); k < len(s.effects); k++ {
		s.effects[k] = nil
	}
	s.effects = live
}
