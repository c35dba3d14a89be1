package play

import (
	"fmt"
	"math"
	"strings"
	"time"

	"git.lost.host/meutraa/scanline/internal/game"
	"git.lost.host/meutraa/scanline/internal/render"
	"git.lost.host/meutraa/scanline/internal/score"
)

const (
	comboFlashLength = 1500.0 // milliseconds
	guidePeriod      = 1500
	uiFadeLength     = 2000.0
	flashLength      = 5000.0
	bannerLength     = 1500.0
	comboBumpLength  = 300.0
)

func clamp01(v float64) float64 {
	return clamp(0, 1, v)
}

func (s *Session) renderBack() {
	if nil == s.chart {
		return
	}
	t := s.scorer.Tally(s.chart, s.currentTick, s.opts.ComboStep)
	if t.Milestone <= 0 {
		return
	}
	progress := (s.chartMillis() - s.chart.TickToTime(t.MilestoneTick)) / comboFlashLength
	if progress <= 1 {
		s.canvas.ComboFlash(render.ComboFlash{Combo: t.Milestone, Progress: progress})
	}
}

func (s *Session) renderNotes() {
	if nil == s.chart {
		return
	}
	c := s.chart
	cur := s.currentTick
	page := c.PageAt(cur)

	top, bottom := s.field.Anchors(&game.Page{})
	g := render.Guides{
		Top:    top,
		Bottom: bottom,
		Phase:  float64(s.elapsed.Milliseconds()%guidePeriod) / guidePeriod,
	}
	rbp := 1.0
	if page.StartTick != 0 {
		rbp = clamp01(float64(cur-page.StartTick) / float64(page.TickLength()))
	}
	pulse := math.Pow(1-rbp, 10)
	switch page.ScanLineDirection {
	case game.DirectionDown:
		g.TopPulse = pulse
	case game.DirectionUp:
		g.BottomPulse = pulse
	}
	s.canvas.Guides(g)

	var holds, slides, others []int
	for i := len(c.Notes) - 1; i >= 0; i-- {
		switch c.Notes[i].Kind {
		case game.KindHold, game.KindLongHold:
			holds = append(holds, i)
		case game.KindSlide:
			slides = append(slides, i)
		case game.KindSlideNode:
			// stepped by their slide
		default:
			others = append(others, i)
		}
	}
	for _, i := range holds {
		s.updateNote(i)
	}
	for _, i := range slides {
		if s.active(i) {
			if err := safely(func() error { return s.drawPath(i) }); nil != err {
				s.reportNote(i, err)
			}
		}
	}
	for _, i := range slides {
		for _, w := range c.Waypoints(i) {
			s.updateNote(w)
		}
		s.updateNote(i)
	}
	for _, i := range others {
		s.updateNote(i)
	}
}

// scanlineState replays the scan line events up to the current tick.
func (s *Session) scanlineState() (alpha, mutate float64) {
	c := s.chart
	cur := s.currentTick
	now := s.chartMillis()

	first := &c.Pages[0]
	mt := float64(first.TickLength()) * 2 / 3
	alpha = 1
	mutate = math.Max(0, mt-float64(cur-first.StartTick)) / mt

	for k := range c.Events {
		e := &c.Events[k]
		if e.Tick > cur {
			break
		}
		if e.Type < game.EventScanlineHide || e.Type > game.EventScanlineMutateOut {
			continue
		}
		// scan line events address layers by digit, the line is layer 4
		if !strings.Contains(e.Args, "4") {
			continue
		}
		progress := clamp01((now - c.TickToTime(e.Tick)) / uiFadeLength)
		switch e.Type {
		case game.EventScanlineHide:
			alpha = 0
		case game.EventScanlineShow:
			alpha = 1
		case game.EventScanlineFadeIn:
			alpha = progress
		case game.EventScanlineFadeOut:
			alpha = 1 - progress
		case game.EventScanlineMutateIn:
			mutate = 1 - progress
		case game.EventScanlineMutateOut:
			mutate = progress
		}
	}
	return alpha, mutate
}

func (s *Session) renderUI() {
	if nil == s.chart {
		s.canvas.HUD(render.HUD{Loading: true, Paused: !s.clock.Playing})
		return
	}
	c := s.chart
	cur := s.currentTick
	now := s.chartMillis()

	alpha, mutate := s.scanlineState()
	y := s.y(c.PageAt(cur), cur)
	if mutate > 0 {
		h := s.field.Height / 2
		y = h - (h-y)*(1-mutate)
	}
	line := render.Scanline{Y: y, Alpha: alpha, Mutate: mutate}

	latest := -1
	for k := range c.Events {
		e := &c.Events[k]
		if e.Tick > cur {
			break
		}
		if !e.Flashes() {
			continue
		}
		latest = k
		d := now - c.TickToTime(e.Tick)
		if d < 0 || d > flashLength {
			continue
		}
		a := 1.0
		if d < 500 {
			a = d / 500
		} else if d > 4000 {
			a = 1 - (d-4000)/1000
		}
		line.Flashes = append(line.Flashes, render.Flash{Color: e.Color(), Alpha: a})
	}
	s.canvas.Scanline(line)

	if latest >= 0 {
		e := &c.Events[latest]
		d := now - c.TickToTime(e.Tick)
		if d >= 0 && d < bannerLength {
			b := render.Banner{Text: e.Text(), Color: e.Color(), Alpha: 1}
			if d <= 450 || d > 1150 {
				if int(d)%70 >= 35 {
					b.Alpha = 0
				}
			}
			if d > 450 {
				b.Spacing = math.Pow((d-450)/1150, 4) * 80 * s.field.Ratio
			}
			s.canvas.Banner(b)
		}
	}

	t := s.scorer.Tally(c, cur, s.opts.ComboStep)
	bump := 0.0
	if t.LastClearTick >= 0 {
		bump = clamp01((now - c.TickToTime(t.LastClearTick)) / comboBumpLength)
	}
	sc := s.scorer.Score(t.Cleared, len(c.Notes))
	hud := render.HUD{
		Score:      sc,
		Combo:      t.Cleared,
		ComboScale: (1-math.Pow(bump, 0.25))/4.5 + 1,
		Title:      c.Meta.Title,
		Difficulty: c.Meta.Difficulty,
		ThemeColor: c.Meta.ThemeColor,
		Paused:     !s.clock.Playing,
	}
	if t.LastClearTick < 0 {
		hud.ComboScale = 1
	}
	if l, ok := s.audio.(Lengther); ok && l.Length() > 0 {
		hud.Progress = clamp01(float64(s.PlaybackTime()) / float64(l.Length()))
	}
	s.canvas.HUD(hud)

	if s.lastScore < sc && sc == score.MaxScore && s.clock.Playing && s.opts.Million {
		s.effects = append(s.effects, &millionEffect{start: now})
		s.feedback.Million()
	}
	s.lastScore = sc
}

func (s *Session) renderDebug() {
	lines := s.log.Lines()
	out := make([]string, 0, len(lines)+2)
	for _, l := range lines {
		out = append(out, l.String())
	}
	if nil != s.chart {
		out = append(out, fmt.Sprintf("[Chart] tick %v page %v", s.currentTick, s.chart.PageIndex(s.currentTick)))
	}
	out = append(out, fmt.Sprintf("[Clock] %v", s.PlaybackTime().Round(time.Millisecond)))
	s.canvas.Debug(out)
}
