package play

import (
	"errors"
	"fmt"
	"math"
	"time"

	"git.lost.host/meutraa/scanline/internal/field"
	"git.lost.host/meutraa/scanline/internal/game"
	"git.lost.host/meutraa/scanline/internal/render"
)

const (
	maxDuration = 1750 // milliseconds a note may be shown before its tick
	// slideLinger keeps a finished slide drawn for this many ticks.
	slideLinger = 480
	hapticPulse = 15 * time.Millisecond
)

type noteState struct {
	duration    float64
	hasDuration bool
	cleared     bool
	clearTime   float64 // chart milliseconds
	clicked     bool
}

func clamp(min, max, v float64) float64 {
	return math.Max(min, math.Min(max, v))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// fade turns a note progress into its opacity and scale.
func fade(progress float64) (alpha, scale float64) {
	k := 0.5
	if progress >= 0 {
		k = 5
	}
	s := math.Max(0, 1-math.Abs(progress*k))
	if progress >= 0 {
		s = math.Pow(s, 6)
	} else {
		s = math.Max(0, s*2-1)
	}
	return s, lerp(0.5, 1, s)
}

// Duration is how long, in milliseconds, the note at index i is visible
// before its tick. It depends on where the note sits on its page and on
// the length of the two pages before it, and is computed once.
func (s *Session) Duration(i int) float64 {
	st := &s.notes[i]
	if st.hasDuration {
		return st.duration
	}
	n := &s.chart.Notes[i]
	page := &s.chart.Pages[n.PageIndex]

	before := func(idx int, next *game.Page) *game.Page {
		if idx >= 0 {
			return &s.chart.Pages[idx]
		}
		l := next.TickLength()
		return &game.Page{StartTick: next.StartTick - l, EndTick: next.StartTick}
	}
	prev := before(n.PageIndex-1, page)
	prev2 := before(n.PageIndex-2, prev)

	p := float64(n.Tick-page.StartTick) / float64(page.TickLength())
	d := s.chart.PageLength(prev2) * clamp(0, 1, 0.25-p)
	d += s.chart.PageLength(prev) * clamp(0.25, 1, 1.25-p)
	d += s.chart.PageLength(page) * p

	st.duration = clamp(0, maxDuration, d)
	st.hasDuration = true
	return st.duration
}

// ClearTime returns when the note at index i cleared, in chart
// milliseconds, while it is inside its clear window.
func (s *Session) ClearTime(i int) (float64, bool) {
	st := &s.notes[i]
	return st.clearTime, st.cleared
}

func (s *Session) active(i int) bool {
	c := s.chart
	n := &c.Notes[i]
	cur := s.currentTick
	ok := math.Abs(c.TickToTime(cur)-c.TickToTime(n.Tick)) < s.Duration(i)
	switch n.Kind {
	case game.KindSlideNode:
		return false
	case game.KindHold, game.KindLongHold:
		end := c.EndTick(i)
		ok = ok || (cur > n.Tick && cur < end+c.PageAt(end).TickLength())
	case game.KindSlide:
		ok = ok || (cur > n.Tick && cur < c.EndTick(i)+slideLinger)
	}
	return ok
}

// safely runs one draw call, turning a canvas panic into an error.
func safely(draw func() error) (err error) {
	defer func() {
		if r := recover(); nil != r {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return draw()
}

// updateNote runs one frame of the note at index i. Draw failures,
// including panics from the canvas, are logged and do not stop the frame
// or the note's clear and click bookkeeping.
func (s *Session) updateNote(i int) {
	if err := s.stepNote(i); nil != err {
		s.reportNote(i, err)
	}
}

func (s *Session) reportNote(i int, err error) {
	if errors.Is(err, render.ErrAssetUnavailable) {
		return
	}
	rerr := &RenderError{NoteID: s.chart.Notes[i].ID, Err: err}
	s.log.Tagf("Renderer", "Error while rendering %v", rerr)
}

func (s *Session) stepNote(i int) error {
	c := s.chart
	n := &c.Notes[i]
	st := &s.notes[i]
	page := &c.Pages[n.PageIndex]
	cur := s.currentTick

	var err error
	if s.active(i) {
		err = safely(func() error { return s.drawNote(i) })
	}

	judge := c.JudgeTick(i)
	if cur > judge && cur-judge < page.TickLength() {
		if !st.cleared {
			st.cleared = true
			st.clearTime = s.chartMillis()
			s.spawnJudge(i)
		}
		if n.Kind != game.KindSlideNode {
			if jerr := safely(func() error { return s.drawJudge(i) }); nil == err {
				err = jerr
			}
		}
	} else {
		st.cleared = false
	}

	if cur > n.Tick && cur-n.Tick < page.TickLength() {
		if !st.clicked {
			st.clicked = true
			if s.opts.ClickSound {
				s.feedback.Click()
			}
			if s.opts.Haptics {
				s.feedback.Vibrate(hapticPulse)
			}
		}
	} else {
		st.clicked = false
	}
	return err
}

func (s *Session) y(p *game.Page, tick int) float64 {
	return s.field.YPosition(p, tick, s.currentTick)
}

// pinned moves y onto the judgement line once a note is due in bandori
// mode.
func (s *Session) pinned(n *game.Note, y float64) float64 {
	if s.field.Mode == field.ModeBandori && s.currentTick >= n.Tick {
		return s.y(s.chart.PageAt(s.currentTick), s.currentTick)
	}
	return y
}

func (s *Session) radius(scale float64) float64 {
	return scale * 80 * s.opts.NoteSize * s.field.Ratio
}

func (s *Session) drawJudge(i int) error {
	c := s.chart
	n := &c.Notes[i]
	page := &c.Pages[n.PageIndex]
	y := s.y(page, n.Tick)
	if n.Kind == game.KindHold {
		y = s.y(page, c.EndTick(i))
	}
	if s.field.Mode == field.ModeBandori && s.currentTick >= n.Tick {
		y = s.y(c.PageAt(s.currentTick), s.currentTick) + 25*s.field.Ratio
	}
	return s.canvas.Judge(render.Judge{
		Position: render.Point{X: s.field.X(n.X), Y: y},
		Elapsed:  s.chartMillis() - s.notes[i].clearTime,
	})
}

func (s *Session) drawNote(i int) error {
	switch s.chart.Notes[i].Kind {
	case game.KindTap, game.KindFlick:
		return s.drawTap(i)
	case game.KindHold, game.KindLongHold:
		return s.drawHold(i)
	case game.KindSlide:
		return s.drawSlide(i)
	}
	return nil
}

func (s *Session) drawTap(i int) error {
	c := s.chart
	n := &c.Notes[i]
	page := &c.Pages[n.PageIndex]
	progress := (s.chartMillis() - c.TickToTime(n.Tick)) / s.Duration(i)
	alpha, scale := fade(progress)
	return s.canvas.Note(render.Sprite{
		Kind:      n.Kind,
		Position:  render.Point{X: s.field.X(n.X), Y: s.pinned(n, s.y(page, n.Tick))},
		Radius:    s.radius(scale),
		Alpha:     alpha,
		Progress:  progress,
		Direction: page.ScanLineDirection,
	})
}

// holdProgress is negative before the head, zero while held and positive
// after the end.
func (s *Session) holdProgress(i int) float64 {
	c := s.chart
	now := s.chartMillis()
	start, end := c.TickToTime(c.Notes[i].Tick), c.TickToTime(c.EndTick(i))
	switch {
	case now < start:
		return (now - start) / s.Duration(i)
	case now < end:
		return 0
	}
	return (now - end) / s.Duration(i)
}

func (s *Session) drawHold(i int) error {
	c := s.chart
	n := &c.Notes[i]
	page := &c.Pages[n.PageIndex]
	cur := s.currentTick
	end := c.EndTick(i)
	x := s.field.X(n.X)
	progress := s.holdProgress(i)
	alpha, scale := fade(progress)
	holding := cur >= n.Tick && cur < end

	if cur < end {
		body := render.HoldBody{
			Kind:      n.Kind,
			X:         x,
			StartY:    s.y(page, n.Tick),
			EndY:      s.y(page, end),
			ScanY:     s.y(page, cur),
			Direction: page.ScanLineDirection,
			Alpha:     math.Max(alpha, 0.5),
			Holding:   holding,
		}
		if n.Kind == game.KindLongHold {
			body.StartY, body.EndY = s.field.Edges(page.ScanLineDirection)
			body.ScanY = s.y(c.PageAt(cur), cur)
		}
		if err := s.canvas.HoldBody(body); nil != err {
			return err
		}
	}

	y := s.y(page, n.Tick)
	if cur > end {
		y = s.y(page, end)
	}
	sprite := render.Sprite{
		Kind:      n.Kind,
		Position:  render.Point{X: x, Y: s.pinned(n, y)},
		Radius:    s.radius(scale),
		Alpha:     alpha,
		Progress:  progress,
		Direction: page.ScanLineDirection,
		Holding:   holding,
	}
	if holding {
		sprite.HoldProgress = game.HoldProgress(n, cur)
	}
	return s.canvas.Note(sprite)
}

func (s *Session) point(i int) render.Point {
	n := &s.chart.Notes[i]
	return render.Point{X: s.field.X(n.X), Y: s.y(&s.chart.Pages[n.PageIndex], n.Tick)}
}

// CurrentPos is where the head of the slide at index i is now: on the
// segment of its path containing the current time, at the head before the
// first waypoint and at the last waypoint after the end.
func (s *Session) CurrentPos(i int) render.Point {
	c := s.chart
	now := s.chartMillis()
	prev := i
	pos := s.point(i)
	over := false
	for _, w := range c.Waypoints(i) {
		start, end := c.TickToTime(c.Notes[prev].Tick), c.TickToTime(c.Notes[w].Tick)
		if now >= start && now < end {
			a, b := s.point(prev), s.point(w)
			f := (now - start) / (end - start)
			pos = render.Point{X: lerp(a.X, b.X, f), Y: lerp(a.Y, b.Y, f)}
		}
		over = now >= end
		prev = w
	}
	if over {
		return s.point(prev)
	}
	return pos
}

func (s *Session) drawSlide(i int) error {
	c := s.chart
	n := &c.Notes[i]
	page := &c.Pages[n.PageIndex]
	cur := s.currentTick
	end := c.EndTick(i)

	held := cur
	if held < n.Tick {
		held = n.Tick
	}
	if held > end {
		held = end
	}
	progress := (s.chartMillis() - c.TickToTime(held)) / s.Duration(i)
	alpha, scale := fade(progress)

	waypoints := c.Waypoints(i)
	for k := len(waypoints) - 1; k >= 0; k-- {
		w := waypoints[k]
		node := &c.Notes[w]
		np := (s.chartMillis() - c.TickToTime(node.Tick)) / s.Duration(w)
		na, ns := fade(np)
		if err := s.canvas.Note(render.Sprite{
			Kind:      game.KindSlideNode,
			Position:  s.point(w),
			Radius:    s.radius(ns) * 0.4,
			Alpha:     na,
			Progress:  np,
			Direction: c.Pages[node.PageIndex].ScanLineDirection,
			HeadTap:   node.HeadTapRequired(),
		}); nil != err {
			return err
		}
	}

	pos := s.CurrentPos(i)
	pos.Y = s.pinned(n, pos.Y)
	angle := 0.0
	if len(waypoints) > 0 {
		next := waypoints[0]
		for _, w := range waypoints {
			if c.Notes[w].Tick > cur {
				next = w
				break
			}
		}
		to := s.point(next)
		angle = math.Atan2(to.Y-pos.Y, to.X-pos.X)
	}
	holding := cur >= n.Tick && cur < end
	radius := s.radius(scale)
	if !n.HeadTapRequired() || holding {
		radius *= 0.6
	}
	if err := s.canvas.Note(render.Sprite{
		Kind:      game.KindSlide,
		Position:  pos,
		Radius:    radius,
		Alpha:     alpha,
		Progress:  progress,
		Direction: page.ScanLineDirection,
		HeadTap:   n.HeadTapRequired(),
		Angle:     angle,
		Holding:   holding,
	}); nil != err {
		return err
	}

	for k := len(waypoints) - 1; k >= 0; k-- {
		if s.notes[waypoints[k]].cleared {
			if err := s.drawJudge(waypoints[k]); nil != err {
				return err
			}
		}
	}
	return nil
}

// drawPath draws what remains of the dashed path of the slide at index i.
func (s *Session) drawPath(i int) error {
	c := s.chart
	now := s.chartMillis()
	prevIdx := i
	prev := s.point(i)
	var path render.Path
	path.HeadTap = c.Notes[i].HeadTapRequired()
	for _, w := range c.Waypoints(i) {
		p := s.point(w)
		start, end := c.TickToTime(c.Notes[prevIdx].Tick), c.TickToTime(c.Notes[w].Tick)
		if now < end {
			if now >= start {
				prev = s.CurrentPos(i)
			}
			f := clamp(-1, 0, (now-end+s.Duration(w))/(end-start)) + 1
			if f != 1 {
				path.Segments = append(path.Segments, [2]render.Point{
					prev,
					{X: lerp(prev.X, p.X, f), Y: lerp(prev.Y, p.Y, f)},
				})
			} else {
				path.Segments = append(path.Segments, [2]render.Point{p, prev})
			}
		}
		prev = p
		prevIdx = w
	}
	if len(path.Segments) == 0 {
		return nil
	}
	return s.canvas.Path(path)
}
