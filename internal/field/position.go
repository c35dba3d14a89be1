package field

import (
	"git.lost.host/meutraa/scanline/internal/game"
)

type Mode int

const (
	// ModeScanline scrolls a scan line across fixed pages.
	ModeScanline Mode = iota
	// ModeBandori drops notes toward a fixed judgement line.
	ModeBandori
)

func (m Mode) String() string {
	if m == ModeBandori {
		return "bandori"
	}
	return "scanline"
}

const (
	DefaultBandoriSpeed = 9.6
	anchorShift         = 23 // reference pixels the field sits below centre
)

// Resolver maps chart coordinates onto the canvas.
type Resolver struct {
	Layout
	Mode         Mode
	BandoriSpeed float64
}

func (r *Resolver) modeHeight(p *game.Page) float64 {
	if r.Mode == ModeBandori {
		return r.FieldHeight
	}
	scale, _ := p.Warp()
	return r.FieldHeight * scale
}

// Anchors returns the top and bottom y of page p, with its warp applied.
func (r *Resolver) Anchors(p *game.Page) (top, bottom float64) {
	h := r.modeHeight(p)
	bottom = r.Height/2 + h/2 + anchorShift*r.Ratio
	top = r.Height - (r.Height/2 + h/2) + anchorShift*r.Ratio
	if r.Mode == ModeBandori {
		return top, bottom
	}
	_, offset := p.Warp()
	top -= r.FieldHeight / 2 * offset
	bottom -= r.FieldHeight / 2 * offset
	return top, bottom
}

// StayTicks is the bandori fall rate divisor for the current speed.
func (r *Resolver) StayTicks() float64 {
	speed := r.BandoriSpeed
	if speed < 1 {
		speed = 1
	}
	if speed > 11 {
		speed = 11
	}
	return 5.5 - (speed-1)/2
}

// YPosition returns the canvas y of tick on page p while the playhead is at
// currentTick. In scanline mode the result is independent of currentTick.
func (r *Resolver) YPosition(p *game.Page, tick, currentTick int) float64 {
	top, bottom := r.Anchors(p)
	if r.Mode == ModeBandori {
		return bottom - (float64(tick-currentTick)/r.StayTicks()*0.85)*r.Ratio
	}
	switch p.ScanLineDirection {
	case game.DirectionStationary:
		return (top + bottom) / 2
	case game.DirectionUp:
		return bottom - float64(tick-p.StartTick)*(bottom-top)/float64(p.TickLength())
	}
	return top + float64(tick-p.StartTick)*(bottom-top)/float64(p.TickLength())
}

// ModeWidth is the horizontal extent notes are spread across.
func (r *Resolver) ModeWidth() float64 {
	if r.Mode == ModeBandori {
		return r.FieldWidth * 0.8
	}
	return r.FieldWidth
}

// X maps a lane position in [0, 1] to a canvas x.
func (r *Resolver) X(x float64) float64 {
	w := r.ModeWidth()
	return (r.Width-w)/2 + x*w
}

// Edges returns the canvas edges a long hold spans on a page travelling in
// direction: the edge the scan line leaves and the one it heads for.
func (r *Resolver) Edges(direction int) (from, to float64) {
	if direction == game.DirectionUp {
		return r.Height, 0
	}
	return 0, r.Height
}
