package field

import "math"

// Layout holds the canvas size and the playfield derived from it.
// All sizes are in canvas pixels.
type Layout struct {
	Width, Height           float64
	FieldWidth, FieldHeight float64
	// Ratio scales reference 1920x1080 sizes to the canvas.
	Ratio float64
}

// NewLayout builds the playfield for a canvas of width x height pixels
// shown at the given device pixel ratio.
func NewLayout(width, height, pixelRatio float64) Layout {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	w := math.Max(width, height) / pixelRatio
	h := math.Min(width, height) / pixelRatio

	const widestAspect, narrowestAspect = 99999999999.0, 4.0 / 3.0
	mix := (w/h - widestAspect) / (narrowestAspect - widestAspect)
	mix = math.Max(0, math.Min(1, mix))

	l := Layout{
		Width:  width,
		Height: height,
		Ratio:  pixelRatio * lerp(h/1080, w/1920, mix),
	}
	l.FieldWidth = l.Width * 0.85
	l.FieldHeight = l.Height - 325*l.Ratio
	return l
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
