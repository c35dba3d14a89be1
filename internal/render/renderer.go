package render

import (
	"errors"

	"git.lost.host/meutraa/scanline/internal/game"
)

// ErrAssetUnavailable is returned by a Canvas that cannot draw something
// yet, such as a texture still loading. Callers skip the draw silently.
var ErrAssetUnavailable = errors.New("asset unavailable")

type Point struct {
	X, Y float64
}

// Sprite is a note head.
type Sprite struct {
	Kind      game.Kind
	Position  Point
	Radius    float64
	Alpha     float64
	Progress  float64 // negative while approaching
	Direction int     // scan line direction of the note's page
	HeadTap   bool
	Angle     float64 // slides face their next waypoint, in radians
	Holding   bool
	// HoldProgress is how much of a hold has elapsed, drawn as a ring.
	HoldProgress float64
}

// HoldBody is the bar of a hold between its head and its end.
type HoldBody struct {
	Kind      game.Kind
	X         float64
	StartY    float64
	EndY      float64
	ScanY     float64
	Direction int
	Alpha     float64
	Holding   bool
}

// Path is the dashed guide of a slide, already trimmed to what remains.
type Path struct {
	Segments [][2]Point
	HeadTap  bool
}

type Judge struct {
	Position Point
	Elapsed  float64 // milliseconds since the note cleared
}

type Flash struct {
	Color string
	Alpha float64
}

type Scanline struct {
	Y       float64
	Alpha   float64
	Mutate  float64 // 0 is a steady line, 1 fully collapsed
	Flashes []Flash
}

type Banner struct {
	Text    string
	Color   string
	Alpha   float64
	Spacing float64
}

// Guides are the dashed lines at the top and bottom of the field.
type Guides struct {
	Top, Bottom           float64
	TopPulse, BottomPulse float64
	Phase                 float64
}

type HUD struct {
	Score      int
	Combo      int
	ComboScale float64
	Title      string
	Difficulty game.Difficulty
	ThemeColor string
	Progress   float64
	Paused     bool
	Loading    bool
}

type ComboFlash struct {
	Combo    int
	Progress float64
}

type Burst struct {
	Position  Point
	Progress  float64
	Particles []Point
}

type Celebration struct {
	Progress float64
}

// Canvas draws one frame. Every call describes the complete state of what
// it draws, so a frame can be replayed or redrawn from the same values.
type Canvas interface {
	Size() (width, height float64)
	Clear()
	ComboFlash(f ComboFlash)
	Guides(g Guides)
	HoldBody(h HoldBody) error
	Path(p Path) error
	Note(s Sprite) error
	Judge(j Judge) error
	Scanline(s Scanline)
	Banner(b Banner)
	HUD(h HUD)
	Burst(b Burst)
	Celebration(c Celebration)
	Debug(lines []string)
}
