package window

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"git.lost.host/meutraa/scanline/internal/render"
	"git.lost.host/meutraa/scanline/internal/theme"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

type op func(dst *ebiten.Image)

// Canvas records a frame as a list of draw operations. The session draws
// from Update and the list is replayed in Draw.
type Canvas struct {
	theme         theme.Theme
	width, height float64
	ops           []op
}

func NewCanvas(th theme.Theme, width, height int) *Canvas {
	if nil == th {
		th = &theme.DefaultTheme{}
	}
	return &Canvas{theme: th, width: float64(width), height: float64(height)}
}

func (c *Canvas) Resize(width, height int) {
	c.width, c.height = float64(width), float64(height)
}

// Frame is the display list of the last completed frame.
func (c *Canvas) Frame() []op {
	return c.ops
}

func (c *Canvas) add(o op) {
	c.ops = append(c.ops, o)
}

func fade(col color.RGBA, alpha float64) color.RGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	return color.RGBA{
		uint8(float64(col.R) * alpha),
		uint8(float64(col.G) * alpha),
		uint8(float64(col.B) * alpha),
		uint8(float64(col.A) * alpha),
	}
}

func (c *Canvas) print(s string, x, y float64) {
	c.add(func(dst *ebiten.Image) {
		ebitenutil.DebugPrintAt(dst, s, int(x), int(y))
	})
}

func (c *Canvas) printCentered(s string, y float64) {
	// The debug font is 6 pixels wide.
	c.print(s, c.width/2-float64(len(s)*3), y)
}

func (c *Canvas) Size() (float64, float64) {
	return c.width, c.height
}

func (c *Canvas) Clear() {
	c.ops = nil
}

func (c *Canvas) ComboFlash(f render.ComboFlash) {
	c.printCentered(strconv.Itoa(f.Combo)+" COMBO", c.height/2)
}

func (c *Canvas) Guides(g render.Guides) {
	white := c.theme.Color("#ffffff")
	w := float32(c.width)
	for _, edge := range []struct {
		y, pulse float64
	}{{g.Top, g.TopPulse}, {g.Bottom, g.BottomPulse}} {
		col := fade(white, 0.25+0.75*edge.pulse)
		y := float32(edge.y)
		shift := float32(math.Mod(g.Phase, 1) * 40)
		c.add(func(dst *ebiten.Image) {
			for x := shift - 40; x < w; x += 40 {
				vector.StrokeLine(dst, x, y, x+20, y, 2, col, true)
			}
		})
	}
}

func (c *Canvas) HoldBody(h render.HoldBody) error {
	col := fade(c.theme.NoteColor(h.Kind, h.Direction, false), h.Alpha)
	x, y0, y1, scan := float32(h.X), float32(h.StartY), float32(h.EndY), float32(h.ScanY)
	holding := h.Holding
	c.add(func(dst *ebiten.Image) {
		vector.StrokeLine(dst, x, y0, x, y1, 6, col, true)
		if holding {
			vector.StrokeLine(dst, x, y0, x, scan, 12, col, true)
		}
	})
	return nil
}

func (c *Canvas) Path(p render.Path) error {
	col := c.theme.PathColor(p.HeadTap)
	segments := p.Segments
	c.add(func(dst *ebiten.Image) {
		for _, s := range segments {
			vector.StrokeLine(dst, float32(s[0].X), float32(s[0].Y), float32(s[1].X), float32(s[1].Y), 3, col, true)
		}
	})
	return nil
}

func (c *Canvas) Note(s render.Sprite) error {
	if s.Alpha <= 0 {
		return nil
	}
	col := fade(c.theme.NoteColor(s.Kind, s.Direction, s.HeadTap), s.Alpha)
	x, y, r := float32(s.Position.X), float32(s.Position.Y), float32(s.Radius)
	ring := float32(s.HoldProgress)
	holding := s.Holding
	angle := s.Angle
	c.add(func(dst *ebiten.Image) {
		vector.DrawFilledCircle(dst, x, y, r, col, true)
		if holding && ring > 0 {
			vector.StrokeCircle(dst, x, y, r*(1+ring), 3, col, true)
		}
		if angle != 0 {
			tx := x + r*float32(math.Cos(angle))
			ty := y + r*float32(math.Sin(angle))
			vector.StrokeLine(dst, x, y, tx, ty, 2, color.White, true)
		}
	})
	return nil
}

func (c *Canvas) Judge(j render.Judge) error {
	p := j.Elapsed / 500
	if p >= 1 {
		return nil
	}
	col := fade(c.theme.JudgeColor(), 1-p)
	x, y, r := float32(j.Position.X), float32(j.Position.Y), float32(40+60*p)
	c.add(func(dst *ebiten.Image) {
		vector.StrokeCircle(dst, x, y, r, 4, col, true)
	})
	return nil
}

func (c *Canvas) Scanline(s render.Scanline) {
	if s.Alpha <= 0 {
		return
	}
	col := c.theme.Color("#ffffff")
	strongest := 0.0
	for _, f := range s.Flashes {
		if f.Alpha > strongest {
			strongest = f.Alpha
			col = c.theme.Color(f.Color)
		}
	}
	col = fade(col, s.Alpha)
	half := c.width / 2 * (1 - s.Mutate)
	x0, x1, y := float32(c.width/2-half), float32(c.width/2+half), float32(s.Y)
	c.add(func(dst *ebiten.Image) {
		vector.StrokeLine(dst, x0, y, x1, y, 4, col, true)
	})
}

func (c *Canvas) Banner(b render.Banner) {
	if b.Alpha <= 0 {
		return
	}
	gap := strings.Repeat(" ", int(math.Max(0, b.Spacing)))
	c.printCentered(strings.Join(strings.Split(b.Text, ""), gap), c.height/4)
}

func (c *Canvas) HUD(h render.HUD) {
	if h.Loading {
		c.printCentered("Loading", c.height/2)
		return
	}
	c.print(h.Title, 16, 16)
	c.print(fmt.Sprintf("%v %v", h.Difficulty.Name, h.Difficulty.Level), 16, 32)
	c.print(fmt.Sprintf("%07d", h.Score), c.width-16-7*6, 16)
	if h.Combo > 0 {
		c.printCentered(fmt.Sprintf("%vx", h.Combo), 16)
	}
	if h.Paused {
		c.printCentered("PAUSED", 32)
	}
	accent := c.theme.Color(h.ThemeColor)
	w, y := float32(c.width*h.Progress), float32(c.height-4)
	c.add(func(dst *ebiten.Image) {
		vector.DrawFilledRect(dst, 0, y, w, 4, accent, false)
	})
}

func (c *Canvas) Burst(b render.Burst) {
	col := fade(c.theme.JudgeColor(), 1-b.Progress)
	particles := b.Particles
	c.add(func(dst *ebiten.Image) {
		for _, p := range particles {
			vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), 3, col, true)
		}
	})
}

func (c *Canvas) Celebration(cel render.Celebration) {
	if int(cel.Progress*12)%2 == 1 {
		return
	}
	c.printCentered("MILLION MASTER", c.height/2-32)
}

func (c *Canvas) Debug(lines []string) {
	y := c.height - 20 - float64(len(lines)*16)
	for i, l := range lines {
		c.print(l, 16, y+float64(i*16))
	}
}

var _ render.Canvas = &Canvas{}
