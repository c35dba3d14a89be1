package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/scanline/internal/theme"
	"golang.org/x/term"
)

// Each terminal cell stands for this many canvas pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

type cell struct {
	ch rune
	fg color.RGBA
}

// Terminal is a Canvas drawn with ANSI escapes. A frame is built in a cell
// grid and Present writes only the cells that changed since the last one.
type Terminal struct {
	out          io.Writer
	fd           int
	theme        theme.Theme
	buffer       strings.Builder
	restoreState *term.State

	cols, rows  int
	cells, prev []cell
}

// NewTerminal draws on f, sized to the terminal it refers to.
func NewTerminal(f *os.File, th theme.Theme) (*Terminal, error) {
	cols, rows, err := term.GetSize(int(f.Fd()))
	if nil != err {
		return nil, fmt.Errorf("unable to get terminal size: %w", err)
	}
	t := newTerminal(f, cols, rows, th)
	t.fd = int(f.Fd())
	return t, nil
}

func newTerminal(out io.Writer, cols, rows int, th theme.Theme) *Terminal {
	if nil == th {
		th = &theme.DefaultTheme{}
	}
	t := &Terminal{out: out, fd: -1, theme: th}
	t.resize(cols, rows)
	return t
}

func (r *Terminal) resize(cols, rows int) {
	if cols == r.cols && rows == r.rows {
		return
	}
	r.cols, r.rows = cols, rows
	r.cells = make([]cell, cols*rows)
	r.prev = make([]cell, cols*rows)
	for i := range r.prev {
		// Force every cell out on the next Present.
		r.prev[i].ch = -1
	}
}

// Resize follows the terminal size.
func (r *Terminal) Resize() {
	if r.fd < 0 {
		return
	}
	cols, rows, err := term.GetSize(r.fd)
	if nil != err {
		return
	}
	r.resize(cols, rows)
}

func (r *Terminal) Init() error {
	state, err := term.MakeRaw(r.fd)
	if nil != err {
		return err
	}
	r.restoreState = state

	fmt.Fprintf(r.out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *Terminal) Deinit() error {
	fmt.Fprintf(r.out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.fd, r.restoreState)
}

// Loop calls frame every period with the wall time since the previous
// call until frame returns false.
func Loop(period time.Duration, frame func(delta time.Duration) bool) {
	last := time.Now()
	for {
		now := time.Now()
		deadline := now.Add(period)
		if !frame(now.Sub(last)) {
			return
		}
		last = now
		time.Sleep(time.Until(deadline))
	}
}

func (r *Terminal) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *Terminal) FillColor(row, column int, c color.RGBA, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H\033[38;2;")
	r.buffer.WriteString(strconv.Itoa(int(c.R)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.G)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.B)))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

// Present writes the cells that changed since the previous frame.
func (r *Terminal) Present() error {
	for i, c := range r.cells {
		if c == r.prev[i] {
			continue
		}
		row, col := i/r.cols+1, i%r.cols+1
		if c.ch == 0 {
			r.Fill(row, col, " ")
		} else {
			r.FillColor(row, col, c.fg, string(c.ch))
		}
		r.prev[i] = c
	}
	if r.buffer.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(r.out, r.buffer.String())
	r.buffer.Reset()
	return err
}

func dim(c color.RGBA, alpha float64) color.RGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	return color.RGBA{
		uint8(float64(c.R) * alpha),
		uint8(float64(c.G) * alpha),
		uint8(float64(c.B) * alpha),
		255,
	}
}

func (r *Terminal) cellAt(x, y float64) (col, row int, ok bool) {
	col, row = int(math.Floor(x/CellWidth)), int(math.Floor(y/CellHeight))
	return col, row, col >= 0 && row >= 0 && col < r.cols && row < r.rows
}

func (r *Terminal) set(col, row int, ch rune, fg color.RGBA) {
	if col < 0 || row < 0 || col >= r.cols || row >= r.rows {
		return
	}
	r.cells[row*r.cols+col] = cell{ch, fg}
}

func (r *Terminal) plot(x, y float64, ch rune, fg color.RGBA) {
	if col, row, ok := r.cellAt(x, y); ok {
		r.set(col, row, ch, fg)
	}
}

func (r *Terminal) text(row, col int, s string, fg color.RGBA) {
	for _, ch := range s {
		r.set(col, row, ch, fg)
		col++
	}
}

func (r *Terminal) centered(row int, s string, fg color.RGBA) {
	r.text(row, (r.cols-len([]rune(s)))/2, s, fg)
}

// line plots ch along a segment, one point per cell it crosses.
func (r *Terminal) line(a, b Point, ch rune, fg color.RGBA, dash int) {
	steps := int(math.Max(math.Abs(b.X-a.X)/CellWidth, math.Abs(b.Y-a.Y)/CellHeight)) + 1
	for i := 0; i <= steps; i++ {
		if dash > 0 && (i/dash)%2 == 1 {
			continue
		}
		t := float64(i) / float64(steps)
		r.plot(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t, ch, fg)
	}
}

func (r *Terminal) Size() (float64, float64) {
	return float64(r.cols * CellWidth), float64(r.rows * CellHeight)
}

func (r *Terminal) Clear() {
	for i := range r.cells {
		r.cells[i] = cell{}
	}
}

func (r *Terminal) ComboFlash(f ComboFlash) {
	c := dim(r.theme.Color("#ffffff"), 1-f.Progress)
	r.centered(r.rows/2, strconv.Itoa(f.Combo), c)
	r.centered(r.rows/2+1, "COMBO", c)
}

func (r *Terminal) Guides(g Guides) {
	base := r.theme.Color("#ffffff")
	w, _ := r.Size()
	offset := int(g.Phase*4) % 2
	for _, edge := range []struct {
		y, pulse float64
	}{{g.Top, g.TopPulse}, {g.Bottom, g.BottomPulse}} {
		_, row, ok := r.cellAt(0, edge.y)
		if !ok {
			continue
		}
		c := dim(base, 0.25+0.75*edge.pulse)
		for col := 0; col < int(w/CellWidth); col++ {
			if (col+offset)%2 == 0 {
				r.set(col, row, '╌', c)
			}
		}
	}
}

func (r *Terminal) HoldBody(h HoldBody) error {
	c := dim(r.theme.NoteColor(h.Kind, h.Direction, false), h.Alpha)
	r.line(Point{h.X, h.StartY}, Point{h.X, h.EndY}, '│', c, 0)
	if h.Holding {
		r.line(Point{h.X, h.StartY}, Point{h.X, h.ScanY}, '┃', c, 0)
	}
	return nil
}

func (r *Terminal) Path(p Path) error {
	c := r.theme.PathColor(p.HeadTap)
	for _, s := range p.Segments {
		r.line(s[0], s[1], '·', c, 1)
	}
	return nil
}

func (r *Terminal) Note(s Sprite) error {
	if s.Alpha <= 0 {
		return nil
	}
	c := dim(r.theme.NoteColor(s.Kind, s.Direction, s.HeadTap), s.Alpha)
	sym := []rune(r.theme.NoteSymbol(s.Kind))
	if len(sym) == 0 {
		return ErrAssetUnavailable
	}
	r.plot(s.Position.X, s.Position.Y, sym[0], c)
	if s.Holding && s.HoldProgress > 0 {
		col, row, ok := r.cellAt(s.Position.X, s.Position.Y)
		if ok {
			r.text(row, col+1, fmt.Sprintf("%d%%", int(s.HoldProgress*100)), c)
		}
	}
	return nil
}

func (r *Terminal) Judge(j Judge) error {
	alpha := 1 - j.Elapsed/500
	if alpha <= 0 {
		return nil
	}
	r.plot(j.Position.X, j.Position.Y, '✦', dim(r.theme.JudgeColor(), alpha))
	return nil
}

func (r *Terminal) Scanline(s Scanline) {
	c := r.theme.Color("#ffffff")
	strongest := 0.0
	for _, f := range s.Flashes {
		if f.Alpha > strongest {
			strongest = f.Alpha
			c = r.theme.Color(f.Color)
		}
	}
	c = dim(c, s.Alpha)
	if s.Alpha <= 0 {
		return
	}
	_, row, ok := r.cellAt(0, s.Y)
	if !ok {
		return
	}
	half := float64(r.cols) / 2 * (1 - s.Mutate)
	for col := int(float64(r.cols)/2 - half); col < int(math.Ceil(float64(r.cols)/2+half)); col++ {
		r.set(col, row, '━', c)
	}
}

func (r *Terminal) Banner(b Banner) {
	if b.Alpha <= 0 {
		return
	}
	gap := strings.Repeat(" ", int(math.Max(0, b.Spacing)))
	text := strings.Join(strings.Split(b.Text, ""), gap)
	r.centered(r.rows/4, text, dim(r.theme.Color(b.Color), b.Alpha))
}

func (r *Terminal) HUD(h HUD) {
	white := r.theme.Color("#ffffff")
	if h.Loading {
		r.centered(r.rows/2, "Loading", white)
		return
	}
	accent := r.theme.Color(h.ThemeColor)
	r.text(0, 1, h.Title, white)
	r.text(1, 1, fmt.Sprintf("%v %v", h.Difficulty.Name, h.Difficulty.Level), r.theme.Color(h.Difficulty.Color))

	score := fmt.Sprintf("%07d", h.Score)
	r.text(0, r.cols-len(score)-1, score, white)
	if h.Combo > 0 {
		combo := fmt.Sprintf("%vx", h.Combo)
		r.centered(0, combo, dim(accent, h.ComboScale))
	}
	if h.Paused {
		r.centered(1, "PAUSED", white)
	}

	filled := int(math.Round(h.Progress * float64(r.cols)))
	for col := 0; col < r.cols; col++ {
		if col < filled {
			r.set(col, r.rows-1, '▀', accent)
		}
	}
}

func (r *Terminal) Burst(b Burst) {
	c := dim(r.theme.JudgeColor(), 1-b.Progress)
	for _, p := range b.Particles {
		r.plot(p.X, p.Y, '*', c)
	}
}

func (r *Terminal) Celebration(c Celebration) {
	if int(c.Progress*12)%2 == 1 {
		return
	}
	r.centered(r.rows/2-2, "MILLION MASTER", r.theme.Color("#fdd835"))
}

func (r *Terminal) Debug(lines []string) {
	grey := r.theme.Color("#aaaaaa")
	start := r.rows - 1 - len(lines)
	for i, l := range lines {
		r.text(start+i, 1, l, grey)
	}
}

var _ Canvas = &Terminal{}
