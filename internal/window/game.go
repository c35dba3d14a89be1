package window

import (
	"image/color"
	"time"

	"git.lost.host/meutraa/scanline/internal/input"
	"git.lost.host/meutraa/scanline/internal/play"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var keys = map[ebiten.Key]input.Command{
	ebiten.KeyEscape:     input.Quit,
	ebiten.KeyQ:          input.Quit,
	ebiten.KeySpace:      input.Pause,
	ebiten.KeyArrowLeft:  input.SeekBack,
	ebiten.KeyArrowRight: input.SeekForward,
	ebiten.KeyB:          input.ToggleBandori,
	ebiten.KeyArrowUp:    input.SpeedUp,
	ebiten.KeyArrowDown:  input.SpeedDown,
	ebiten.KeyD:          input.ToggleDebug,
}

// Game runs a play session inside an ebiten window.
type Game struct {
	session   *play.Session
	canvas    *Canvas
	transport input.Transport
	last      time.Time
	shown     []op
}

func NewGame(session *play.Session, canvas *Canvas, transport input.Transport) *Game {
	return &Game{session: session, canvas: canvas, transport: transport}
}

func (g *Game) Update() error {
	for key, c := range keys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		ok, err := input.Apply(c, g.session, g.transport)
		if nil != err {
			g.session.Logger().Errorf("unable to %v: %v", c, err)
		}
		if !ok {
			return ebiten.Termination
		}
	}

	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	}
	delta := now.Sub(g.last)
	g.last = now
	if g.session.Tick(delta) {
		g.shown = g.canvas.Frame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	for _, o := range g.shown {
		o(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.canvas.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
