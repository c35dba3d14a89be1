package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"git.lost.host/meutraa/scanline/internal/audio"
	"git.lost.host/meutraa/scanline/internal/config"
	"git.lost.host/meutraa/scanline/internal/input"
	"git.lost.host/meutraa/scanline/internal/log"
	"git.lost.host/meutraa/scanline/internal/play"
	"git.lost.host/meutraa/scanline/internal/render"
	"git.lost.host/meutraa/scanline/internal/song"
	"git.lost.host/meutraa/scanline/internal/theme"
	"github.com/eiannone/keyboard"
	"golang.org/x/term"
)

// Program plays one chart in the terminal.
type Program struct {
	Settings *config.Settings
	Theme    *theme.DefaultTheme
	Canvas   *render.Terminal
	Session  *play.Session
	Log      *log.Logger

	music     audio.Player
	keys      <-chan keyboard.KeyEvent
	closeKeys func() error
}

// logOutput keeps log text off the screen the game is drawn on.
func logOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return io.Discard
	}
	return os.Stderr
}

func (p *Program) Init() error {
	p.Theme = &theme.DefaultTheme{}
	p.Log = log.New(logOutput(), log.LevelFromString(p.Settings.LogLevel))

	s, err := song.Load(p.Settings)
	if nil != err {
		return err
	}

	p.music, err = audio.OpenPlayer(s.Audio, p.Settings.Rate, s.Length())
	if nil != err {
		return err
	}

	p.Canvas, err = render.NewTerminal(os.Stdout, p.Theme)
	if nil != err {
		return err
	}

	p.Session = play.NewSession(p.Canvas, p.music, p.Log, p.Settings.Options())
	if track, ok := p.music.(*audio.Track); ok {
		p.Session.SetFeedback(audio.NewCues(track, os.Stdout))
	}
	if err := p.Session.Load(s.Chart); nil != err {
		return err
	}

	p.keys, p.closeKeys, err = input.Listen(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}

	if err := p.Canvas.Init(); nil != err {
		return err
	}
	return p.music.Start(p.Settings.Delay)
}

func (p *Program) Deinit() {
	if nil != p.Canvas {
		if err := p.Canvas.Deinit(); nil != err {
			p.Log.Errorf("unable to restore terminal: %v", err)
		}
	}
	if nil != p.closeKeys {
		if err := p.closeKeys(); nil != err {
			p.Log.Errorf("unable to close keyboard: %v", err)
		}
	}
	if nil != p.music {
		p.music.Close()
	}
}

// handleKeys applies the key presses that arrived since the last frame
// and reports whether to keep playing.
func (p *Program) handleKeys() bool {
	for len(p.keys) > 0 {
		c, ok := input.CommandFor(<-p.keys)
		if !ok {
			continue
		}
		cont, err := input.Apply(c, p.Session, p.music)
		if nil != err {
			p.Log.Errorf("unable to %v: %v", c, err)
		}
		if !cont {
			return false
		}
	}
	return true
}

func (p *Program) Run() error {
	var err error
	started := time.Now()
	render.Loop(p.Settings.FramePeriod, func(delta time.Duration) bool {
		if !p.handleKeys() {
			return false
		}
		p.Canvas.Resize()
		if p.Session.Tick(delta) {
			if err = p.Canvas.Present(); nil != err {
				return false
			}
		}
		// The song is over once it stops at its end.
		done := time.Since(started) > p.Settings.Delay &&
			!p.music.Playing() && p.music.Position() >= p.music.Length()
		return !done
	})
	return err
}
