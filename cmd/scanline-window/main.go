package main

import (
	"fmt"
	"log"
	"os"

	"git.lost.host/meutraa/scanline/internal/audio"
	"git.lost.host/meutraa/scanline/internal/config"
	slog "git.lost.host/meutraa/scanline/internal/log"
	"git.lost.host/meutraa/scanline/internal/play"
	"git.lost.host/meutraa/scanline/internal/song"
	"git.lost.host/meutraa/scanline/internal/theme"
	"git.lost.host/meutraa/scanline/internal/window"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	windowWidth  = 1280
	windowHeight = 720
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

func run() error {
	s, err := config.Parse(os.Args[1:])
	if nil != err {
		return err
	}
	if s.Command != config.CommandPlay {
		return fmt.Errorf("%v is only available in the terminal player", s.Command)
	}

	sng, err := song.Load(s)
	if nil != err {
		return err
	}
	music, err := audio.OpenPlayer(sng.Audio, s.Rate, sng.Length())
	if nil != err {
		return err
	}
	defer music.Close()

	logger := slog.New(os.Stderr, slog.LevelFromString(s.LogLevel))
	canvas := window.NewCanvas(&theme.DefaultTheme{}, windowWidth, windowHeight)
	session := play.NewSession(canvas, music, logger, s.Options())
	if track, ok := music.(*audio.Track); ok {
		session.SetFeedback(audio.NewCues(track, nil))
	}
	if err := session.Load(sng.Chart); nil != err {
		return err
	}
	if err := music.Start(s.Delay); nil != err {
		return err
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle(fmt.Sprintf("scanline - %v", sng.Chart.Meta.Title))
	ebiten.SetTPS(ebiten.SyncWithFPS)
	return ebiten.RunGame(window.NewGame(session, canvas, music))
}
