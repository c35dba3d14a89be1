package input

import (
	"math"
	"time"

	"git.lost.host/meutraa/scanline/internal/field"
	"git.lost.host/meutraa/scanline/internal/play"
	"github.com/eiannone/keyboard"
)

type Command int

const (
	Quit Command = iota
	Pause
	SeekBack
	SeekForward
	ToggleBandori
	SpeedUp
	SpeedDown
	ToggleDebug
)

func (c Command) String() string {
	switch c {
	case Quit:
		return "quit"
	case Pause:
		return "pause"
	case SeekBack:
		return "seek back"
	case SeekForward:
		return "seek forward"
	case ToggleBandori:
		return "toggle bandori"
	case SpeedUp:
		return "speed up"
	case SpeedDown:
		return "speed down"
	case ToggleDebug:
		return "toggle debug"
	}
	return "unknown"
}

var (
	keys = map[keyboard.Key]Command{
		keyboard.KeyEsc:        Quit,
		keyboard.KeyCtrlC:      Quit,
		keyboard.KeySpace:      Pause,
		keyboard.KeyArrowLeft:  SeekBack,
		keyboard.KeyArrowRight: SeekForward,
		keyboard.KeyArrowUp:    SpeedUp,
		keyboard.KeyArrowDown:  SpeedDown,
	}
	runes = map[rune]Command{
		'q': Quit,
		'p': Pause,
		'h': SeekBack,
		'l': SeekForward,
		'b': ToggleBandori,
		'+': SpeedUp,
		'=': SpeedUp,
		'-': SpeedDown,
		'd': ToggleDebug,
	}
)

// CommandFor maps a key press to a player command.
func CommandFor(ev keyboard.KeyEvent) (Command, bool) {
	if nil != ev.Err {
		return 0, false
	}
	if ev.Rune != 0 {
		c, ok := runes[ev.Rune]
		return c, ok
	}
	c, ok := keys[ev.Key]
	return c, ok
}

// Listen puts the terminal in raw mode and delivers key presses. The
// returned function restores the terminal.
func Listen(buffer int) (<-chan keyboard.KeyEvent, func() error, error) {
	events, err := keyboard.GetKeys(buffer)
	if nil != err {
		return nil, nil, err
	}
	return events, keyboard.Close, nil
}

const (
	seekStep  = 5 * time.Second
	speedStep = 0.5
)

// Player is the part of a play session the controls change.
type Player interface {
	Options() play.Options
	SetMode(m field.Mode)
	SetBandoriSpeed(speed float64)
	SetDebug(debug bool)
}

// Transport controls the audio.
type Transport interface {
	Toggle()
	Seek(d time.Duration) error
}

// Apply carries out c. It reports false once the player should quit.
func Apply(c Command, p Player, t Transport) (bool, error) {
	o := p.Options()
	switch c {
	case Quit:
		return false, nil
	case Pause:
		t.Toggle()
	case SeekBack:
		return true, t.Seek(-seekStep)
	case SeekForward:
		return true, t.Seek(seekStep)
	case ToggleBandori:
		if o.Mode == field.ModeBandori {
			p.SetMode(field.ModeScanline)
		} else {
			p.SetMode(field.ModeBandori)
		}
	case SpeedUp:
		p.SetBandoriSpeed(math.Min(11, o.BandoriSpeed+speedStep))
	case SpeedDown:
		p.SetBandoriSpeed(math.Max(1, o.BandoriSpeed-speedStep))
	case ToggleDebug:
		p.SetDebug(!o.Debug)
	}
	return true, nil
}
