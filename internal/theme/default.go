package theme

import (
	"image/color"
	"strconv"
	"strings"

	"git.lost.host/meutraa/scanline/internal/game"
)

type DefaultTheme struct {
}

type noteKey struct {
	kind    game.Kind
	reverse bool // page scrolls downward
	headTap bool
}

var (
	syms = map[game.Kind]string{
		game.KindTap:       "⬤",
		game.KindFlick:     "◆",
		game.KindHold:      "▮",
		game.KindLongHold:  "█",
		game.KindSlide:     "◉",
		game.KindSlideNode: "•",
	}
	noteColors = map[noteKey]string{
		{game.KindTap, false, false}:       "#4360f0",
		{game.KindTap, true, false}:        "#6969ff",
		{game.KindFlick, false, false}:     "#4db6ac",
		{game.KindFlick, true, false}:      "#4db6ac",
		{game.KindHold, false, false}:      "#00bfa5",
		{game.KindHold, true, false}:       "#0af",
		{game.KindLongHold, false, false}:  "#fdd835",
		{game.KindLongHold, true, false}:   "#fdd835",
		{game.KindSlide, false, false}:     "#4360f0",
		{game.KindSlide, true, false}:      "#6969ff",
		{game.KindSlide, false, true}:      "#00bfa5",
		{game.KindSlide, true, true}:       "#0af",
		{game.KindSlideNode, false, false}: "#4360f0",
		{game.KindSlideNode, true, false}:  "#6969ff",
		{game.KindSlideNode, false, true}:  "#00bfa5",
		{game.KindSlideNode, true, true}:   "#0af",
	}
	white = color.RGBA{255, 255, 255, 255}
)

func (t *DefaultTheme) NoteColor(kind game.Kind, direction int, headTap bool) color.RGBA {
	hex, ok := noteColors[noteKey{kind, direction == game.DirectionDown, headTap}]
	if !ok {
		return white
	}
	return t.Color(hex)
}

func (t *DefaultTheme) NoteSymbol(kind game.Kind) string {
	sym, ok := syms[kind]
	if !ok {
		return "?"
	}
	return sym
}

func (t *DefaultTheme) PathColor(headTap bool) color.RGBA {
	if headTap {
		return t.Color("#bbdefb")
	}
	return t.Color("#baacc8")
}

func (t *DefaultTheme) JudgeColor() color.RGBA {
	return t.Color("#fea")
}

// Color parses #rgb or #rrggbb, falling back to white.
func (t *DefaultTheme) Color(hex string) color.RGBA {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return white
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if nil != err {
		return white
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}
