package theme

import (
	"image/color"

	"git.lost.host/meutraa/scanline/internal/game"
)

type Theme interface {
	NoteColor(kind game.Kind, direction int, headTap bool) color.RGBA
	NoteSymbol(kind game.Kind) string
	PathColor(headTap bool) color.RGBA
	JudgeColor() color.RGBA
	Color(hex string) color.RGBA
}
