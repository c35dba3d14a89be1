package score

import "git.lost.host/meutraa/scanline/internal/game"

// MaxScore is reached when every note has cleared.
const MaxScore = 1000000

type Scorer interface {
	// Tally counts notes whose judge tick lies strictly before tick.
	Tally(chart *game.Chart, tick int, step int) Tally

	// Score converts a number of cleared notes out of total into points.
	Score(cleared, total int) int
}

type Tally struct {
	Cleared       int
	LastClearTick int // judge tick of the most recent clear, -1 if none
	// Milestone is Cleared rounded down to a multiple of the combo step,
	// reached at MilestoneTick.
	Milestone     int
	MilestoneTick int
}
