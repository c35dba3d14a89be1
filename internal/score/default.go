package score

import (
	"math"

	"git.lost.host/meutraa/scanline/internal/game"
)

type DefaultScorer struct {
}

func (s *DefaultScorer) Tally(chart *game.Chart, tick int, step int) Tally {
	t := Tally{LastClearTick: -1, MilestoneTick: -1}
	if nil == chart {
		return t
	}
	if step <= 0 {
		step = 1
	}
	for _, i := range chart.ComboSorted() {
		judge := chart.JudgeTick(i)
		if tick <= judge {
			// Sorted by judge tick, nothing later can be cleared.
			break
		}
		t.Cleared++
		t.LastClearTick = judge
		if t.Cleared%step == 0 {
			t.MilestoneTick = judge
		}
	}
	t.Milestone = t.Cleared / step * step
	return t
}

// Score weights later notes slightly more: each cleared note i is worth
// 900000/N + 200000/(N(N-1))*i, which sums to MaxScore over all N notes.
func (s *DefaultScorer) Score(cleared, total int) int {
	if total <= 0 || cleared <= 0 {
		return 0
	}
	if cleared > total {
		cleared = total
	}
	if total == 1 {
		return MaxScore
	}
	n, c := float64(total), float64(cleared)
	sum := c*900000/n + 200000/(n*(n-1))*c*(c-1)/2
	return int(math.Round(sum))
}
