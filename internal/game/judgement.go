package game

// JudgeTick is the tick at which a note counts as cleared.
func (c *Chart) JudgeTick(i int) int {
	if c.Notes[i].IsHold() {
		return c.EndTick(i)
	}
	return c.Notes[i].Tick
}

// HoldProgress is the fraction of a hold that has elapsed at tick,
// clamped to [0, 1].
func HoldProgress(n *Note, tick int) float64 {
	if n.HoldTick <= 0 {
		return 0
	}
	p := float64(tick-n.Tick) / float64(n.HoldTick)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
