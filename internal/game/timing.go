package game

import "sort"

type breakpoint struct {
	tick          int
	millis        float64
	millisPerTick float64
}

// TickTimer converts between ticks and chart milliseconds.
//
// Times for ticks 0..lastTick are precomputed so that both directions are
// a table lookup during playback. The table obeys
// time(0) = 0 and time(i+1) = time(i) + MillisPerTick(i).
type TickTimer struct {
	tempo       *TempoMap
	breakpoints []breakpoint
	table       []float64
}

func NewTickTimer(tempo *TempoMap, lastTick int) *TickTimer {
	if lastTick < 0 {
		lastTick = 0
	}
	t := &TickTimer{tempo: tempo}

	// The tempo active at tick 0 covers everything before the first
	// breakpoint above zero.
	t.breakpoints = []breakpoint{{tick: 0, millis: 0, millisPerTick: tempo.MillisPerTick(0)}}
	for _, tp := range tempo.Tempos() {
		if tp.Tick <= 0 {
			continue
		}
		prev := t.breakpoints[len(t.breakpoints)-1]
		t.breakpoints = append(t.breakpoints, breakpoint{
			tick:          tp.Tick,
			millis:        prev.millis + float64(tp.Tick-prev.tick)*prev.millisPerTick,
			millisPerTick: tp.MillisPerBeat / float64(tempo.TimeBase()),
		})
	}

	t.table = make([]float64, lastTick+1)
	b := 0
	for i := range t.table {
		for b+1 < len(t.breakpoints) && t.breakpoints[b+1].tick <= i {
			b++
		}
		bp := t.breakpoints[b]
		t.table[i] = bp.millis + float64(i-bp.tick)*bp.millisPerTick
	}
	return t
}

func (t *TickTimer) Tempo() *TempoMap {
	return t.tempo
}

// LastTick is the last tick covered by the lookup table.
func (t *TickTimer) LastTick() int {
	return len(t.table) - 1
}

func (t *TickTimer) closedForm(tick int) float64 {
	if tick < 0 {
		return float64(tick) * t.breakpoints[0].millisPerTick
	}
	i := sort.Search(len(t.breakpoints), func(i int) bool { return t.breakpoints[i].tick > tick }) - 1
	bp := t.breakpoints[i]
	return bp.millis + float64(tick-bp.tick)*bp.millisPerTick
}

// TickToTime returns the chart time in milliseconds at which tick occurs.
// Ticks outside the table extrapolate linearly with the nearest rate.
func (t *TickTimer) TickToTime(tick int) float64 {
	if tick >= 0 && tick < len(t.table) {
		return t.table[tick]
	}
	return t.closedForm(tick)
}

// TimeToTick returns the first tick whose time is at least ms, clamped to
// the table.
func (t *TickTimer) TimeToTick(ms float64) int {
	i := sort.SearchFloat64s(t.table, ms)
	if i >= len(t.table) {
		return len(t.table) - 1
	}
	return i
}
