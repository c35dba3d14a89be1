package game

import (
	"math"
	"sort"
)

// DefaultTimeBase is the number of ticks per beat used when a chart does
// not say otherwise.
const DefaultTimeBase = 480

// Tempo is a tempo breakpoint. It applies from Tick until the next one.
type Tempo struct {
	Tick          int
	MillisPerBeat float64
}

func TempoFromBPM(tick int, bpm float64) Tempo {
	return Tempo{Tick: tick, MillisPerBeat: 60000 / bpm}
}

func (t Tempo) BPM() float64 {
	return 60000 / t.MillisPerBeat
}

// TempoMap answers which tempo applies at a tick.
type TempoMap struct {
	tempos   []Tempo // ascending by tick
	timeBase int
}

func NewTempoMap(tempos []Tempo, timeBase int) (*TempoMap, error) {
	if len(tempos) == 0 {
		return nil, formatError("no tempos")
	}
	if timeBase <= 0 {
		return nil, formatError("time base %v", timeBase)
	}
	sorted := make([]Tempo, len(tempos))
	copy(sorted, tempos)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tick < sorted[j].Tick })
	for _, t := range sorted {
		if t.MillisPerBeat <= 0 || math.IsNaN(t.MillisPerBeat) || math.IsInf(t.MillisPerBeat, 0) {
			return nil, formatError("tempo at tick %v has rate %v", t.Tick, t.MillisPerBeat)
		}
	}
	return &TempoMap{tempos: sorted, timeBase: timeBase}, nil
}

func (m *TempoMap) TimeBase() int {
	return m.timeBase
}

func (m *TempoMap) Tempos() []Tempo {
	return m.tempos
}

// Tempo returns the breakpoint with the greatest tick <= tick, or the first
// breakpoint when tick precedes all of them.
func (m *TempoMap) Tempo(tick int) Tempo {
	i := sort.Search(len(m.tempos), func(i int) bool { return m.tempos[i].Tick > tick })
	if i == 0 {
		return m.tempos[0]
	}
	return m.tempos[i-1]
}

func (m *TempoMap) MillisPerTick(tick int) float64 {
	return m.Tempo(tick).MillisPerBeat / float64(m.timeBase)
}
