package game

import (
	"sort"
)

// Chart is a playable beatmap. Notes is an arena: slides refer to their
// waypoints by id and the resolved chains are cached by arena index.
//
// Prepare must be called after the exported fields change.
type Chart struct {
	FormatVersion   int
	TimeBase        int
	StartOffsetTime float64

	Pages  []Page
	Tempos []Tempo
	Events []EventOrder
	Notes  []Note
	Meta   Meta

	tempo       *TempoMap
	timer       *TickTimer
	byID        map[int]int
	chains      map[int][]int
	parents     map[int]int
	comboSorted []int
}

// Prepare validates the chart and rebuilds every derived cache.
func (c *Chart) Prepare() error {
	if c.TimeBase == 0 {
		c.TimeBase = DefaultTimeBase
	}
	tempo, err := NewTempoMap(c.Tempos, c.TimeBase)
	if nil != err {
		return err
	}
	if len(c.Pages) == 0 {
		return formatError("no pages")
	}
	for i := range c.Pages {
		p := &c.Pages[i]
		if p.EndTick <= p.StartTick {
			return formatError("page %v spans [%v, %v]", i, p.StartTick, p.EndTick)
		}
		if i > 0 && p.StartTick < c.Pages[i-1].EndTick {
			return formatError("page %v starts before page %v ends", i, i-1)
		}
		if p.ScanLineDirection < DirectionDown || p.ScanLineDirection > DirectionUp {
			return formatError("page %v has direction %v", i, p.ScanLineDirection)
		}
	}

	byID := make(map[int]int, len(c.Notes))
	kinds := make([]Kind, len(c.Notes))
	for i := range c.Notes {
		n := &c.Notes[i]
		kind, ok := n.Type.Kind()
		if !ok {
			return formatError("note %v has type %v", n.ID, n.Type)
		}
		kinds[i] = kind
		if _, dup := byID[n.ID]; dup {
			return formatError("duplicate note id %v", n.ID)
		}
		byID[n.ID] = i
		if n.PageIndex < 0 || n.PageIndex >= len(c.Pages) {
			return formatError("note %v references page %v of %v", n.ID, n.PageIndex, len(c.Pages))
		}
		p := &c.Pages[n.PageIndex]
		if n.Tick < p.StartTick || n.Tick > p.EndTick {
			return formatError("note %v at tick %v lies outside page %v", n.ID, n.Tick, n.PageIndex)
		}
		if (kind == KindHold || kind == KindLongHold) && n.HoldTick <= 0 {
			return formatError("hold %v has length %v", n.ID, n.HoldTick)
		}
	}

	chains, parents, err := c.resolveChains(byID, kinds)
	if nil != err {
		return err
	}

	// Nothing below fails: a rejected chart keeps its previous caches.
	for i := range c.Notes {
		c.Notes[i].Kind = kinds[i]
	}
	c.byID, c.chains, c.parents = byID, chains, parents
	sort.SliceStable(c.Events, func(a, b int) bool {
		return c.Events[a].Tick < c.Events[b].Tick
	})

	last := c.Pages[len(c.Pages)-1].EndTick
	for i := range c.Notes {
		if end := c.EndTick(i); end > last {
			last = end
		}
	}
	c.tempo = tempo
	c.timer = NewTickTimer(tempo, last)
	c.comboSorted = nil
	return nil
}

func (c *Chart) resolveChains(byID map[int]int, kinds []Kind) (map[int][]int, map[int]int, error) {
	chains := map[int][]int{}
	parents := map[int]int{}
	for i := range c.Notes {
		head := &c.Notes[i]
		if kinds[i] != KindSlide {
			continue
		}
		var chain []int
		seen := map[int]bool{head.ID: true}
		tick := head.Tick
		for next := head.NextID; next > 0; {
			idx, ok := byID[next]
			if !ok {
				return nil, nil, formatError("slide %v links to missing note %v", head.ID, next)
			}
			if seen[next] {
				return nil, nil, formatError("slide %v links back to note %v", head.ID, next)
			}
			seen[next] = true
			node := &c.Notes[idx]
			if kinds[idx] != KindSlideNode {
				return nil, nil, formatError("slide %v links to %v note %v", head.ID, kinds[idx], next)
			}
			if node.Tick < tick {
				return nil, nil, formatError("slide %v goes back in time at note %v", head.ID, next)
			}
			if owner, taken := parents[idx]; taken {
				return nil, nil, formatError("note %v belongs to slides %v and %v", next, c.Notes[owner].ID, head.ID)
			}
			tick = node.Tick
			chain = append(chain, idx)
			parents[idx] = i
			next = node.NextID
		}
		chains[i] = chain
	}
	return chains, parents, nil
}

func (c *Chart) Timer() *TickTimer {
	return c.timer
}

func (c *Chart) TickToTime(tick int) float64 {
	return c.timer.TickToTime(tick)
}

func (c *Chart) TimeToTick(ms float64) int {
	return c.timer.TimeToTick(ms)
}

func (c *Chart) MillisPerTick(tick int) float64 {
	return c.tempo.MillisPerTick(tick)
}

// PageIndex returns the page containing tick. Ranges are half open so a
// boundary tick belongs to the later page; the final page also owns its
// end tick. Ticks outside every page map to the first page.
func (c *Chart) PageIndex(tick int) int {
	i := sort.Search(len(c.Pages), func(i int) bool { return c.Pages[i].EndTick > tick })
	if i < len(c.Pages) && c.Pages[i].StartTick <= tick {
		return i
	}
	if last := len(c.Pages) - 1; last >= 0 && c.Pages[last].EndTick == tick {
		return last
	}
	return 0
}

func (c *Chart) PageAt(tick int) *Page {
	return &c.Pages[c.PageIndex(tick)]
}

// PageLength returns the duration of a page in milliseconds, measured with
// the rate at its start.
func (c *Chart) PageLength(p *Page) float64 {
	start := p.StartTick
	if start < 0 {
		start = 0
	}
	return c.MillisPerTick(start) * float64(p.TickLength())
}

// NoteIndex maps a note id to its arena index.
func (c *Chart) NoteIndex(id int) (int, bool) {
	i, ok := c.byID[id]
	return i, ok
}

// Waypoints returns the arena indices of the nodes of the slide at index i
// in chain order, excluding the head.
func (c *Chart) Waypoints(i int) []int {
	return c.chains[i]
}

// Parent returns the slide head owning the node at index i.
func (c *Chart) Parent(i int) (int, bool) {
	p, ok := c.parents[i]
	return p, ok
}

// EndTick is the tick at which a note stops mattering: the release of a
// hold, the last waypoint of a slide, or the note tick otherwise.
func (c *Chart) EndTick(i int) int {
	n := &c.Notes[i]
	switch n.Kind {
	case KindHold, KindLongHold:
		return n.Tick + n.HoldTick
	case KindSlide:
		if chain := c.chains[i]; len(chain) > 0 {
			return c.Notes[chain[len(chain)-1]].Tick
		}
	}
	return n.Tick
}

// ComboSorted returns arena indices ordered by judge tick.
func (c *Chart) ComboSorted() []int {
	if nil == c.comboSorted {
		sorted := make([]int, len(c.Notes))
		for i := range sorted {
			sorted[i] = i
		}
		sort.SliceStable(sorted, func(a, b int) bool {
			return c.JudgeTick(sorted[a]) < c.JudgeTick(sorted[b])
		})
		c.comboSorted = sorted
	}
	return c.comboSorted
}

// LastNoteTick is the greatest end tick of any note.
func (c *Chart) LastNoteTick() int {
	last := 0
	for i := range c.Notes {
		if end := c.EndTick(i); end > last {
			last = end
		}
	}
	return last
}
