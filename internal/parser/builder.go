package parser

import (
	"math"
	"sort"

	"git.lost.host/meutraa/scanline/internal/game"
)

const (
	beatsPerPage = 2
	// longHoldMillis is the length above which a hold spans the field.
	longHoldMillis = 750
)

// draft is a note before ids and pages are known. Slides carry their
// waypoints in order.
type draft struct {
	id    int // zero assigns one in tick order
	tick  int
	x     float64
	typ   game.NoteType
	hold  int
	nodes []*draft
}

// collapse turns a straight slide of a single segment into a hold and a
// slide without waypoints into a tap.
func (d *draft) collapse() {
	if d.typ != game.TypeSlide {
		return
	}
	switch {
	case len(d.nodes) == 0:
		d.typ = game.TypeTap
	case len(d.nodes) == 1 && d.nodes[0].x == d.x && d.nodes[0].tick > d.tick:
		d.typ = game.TypeHold
		d.hold = d.nodes[0].tick - d.tick
		d.nodes = nil
	}
}

type builder struct {
	timeBase int
	tempos   []game.Tempo
	pages    []game.Page // generated when empty
	drafts   []*draft
}

func newBuilder(tempos []game.Tempo) *builder {
	return &builder{timeBase: game.DefaultTimeBase, tempos: tempos}
}

func (b *builder) add(d *draft) {
	b.drafts = append(b.drafts, d)
}

func (b *builder) span() (first, last int) {
	first, last = math.MaxInt32, math.MinInt32
	see := func(t int) {
		if t < first {
			first = t
		}
		if t > last {
			last = t
		}
	}
	for _, d := range b.drafts {
		see(d.tick)
		see(d.tick + d.hold)
		for _, n := range d.nodes {
			see(n.tick)
		}
	}
	if first > last {
		return 0, 0
	}
	return first, last
}

// generatePages lays contiguous alternating pages of two beats from the
// page containing the earliest note, or from zero, until one page past the
// last note.
func (b *builder) generatePages() []game.Page {
	length := beatsPerPage * b.timeBase
	first, last := b.span()
	origin := 0
	if first < 0 {
		origin = int(math.Floor(float64(first)/float64(length))) * length
	}
	count := (last-origin)/length + 2
	pages := make([]game.Page, count)
	for i := range pages {
		pages[i] = game.Page{
			StartTick:         origin + i*length,
			EndTick:           origin + (i+1)*length,
			ScanLineDirection: game.AlternatingDirection(i),
		}
	}
	return pages
}

func (b *builder) build() (*game.Chart, error) {
	tempo, err := game.NewTempoMap(b.tempos, b.timeBase)
	if nil != err {
		return nil, err
	}
	timer := game.NewTickTimer(tempo, 0)

	c := &game.Chart{
		FormatVersion: 2,
		TimeBase:      b.timeBase,
		Tempos:        b.tempos,
		Pages:         b.pages,
		Meta:          game.DefaultMeta(),
	}
	if len(c.Pages) == 0 {
		c.Pages = b.generatePages()
	}

	var all []*draft
	for _, d := range b.drafts {
		d.collapse()
		all = append(all, d)
		all = append(all, d.nodes...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].tick < all[j].tick })
	used := map[int]bool{}
	for _, d := range all {
		used[d.id] = d.id != 0
	}
	next := 1
	for _, d := range all {
		if d.id != 0 {
			continue
		}
		for used[next] {
			next++
		}
		d.id = next
		used[next] = true
	}

	for _, d := range b.drafts {
		n := game.Note{ID: d.id, Tick: d.tick, X: d.x, Type: d.typ, PageIndex: c.PageIndex(d.tick)}
		switch d.typ {
		case game.TypeHold, game.TypeLongHold:
			n.HoldTick = d.hold
			end := d.tick + d.hold
			if timer.TickToTime(end)-timer.TickToTime(d.tick) > longHoldMillis || c.PageIndex(end) != n.PageIndex {
				n.Type = game.TypeLongHold
			}
		case game.TypeSlide:
			n.NextID = d.nodes[0].id
			for k, node := range d.nodes {
				w := game.Note{ID: node.id, Tick: node.tick, X: node.x, Type: game.TypeSlideNode, PageIndex: c.PageIndex(node.tick)}
				if k+1 < len(d.nodes) {
					w.NextID = d.nodes[k+1].id
				}
				c.Notes = append(c.Notes, w)
			}
		}
		c.Notes = append(c.Notes, n)
	}
	sort.SliceStable(c.Notes, func(i, j int) bool { return c.Notes[i].ID < c.Notes[j].ID })

	if err := c.Prepare(); nil != err {
		return nil, err
	}
	return c, nil
}

// timeline converts song milliseconds to ticks for formats that place
// notes in time rather than in beats.
type timeline struct {
	points   []timePoint
	timeBase int
}

type timePoint struct {
	ms   float64
	tick float64
	mpt  float64
}

type bpmAt struct {
	ms  float64
	bpm float64
}

func newTimeline(bpms []bpmAt, timeBase int) (*timeline, []game.Tempo, error) {
	if len(bpms) == 0 {
		return nil, nil, formatErrorf("no BPM")
	}
	sorted := make([]bpmAt, len(bpms))
	copy(sorted, bpms)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ms < sorted[j].ms })

	t := &timeline{timeBase: timeBase}
	var tempos []game.Tempo
	for i, b := range sorted {
		if b.bpm <= 0 || math.IsNaN(b.bpm) || math.IsInf(b.bpm, 0) {
			return nil, nil, formatErrorf("BPM %v at %vms", b.bpm, b.ms)
		}
		p := timePoint{ms: b.ms, mpt: 60000 / b.bpm / float64(timeBase)}
		if i == 0 {
			// The first rate also covers everything before it.
			p.tick = b.ms / p.mpt
			tempos = append(tempos, game.Tempo{Tick: 0, MillisPerBeat: 60000 / b.bpm})
		} else {
			prev := t.points[i-1]
			p.tick = prev.tick + (b.ms-prev.ms)/prev.mpt
			tempos = append(tempos, game.Tempo{Tick: int(math.Round(p.tick)), MillisPerBeat: 60000 / b.bpm})
		}
		t.points = append(t.points, p)
	}
	return t, tempos, nil
}

// tick rounds ms to the nearest tick.
func (t *timeline) tick(ms float64) int {
	i := sort.Search(len(t.points), func(i int) bool { return t.points[i].ms > ms }) - 1
	if i < 0 {
		i = 0
	}
	p := t.points[i]
	if i == 0 {
		return int(math.Round(ms / p.mpt))
	}
	return int(math.Round(p.tick + (ms-p.ms)/p.mpt))
}

// laneX maps lanes 1 to 7 across the field.
func laneX(lane float64) float64 {
	return 0.05 + 0.9*(lane-1)/6
}
