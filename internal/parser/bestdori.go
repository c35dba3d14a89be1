package parser

import (
	"math"

	"github.com/tidwall/gjson"

	"git.lost.host/meutraa/scanline/internal/game"
)

const (
	chainLaneTolerance = 0.1
	chainMillis        = 1
)

// BestdoriParser reads lane/time event lists: BPM changes, taps, flicks
// and slide bars placed in seconds on lanes 1 to 7.
type BestdoriParser struct{}

type bar struct {
	d             *draft
	headMs, headX float64
	lastMs, lastX float64
}

type tap struct {
	d  *draft
	ms float64
}

func (p *BestdoriParser) Parse(data []byte) (*game.Chart, error) {
	root, err := eventList(data)
	if nil != err {
		return nil, err
	}

	var bpms []bpmAt
	root.ForEach(func(_, e gjson.Result) bool {
		if e.Get("type").String() == "BPM" {
			bpms = append(bpms, bpmAt{ms: e.Get("time").Float() * 1000, bpm: e.Get("bpm").Float()})
		}
		return true
	})
	tl, tempos, err := newTimeline(bpms, game.DefaultTimeBase)
	if nil != err {
		return nil, err
	}

	var taps []tap
	var bars []*bar
	root.ForEach(func(i, e gjson.Result) bool {
		switch e.Get("type").String() {
		case "Single", "SingleOff", "Skill":
			ms := e.Get("time").Float() * 1000
			taps = append(taps, tap{d: &draft{tick: tl.tick(ms), x: laneX(e.Get("lane").Float()), typ: game.TypeTap}, ms: ms})
		case "Flick":
			ms := e.Get("time").Float() * 1000
			taps = append(taps, tap{d: &draft{tick: tl.tick(ms), x: laneX(e.Get("lane").Float()), typ: game.TypeFlick}, ms: ms})
		case "Bar":
			lanes, times := e.Get("lane").Array(), e.Get("time").Array()
			if len(lanes) != 2 || len(times) != 2 {
				err = formatErrorf("bar %v has %v lanes and %v times", i.Int(), len(lanes), len(times))
				return false
			}
			fromMs, toMs := times[0].Float()*1000, times[1].Float()*1000
			fromX, toX := laneX(lanes[0].Float()), laneX(lanes[1].Float())
			node := &draft{tick: tl.tick(toMs), x: toX, typ: game.TypeSlideNode}
			for _, b := range bars {
				if math.Abs(b.lastX-fromX) <= chainLaneTolerance && math.Abs(b.lastMs-fromMs) <= chainMillis {
					b.d.nodes = append(b.d.nodes, node)
					b.lastMs, b.lastX = toMs, toX
					return true
				}
			}
			head := &draft{tick: tl.tick(fromMs), x: fromX, typ: game.TypeSlide, nodes: []*draft{node}}
			bars = append(bars, &bar{d: head, headMs: fromMs, headX: fromX, lastMs: toMs, lastX: toX})
		}
		return true
	})
	if nil != err {
		return nil, err
	}

	b := newBuilder(tempos)
	for _, t := range taps {
		covered := false
		for _, s := range bars {
			if math.Abs(s.headX-t.d.x) <= chainLaneTolerance && math.Abs(s.headMs-t.ms) <= chainMillis {
				covered = true
				break
			}
		}
		if !covered {
			b.add(t.d)
		}
	}
	for _, s := range bars {
		b.add(s.d)
	}
	return b.build()
}

// BestdoriRawParser reads beat-offset event lists where every position is
// given in beats.
type BestdoriRawParser struct{}

func (p *BestdoriRawParser) Parse(data []byte) (*game.Chart, error) {
	root, err := eventList(data)
	if nil != err {
		return nil, err
	}
	tb := float64(game.DefaultTimeBase)
	tick := func(e gjson.Result) int {
		return int(math.Round(e.Get("beat").Float() * tb))
	}

	var tempos []game.Tempo
	var notes []*draft
	open := map[string]*draft{}
	root.ForEach(func(i, e gjson.Result) bool {
		switch e.Get("type").String() {
		case "System":
			if e.Get("cmd").String() == "BPM" {
				bpm := e.Get("bpm").Float()
				if bpm <= 0 {
					err = formatErrorf("event %v sets BPM %v", i.Int(), bpm)
					return false
				}
				tempos = append(tempos, game.Tempo{Tick: tick(e), MillisPerBeat: 60000 / bpm})
			}
		case "Note":
			d := &draft{tick: tick(e), x: laneX(e.Get("lane").Float()), typ: game.TypeTap}
			switch e.Get("note").String() {
			case "Single":
				if e.Get("flick").Bool() {
					d.typ = game.TypeFlick
				}
				notes = append(notes, d)
			case "Slide":
				pos := e.Get("pos").String()
				head, ok := open[pos]
				if !ok || e.Get("start").Bool() {
					d.typ = game.TypeSlide
					open[pos] = d
					notes = append(notes, d)
				} else {
					d.typ = game.TypeSlideNode
					head.nodes = append(head.nodes, d)
				}
				if e.Get("end").Bool() {
					delete(open, pos)
				}
			}
		}
		return true
	})
	if nil != err {
		return nil, err
	}
	if len(tempos) == 0 {
		return nil, formatErrorf("no BPM")
	}

	b := newBuilder(tempos)
	for _, d := range notes {
		b.add(d)
	}
	return b.build()
}

func eventList(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, formatErrorf("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return gjson.Result{}, formatErrorf("expected an array of events")
	}
	return root, nil
}
