package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"git.lost.host/meutraa/scanline/internal/game"
)

// LegacyParser reads the line based format:
//
//	VERSION 2
//	BPM 120.000000
//	PAGE_SHIFT 0.1
//	PAGE_SIZE 1.5
//	NOTE 0 0.5 1.25 0.0
//	LINK 3 4 5
//
// Times are in seconds and page k spans [k*size-shift, (k+1)*size-shift).
type LegacyParser struct{}

func (p *LegacyParser) Parse(data []byte) (*game.Chart, error) {
	str := strings.ReplaceAll(string(data), "\r", "")

	var bpm, shift, size float64
	notes := map[int]*legacyNote{}
	var order []int
	var links [][]int
	var last float64

	for n, line := range strings.Split(str, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		var err error
		switch fields[0] {
		case "VERSION":
		case "BPM":
			bpm, err = floatField(fields, 1)
		case "PAGE_SHIFT":
			shift, err = floatField(fields, 1)
		case "PAGE_SIZE":
			size, err = floatField(fields, 1)
		case "NOTE":
			var id int
			var x, at, hold float64
			if len(fields) < 5 {
				err = formatErrorf("expected 4 values")
				break
			}
			if id, err = strconv.Atoi(fields[1]); nil != err {
				break
			}
			if x, err = floatField(fields, 2); nil != err {
				break
			}
			if at, err = floatField(fields, 3); nil != err {
				break
			}
			if hold, err = floatField(fields, 4); nil != err {
				break
			}
			// Ids move up by one so that zero still ends a slide.
			if _, dup := notes[id+1]; dup {
				err = formatErrorf("duplicate note %v", id)
				break
			}
			notes[id+1] = &legacyNote{d: &draft{id: id + 1, x: x, typ: game.TypeTap}, at: at, hold: hold}
			order = append(order, id+1)
			last = math.Max(last, at+math.Max(0, hold))
		case "LINK":
			var ids []int
			for _, f := range fields[1:] {
				id, aerr := strconv.Atoi(f)
				if nil != aerr {
					err = aerr
					break
				}
				ids = append(ids, id+1)
			}
			links = append(links, ids)
		default:
			err = formatErrorf("unknown directive %v", fields[0])
		}
		if nil != err {
			return nil, errors.Wrapf(err, "line %v", n+1)
		}
	}
	if bpm <= 0 {
		return nil, formatErrorf("BPM %v", bpm)
	}
	if size <= 0 {
		return nil, formatErrorf("page size %v", size)
	}

	tb := game.DefaultTimeBase
	tl, tempos, err := newTimeline([]bpmAt{{ms: 0, bpm: bpm}}, tb)
	if nil != err {
		return nil, err
	}
	b := newBuilder(tempos)

	count := int(math.Floor((last+shift)/size)) + 2
	for k := 0; k < count; k++ {
		b.pages = append(b.pages, game.Page{
			StartTick:         tl.tick((float64(k)*size - shift) * 1000),
			EndTick:           tl.tick((float64(k+1)*size - shift) * 1000),
			ScanLineDirection: game.AlternatingDirection(k),
		})
	}

	for _, n := range notes {
		n.d.tick = tl.tick(n.at * 1000)
		if end := tl.tick((n.at + n.hold) * 1000); n.hold > 0 && end > n.d.tick {
			n.d.typ = game.TypeHold
			n.d.hold = end - n.d.tick
		}
	}

	linked := map[int]bool{}
	for _, ids := range links {
		if len(ids) < 2 {
			continue
		}
		var head *draft
		for k, id := range ids {
			n, ok := notes[id]
			if !ok {
				return nil, formatErrorf("link to missing note %v", id-1)
			}
			if linked[id] {
				return nil, formatErrorf("note %v is linked twice", id-1)
			}
			linked[id] = true
			d := n.d
			d.hold = 0
			if k == 0 {
				head = d
				head.typ = game.TypeSlide
				continue
			}
			d.typ = game.TypeSlideNode
			head.nodes = append(head.nodes, d)
		}
	}

	for _, id := range order {
		if d := notes[id].d; d.typ != game.TypeSlideNode {
			b.add(d)
		}
	}
	return b.build()
}

type legacyNote struct {
	d        *draft
	at, hold float64 // seconds
}

func floatField(fields []string, i int) (float64, error) {
	if i >= len(fields) {
		return 0, formatErrorf("missing value")
	}
	v, err := strconv.ParseFloat(fields[i], 64)
	if nil != err {
		return 0, errors.Wrapf(err, "invalid value %q", fields[i])
	}
	return v, nil
}
