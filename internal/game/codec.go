package game

import (
	"encoding/json"
	"io"
	"math"
	"sort"
)

type rawChart struct {
	FormatVersion   int             `json:"format_version"`
	TimeBase        int             `json:"time_base"`
	StartOffsetTime float64         `json:"start_offset_time"`
	PageList        []rawPage       `json:"page_list"`
	TempoList       []rawTempo      `json:"tempo_list"`
	EventOrderList  []rawEventOrder `json:"event_order_list"`
	NoteList        []rawNote       `json:"note_list"`
}

type rawPage struct {
	StartTick         int               `json:"start_tick"`
	EndTick           int               `json:"end_tick"`
	ScanLineDirection *int              `json:"scan_line_direction,omitempty"`
	PositionFunction  *PositionFunction `json:"PositionFunction,omitempty"`
}

type rawTempo struct {
	Tick  int   `json:"tick"`
	Value int64 `json:"value"` // microseconds per beat
}

type rawEvent struct {
	Type int    `json:"type"`
	Args string `json:"args"`
}

type rawEventOrder struct {
	Tick      int        `json:"tick"`
	EventList []rawEvent `json:"event_list"`
}

type rawNote struct {
	PageIndex  int     `json:"page_index"`
	Type       int     `json:"type"`
	ID         int     `json:"id"`
	Tick       int     `json:"tick"`
	X          float64 `json:"x"`
	HasSibling bool    `json:"has_sibling"`
	HoldTick   int     `json:"hold_tick"`
	NextID     int     `json:"next_id"`
	IsForward  bool    `json:"is_forward"`
}

// Decode reads a chart in the canonical JSON format and prepares it.
func Decode(r io.Reader) (*Chart, error) {
	var raw rawChart
	if err := json.NewDecoder(r).Decode(&raw); nil != err {
		return nil, &ChartFormatError{Reason: "decode", Err: err}
	}

	c := &Chart{
		FormatVersion:   raw.FormatVersion,
		TimeBase:        raw.TimeBase,
		StartOffsetTime: raw.StartOffsetTime,
		Meta:            DefaultMeta(),
	}
	for i, p := range raw.PageList {
		dir := AlternatingDirection(i)
		if nil != p.ScanLineDirection {
			dir = *p.ScanLineDirection
		}
		c.Pages = append(c.Pages, Page{
			StartTick:         p.StartTick,
			EndTick:           p.EndTick,
			ScanLineDirection: dir,
			PositionFunction:  p.PositionFunction,
		})
	}
	for _, t := range raw.TempoList {
		c.Tempos = append(c.Tempos, Tempo{Tick: t.Tick, MillisPerBeat: float64(t.Value) / 1000})
	}
	for _, o := range raw.EventOrderList {
		for _, e := range o.EventList {
			c.Events = append(c.Events, EventOrder{Tick: o.Tick, Type: EventType(e.Type), Args: e.Args})
		}
	}
	for _, n := range raw.NoteList {
		c.Notes = append(c.Notes, Note{
			ID:         n.ID,
			Tick:       n.Tick,
			X:          n.X,
			PageIndex:  n.PageIndex,
			Type:       NoteType(n.Type),
			HoldTick:   n.HoldTick,
			NextID:     n.NextID,
			HasSibling: n.HasSibling,
			IsForward:  n.IsForward,
		})
	}
	if err := c.Prepare(); nil != err {
		return nil, err
	}
	return c, nil
}

// Encode writes the chart in the canonical JSON format. Tempos are written
// by tick, notes by id and events grouped by tick.
func (c *Chart) Encode(w io.Writer) error {
	raw := rawChart{
		FormatVersion:   c.FormatVersion,
		TimeBase:        c.TimeBase,
		StartOffsetTime: c.StartOffsetTime,
		PageList:        []rawPage{},
		TempoList:       []rawTempo{},
		EventOrderList:  []rawEventOrder{},
		NoteList:        []rawNote{},
	}
	for _, p := range c.Pages {
		dir := p.ScanLineDirection
		raw.PageList = append(raw.PageList, rawPage{
			StartTick:         p.StartTick,
			EndTick:           p.EndTick,
			ScanLineDirection: &dir,
			PositionFunction:  p.PositionFunction,
		})
	}

	tempos := make([]Tempo, len(c.Tempos))
	copy(tempos, c.Tempos)
	sort.SliceStable(tempos, func(i, j int) bool { return tempos[i].Tick < tempos[j].Tick })
	for _, t := range tempos {
		raw.TempoList = append(raw.TempoList, rawTempo{Tick: t.Tick, Value: int64(math.Round(t.MillisPerBeat * 1000))})
	}

	events := make([]EventOrder, len(c.Events))
	copy(events, c.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Tick < events[j].Tick })
	for _, e := range events {
		last := len(raw.EventOrderList) - 1
		if last < 0 || raw.EventOrderList[last].Tick != e.Tick {
			raw.EventOrderList = append(raw.EventOrderList, rawEventOrder{Tick: e.Tick})
			last++
		}
		raw.EventOrderList[last].EventList = append(raw.EventOrderList[last].EventList, rawEvent{Type: int(e.Type), Args: e.Args})
	}

	notes := make([]Note, len(c.Notes))
	copy(notes, c.Notes)
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	for _, n := range notes {
		raw.NoteList = append(raw.NoteList, rawNote{
			PageIndex:  n.PageIndex,
			Type:       int(n.Type),
			ID:         n.ID,
			Tick:       n.Tick,
			X:          n.X,
			HasSibling: n.HasSibling,
			HoldTick:   n.HoldTick,
			NextID:     n.NextID,
			IsForward:  n.IsForward,
		})
	}
	return json.NewEncoder(w).Encode(raw)
}
