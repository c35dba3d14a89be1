package testdata

import (
	"strings"

	"git.lost.host/meutraa/scanline/internal/game"
)

// GetChart decodes a small 120 BPM chart with one note of every kind.
//
//	id  kind       tick  page
//	1   tap         480  0
//	2   flick       720  0
//	3   hold        960  1  (480 ticks)
//	4   slide      1920  2  -> 5 -> 6
//	5   slide node 2400  2
//	6   slide node 2880  3
//	7   long hold  2880  3  (960 ticks)
func GetChart() (*game.Chart, error) {
	return game.Decode(strings.NewReader(data))
}

// JSON is the raw canonical form of GetChart.
func JSON() string {
	return data
}

// Chart builds and prepares a chart from its parts, for tests that need a
// specific shape.
func Chart(pages []game.Page, tempos []game.Tempo, notes []game.Note) (*game.Chart, error) {
	c := &game.Chart{
		FormatVersion: 2,
		TimeBase:      game.DefaultTimeBase,
		Pages:         pages,
		Tempos:        tempos,
		Notes:         notes,
		Meta:          game.DefaultMeta(),
	}
	if err := c.Prepare(); nil != err {
		return nil, err
	}
	return c, nil
}

// Pages returns count contiguous pages of length ticks with alternating
// directions, starting upward.
func Pages(count, length int) []game.Page {
	pages := make([]game.Page, count)
	for i := range pages {
		pages[i] = game.Page{
			StartTick:         i * length,
			EndTick:           (i + 1) * length,
			ScanLineDirection: game.AlternatingDirection(i),
		}
	}
	return pages
}

const data = `{
  "format_version": 2,
  "time_base": 480,
  "start_offset_time": 0,
  "page_list": [
    {"start_tick": 0, "end_tick": 960, "scan_line_direction": 1},
    {"start_tick": 960, "end_tick": 1920, "scan_line_direction": -1},
    {"start_tick": 1920, "end_tick": 2880, "scan_line_direction": 1},
    {"start_tick": 2880, "end_tick": 3840, "scan_line_direction": -1}
  ],
  "tempo_list": [
    {"tick": 0, "value": 500000}
  ],
  "event_order_list": [
    {"tick": 960, "event_list": [{"type": 0, "args": "R"}]},
    {"tick": 1920, "event_list": [{"type": 8, "args": "HELLO,#ff0000"}]}
  ],
  "note_list": [
    {"page_index": 0, "type": 0, "id": 1, "tick": 480, "x": 0.2, "has_sibling": false, "hold_tick": 0, "next_id": 0, "is_forward": false},
    {"page_index": 0, "type": 5, "id": 2, "tick": 720, "x": 0.8, "has_sibling": false, "hold_tick": 0, "next_id": 0, "is_forward": false},
    {"page_index": 1, "type": 1, "id": 3, "tick": 960, "x": 0.5, "has_sibling": false, "hold_tick": 480, "next_id": 0, "is_forward": false},
    {"page_index": 2, "type": 3, "id": 4, "tick": 1920, "x": 0.1, "has_sibling": false, "hold_tick": 0, "next_id": 5, "is_forward": false},
    {"page_index": 2, "type": 4, "id": 5, "tick": 2400, "x": 0.5, "has_sibling": false, "hold_tick": 0, "next_id": 6, "is_forward": false},
    {"page_index": 3, "type": 4, "id": 6, "tick": 2880, "x": 0.9, "has_sibling": false, "hold_tick": 0, "next_id": -1, "is_forward": false},
    {"page_index": 3, "type": 2, "id": 7, "tick": 2880, "x": 0.3, "has_sibling": true, "hold_tick": 960, "next_id": 0, "is_forward": false}
  ]
}`
