package game_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"git.lost.host/meutraa/scanline/internal/game"
	"git.lost.host/meutraa/scanline/internal/testdata"
)

func TestTempoAt(t *testing.T) {
	m, err := game.NewTempoMap([]game.Tempo{{Tick: 960, MillisPerBeat: 250}, {Tick: 0, MillisPerBeat: 500}}, 480)
	if nil != err {
		t.Fatal(err)
	}
	tests := []struct {
		tick     int
		expected float64
	}{
		{-5, 500},
		{0, 500},
		{959, 500},
		{960, 250},
		{100000, 250},
	}
	for _, test := range tests {
		if got := m.Tempo(test.tick).MillisPerBeat; got != test.expected {
			t.Logf("tick %v: expected %v, got %v", test.tick, test.expected, got)
			t.Fail()
		}
	}
}

func TestNewTempoMapRejects(t *testing.T) {
	tests := []struct {
		tempos   []game.Tempo
		timeBase int
	}{
		{nil, 480},
		{[]game.Tempo{{Tick: 0, MillisPerBeat: 500}}, 0},
		{[]game.Tempo{{Tick: 0, MillisPerBeat: 0}}, 480},
		{[]game.Tempo{{Tick: 0, MillisPerBeat: math.Inf(1)}}, 480},
	}
	for i, test := range tests {
		if _, err := game.NewTempoMap(test.tempos, test.timeBase); !errors.Is(err, game.ErrChartFormat) {
			t.Logf("case %v: expected a chart format error, got %v", i, err)
			t.Fail()
		}
	}
}

func TestTickToTime(t *testing.T) {
	c, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	if ms := c.TickToTime(960); math.Abs(ms-1000) > 1e-6 {
		t.Logf("expected tick 960 at 1000ms, got %v", ms)
		t.Fail()
	}

	m, err := game.NewTempoMap([]game.Tempo{{Tick: 0, MillisPerBeat: 480}, {Tick: 960, MillisPerBeat: 240}}, 480)
	if nil != err {
		t.Fatal(err)
	}
	timer := game.NewTickTimer(m, 1000)
	tests := []struct {
		tick     int
		expected float64
	}{
		{-100, -100},
		{0, 0},
		{960, 960},
		{1000, 980},
		{2000, 1480},
	}
	for _, test := range tests {
		if got := timer.TickToTime(test.tick); math.Abs(got-test.expected) > 1e-9 {
			t.Logf("tick %v: expected %v, got %v", test.tick, test.expected, got)
			t.Fail()
		}
	}
}

func TestTickTimerRoundTrip(t *testing.T) {
	c, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	timer := c.Timer()
	prev := math.Inf(-1)
	for tick := 0; tick <= timer.LastTick(); tick++ {
		ms := timer.TickToTime(tick)
		if ms <= prev {
			t.Fatalf("time went backwards at tick %v", tick)
		}
		prev = ms
		if got := timer.TimeToTick(ms); got != tick {
			t.Fatalf("tick %v came back as %v", tick, got)
		}
	}
	if got := timer.TimeToTick(1e12); got != timer.LastTick() {
		t.Logf("expected a clamp to %v, got %v", timer.LastTick(), got)
		t.Fail()
	}
	if got := timer.TimeToTick(-50); got != 0 {
		t.Logf("expected a clamp to 0, got %v", got)
		t.Fail()
	}
}

func TestPageIndex(t *testing.T) {
	c, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	tests := []struct {
		tick     int
		expected int
	}{
		{0, 0},
		{959, 0},
		{960, 1},
		{1920, 2},
		{3839, 3},
		{3840, 3},
		{5000, 0},
		{-1, 0},
	}
	for _, test := range tests {
		if got := c.PageIndex(test.tick); got != test.expected {
			t.Logf("tick %v: expected page %v, got %v", test.tick, test.expected, got)
			t.Fail()
		}
	}
}

func TestChains(t *testing.T) {
	c, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	head, _ := c.NoteIndex(4)
	waypoints := c.Waypoints(head)
	if len(waypoints) != 2 || c.Notes[waypoints[0]].ID != 5 || c.Notes[waypoints[1]].ID != 6 {
		t.Logf("unexpected waypoints %v", waypoints)
		t.Fail()
	}
	node, _ := c.NoteIndex(6)
	if p, ok := c.Parent(node); !ok || p != head {
		t.Logf("expected parent %v, got %v (%v)", head, p, ok)
		t.Fail()
	}
	if end := c.EndTick(head); end != 2880 {
		t.Logf("expected slide end 2880, got %v", end)
		t.Fail()
	}
	hold, _ := c.NoteIndex(3)
	if judge := c.JudgeTick(hold); judge != 1440 {
		t.Logf("expected hold judge tick 1440, got %v", judge)
		t.Fail()
	}
	if last := c.LastNoteTick(); last != 3840 {
		t.Logf("expected last note tick 3840, got %v", last)
		t.Fail()
	}
}

func TestPrepareRejects(t *testing.T) {
	tests := []struct {
		name  string
		pages []game.Page
		notes []game.Note
	}{
		{"no pages", nil, nil},
		{"empty page", []game.Page{{StartTick: 10, EndTick: 10}}, nil},
		{"overlap", []game.Page{{StartTick: 0, EndTick: 960}, {StartTick: 480, EndTick: 1440}}, nil},
		{"direction", []game.Page{{StartTick: 0, EndTick: 960, ScanLineDirection: 2}}, nil},
		{"type", testdata.Pages(1, 960), []game.Note{{ID: 1, Type: 9}}},
		{"duplicate", testdata.Pages(1, 960), []game.Note{{ID: 1}, {ID: 1}}},
		{"page", testdata.Pages(1, 960), []game.Note{{ID: 1, PageIndex: 1}}},
		{"outside page", testdata.Pages(2, 960), []game.Note{{ID: 1, Tick: 1200}}},
		{"hold", testdata.Pages(1, 960), []game.Note{{ID: 1, Type: game.TypeHold}}},
		{"missing link", testdata.Pages(1, 960), []game.Note{{ID: 1, Type: game.TypeSlide, NextID: 2}}},
		{"cycle", testdata.Pages(1, 960), []game.Note{
			{ID: 1, Type: game.TypeSlide, NextID: 2},
			{ID: 2, Type: game.TypeSlideNode, NextID: 3},
			{ID: 3, Type: game.TypeSlideNode, NextID: 2},
		}},
		{"not a node", testdata.Pages(1, 960), []game.Note{
			{ID: 1, Type: game.TypeSlide, NextID: 2},
			{ID: 2, Type: game.TypeTap},
		}},
		{"backwards", testdata.Pages(1, 960), []game.Note{
			{ID: 1, Tick: 480, Type: game.TypeSlide, NextID: 2},
			{ID: 2, Tick: 240, Type: game.TypeSlideNode},
		}},
		{"shared node", testdata.Pages(1, 960), []game.Note{
			{ID: 1, Type: game.TypeSlide, NextID: 3},
			{ID: 2, Type: game.TypeSlide, NextID: 3},
			{ID: 3, Tick: 100, Type: game.TypeSlideNode},
		}},
	}
	for _, test := range tests {
		_, err := testdata.Chart(test.pages, []game.Tempo{{MillisPerBeat: 500}}, test.notes)
		if !errors.Is(err, game.ErrChartFormat) {
			t.Logf("%v: expected a chart format error, got %v", test.name, err)
			t.Fail()
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := game.Decode(strings.NewReader(`{"page_list": 4`))
	var ferr *game.ChartFormatError
	if !errors.As(err, &ferr) || ferr.Reason != "decode" {
		t.Logf("expected a decode error, got %v", err)
		t.Fail()
	}
}

func TestDecodeDefaults(t *testing.T) {
	c, err := game.Decode(strings.NewReader(`{
		"page_list": [{"start_tick": 0, "end_tick": 480}, {"start_tick": 480, "end_tick": 960}],
		"tempo_list": [{"tick": 0, "value": 500000}],
		"note_list": []
	}`))
	if nil != err {
		t.Fatal(err)
	}
	if c.TimeBase != game.DefaultTimeBase {
		t.Logf("expected time base %v, got %v", game.DefaultTimeBase, c.TimeBase)
		t.Fail()
	}
	if c.Pages[0].ScanLineDirection != game.DirectionUp || c.Pages[1].ScanLineDirection != game.DirectionDown {
		t.Logf("expected alternating directions, got %v and %v", c.Pages[0].ScanLineDirection, c.Pages[1].ScanLineDirection)
		t.Fail()
	}
	if c.Tempos[0].MillisPerBeat != 500 {
		t.Logf("expected 500ms per beat, got %v", c.Tempos[0].MillisPerBeat)
		t.Fail()
	}
}

func TestEncodeDecode(t *testing.T) {
	c, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := c.Encode(&buf); nil != err {
		t.Fatal(err)
	}
	back, err := game.Decode(&buf)
	if nil != err {
		t.Fatal(err)
	}
	if len(back.Notes) != len(c.Notes) || len(back.Pages) != len(c.Pages) || len(back.Events) != len(c.Events) {
		t.Log("encoded chart lost data")
		t.Fail()
	}
	head, _ := back.NoteIndex(4)
	if len(back.Waypoints(head)) != 2 {
		t.Log("encoded chart lost its slide chain")
		t.Fail()
	}
}

func TestRemoveFirstPage(t *testing.T) {
	c, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	if err := c.RemoveFirstPage(); nil != err {
		t.Fatal(err)
	}
	if len(c.Pages) != 3 || c.Pages[0].StartTick != 0 || c.Pages[0].EndTick != 960 {
		t.Logf("unexpected pages %+v", c.Pages)
		t.Fail()
	}
	if len(c.Notes) != 5 {
		t.Logf("expected 5 notes, got %v", len(c.Notes))
		t.Fail()
	}
	if _, ok := c.NoteIndex(1); ok {
		t.Log("note on the removed page survived")
		t.Fail()
	}
	node, _ := c.NoteIndex(6)
	if c.Notes[node].Tick != 1920 || c.Notes[node].PageIndex != 2 {
		t.Logf("expected node at 1920 on page 2, got %v on %v", c.Notes[node].Tick, c.Notes[node].PageIndex)
		t.Fail()
	}
	if c.Tempos[0].Tick != 0 || c.Events[0].Tick != 0 || c.Events[1].Tick != 960 {
		t.Logf("unexpected timing %+v %+v", c.Tempos, c.Events)
		t.Fail()
	}

	single, err := testdata.Chart(testdata.Pages(1, 960), []game.Tempo{{MillisPerBeat: 500}}, nil)
	if nil != err {
		t.Fatal(err)
	}
	if err := single.RemoveFirstPage(); nil == err {
		t.Log("removed the only page")
		t.Fail()
	}
}

func TestHoldProgress(t *testing.T) {
	n := &game.Note{Tick: 100, HoldTick: 200, Type: game.TypeHold}
	tests := []struct {
		tick     int
		expected float64
	}{
		{0, 0},
		{100, 0},
		{200, 0.5},
		{300, 1},
		{900, 1},
	}
	for _, test := range tests {
		if got := game.HoldProgress(n, test.tick); got != test.expected {
			t.Logf("tick %v: expected %v, got %v", test.tick, test.expected, got)
			t.Fail()
		}
	}
}

func TestEventText(t *testing.T) {
	tests := []struct {
		event game.EventOrder
		text  string
		color string
	}{
		{game.EventOrder{Type: game.EventSpeedUp}, "SPEED UP", "#d81b60"},
		{game.EventOrder{Type: game.EventSpeedDown}, "SPEED DOWN", "#4db6ac"},
		{game.EventOrder{Type: game.EventText, Args: "HELLO, WORLD,#ff0000"}, "HELLO, WORLD", "#ff0000"},
		{game.EventOrder{Type: game.EventScanlineHide, Args: "4"}, "", ""},
	}
	for _, test := range tests {
		if test.event.Text() != test.text || test.event.Color() != test.color {
			t.Logf("expected %q %q, got %q %q", test.text, test.color, test.event.Text(), test.event.Color())
			t.Fail()
		}
	}
}

func TestRemoveFirstPageClampsEvents(t *testing.T) {
	c, err := testdata.Chart(testdata.Pages(3, 960), []game.Tempo{{MillisPerBeat: 500}}, nil)
	if nil != err {
		t.Fatal(err)
	}
	c.Events = []game.EventOrder{
		{Tick: 100, Type: game.EventScanlineHide, Args: "4"},
		{Tick: 1200, Type: game.EventSpeedUp},
	}
	if err := c.Prepare(); nil != err {
		t.Fatal(err)
	}
	if err := c.RemoveFirstPage(); nil != err {
		t.Fatal(err)
	}
	if len(c.Events) != 2 || c.Events[0].Tick != 0 || c.Events[0].Type != game.EventScanlineHide || c.Events[1].Tick != 240 {
		t.Logf("expected events at 0 and 240, got %+v", c.Events)
		t.Fail()
	}
}

func TestFailedPrepareKeepsCaches(t *testing.T) {
	tests := map[string]func(c *game.Chart){
		"zero length hold": func(c *game.Chart) {
			c.Notes[0].Type = game.TypeHold
		},
		"missing link": func(c *game.Chart) {
			c.Notes[4].NextID = 99
		},
	}
	for name, breakChart := range tests {
		c, err := testdata.GetChart()
		if nil != err {
			t.Fatal(err)
		}
		c.Events = append(c.Events, game.EventOrder{Tick: 0, Type: game.EventSpeedDown})
		breakChart(c)
		if err := c.Prepare(); !errors.Is(err, game.ErrChartFormat) {
			t.Fatalf("%v: expected a chart format error, got %v", name, err)
		}
		if c.Notes[0].Kind != game.KindTap {
			t.Logf("%v: note kind rewritten to %v", name, c.Notes[0].Kind)
			t.Fail()
		}
		if len(c.Waypoints(3)) != 2 {
			t.Logf("%v: slide chain lost, got %v", name, c.Waypoints(3))
			t.Fail()
		}
		if c.Events[len(c.Events)-1].Tick != 0 {
			t.Logf("%v: events reordered %+v", name, c.Events)
			t.Fail()
		}
	}
}
