package field

import (
	"math"
	"testing"

	"git.lost.host/meutraa/scanline/internal/game"
)

func resolver(mode Mode) Resolver {
	return Resolver{Layout: NewLayout(1920, 1080, 1), Mode: mode, BandoriSpeed: DefaultBandoriSpeed}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(1920, 1080, 1)
	if !near(l.Ratio, 1) || !near(l.FieldWidth, 1632) || !near(l.FieldHeight, 755) {
		t.Logf("unexpected layout %+v", l)
		t.Fail()
	}
	half := NewLayout(960, 540, 1)
	if !near(half.Ratio, 0.5) {
		t.Logf("expected ratio 0.5, got %v", half.Ratio)
		t.Fail()
	}
}

func TestAnchors(t *testing.T) {
	r := resolver(ModeScanline)
	top, bottom := r.Anchors(&game.Page{})
	// 540 +- 377.5 shifted down by 23
	if !near(bottom, 940.5) || !near(top, 185.5) {
		t.Logf("unexpected anchors %v %v", top, bottom)
		t.Fail()
	}

	warped := &game.Page{PositionFunction: &game.PositionFunction{Arguments: [2]float64{0.5, 1}}}
	wtop, wbottom := r.Anchors(warped)
	if !near(wbottom-wtop, (bottom-top)/2) || !near((wtop+wbottom)/2, (top+bottom)/2-377.5) {
		t.Logf("unexpected warped anchors %v %v", wtop, wbottom)
		t.Fail()
	}
}

func TestYPositionScanline(t *testing.T) {
	r := resolver(ModeScanline)
	top, bottom := r.Anchors(&game.Page{})
	up := &game.Page{StartTick: 960, EndTick: 1920, ScanLineDirection: game.DirectionUp}
	down := &game.Page{StartTick: 1920, EndTick: 2880, ScanLineDirection: game.DirectionDown}
	still := &game.Page{StartTick: 0, EndTick: 960, ScanLineDirection: game.DirectionStationary}

	tests := []struct {
		page     *game.Page
		tick     int
		expected float64
	}{
		{up, 960, bottom},
		{up, 1440, (top + bottom) / 2},
		{up, 1920, top},
		{down, 1920, top},
		{down, 2880, bottom},
		{still, 100, (top + bottom) / 2},
	}
	for _, test := range tests {
		if y := r.YPosition(test.page, test.tick, 0); !near(y, test.expected) {
			t.Logf("tick %v: expected %v, got %v", test.tick, test.expected, y)
			t.Fail()
		}
	}

	// Consecutive pages of opposite directions meet at the same edge.
	if !near(r.YPosition(up, up.EndTick, 0), r.YPosition(down, down.StartTick, 0)) {
		t.Log("scan line jumps between pages")
		t.Fail()
	}
}

func TestYPositionBandori(t *testing.T) {
	r := resolver(ModeBandori)
	_, bottom := r.Anchors(&game.Page{})
	p := &game.Page{StartTick: 0, EndTick: 960, ScanLineDirection: game.DirectionUp}
	if y := r.YPosition(p, 500, 500); !near(y, bottom) {
		t.Logf("due note should sit on the judgement line, got %v", y)
		t.Fail()
	}
	soon := r.YPosition(p, 600, 500)
	later := r.YPosition(p, 900, 500)
	if !(later < soon && soon < bottom) {
		t.Logf("notes should fall toward the line: %v %v %v", later, soon, bottom)
		t.Fail()
	}

	slow := resolver(ModeBandori)
	slow.BandoriSpeed = 1
	if !near(slow.StayTicks(), 5.5) || !near(r.StayTicks(), 1.2) {
		t.Logf("unexpected stay ticks %v %v", slow.StayTicks(), r.StayTicks())
		t.Fail()
	}
}

func TestX(t *testing.T) {
	r := resolver(ModeScanline)
	if !near(r.X(0), 144) || !near(r.X(1), 1776) || !near(r.X(0.5), 960) {
		t.Logf("unexpected x %v %v %v", r.X(0), r.X(0.5), r.X(1))
		t.Fail()
	}
	b := resolver(ModeBandori)
	if !near(b.X(0.5), 960) || !near(b.X(1)-b.X(0), 1632*0.8) {
		t.Logf("unexpected bandori x %v %v", b.X(0), b.X(1))
		t.Fail()
	}
}
