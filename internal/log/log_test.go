package log

import (
	"strings"
	"testing"
	"time"
)

func TestLevels(t *testing.T) {
	var out strings.Builder
	l := New(&out, LevelWarn)
	l.Infof("quiet")
	l.Warnf("loud %v", 1)
	if strings.Contains(out.String(), "quiet") || !strings.Contains(out.String(), "loud 1") {
		t.Logf("unexpected output %q", out.String())
		t.Fail()
	}
	// Info lines still reach the overlay, debug lines only at debug level.
	l.Debugf("hidden")
	lines := l.Lines()
	if len(lines) != 2 || lines[0].Content != "quiet" {
		t.Logf("unexpected lines %v", lines)
		t.Fail()
	}
}

func TestLinesExpire(t *testing.T) {
	now := time.Duration(0)
	l := Discard()
	l.SetClock(func() time.Duration { return now })
	pinned := l.Pin("FPS", "0")
	l.Tagf("Chart", "loaded")

	now = 6 * time.Second
	lines := l.Lines()
	if len(lines) != 1 || lines[0] != pinned {
		t.Logf("expected only the pinned line, got %v", lines)
		t.Fail()
	}

	pinned.Hidden = true
	if len(l.Lines()) != 0 {
		t.Log("hidden line is visible")
		t.Fail()
	}
}

func TestLinesCapped(t *testing.T) {
	l := Discard()
	for i := 0; i < 40; i++ {
		l.Infof("line %v", i)
	}
	lines := l.Lines()
	if len(lines) != maxLines || lines[0].Content != "line 10" {
		t.Logf("expected the newest %v lines, got %v starting at %q", maxLines, len(lines), lines[0].Content)
		t.Fail()
	}
}

func TestLevelFromString(t *testing.T) {
	tests := map[string]Level{
		"debug": LevelDebug,
		"WARN":  LevelWarn,
		"none":  LevelNone,
		"what":  LevelInfo,
	}
	for in, expected := range tests {
		if got := LevelFromString(in); got != expected {
			t.Logf("%q: expected %v, got %v", in, expected, got)
			t.Fail()
		}
	}
}
