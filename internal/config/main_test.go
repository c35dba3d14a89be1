package config

import (
	"testing"
	"time"

	"git.lost.host/meutraa/scanline/internal/field"
)

func TestParsePlay(t *testing.T) {
	s, err := Parse([]string{"play", "song.json", "-r", "1.5", "-o", "20ms", "--bandori", "--drop-first-page"})
	if nil != err {
		t.Fatal(err)
	}
	if s.Command != CommandPlay || s.Chart != "song.json" {
		t.Logf("expected play song.json, got %v %v", s.Command, s.Chart)
		t.Fail()
	}
	if s.Rate != 1.5 || s.Offset != 20*time.Millisecond || !s.Bandori || !s.DropFirstPage {
		t.Logf("flags not applied: %+v", s)
		t.Fail()
	}
	if s.Delay != 1500*time.Millisecond || s.FramePeriod != time.Millisecond || s.Format != "auto" || s.Library != "scanline.db" {
		t.Logf("defaults not applied: %+v", s)
		t.Fail()
	}
}

func TestParseDefaultCommand(t *testing.T) {
	s, err := Parse([]string{"song.json"})
	if nil != err {
		t.Fatal(err)
	}
	if s.Command != CommandPlay || s.Chart != "song.json" {
		t.Logf("expected play song.json, got %v %v", s.Command, s.Chart)
		t.Fail()
	}
}

func TestParseCommands(t *testing.T) {
	s, err := Parse([]string{"import", "chart.txt", "--format", "legacy", "--out", "chart.json"})
	if nil != err {
		t.Fatal(err)
	}
	if s.Command != CommandImport || s.File != "chart.txt" || s.Format != "legacy" || s.Out != "chart.json" {
		t.Logf("unexpected import settings %+v", s)
		t.Fail()
	}

	s, err = Parse([]string{"list", "--library", "other.db"})
	if nil != err {
		t.Fatal(err)
	}
	if s.Command != CommandList || s.Library != "other.db" {
		t.Logf("unexpected list settings %+v", s)
		t.Fail()
	}
}

func TestParseRejects(t *testing.T) {
	tests := map[string][]string{
		"unknown format": {"play", "a.json", "--format", "midi"},
		"missing chart":  {"play"},
		"missing file":   {"import"},
		"bad duration":   {"play", "a.json", "--offset", "soon"},
	}
	for name, args := range tests {
		if _, err := Parse(args); nil == err {
			t.Logf("%v: expected an error", name)
			t.Fail()
		}
	}
}

func TestOptions(t *testing.T) {
	s, err := Parse([]string{"a.json", "--bandori", "--bandori-speed", "4", "--combo-step", "10", "--click", "--max-fps", "60"})
	if nil != err {
		t.Fatal(err)
	}
	o := s.Options()
	if o.Mode != field.ModeBandori || o.BandoriSpeed != 4 || o.ComboStep != 10 || !o.ClickSound || o.MaxFPS != 60 {
		t.Logf("unexpected options %+v", o)
		t.Fail()
	}

	s, err = Parse([]string{"a.json"})
	if nil != err {
		t.Fatal(err)
	}
	o = s.Options()
	if o.Mode != field.ModeScanline || o.BandoriSpeed != field.DefaultBandoriSpeed || o.ComboStep != 25 || o.MaxFPS != 300 {
		t.Logf("unexpected default options %+v", o)
		t.Fail()
	}
}
