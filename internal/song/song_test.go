package song

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/scanline/internal/config"
	"git.lost.host/meutraa/scanline/internal/library"
	"git.lost.host/meutraa/scanline/internal/testdata"
)

func settings(t *testing.T, args ...string) *config.Settings {
	s, err := config.Parse(args)
	if nil != err {
		t.Fatal(err)
	}
	return s
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	chart := filepath.Join(dir, "chart.json")
	meta := filepath.Join(dir, "song.ini")
	if err := os.WriteFile(chart, []byte(testdata.JSON()), 0o644); nil != err {
		t.Fatal(err)
	}
	if err := os.WriteFile(meta, []byte("[song]\ntitle = Example\naudio = song.ogg\noffset = 10\n"), 0o644); nil != err {
		t.Fatal(err)
	}

	s := settings(t, chart, "--meta", meta, "--offset", "20ms", "--drop-first-page")
	song, err := Load(s)
	if nil != err {
		t.Fatal(err)
	}
	if song.Chart.Meta.Title != "Example" || song.Chart.Meta.Offset != 30 {
		t.Logf("unexpected meta %+v", song.Chart.Meta)
		t.Fail()
	}
	if song.Audio != filepath.Join(dir, "song.ogg") {
		t.Logf("unexpected audio %v", song.Audio)
		t.Fail()
	}
	if len(song.Chart.Pages) != 3 {
		t.Logf("expected the first page dropped, got %v pages", len(song.Chart.Pages))
		t.Fail()
	}
}

func TestLoadLibrary(t *testing.T) {
	db := filepath.Join(t.TempDir(), "library.db")
	store, err := library.Open(db)
	if nil != err {
		t.Fatal(err)
	}
	c, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	c.Meta.Title = "Stored"
	sum, err := store.Save(c)
	store.Close()
	if nil != err {
		t.Fatal(err)
	}

	s := settings(t, sum, "--library", db, "--audio", "/music/song.mp3")
	song, err := Load(s)
	if nil != err {
		t.Fatal(err)
	}
	if song.Chart.Meta.Title != "Stored" || song.Audio != "/music/song.mp3" || len(song.Chart.Notes) != 7 {
		t.Logf("unexpected song %+v", song)
		t.Fail()
	}
	if song.Chart.Meta.Offset != 0 {
		t.Logf("unexpected offset %v", song.Chart.Meta.Offset)
		t.Fail()
	}

	if _, err := Load(settings(t, "missing", "--library", db)); nil == err {
		t.Log("expected an error for an unknown chart")
		t.Fail()
	}
}

func TestLength(t *testing.T) {
	c, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	// The last note ends at tick 3840, 4s at 120 BPM.
	s := &Song{Chart: c}
	if d := s.Length() - 6*time.Second; d < -time.Microsecond || d > time.Microsecond {
		t.Logf("expected 6s, got %v", s.Length())
		t.Fail()
	}
}
