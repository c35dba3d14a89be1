package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.lost.host/meutraa/scanline/internal/game"
)

const legacy = `VERSION 2
BPM 120
PAGE_SHIFT 0
PAGE_SIZE 1
NOTE 0 0.2 0.5 0
NOTE 1 0.8 1.5 0.5
`

func TestImportAndList(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "chart.txt")
	db := filepath.Join(dir, "library.db")
	converted := filepath.Join(dir, "chart.json")
	if err := os.WriteFile(file, []byte(legacy), 0o644); nil != err {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run([]string{"import", file, "--library", db, "--out", converted}, &out); nil != err {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "(2 notes)") {
		t.Logf("unexpected import output %q", out.String())
		t.Fail()
	}

	f, err := os.Open(converted)
	if nil != err {
		t.Fatal(err)
	}
	defer f.Close()
	c, err := game.Decode(f)
	if nil != err {
		t.Fatal(err)
	}
	if len(c.Notes) != 2 || c.Notes[1].HoldTick == 0 {
		t.Logf("unexpected converted notes %+v", c.Notes)
		t.Fail()
	}

	out.Reset()
	if err := run([]string{"list", "--library", db}, &out); nil != err {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(out.String()), "\n"); len(lines) != 1 || !strings.Contains(lines[0], "Unknown") {
		t.Logf("unexpected list output %q", out.String())
		t.Fail()
	}
}

func TestImportMissingFile(t *testing.T) {
	dir := t.TempDir()
	err := run([]string{"import", filepath.Join(dir, "nothing.json"), "--library", filepath.Join(dir, "library.db")}, &bytes.Buffer{})
	if nil == err {
		t.Log("expected an error for a missing file")
		t.Fail()
	}
}
