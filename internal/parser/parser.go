package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"git.lost.host/meutraa/scanline/internal/game"
)

type Format string

const (
	FormatAuto        Format = "auto"
	FormatCanonical   Format = "canonical"
	FormatBestdori    Format = "bestdori"
	FormatBestdoriRaw Format = "bestdori-raw"
	FormatLegacy      Format = "legacy"
)

// Formats lists every format a chart can be read from.
var Formats = []Format{FormatAuto, FormatCanonical, FormatBestdori, FormatBestdoriRaw, FormatLegacy}

type Parser interface {
	Parse(data []byte) (*game.Chart, error)
}

// For returns the parser of a concrete format.
func For(format Format) (Parser, error) {
	switch format {
	case FormatCanonical:
		return &CanonicalParser{}, nil
	case FormatBestdori:
		return &BestdoriParser{}, nil
	case FormatBestdoriRaw:
		return &BestdoriRawParser{}, nil
	case FormatLegacy:
		return &LegacyParser{}, nil
	}
	return nil, errors.Errorf("no parser for format %q", format)
}

// Detect guesses the format of data read from the file name.
func Detect(name string, data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if strings.EqualFold(filepath.Ext(name), ".txt") || hasDirective(trimmed, "PAGE_SIZE") {
		return FormatLegacy
	}
	if !gjson.ValidBytes(trimmed) {
		return FormatCanonical
	}
	root := gjson.ParseBytes(trimmed)
	if root.IsObject() {
		return FormatCanonical
	}
	if root.IsArray() {
		raw := false
		root.ForEach(func(_, e gjson.Result) bool {
			raw = e.Get("cmd").Exists() || e.Get("beat").Exists()
			return !raw
		})
		if raw {
			return FormatBestdoriRaw
		}
		return FormatBestdori
	}
	return FormatCanonical
}

// hasDirective reports whether a line of data starts with the keyword.
func hasDirective(data []byte, keyword string) bool {
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimSpace(line), []byte(keyword)) {
			return true
		}
	}
	return false
}

// ParseFile reads a chart from file. FormatAuto detects the format.
func ParseFile(file string, format Format) (*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}
	if format == FormatAuto || format == "" {
		format = Detect(file, data)
	}
	p, err := For(format)
	if nil != err {
		return nil, err
	}
	chart, err := p.Parse(data)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to parse %v as %v", file, format)
	}
	return chart, nil
}

type CanonicalParser struct{}

func (p *CanonicalParser) Parse(data []byte) (*game.Chart, error) {
	return game.Decode(bytes.NewReader(data))
}

// formatErrorf reports malformed input so that errors.Is matches
// game.ErrChartFormat.
func formatErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(game.ErrChartFormat, format, args...)
}
