package parser

import (
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"git.lost.host/meutraa/scanline/internal/game"
)

// LoadMeta reads song metadata from an INI file:
//
//	[song]
//	title = Example
//	audio = song.mp3
//	offset = 120
//
//	[difficulty]
//	name = CHAOS
//	level = 12
//
//	[extra]
//	charter = someone
//
// Relative file names are resolved against the directory of path. Missing
// keys keep their defaults.
func LoadMeta(path string) (game.Meta, error) {
	m := game.DefaultMeta()
	cfg, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveSections:     true,
		SkipUnrecognizableLines: true,
	}, path)
	if nil != err {
		return m, errors.Wrapf(err, "unable to read metadata %v", path)
	}
	dir := filepath.Dir(path)
	resolve := func(name string) string {
		if name == "" || filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(dir, name)
	}

	song := cfg.Section("song")
	m.Title = song.Key("title").MustString(m.Title)
	m.Audio = resolve(song.Key("audio").String())
	m.Icon = resolve(song.Key("icon").String())
	m.Background = resolve(song.Key("background").String())
	m.ThemeColor = song.Key("theme_color").MustString(m.ThemeColor)
	m.Offset = song.Key("offset").MustFloat64(m.Offset)

	diff := cfg.Section("difficulty")
	m.Difficulty.Name = diff.Key("name").MustString(m.Difficulty.Name)
	m.Difficulty.Level = diff.Key("level").MustInt(m.Difficulty.Level)
	m.Difficulty.Color = diff.Key("color").MustString(m.Difficulty.Color)

	if cfg.HasSection("extra") {
		m.Extra = map[string]string{}
		for _, k := range cfg.Section("extra").Keys() {
			m.Extra[k.Name()] = k.String()
		}
	}
	return m, nil
}
