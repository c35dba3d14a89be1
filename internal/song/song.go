package song

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"git.lost.host/meutraa/scanline/internal/config"
	"git.lost.host/meutraa/scanline/internal/game"
	"git.lost.host/meutraa/scanline/internal/library"
	"git.lost.host/meutraa/scanline/internal/parser"
)

// trailer keeps a silent song running after the last note.
const trailer = 2 * time.Second

// Song is a chart ready to play and the audio that goes with it.
type Song struct {
	Chart *game.Chart
	Audio string
}

// Read parses a chart file and applies the metadata file, if any.
func Read(file string, s *config.Settings) (*game.Chart, error) {
	c, err := parser.ParseFile(file, parser.Format(s.Format))
	if nil != err {
		return nil, err
	}
	if s.Meta != "" {
		if c.Meta, err = parser.LoadMeta(s.Meta); nil != err {
			return nil, err
		}
	}
	return c, nil
}

// Load finds the chart named by the settings. A path to an existing file
// is parsed, anything else is looked up in the library.
func Load(s *config.Settings) (*Song, error) {
	var (
		c   *game.Chart
		dir string
	)
	if _, err := os.Stat(s.Chart); nil == err {
		if c, err = Read(s.Chart, s); nil != err {
			return nil, err
		}
		dir = filepath.Dir(s.Chart)
	} else {
		store, err := library.Open(s.Library)
		if nil != err {
			return nil, err
		}
		defer store.Close()
		if c, err = store.Load(s.Chart); nil != err {
			return nil, fmt.Errorf("unable to find chart %v: %w", s.Chart, err)
		}
		if s.Meta != "" {
			if c.Meta, err = parser.LoadMeta(s.Meta); nil != err {
				return nil, err
			}
		}
	}

	if s.DropFirstPage {
		if err := c.RemoveFirstPage(); nil != err {
			return nil, err
		}
	}
	c.Meta.Offset += float64(s.Offset) / 1e6

	audio := c.Meta.Audio
	if s.Audio != "" {
		audio = s.Audio
	} else if audio != "" && !filepath.IsAbs(audio) && dir != "" {
		if _, err := os.Stat(audio); nil != err {
			audio = filepath.Join(dir, audio)
		}
	}
	return &Song{Chart: c, Audio: audio}, nil
}

// Length is how long the chart runs, used when there is no audio.
func (s *Song) Length() time.Duration {
	ms := s.Chart.TickToTime(s.Chart.LastNoteTick()) + s.Chart.Meta.Offset
	return time.Duration(math.Round(ms*float64(time.Millisecond))) + trailer
}
