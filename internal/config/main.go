package config

import (
	"time"

	"git.lost.host/meutraa/scanline/internal/field"
	"git.lost.host/meutraa/scanline/internal/parser"
	"git.lost.host/meutraa/scanline/internal/play"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	CommandPlay   = "play"
	CommandImport = "import"
	CommandList   = "list"
)

type Settings struct {
	Command string

	// Chart is a chart file or the hash of a chart in the library.
	Chart string
	// File is the chart to import.
	File string

	Format        string
	Audio         string
	Meta          string
	Rate          float64
	Offset        time.Duration
	Delay         time.Duration
	MaxFPS        float64
	Bandori       bool
	BandoriSpeed  float64
	Click         bool
	Haptics       bool
	Debug         bool
	ComboStep     int
	Library       string
	FramePeriod   time.Duration
	Out           string
	DropFirstPage bool
	LogLevel      string
}

func formats() []string {
	names := make([]string, len(parser.Formats))
	for i, f := range parser.Formats {
		names[i] = string(f)
	}
	return names
}

// Parse reads the command line. args excludes the program name.
func Parse(args []string) (*Settings, error) {
	s := &Settings{}
	app := kingpin.New("scanline", "Scan-line rhythm chart player")
	app.Version("0.3.0")

	app.Flag("format", "Chart format").Default(string(parser.FormatAuto)).EnumVar(&s.Format, formats()...)
	app.Flag("audio", "Song file, overriding the metadata").StringVar(&s.Audio)
	app.Flag("meta", "Song metadata INI file").StringVar(&s.Meta)
	app.Flag("rate", "Playback speed").Default("1.0").Short('r').Float64Var(&s.Rate)
	app.Flag("offset", "Global offset").Default("0ms").Short('o').DurationVar(&s.Offset)
	app.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&s.Delay)
	app.Flag("max-fps", "Frame rate cap").Default("300").Float64Var(&s.MaxFPS)
	app.Flag("bandori", "Falling notes instead of a scan line").BoolVar(&s.Bandori)
	app.Flag("bandori-speed", "Falling note speed, 1 to 11").Default("9.6").Float64Var(&s.BandoriSpeed)
	app.Flag("click", "Play a click when a note is reached").BoolVar(&s.Click)
	app.Flag("haptics", "Ring the terminal bell when a note is reached").BoolVar(&s.Haptics)
	app.Flag("debug", "Show the debug overlay").BoolVar(&s.Debug)
	app.Flag("combo-step", "Combo count between combo flashes").Default("25").IntVar(&s.ComboStep)
	app.Flag("library", "Chart library database").Default("scanline.db").StringVar(&s.Library)
	app.Flag("frame-period", "Render frame period").Default("1ms").Short('p').DurationVar(&s.FramePeriod)
	app.Flag("log-level", "Minimum level of log lines").Default("info").EnumVar(&s.LogLevel, "debug", "info", "warn", "error", "none")

	playCmd := app.Command(CommandPlay, "Play a chart").Default()
	playCmd.Arg("chart", "Chart file or library hash").Required().StringVar(&s.Chart)
	playCmd.Flag("drop-first-page", "Remove the first page before playing").BoolVar(&s.DropFirstPage)

	importCmd := app.Command(CommandImport, "Convert a chart and store it in the library")
	importCmd.Arg("file", "Chart file").Required().StringVar(&s.File)
	importCmd.Flag("out", "Also write the converted chart here").StringVar(&s.Out)

	app.Command(CommandList, "List charts in the library")

	cmd, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	s.Command = cmd
	return s, nil
}

// Options are the session options the settings describe.
func (s *Settings) Options() play.Options {
	o := play.DefaultOptions()
	if s.MaxFPS > 0 {
		o.MaxFPS = s.MaxFPS
	}
	if s.Bandori {
		o.Mode = field.ModeBandori
	}
	if s.BandoriSpeed > 0 {
		o.BandoriSpeed = s.BandoriSpeed
	}
	if s.ComboStep > 0 {
		o.ComboStep = s.ComboStep
	}
	o.ClickSound = s.Click
	o.Haptics = s.Haptics
	o.Debug = s.Debug
	return o
}
