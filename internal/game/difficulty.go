package game

type Difficulty struct {
	Name  string
	Level int
	Color string
}

// Meta describes the song a chart belongs to. Keys the player does not
// understand are kept in Extra.
type Meta struct {
	Title      string
	Audio      string
	Icon       string
	Background string
	ThemeColor string
	Offset     float64 // milliseconds subtracted from the audio clock
	Difficulty Difficulty
	Extra      map[string]string
}

func DefaultMeta() Meta {
	return Meta{
		Title:      "Unknown",
		ThemeColor: "#cd8145",
		Difficulty: Difficulty{Name: "CHAOS", Level: 12, Color: "#a81ca8"},
		Extra:      map[string]string{},
	}
}
