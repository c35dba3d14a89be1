package library

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"git.lost.host/meutraa/scanline/internal/game"
)

var ErrNotFound = errors.New("chart not found")

// Store keeps imported charts as canonical JSON keyed by the hash of that
// JSON. Song metadata rides along under a "meta" key that the chart
// decoder ignores.
type Store struct {
	db *sql.DB
}

type Entry struct {
	Sum        string
	Title      string
	Difficulty string
	Level      int
	Notes      int
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	initStatement := `
	create table if not exists charts
	  (
		  id integer not null primary key,
		  sum text not null unique,
		  data blob not null
	  );
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create library: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func hash(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Save stores c and returns its sum. Saving the same chart twice keeps a
// single entry with the latest metadata.
func (s *Store) Save(c *game.Chart) (string, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf); nil != err {
		return "", err
	}
	sum := hash(buf.Bytes())

	data := buf.Bytes()
	var err error
	for _, kv := range []struct {
		path  string
		value interface{}
	}{
		{"meta.title", c.Meta.Title},
		{"meta.audio", c.Meta.Audio},
		{"meta.icon", c.Meta.Icon},
		{"meta.background", c.Meta.Background},
		{"meta.theme_color", c.Meta.ThemeColor},
		{"meta.offset", c.Meta.Offset},
		{"meta.difficulty.name", c.Meta.Difficulty.Name},
		{"meta.difficulty.level", c.Meta.Difficulty.Level},
		{"meta.difficulty.color", c.Meta.Difficulty.Color},
		{"meta.extra", c.Meta.Extra},
	} {
		if data, err = sjson.SetBytes(data, kv.path, kv.value); nil != err {
			return "", fmt.Errorf("unable to stamp %v: %w", kv.path, err)
		}
	}

	_, err = s.db.Exec("insert into charts(sum, data) values(?, ?) on conflict(sum) do update set data = excluded.data", sum, data)
	if nil != err {
		return "", fmt.Errorf("unable to save chart: %w", err)
	}
	return sum, nil
}

// Load decodes the chart stored under sum.
func (s *Store) Load(sum string) (*game.Chart, error) {
	var data []byte
	err := s.db.QueryRow("select data from charts where sum = ?", sum).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if nil != err {
		return nil, fmt.Errorf("unable to load chart: %w", err)
	}
	c, err := game.Decode(bytes.NewReader(data))
	if nil != err {
		return nil, err
	}
	c.Meta = readMeta(gjson.GetBytes(data, "meta"))
	return c, nil
}

// List returns every stored chart, oldest first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query("select sum, data from charts order by id")
	if nil != err {
		return nil, fmt.Errorf("unable to list charts: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var sum string
		var data []byte
		if err := rows.Scan(&sum, &data); nil != err {
			return nil, err
		}
		meta := readMeta(gjson.GetBytes(data, "meta"))
		entries = append(entries, Entry{
			Sum:        sum,
			Title:      meta.Title,
			Difficulty: meta.Difficulty.Name,
			Level:      meta.Difficulty.Level,
			Notes:      int(gjson.GetBytes(data, "note_list.#").Int()),
		})
	}
	return entries, rows.Err()
}

func readMeta(r gjson.Result) game.Meta {
	m := game.DefaultMeta()
	if !r.Exists() {
		return m
	}
	str := func(path string, def string) string {
		if v := r.Get(path); v.Exists() {
			return v.String()
		}
		return def
	}
	m.Title = str("title", m.Title)
	m.Audio = str("audio", m.Audio)
	m.Icon = str("icon", m.Icon)
	m.Background = str("background", m.Background)
	m.ThemeColor = str("theme_color", m.ThemeColor)
	m.Offset = r.Get("offset").Float()
	m.Difficulty.Name = str("difficulty.name", m.Difficulty.Name)
	if v := r.Get("difficulty.level"); v.Exists() {
		m.Difficulty.Level = int(v.Int())
	}
	m.Difficulty.Color = str("difficulty.color", m.Difficulty.Color)
	r.Get("extra").ForEach(func(k, v gjson.Result) bool {
		m.Extra[k.String()] = v.String()
		return true
	})
	return m
}
