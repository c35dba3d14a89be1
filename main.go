package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"git.lost.host/meutraa/scanline/internal/config"
	"git.lost.host/meutraa/scanline/internal/library"
	"git.lost.host/meutraa/scanline/internal/song"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string, out io.Writer) error {
	s, err := config.Parse(args)
	if nil != err {
		return err
	}

	switch s.Command {
	case config.CommandImport:
		return importChart(s, out)
	case config.CommandList:
		return listCharts(s, out)
	}

	p := &Program{Settings: s}
	defer p.Deinit()
	if err := p.Init(); nil != err {
		return err
	}
	return p.Run()
}

// importChart converts a chart to the canonical format and stores it.
func importChart(s *config.Settings, out io.Writer) error {
	c, err := song.Read(s.File, s)
	if nil != err {
		return err
	}

	store, err := library.Open(s.Library)
	if nil != err {
		return err
	}
	defer store.Close()

	sum, err := store.Save(c)
	if nil != err {
		return err
	}

	if s.Out != "" {
		f, err := os.Create(s.Out)
		if nil != err {
			return fmt.Errorf("unable to create %v: %w", s.Out, err)
		}
		defer f.Close()
		if err := c.Encode(f); nil != err {
			return fmt.Errorf("unable to write %v: %w", s.Out, err)
		}
	}

	fmt.Fprintf(out, "%v  %v (%v notes)\n", sum, c.Meta.Title, len(c.Notes))
	return nil
}

func listCharts(s *config.Settings, out io.Writer) error {
	store, err := library.Open(s.Library)
	if nil != err {
		return err
	}
	defer store.Close()

	entries, err := store.List()
	if nil != err {
		return err
	}
	for i, e := range entries {
		fmt.Fprintf(out, "%2v) %-44v  %3v  %5v  %v %v\n", i, e.Sum, e.Level, e.Notes, e.Difficulty, e.Title)
	}
	return nil
}
