package game

// RemoveFirstPage drops page 0 and moves everything after it back by the
// page length. Notes on the dropped page are discarded along with slide
// links into them.
func (c *Chart) RemoveFirstPage() error {
	if len(c.Pages) < 2 {
		return formatError("cannot remove the only page")
	}
	shift := c.Pages[0].TickLength()
	// Pages are assumed contiguous from tick 0, anything before the new
	// start is gone.
	origin := c.Pages[0].EndTick

	pages := make([]Page, 0, len(c.Pages)-1)
	for _, p := range c.Pages[1:] {
		p.StartTick -= shift
		p.EndTick -= shift
		pages = append(pages, p)
	}

	// The tempo in effect at the cut becomes the tempo at tick 0.
	var tempos []Tempo
	var active *Tempo
	for i := range c.Tempos {
		t := c.Tempos[i]
		if t.Tick <= origin {
			if nil == active || t.Tick >= active.Tick {
				active = &c.Tempos[i]
			}
			continue
		}
		t.Tick -= shift
		tempos = append(tempos, t)
	}
	if nil != active {
		tempos = append([]Tempo{{Tick: active.Tick - shift, MillisPerBeat: active.MillisPerBeat}}, tempos...)
		if tempos[0].Tick < 0 {
			tempos[0].Tick = 0
		}
	}

	var events []EventOrder
	for _, e := range c.Events {
		e.Tick -= shift
		if e.Tick < 0 {
			e.Tick = 0
		}
		events = append(events, e)
	}

	dropped := map[int]bool{}
	notes := make([]Note, 0, len(c.Notes))
	for _, n := range c.Notes {
		if n.PageIndex == 0 {
			dropped[n.ID] = true
			continue
		}
		n.Tick -= shift
		n.PageIndex--
		notes = append(notes, n)
	}
	for i := range notes {
		if dropped[notes[i].NextID] {
			notes[i].NextID = 0
		}
	}

	next := *c
	next.Pages, next.Tempos, next.Events, next.Notes = pages, tempos, events, notes
	if err := next.Prepare(); nil != err {
		return err
	}
	*c = next
	return nil
}
