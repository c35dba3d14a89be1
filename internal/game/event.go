package game

import "strings"

type EventType int

const (
	EventSpeedUp EventType = iota
	EventSpeedDown
	EventScanlineHide
	EventScanlineShow
	EventScanlineFadeIn
	EventScanlineFadeOut
	EventScanlineMutateIn
	EventScanlineMutateOut
	EventText
)

type EventOrder struct {
	Tick int
	Type EventType
	Args string
}

// Text is the banner shown for the event, empty if it has none.
func (e *EventOrder) Text() string {
	switch e.Type {
	case EventSpeedUp:
		return "SPEED UP"
	case EventSpeedDown:
		return "SPEED DOWN"
	case EventText:
		parts := strings.Split(e.Args, ",")
		if len(parts) > 1 {
			parts = parts[:len(parts)-1]
		}
		return strings.Join(parts, ",")
	}
	return ""
}

// Color is the flash colour of the event. Custom text carries its colour
// as the last comma separated argument.
func (e *EventOrder) Color() string {
	switch e.Type {
	case EventSpeedUp:
		return "#d81b60"
	case EventSpeedDown:
		return "#4db6ac"
	case EventText:
		parts := strings.Split(e.Args, ",")
		if len(parts) > 1 {
			return strings.TrimSpace(parts[len(parts)-1])
		}
		return "#ffffff"
	}
	return ""
}

// Flashes reports whether the event draws a line and a banner.
func (e *EventOrder) Flashes() bool {
	return e.Type == EventSpeedUp || e.Type == EventSpeedDown || e.Type == EventText
}
