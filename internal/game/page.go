package game

// Scan line directions. A stationary page keeps its scan line in place.
const (
	DirectionDown       = -1
	DirectionStationary = 0
	DirectionUp         = 1
)

// PositionFunction warps the vertical extent of a page.
// Arguments are (scale, offset): the page height is scaled by the first and
// shifted by half the field height times the second.
type PositionFunction struct {
	Type      int        `json:"Type"`
	Arguments [2]float64 `json:"Arguments"`
}

type Page struct {
	StartTick         int
	EndTick           int
	ScanLineDirection int
	PositionFunction  *PositionFunction
}

func (p *Page) TickLength() int {
	return p.EndTick - p.StartTick
}

// Warp returns the page scale and offset, defaulting to (1, 0).
func (p *Page) Warp() (scale, offset float64) {
	if nil == p.PositionFunction {
		return 1, 0
	}
	return p.PositionFunction.Arguments[0], p.PositionFunction.Arguments[1]
}

// AlternatingDirection is the direction of page index when the chart does
// not specify one.
func AlternatingDirection(index int) int {
	if index%2 == 0 {
		return DirectionUp
	}
	return DirectionDown
}
