package game

// NoteType is the wire code of a note.
type NoteType int

const (
	TypeTap           NoteType = 0
	TypeHold          NoteType = 1
	TypeLongHold      NoteType = 2
	TypeSlide         NoteType = 3
	TypeSlideNode     NoteType = 4
	TypeFlick         NoteType = 5
	TypeDragSlide     NoteType = 6 // slide whose head must be tapped
	TypeDragSlideNode NoteType = 7
)

// Kind is the closed set of note behaviours.
type Kind int

const (
	KindTap Kind = iota
	KindFlick
	KindHold
	KindLongHold
	KindSlide
	KindSlideNode
)

func (k Kind) String() string {
	switch k {
	case KindTap:
		return "tap"
	case KindFlick:
		return "flick"
	case KindHold:
		return "hold"
	case KindLongHold:
		return "long hold"
	case KindSlide:
		return "slide"
	case KindSlideNode:
		return "slide node"
	}
	return "unknown"
}

func (t NoteType) Kind() (Kind, bool) {
	switch t {
	case TypeTap:
		return KindTap, true
	case TypeFlick:
		return KindFlick, true
	case TypeHold:
		return KindHold, true
	case TypeLongHold:
		return KindLongHold, true
	case TypeSlide, TypeDragSlide:
		return KindSlide, true
	case TypeSlideNode, TypeDragSlideNode:
		return KindSlideNode, true
	}
	return 0, false
}

type Note struct {
	ID        int
	Tick      int
	X         float64 // lane position in [0, 1]
	PageIndex int
	Type      NoteType
	Kind      Kind

	HoldTick   int // holds only
	NextID     int // slides only, <= 0 ends the chain
	HasSibling bool
	IsForward  bool
}

func (n *Note) IsHold() bool {
	return n.Kind == KindHold || n.Kind == KindLongHold
}

func (n *Note) IsSlide() bool {
	return n.Kind == KindSlide || n.Kind == KindSlideNode
}

func (n *Note) HeadTapRequired() bool {
	return n.Type == TypeDragSlide || n.Type == TypeDragSlideNode
}
