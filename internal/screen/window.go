package screen

// baseGrid is the outer grid the engine draws the whole screen onto.
const baseGrid = 1

// WindowKind classifies how a grid is placed on the screen.
type WindowKind uint8

const (
	// KindBase is the outer grid covering the entire screen.
	KindBase WindowKind = iota
	// KindNormal is a tiled window placed by the engine layout.
	KindNormal
	// KindFloat is a floating window anchored to another grid.
	KindFloat
	// KindMessage is the message area pinned to a screen row.
	KindMessage
)

// String returns a human-readable kind name.
func (k WindowKind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindNormal:
		return "normal"
	case KindFloat:
		return "float"
	case KindMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Stacking layers. Floats rise above tiled windows by their engine
// zindex; the message grid sits at zindex 200, above ordinary floats.
const (
	zBase      = 0
	zNormal    = 1
	zFloatBase = 10
	zMessage   = zFloatBase + 200
)

// placement records where a grid's window sits and how it stacks.
type placement struct {
	kind   WindowKind
	win    int
	hidden bool
	seq    uint64

	row, col      int
	width, height int

	anchor               string
	anchorGrid           int
	anchorRow, anchorCol float64
	focusable            bool
	zindex               int

	scrolled bool
	sepChar  string
}

// z returns the stacking layer used for paint order.
func (p *placement) z() int {
	switch p.kind {
	case KindNormal:
		return zNormal
	case KindFloat:
		return zFloatBase + p.zindex
	case KindMessage:
		return zMessage
	default:
		return zBase
	}
}

func normalizeAnchor(a string) string {
	switch a {
	case "NW", "NE", "SW", "SE":
		return a
	default:
		return "NW"
	}
}
