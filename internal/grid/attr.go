package grid

// UnderlineStyle selects how a cell's underline is drawn.
type UnderlineStyle uint8

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurl
	UnderlineDotted
	UnderlineDashed
)

// String returns a human-readable style name.
func (u UnderlineStyle) String() string {
	switch u {
	case UnderlineSingle:
		return "underline"
	case UnderlineDouble:
		return "underdouble"
	case UnderlineCurl:
		return "undercurl"
	case UnderlineDotted:
		return "underdotted"
	case UnderlineDashed:
		return "underdashed"
	default:
		return "none"
	}
}

// Attr is one entry of the highlight attribute table. Cells reference an
// Attr by id. A color is meaningful only when its Has flag is set;
// otherwise the session defaults apply.
type Attr struct {
	Fg, Bg, Special            Color
	HasFg, HasBg, HasSpecial   bool
	Bold, Italic, Reverse      bool
	Strikethrough              bool
	Underline                  UnderlineStyle
	Blend                      int // 0 opaque .. 100 fully transparent
}
