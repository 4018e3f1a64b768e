package screen

import "github.com/dshills/slipstream/internal/grid"

// DefaultColors are the concrete colors used where an attribute leaves
// a channel unset.
type DefaultColors struct {
	Fg, Bg, Special grid.Color
}

// builtinDefaults apply until the engine announces its own colors.
var builtinDefaults = DefaultColors{Fg: 0xffffff, Bg: 0x000000, Special: 0xffffff}

// HlTable maps highlight ids to attributes. Id 0 is the default
// attribute and resolves to the plain default colors.
type HlTable struct {
	attrs    map[int]grid.Attr
	defaults DefaultColors
}

func newHlTable() *HlTable {
	return &HlTable{attrs: make(map[int]grid.Attr), defaults: builtinDefaults}
}

func (t *HlTable) clone() *HlTable {
	c := &HlTable{attrs: make(map[int]grid.Attr, len(t.attrs)), defaults: t.defaults}
	for id, a := range t.attrs {
		c.attrs[id] = a
	}
	return c
}

// Attr returns the raw table entry for id, the zero Attr when undefined.
func (t *HlTable) Attr(id int) grid.Attr { return t.attrs[id] }

// Defaults returns the session default colors.
func (t *HlTable) Defaults() DefaultColors { return t.defaults }

// Paint is a fully resolved cell style. Every color channel is concrete
// and reverse video has already been applied.
type Paint struct {
	Fg, Bg, Special grid.Color
	Bold, Italic    bool
	Strikethrough   bool
	Underline       grid.UnderlineStyle
	Blend           int
}

// Resolve returns the concrete paint for a highlight id. Unknown ids
// resolve like id 0.
func (t *HlTable) Resolve(id int) Paint {
	a := t.attrs[id]
	p := Paint{
		Fg:            t.defaults.Fg,
		Bg:            t.defaults.Bg,
		Special:       t.defaults.Special,
		Bold:          a.Bold,
		Italic:        a.Italic,
		Strikethrough: a.Strikethrough,
		Underline:     a.Underline,
		Blend:         a.Blend,
	}
	if a.HasFg {
		p.Fg = a.Fg
	}
	if a.HasBg {
		p.Bg = a.Bg
	}
	if a.HasSpecial {
		p.Special = a.Special
	}
	if a.Reverse {
		p.Fg, p.Bg = p.Bg, p.Fg
	}
	return p
}
