package input

import (
	"strings"

	"github.com/dshills/slipstream/internal/render/surface"
)

// specialNames maps surface keys to the engine's key names.
var specialNames = map[surface.Key]string{
	surface.KeyEscape:    "Esc",
	surface.KeyEnter:     "CR",
	surface.KeyTab:       "Tab",
	surface.KeyBackspace: "BS",
	surface.KeyDelete:    "Del",
	surface.KeyInsert:    "Insert",
	surface.KeyHome:      "Home",
	surface.KeyEnd:       "End",
	surface.KeyPageUp:    "PageUp",
	surface.KeyPageDown:  "PageDown",
	surface.KeyUp:        "Up",
	surface.KeyDown:      "Down",
	surface.KeyLeft:      "Left",
	surface.KeyRight:     "Right",
	surface.KeyF1:        "F1",
	surface.KeyF2:        "F2",
	surface.KeyF3:        "F3",
	surface.KeyF4:        "F4",
	surface.KeyF5:        "F5",
	surface.KeyF6:        "F6",
	surface.KeyF7:        "F7",
	surface.KeyF8:        "F8",
	surface.KeyF9:        "F9",
	surface.KeyF10:       "F10",
	surface.KeyF11:       "F11",
	surface.KeyF12:       "F12",
}

// Notation converts one key event to the engine's input notation.
// Examples: "a", "<lt>", "<Space>", "<C-w>", "<S-Tab>", "<A-F3>".
// Events carrying no translatable key produce "".
func Notation(ev surface.Event) string {
	if ev.Type != surface.EventKey {
		return ""
	}
	if ev.Key == surface.KeyRune {
		return runeNotation(ev.Rune, ev.Mod)
	}
	if ev.Key == surface.KeyBacktab {
		return bracketed("Tab", ev.Mod|surface.ModShift)
	}
	name, ok := specialNames[ev.Key]
	if !ok {
		return ""
	}
	return bracketed(name, ev.Mod)
}

func runeNotation(r rune, mod surface.Mod) string {
	if r == 0 {
		return ""
	}
	// Shift is already folded into the character itself.
	mod &^= surface.ModShift

	if mod == surface.ModNone {
		switch r {
		case '<':
			return "<lt>"
		case ' ':
			return "<Space>"
		default:
			return string(r)
		}
	}

	name := string(r)
	switch r {
	case '<':
		name = "lt"
	case ' ':
		name = "Space"
	}
	return bracketed(name, mod)
}

func bracketed(name string, mod surface.Mod) string {
	var b strings.Builder
	b.WriteByte('<')
	if mod.Has(surface.ModCtrl) {
		b.WriteString("C-")
	}
	if mod.Has(surface.ModAlt) {
		b.WriteString("A-")
	}
	if mod.Has(surface.ModMeta) {
		b.WriteString("D-")
	}
	if mod.Has(surface.ModShift) {
		b.WriteString("S-")
	}
	b.WriteString(name)
	b.WriteByte('>')
	return b.String()
}
