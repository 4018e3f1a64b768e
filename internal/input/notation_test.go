package input

import (
	"testing"

	"github.com/dshills/slipstream/internal/render/surface"
)

func keyEv(k surface.Key, r rune, mod surface.Mod) surface.Event {
	return surface.Event{Type: surface.EventKey, Key: k, Rune: r, Mod: mod}
}

func TestNotation(t *testing.T) {
	tests := []struct {
		name string
		ev   surface.Event
		want string
	}{
		{"plain letter", keyEv(surface.KeyRune, 'a', 0), "a"},
		{"capital letter", keyEv(surface.KeyRune, 'A', 0), "A"},
		{"digit", keyEv(surface.KeyRune, '7', 0), "7"},
		{"less than escapes", keyEv(surface.KeyRune, '<', 0), "<lt>"},
		{"space", keyEv(surface.KeyRune, ' ', 0), "<Space>"},
		{"unicode rune", keyEv(surface.KeyRune, 'ø', 0), "ø"},

		{"ctrl letter", keyEv(surface.KeyRune, 'w', surface.ModCtrl), "<C-w>"},
		{"alt letter", keyEv(surface.KeyRune, 'x', surface.ModAlt), "<A-x>"},
		{"meta letter", keyEv(surface.KeyRune, 'p', surface.ModMeta), "<D-p>"},
		{"ctrl alt letter", keyEv(surface.KeyRune, 'z', surface.ModCtrl|surface.ModAlt), "<C-A-z>"},
		{"ctrl space", keyEv(surface.KeyRune, ' ', surface.ModCtrl), "<C-Space>"},
		{"ctrl less than", keyEv(surface.KeyRune, '<', surface.ModCtrl), "<C-lt>"},

		{"shift folds into rune", keyEv(surface.KeyRune, 'A', surface.ModShift), "A"},
		{"ctrl shift drops shift", keyEv(surface.KeyRune, 'a', surface.ModCtrl|surface.ModShift), "<C-a>"},

		{"escape", keyEv(surface.KeyEscape, 0, 0), "<Esc>"},
		{"enter", keyEv(surface.KeyEnter, 0, 0), "<CR>"},
		{"tab", keyEv(surface.KeyTab, 0, 0), "<Tab>"},
		{"backtab", keyEv(surface.KeyBacktab, 0, 0), "<S-Tab>"},
		{"backspace", keyEv(surface.KeyBackspace, 0, 0), "<BS>"},
		{"delete", keyEv(surface.KeyDelete, 0, 0), "<Del>"},
		{"home", keyEv(surface.KeyHome, 0, 0), "<Home>"},
		{"page up", keyEv(surface.KeyPageUp, 0, 0), "<PageUp>"},

		{"shift arrow", keyEv(surface.KeyUp, 0, surface.ModShift), "<S-Up>"},
		{"ctrl function key", keyEv(surface.KeyF5, 0, surface.ModCtrl), "<C-F5>"},
		{"ctrl shift special", keyEv(surface.KeyRight, 0, surface.ModCtrl|surface.ModShift), "<C-S-Right>"},

		{"zero rune", keyEv(surface.KeyRune, 0, 0), ""},
		{"unmapped key", keyEv(surface.KeyNone, 0, 0), ""},
		{"mouse event", surface.Event{Type: surface.EventMouse}, ""},
		{"resize event", surface.Event{Type: surface.EventResize}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Notation(tt.ev); got != tt.want {
				t.Errorf("Notation(%+v) = %q, want %q", tt.ev, got, tt.want)
			}
		})
	}
}
