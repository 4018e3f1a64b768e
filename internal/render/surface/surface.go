// Package surface abstracts the presentation target: a cell matrix
// that can be painted, presented, and polled for input. The terminal
// implementation sits on tcell; an in-memory implementation backs
// tests.
package surface

import "github.com/dshills/slipstream/internal/grid"

// CursorShape selects the drawn cursor form.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// Style is the concrete paint for one surface cell. Colors are final;
// highlight resolution and blending happen before the surface.
type Style struct {
	Fg, Bg         grid.Color
	Bold, Italic   bool
	Strikethrough  bool
	Underline      grid.UnderlineStyle
	UnderlineColor grid.Color
}

// EventType identifies a surface event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
	EventFocus
)

// Key identifies a special key. Printable input arrives as KeyRune
// with the Rune field set; control-modified letters arrive as KeyRune
// with ModCtrl.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Mod is a bit mask of held modifiers.
type Mod int

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

const ModNone Mod = 0

// Has reports whether the mask contains mod.
func (m Mod) Has(mod Mod) bool { return m&mod != 0 }

// MouseButton is the button state carried by a mouse event.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	WheelUp
	WheelDown
	WheelLeft
	WheelRight
)

// Event is one input event from the surface.
type Event struct {
	Type EventType

	Key  Key
	Rune rune
	Mod  Mod

	MouseRow, MouseCol int
	Button             MouseButton

	Cols, Rows int

	PasteStart bool
	Focused    bool
}

// Surface is the presentation target for composed frames. Implementations
// are driven by a single render goroutine; only Events may be consumed
// elsewhere.
type Surface interface {
	// Init acquires the display. Size is valid once Init returns.
	Init() error
	// Fini releases the display. The event stream goes quiet until the
	// next Init; the channel itself stays open so a surface can be
	// reinitialized after a lost present.
	Fini()
	// Size returns the surface dimensions in cells.
	Size() (cols, rows int)
	// SetCell paints one cell. text is a single grapheme cluster; an
	// empty string paints a space.
	SetCell(col, row int, text string, st Style)
	// ShowCursor places the hardware cursor.
	ShowCursor(col, row int, shape CursorShape)
	// HideCursor removes the hardware cursor.
	HideCursor()
	// Present pushes painted cells to the display. A non-nil error
	// means the surface was lost; the caller reinitializes and
	// repaints from scratch.
	Present() error
	// SetTitle names the enclosing window, where the display has one.
	SetTitle(title string)
	// Beep sounds the bell.
	Beep()
	// Events returns the input stream.
	Events() <-chan Event
}
