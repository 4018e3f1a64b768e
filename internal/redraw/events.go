package redraw

import "github.com/dshills/slipstream/internal/grid"

// Event is one decoded state-mutation command. The concrete types below
// are the full vocabulary; Unknown stands in for names from newer engine
// revisions.
type Event interface {
	isEvent()
}

// GridResize announces a grid's new size. Content is discarded.
type GridResize struct {
	Grid, Cols, Rows int
}

// CellRun is one run-length encoded span of identical cells within a
// GridLine. Runs without an explicit highlight inherit the previous run's;
// the decoder resolves that carry, so HlID is always valid here.
type CellRun struct {
	Text   string
	HlID   int
	Repeat int
}

// GridLine overwrites a contiguous run of cells in one row.
type GridLine struct {
	Grid, Row, ColStart int
	Runs                []CellRun
}

// GridClear clears a grid to the default highlight.
type GridClear struct {
	Grid int
}

// GridDestroy removes a grid entirely.
type GridDestroy struct {
	Grid int
}

// GridCursorGoto moves the cursor to a cell of a grid.
type GridCursorGoto struct {
	Grid, Row, Col int
}

// GridScroll shifts a sub-rectangle of a grid by (Rows, Cols).
type GridScroll struct {
	Grid, Top, Bot, Left, Right, Rows, Cols int
}

// WinPos places a grid as a normal window at a position on the outer grid.
type WinPos struct {
	Grid, Win, Row, Col, Width, Height int
}

// WinFloatPos places a grid as a floating window anchored to another grid.
type WinFloatPos struct {
	Grid, Win            int
	Anchor               string // "NW", "NE", "SW", "SE"
	AnchorGrid           int
	AnchorRow, AnchorCol float64
	Focusable            bool
	ZIndex               int
}

// WinHide removes a grid's window from the display without destroying it.
type WinHide struct {
	Grid int
}

// WinClose closes a grid's window.
type WinClose struct {
	Grid int
}

// MsgSetPos positions the message grid over the bottom of the display.
type MsgSetPos struct {
	Grid, Row int
	Scrolled  bool
	SepChar   string
}

// WinViewport reports a window's viewport. ScrollDelta is the row shift
// since the previous viewport event and drives scroll animation.
type WinViewport struct {
	Grid, Win                  int
	TopLine, BotLine           int
	CurLine, CurCol, LineCount int
	ScrollDelta                int
}

// HlAttrDefine defines or overwrites one highlight table entry.
type HlAttrDefine struct {
	ID    int
	Attrs grid.Attr
}

// DefaultColorsSet sets the session default colors. An unset component
// keeps the client's builtin default.
type DefaultColorsSet struct {
	Fg, Bg, Special          grid.Color
	HasFg, HasBg, HasSpecial bool
}

// CursorShape selects the cursor's drawn form.
type CursorShape uint8

const (
	CursorShapeBlock CursorShape = iota
	CursorShapeHorizontal
	CursorShapeVertical
)

// ModeInfo describes cursor appearance for one editor mode.
type ModeInfo struct {
	Name           string
	ShortName      string
	Shape          CursorShape
	CellPercentage int
	BlinkWait      int
	BlinkOn        int
	BlinkOff       int
	AttrID         int
}

// ModeInfoSet replaces the mode table.
type ModeInfoSet struct {
	CursorStyleEnabled bool
	Modes              []ModeInfo
}

// ModeChange selects the active entry of the mode table.
type ModeChange struct {
	Mode  string
	Index int
}

// SetTitle carries the engine's desired window title.
type SetTitle struct {
	Title string
}

// Bell asks for an audible or visual bell.
type Bell struct {
	Visual bool
}

// BusyStart hides the cursor while the engine is busy.
type BusyStart struct{}

// BusyStop restores the cursor.
type BusyStop struct{}

// MouseOn and MouseOff track whether the engine wants mouse events.
type MouseOn struct{}

// MouseOff is the counterpart of MouseOn.
type MouseOff struct{}

// Flush marks the end of an atomic batch; the state becomes visible to
// the render context as a whole.
type Flush struct{}

// Unknown is the catch-all for event names from newer protocol revisions.
type Unknown struct {
	Name string
}

func (GridResize) isEvent()       {}
func (GridLine) isEvent()         {}
func (GridClear) isEvent()        {}
func (GridDestroy) isEvent()      {}
func (GridCursorGoto) isEvent()   {}
func (GridScroll) isEvent()       {}
func (WinPos) isEvent()           {}
func (WinFloatPos) isEvent()      {}
func (WinHide) isEvent()          {}
func (WinClose) isEvent()         {}
func (MsgSetPos) isEvent()        {}
func (WinViewport) isEvent()      {}
func (HlAttrDefine) isEvent()     {}
func (DefaultColorsSet) isEvent() {}
func (ModeInfoSet) isEvent()      {}
func (ModeChange) isEvent()       {}
func (SetTitle) isEvent()         {}
func (Bell) isEvent()             {}
func (BusyStart) isEvent()        {}
func (BusyStop) isEvent()         {}
func (MouseOn) isEvent()          {}
func (MouseOff) isEvent()         {}
func (Flush) isEvent()            {}
func (Unknown) isEvent()          {}
