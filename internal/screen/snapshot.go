package screen

import (
	"math"

	"github.com/dshills/slipstream/internal/grid"
	"github.com/dshills/slipstream/internal/redraw"
)

// Snapshot is one published frame of screen state. It is immutable;
// readers need no locks and may hold it across frames.
type Snapshot struct {
	Gen uint64

	// Windows in paint order, bottom first.
	Windows []WindowView

	HL *HlTable

	Cursor             CursorPos
	CursorStyleEnabled bool
	Modes              []redraw.ModeInfo
	ModeIndex          int
	ModeName           string

	Title         string
	Busy          bool
	MouseEnabled  bool
	BellSeq       uint64
	VisualBellSeq uint64

	byGrid map[int]int
}

// WindowView is one placed grid in a snapshot.
type WindowView struct {
	GridID int
	Win    int
	Kind   WindowKind
	Z      int
	seq    uint64

	// Row and Col place normal and message windows on the base grid.
	Row, Col int

	Anchor               string
	AnchorGrid           int
	AnchorRow, AnchorCol float64
	Focusable            bool

	Scrolled bool
	SepChar  string

	Cells *grid.Grid

	Damage     []Rect
	FullRedraw bool

	ScrollDelta int
	Viewport    Viewport
	HasViewport bool
}

// Window returns the view for a grid id. The returned pointer aliases
// the snapshot and must be treated as read-only.
func (s *Snapshot) Window(gridID int) (*WindowView, bool) {
	i, ok := s.byGrid[gridID]
	if !ok {
		return nil, false
	}
	return &s.Windows[i], true
}

// Base returns the outer grid's view.
func (s *Snapshot) Base() (*WindowView, bool) { return s.Window(baseGrid) }

// Size returns the outer grid dimensions in cells.
func (s *Snapshot) Size() (cols, rows int) {
	if b, ok := s.Base(); ok {
		return b.Cells.Cols, b.Cells.Rows
	}
	return 0, 0
}

// Mode returns the active mode's cursor description.
func (s *Snapshot) Mode() (redraw.ModeInfo, bool) {
	if s.ModeIndex < 0 || s.ModeIndex >= len(s.Modes) {
		return redraw.ModeInfo{}, false
	}
	return s.Modes[s.ModeIndex], true
}

// maxAnchorDepth bounds anchor chain walks. A chain that loops falls
// back to the base grid.
const maxAnchorDepth = 8

// Rect returns w's screen rectangle in cells, resolving float anchors
// through the anchor chain and clamping the result onto the screen.
func (s *Snapshot) Rect(w *WindowView) Rect { return s.rect(w, 0) }

func (s *Snapshot) rect(w *WindowView, depth int) Rect {
	r := Rect{Rows: w.Cells.Rows, Cols: w.Cells.Cols}
	switch w.Kind {
	case KindNormal:
		r.Row, r.Col = w.Row, w.Col
	case KindMessage:
		r.Row, r.Col = w.Row, 0
	case KindFloat:
		var base Rect
		if aw, ok := s.Window(w.AnchorGrid); ok && aw.GridID != w.GridID && depth < maxAnchorDepth {
			base = s.rect(aw, depth+1)
		}
		row := base.Row + int(math.Floor(w.AnchorRow))
		col := base.Col + int(math.Floor(w.AnchorCol))
		switch w.Anchor {
		case "NE":
			col -= r.Cols
		case "SW":
			row -= r.Rows
		case "SE":
			row -= r.Rows
			col -= r.Cols
		}
		r.Row, r.Col = row, col
	}

	cols, rows := s.Size()
	if r.Row+r.Rows > rows {
		r.Row = rows - r.Rows
	}
	if r.Col+r.Cols > cols {
		r.Col = cols - r.Cols
	}
	if r.Row < 0 {
		r.Row = 0
	}
	if r.Col < 0 {
		r.Col = 0
	}
	return r
}
