package screen

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dshills/slipstream/internal/grid"
	"github.com/dshills/slipstream/internal/logger"
	"github.com/dshills/slipstream/internal/redraw"
)

// CursorPos is the engine cursor location in grid cells.
type CursorPos struct {
	Grid, Row, Col int
}

// Viewport mirrors the engine's reported window viewport.
type Viewport struct {
	TopLine, BotLine int
	CurLine, CurCol  int
	LineCount        int
}

// gridState is the mutable working copy of one grid.
type gridState struct {
	cells *grid.Grid
	// shared marks cells as referenced by the published snapshot; the
	// next mutation must clone first.
	shared bool
	place  *placement
	damage damage

	viewport    Viewport
	hasViewport bool
	scrollDelta int
}

// Store applies decoded redraw events and publishes immutable
// snapshots. Apply runs on the session's receive goroutine; Latest and
// Updates may be used from any goroutine.
type Store struct {
	mu       sync.Mutex
	grids    map[int]*gridState
	hl       *HlTable
	hlShared bool
	nextSeq  uint64

	cursor             CursorPos
	modes              []redraw.ModeInfo
	modeIndex          int
	modeName           string
	cursorStyleEnabled bool

	title         string
	busy          bool
	mouseEnabled  bool
	bellSeq       uint64
	visualBellSeq uint64

	gen     uint64
	snap    atomic.Pointer[Snapshot]
	updates chan struct{}
}

// NewStore returns a store holding an empty screen. An initial empty
// snapshot is already published, so Latest never returns nil.
func NewStore() *Store {
	s := &Store{
		grids:   make(map[int]*gridState),
		hl:      newHlTable(),
		updates: make(chan struct{}, 1),
	}
	s.publish()
	return s
}

// Latest returns the most recently published snapshot.
func (s *Store) Latest() *Snapshot { return s.snap.Load() }

// Updates signals each published snapshot. The channel holds at most
// one pending signal.
func (s *Store) Updates() <-chan struct{} { return s.updates }

// Apply processes one decoded redraw batch. A command that cannot be
// applied is dropped and its grid marked for a full repaint.
func (s *Store) Apply(events []redraw.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		if err := s.apply(ev); err != nil {
			logger.Warn("dropping redraw command", "command", fmt.Sprintf("%T", ev), "err", err)
			var serr *StateError
			if errors.As(err, &serr) {
				if g, ok := s.grids[serr.Grid]; ok {
					g.damage.markFull()
				}
			}
		}
	}
}

func (s *Store) apply(ev redraw.Event) error {
	switch e := ev.(type) {
	case redraw.GridResize:
		s.applyGridResize(e)
	case redraw.GridLine:
		return s.applyGridLine(e)
	case redraw.GridClear:
		return s.applyGridClear(e)
	case redraw.GridDestroy:
		delete(s.grids, e.Grid)
	case redraw.GridCursorGoto:
		return s.applyCursorGoto(e)
	case redraw.GridScroll:
		return s.applyGridScroll(e)
	case redraw.WinPos:
		return s.applyWinPos(e)
	case redraw.WinFloatPos:
		return s.applyWinFloatPos(e)
	case redraw.WinHide:
		return s.applyWinHide(e)
	case redraw.WinClose:
		if g, ok := s.grids[e.Grid]; ok {
			g.place = nil
		}
	case redraw.MsgSetPos:
		return s.applyMsgSetPos(e)
	case redraw.WinViewport:
		return s.applyWinViewport(e)
	case redraw.HlAttrDefine:
		s.mutableHl().attrs[e.ID] = e.Attrs
	case redraw.DefaultColorsSet:
		s.applyDefaultColors(e)
	case redraw.ModeInfoSet:
		s.modes = append([]redraw.ModeInfo(nil), e.Modes...)
		s.cursorStyleEnabled = e.CursorStyleEnabled
		if s.modeIndex >= len(s.modes) {
			s.modeIndex = 0
		}
	case redraw.ModeChange:
		s.modeName = e.Mode
		if e.Index >= 0 && e.Index < len(s.modes) {
			s.modeIndex = e.Index
		}
	case redraw.SetTitle:
		s.title = e.Title
	case redraw.Bell:
		if e.Visual {
			s.visualBellSeq++
		} else {
			s.bellSeq++
		}
	case redraw.BusyStart:
		s.busy = true
	case redraw.BusyStop:
		s.busy = false
	case redraw.MouseOn:
		s.mouseEnabled = true
	case redraw.MouseOff:
		s.mouseEnabled = false
	case redraw.Flush:
		s.publish()
	}
	return nil
}

// writable returns the grid's mutable state, cloning the cell buffer
// first when the published snapshot still references it.
func (s *Store) writable(id int, op string) (*gridState, error) {
	g, ok := s.grids[id]
	if !ok {
		return nil, &StateError{Grid: id, Op: op, Err: ErrUnknownGrid}
	}
	if g.shared {
		g.cells = g.cells.Clone()
		g.shared = false
	}
	return g, nil
}

// lookup returns grid state without touching the cell buffer.
func (s *Store) lookup(id int, op string) (*gridState, error) {
	g, ok := s.grids[id]
	if !ok {
		return nil, &StateError{Grid: id, Op: op, Err: ErrUnknownGrid}
	}
	return g, nil
}

func (s *Store) newPlacement(k WindowKind) *placement {
	s.nextSeq++
	// Windows receive pointer input unless the engine marks them
	// unfocusable, which only float placements can do.
	return &placement{kind: k, seq: s.nextSeq, focusable: true}
}

func (s *Store) applyGridResize(e redraw.GridResize) {
	g, ok := s.grids[e.Grid]
	if !ok {
		g = &gridState{cells: grid.New(e.Cols, e.Rows)}
		if e.Grid == baseGrid {
			g.place = s.newPlacement(KindBase)
		}
		s.grids[e.Grid] = g
		g.damage.markFull()
		return
	}
	if g.shared {
		g.cells = grid.New(e.Cols, e.Rows)
		g.shared = false
	} else {
		g.cells.Resize(e.Cols, e.Rows)
	}
	g.damage.markFull()
}

func (s *Store) applyGridLine(e redraw.GridLine) error {
	g, err := s.writable(e.Grid, "grid_line")
	if err != nil {
		return err
	}
	width := 0
	for _, run := range e.Runs {
		width += run.Repeat
	}
	if width == 0 {
		return nil
	}
	if e.Row < 0 || e.Row >= g.cells.Rows || e.ColStart < 0 || e.ColStart+width > g.cells.Cols {
		return &StateError{Grid: e.Grid, Op: "grid_line", Err: grid.ErrOutOfRange}
	}

	row := g.cells.Row(e.Row)
	col := e.ColStart
	for _, run := range e.Runs {
		c := grid.Cell{Text: run.Text, HlID: run.HlID}
		// Empty text is the trailing half of a double-width pair.
		if run.Text == "" && col > 0 {
			row[col-1].Wide = true
		}
		for i := 0; i < run.Repeat; i++ {
			row[col] = c
			col++
		}
	}

	damCol, damCols := e.ColStart, width
	if e.Runs[0].Text == "" && damCol > 0 {
		damCol--
		damCols++
	}
	g.damage.mark(Rect{Row: e.Row, Col: damCol, Rows: 1, Cols: damCols}, g.cells.Cols, g.cells.Rows)
	return nil
}

func (s *Store) applyGridClear(e redraw.GridClear) error {
	g, err := s.writable(e.Grid, "grid_clear")
	if err != nil {
		return err
	}
	g.cells.Clear()
	g.damage.markFull()
	return nil
}

func (s *Store) applyCursorGoto(e redraw.GridCursorGoto) error {
	g, err := s.lookup(e.Grid, "grid_cursor_goto")
	if err != nil {
		return err
	}
	if !g.cells.InBounds(e.Row, e.Col) {
		return &StateError{Grid: e.Grid, Op: "grid_cursor_goto", Err: grid.ErrOutOfRange}
	}
	s.cursor = CursorPos{Grid: e.Grid, Row: e.Row, Col: e.Col}
	return nil
}

func (s *Store) applyGridScroll(e redraw.GridScroll) error {
	g, err := s.writable(e.Grid, "grid_scroll")
	if err != nil {
		return err
	}
	if err := g.cells.Scroll(e.Top, e.Bot, e.Left, e.Right, e.Rows, e.Cols); err != nil {
		return &StateError{Grid: e.Grid, Op: "grid_scroll", Err: err}
	}
	g.damage.mark(Rect{
		Row: e.Top, Col: e.Left,
		Rows: e.Bot - e.Top, Cols: e.Right - e.Left,
	}, g.cells.Cols, g.cells.Rows)
	return nil
}

func (s *Store) applyWinPos(e redraw.WinPos) error {
	g, err := s.lookup(e.Grid, "win_pos")
	if err != nil {
		return err
	}
	p := g.place
	if p == nil {
		p = s.newPlacement(KindNormal)
		g.place = p
	}
	p.kind = KindNormal
	p.win = e.Win
	p.row, p.col = e.Row, e.Col
	p.width, p.height = e.Width, e.Height
	p.hidden = false
	return nil
}

func (s *Store) applyWinFloatPos(e redraw.WinFloatPos) error {
	g, err := s.lookup(e.Grid, "win_float_pos")
	if err != nil {
		return err
	}
	p := g.place
	if p == nil {
		p = s.newPlacement(KindFloat)
		g.place = p
	}
	p.kind = KindFloat
	p.win = e.Win
	p.anchor = normalizeAnchor(e.Anchor)
	p.anchorGrid = e.AnchorGrid
	p.anchorRow, p.anchorCol = e.AnchorRow, e.AnchorCol
	p.focusable = e.Focusable
	p.zindex = e.ZIndex
	p.hidden = false
	return nil
}

func (s *Store) applyWinHide(e redraw.WinHide) error {
	g, err := s.lookup(e.Grid, "win_hide")
	if err != nil {
		return err
	}
	if g.place == nil {
		g.place = s.newPlacement(KindNormal)
	}
	g.place.hidden = true
	return nil
}

func (s *Store) applyMsgSetPos(e redraw.MsgSetPos) error {
	g, err := s.lookup(e.Grid, "msg_set_pos")
	if err != nil {
		return err
	}
	p := g.place
	if p == nil {
		p = s.newPlacement(KindMessage)
		g.place = p
	}
	p.kind = KindMessage
	p.row = e.Row
	p.col = 0
	p.scrolled = e.Scrolled
	p.sepChar = e.SepChar
	p.hidden = false
	return nil
}

func (s *Store) applyWinViewport(e redraw.WinViewport) error {
	g, err := s.lookup(e.Grid, "win_viewport")
	if err != nil {
		return err
	}
	g.viewport = Viewport{
		TopLine: e.TopLine, BotLine: e.BotLine,
		CurLine: e.CurLine, CurCol: e.CurCol,
		LineCount: e.LineCount,
	}
	g.hasViewport = true
	g.scrollDelta += e.ScrollDelta
	return nil
}

func (s *Store) applyDefaultColors(e redraw.DefaultColorsSet) {
	d := builtinDefaults
	if e.HasFg {
		d.Fg = e.Fg
	}
	if e.HasBg {
		d.Bg = e.Bg
	}
	if e.HasSpecial {
		d.Special = e.Special
	}
	s.mutableHl().defaults = d
	// Every cell's resolved colors change with the defaults.
	for _, g := range s.grids {
		g.damage.markFull()
	}
}

func (s *Store) mutableHl() *HlTable {
	if s.hlShared {
		s.hl = s.hl.clone()
		s.hlShared = false
	}
	return s.hl
}

func (s *Store) publish() {
	s.gen++
	snap := &Snapshot{
		Gen:                s.gen,
		HL:                 s.hl,
		Cursor:             s.cursor,
		CursorStyleEnabled: s.cursorStyleEnabled,
		Modes:              s.modes,
		ModeIndex:          s.modeIndex,
		ModeName:           s.modeName,
		Title:              s.title,
		Busy:               s.busy,
		MouseEnabled:       s.mouseEnabled,
		BellSeq:            s.bellSeq,
		VisualBellSeq:      s.visualBellSeq,
		byGrid:             make(map[int]int),
	}
	s.hlShared = true

	views := make([]WindowView, 0, len(s.grids))
	for id, g := range s.grids {
		if g.place == nil || g.place.hidden {
			continue
		}
		regions, full := g.damage.take()
		p := g.place
		views = append(views, WindowView{
			GridID:      id,
			Win:         p.win,
			Kind:        p.kind,
			Z:           p.z(),
			seq:         p.seq,
			Row:         p.row,
			Col:         p.col,
			Anchor:      p.anchor,
			AnchorGrid:  p.anchorGrid,
			AnchorRow:   p.anchorRow,
			AnchorCol:   p.anchorCol,
			Focusable:   p.focusable,
			Scrolled:    p.scrolled,
			SepChar:     p.sepChar,
			Cells:       g.cells,
			Damage:      regions,
			FullRedraw:  full,
			ScrollDelta: g.scrollDelta,
			Viewport:    g.viewport,
			HasViewport: g.hasViewport,
		})
		g.shared = true
		g.scrollDelta = 0
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Z != views[j].Z {
			return views[i].Z < views[j].Z
		}
		return views[i].seq < views[j].seq
	})
	for i := range views {
		snap.byGrid[views[i].GridID] = i
	}
	snap.Windows = views
	s.snap.Store(snap)

	select {
	case s.updates <- struct{}{}:
	default:
	}
}
