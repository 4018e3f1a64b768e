// Package render composes screen snapshots onto a surface. Each frame
// repaints only the regions that changed: damage carried by the
// snapshot, plus the old and new rectangles of windows that moved,
// scrolled, or disappeared since the previous frame. Overlapping
// windows are resolved in z order per cell, with translucent cells
// blended over what lies beneath.
package render

import (
	"fmt"
	"math"
	"time"

	"github.com/dshills/slipstream/internal/anim"
	"github.com/dshills/slipstream/internal/logger"
	"github.com/dshills/slipstream/internal/redraw"
	"github.com/dshills/slipstream/internal/render/surface"
	"github.com/dshills/slipstream/internal/screen"
)

// Renderer paints snapshots onto a surface.
type Renderer struct {
	surf surface.Surface

	cols, rows int
	needFull   bool

	lastRects  map[int]screen.Rect
	lastScroll map[int]float64

	lastTitle      string
	lastBell       uint64
	lastVisualBell uint64
}

// New creates a renderer for surf. The first frame repaints everything.
func New(surf surface.Surface) *Renderer {
	return &Renderer{
		surf:       surf,
		needFull:   true,
		lastRects:  make(map[int]screen.Rect),
		lastScroll: make(map[int]float64),
	}
}

// Frame paints one frame: the snapshot's content at the positions the
// animation engine reports for time now. A lost surface is
// reinitialized and fully repainted on the next frame; the returned
// error is non-nil only when reinitialization itself fails.
func (r *Renderer) Frame(snap *screen.Snapshot, eng *anim.Engine, now time.Time) error {
	if snap == nil {
		return nil
	}
	cols, rows := r.surf.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}
	if cols != r.cols || rows != r.rows {
		r.cols, r.rows = cols, rows
		r.needFull = true
	}
	full := r.needFull
	r.needFull = false

	drawn := r.windowRects(snap, eng, now)
	rects := r.dirtyRects(snap, drawn, eng, now, full)
	sep := messageSeparator(snap, drawn)

	for _, rect := range rects {
		r.composeRect(snap, drawn, eng, now, rect, sep)
	}
	r.lastRects = drawn

	r.syncCursor(snap, eng, now)
	r.syncTitle(snap, full)
	r.syncBells(snap)

	if err := r.surf.Present(); err != nil {
		logger.Warn("presentation surface lost, reinitializing", "err", err)
		r.surf.Fini()
		if ierr := r.surf.Init(); ierr != nil {
			return fmt.Errorf("render: reinit surface: %w", ierr)
		}
		r.needFull = true
	}
	return nil
}

// windowRects resolves where each window is drawn this frame: the
// snapshot position, overridden by the animated origin while a window
// is in motion.
func (r *Renderer) windowRects(snap *screen.Snapshot, eng *anim.Engine, now time.Time) map[int]screen.Rect {
	drawn := make(map[int]screen.Rect, len(snap.Windows))
	for i := range snap.Windows {
		w := &snap.Windows[i]
		rect := snap.Rect(w)
		if row, col, ok := eng.WindowOrigin(w.GridID, now); ok {
			rect.Row = roundInt(row)
			rect.Col = roundInt(col)
		}
		drawn[w.GridID] = rect
	}
	return drawn
}

// dirtyRects collects the screen regions that must be recomposed this
// frame.
func (r *Renderer) dirtyRects(snap *screen.Snapshot, drawn map[int]screen.Rect, eng *anim.Engine, now time.Time, full bool) []screen.Rect {
	whole := screen.Rect{Rows: r.rows, Cols: r.cols}
	scroll := make(map[int]float64)
	defer func() { r.lastScroll = scroll }()

	if full {
		for i := range snap.Windows {
			w := &snap.Windows[i]
			scroll[w.GridID] = eng.ScrollOffset(w.GridID, now)
		}
		return []screen.Rect{whole}
	}

	var rects []screen.Rect
	add := func(rect screen.Rect) {
		rect = rect.Intersect(whole)
		if !rect.Empty() {
			rects = append(rects, rect)
		}
	}

	for i := range snap.Windows {
		w := &snap.Windows[i]
		cur := drawn[w.GridID]
		offset := eng.ScrollOffset(w.GridID, now)
		scroll[w.GridID] = offset

		prev, had := r.lastRects[w.GridID]
		switch {
		case !had || prev != cur:
			if had {
				add(growSep(w, prev))
			}
			add(growSep(w, cur))
		case w.FullRedraw || offset != 0 || r.lastScroll[w.GridID] != 0:
			add(growSep(w, cur))
		default:
			for _, d := range w.Damage {
				add(screen.Rect{
					Row:  cur.Row + d.Row,
					Col:  cur.Col + d.Col,
					Rows: d.Rows,
					Cols: d.Cols,
				})
			}
		}
	}

	// Regions under windows that vanished need repainting, including
	// the row above where a message separator may have been.
	for id, prev := range r.lastRects {
		if _, ok := drawn[id]; ok {
			continue
		}
		if prev.Row > 0 {
			prev.Row--
			prev.Rows++
		}
		add(prev)
	}
	return rects
}

// growSep extends a message window's rectangle one row up so the
// separator line above it repaints together with the window.
func growSep(w *screen.WindowView, rect screen.Rect) screen.Rect {
	if w.Kind == screen.KindMessage && rect.Row > 0 {
		rect.Row--
		rect.Rows++
	}
	return rect
}

// sepLine is the separator drawn above a scrolled message window.
type sepLine struct {
	row, left, right int
	char             string
	ok               bool
}

func messageSeparator(snap *screen.Snapshot, drawn map[int]screen.Rect) sepLine {
	for i := range snap.Windows {
		w := &snap.Windows[i]
		if w.Kind != screen.KindMessage || !w.Scrolled || w.SepChar == "" {
			continue
		}
		rect := drawn[w.GridID]
		if rect.Row <= 0 {
			continue
		}
		return sepLine{
			row:   rect.Row - 1,
			left:  rect.Col,
			right: rect.Col + rect.Cols,
			char:  w.SepChar,
			ok:    true,
		}
	}
	return sepLine{}
}

// composeRect recomposes every cell of one screen rectangle and pushes
// the result to the surface.
func (r *Renderer) composeRect(snap *screen.Snapshot, drawn map[int]screen.Rect, eng *anim.Engine, now time.Time, rect screen.Rect, sep sepLine) {
	base := snap.HL.Resolve(0)
	for row := rect.Row; row < rect.Row+rect.Rows; row++ {
		for col := rect.Col; col < rect.Col+rect.Cols; col++ {
			var text string
			var st surface.Style
			if sep.ok && row == sep.row && col >= sep.left && col < sep.right {
				text, st = sep.char, styleFromPaint(base)
			} else {
				text, st = r.composeCell(snap, drawn, eng, now, row, col, base)
			}
			if text == "" {
				// Shadowed by the wide glyph to its left.
				continue
			}
			r.surf.SetCell(col, row, text, st)
		}
	}
}

// composeCell resolves one screen cell by walking the windows bottom
// to top.
func (r *Renderer) composeCell(snap *screen.Snapshot, drawn map[int]screen.Rect, eng *anim.Engine, now time.Time, row, col int, base screen.Paint) (string, surface.Style) {
	text := " "
	st := styleFromPaint(base)

	for i := range snap.Windows {
		w := &snap.Windows[i]
		rect := drawn[w.GridID]
		if !rect.Contains(row, col) {
			continue
		}
		gRow := row - rect.Row - roundInt(eng.ScrollOffset(w.GridID, now))
		gCol := col - rect.Col
		cell := w.Cells.At(gRow, gCol)

		p := snap.HL.Resolve(cell.HlID)
		if p.Blend >= 100 {
			continue
		}
		cst := styleFromPaint(p)
		if p.Blend > 0 {
			cst.Bg = mixColors(p.Bg, st.Bg, p.Blend)
			if cell.Text == " " && text != " " {
				// Translucent blank: the glyph beneath shows through,
				// dimmed toward the window background.
				cst.Fg = mixColors(st.Fg, cst.Bg, p.Blend)
				st = cst
				continue
			}
		}
		text = cell.Text
		st = cst
	}
	return text, st
}

func styleFromPaint(p screen.Paint) surface.Style {
	return surface.Style{
		Fg:             p.Fg,
		Bg:             p.Bg,
		Bold:           p.Bold,
		Italic:         p.Italic,
		Strikethrough:  p.Strikethrough,
		Underline:      p.Underline,
		UnderlineColor: p.Special,
	}
}

// syncCursor positions the hardware cursor, or hides it while the
// engine is busy, the blink phase is off, or the cursor's grid is not
// on screen.
func (r *Renderer) syncCursor(snap *screen.Snapshot, eng *anim.Engine, now time.Time) {
	if !eng.CursorVisible(snap, now) {
		r.surf.HideCursor()
		return
	}
	if _, ok := snap.Window(snap.Cursor.Grid); !ok {
		r.surf.HideCursor()
		return
	}
	row, col := eng.CursorPos(now)
	cr, cc := roundInt(row), roundInt(col)
	if cr < 0 || cr >= r.rows || cc < 0 || cc >= r.cols {
		r.surf.HideCursor()
		return
	}
	r.surf.ShowCursor(cc, cr, cursorShape(snap))
}

func cursorShape(snap *screen.Snapshot) surface.CursorShape {
	mode, ok := snap.Mode()
	if !ok || !snap.CursorStyleEnabled {
		return surface.CursorBlock
	}
	switch mode.Shape {
	case redraw.CursorShapeHorizontal:
		return surface.CursorUnderline
	case redraw.CursorShapeVertical:
		return surface.CursorBar
	default:
		return surface.CursorBlock
	}
}

// syncTitle pushes the engine's title to the surface when it changes,
// and again after a full repaint in case the display was reacquired.
func (r *Renderer) syncTitle(snap *screen.Snapshot, full bool) {
	if snap.Title == "" || (snap.Title == r.lastTitle && !full) {
		return
	}
	r.lastTitle = snap.Title
	r.surf.SetTitle(snap.Title)
}

func (r *Renderer) syncBells(snap *screen.Snapshot) {
	if snap.BellSeq != r.lastBell {
		r.lastBell = snap.BellSeq
		r.surf.Beep()
	}
	if snap.VisualBellSeq != r.lastVisualBell {
		r.lastVisualBell = snap.VisualBellSeq
		r.surf.Beep()
	}
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
