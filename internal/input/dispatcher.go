package input

import (
	"math"
	"strings"
	"time"

	"github.com/dshills/slipstream/internal/anim"
	"github.com/dshills/slipstream/internal/render/surface"
	"github.com/dshills/slipstream/internal/screen"
)

// Notifier forwards translated input to the engine.
type Notifier interface {
	Input(keys string) error
	InputMouse(button, action, modifier string, grid, row, col int) error
	Paste(data string) error
}

// Dispatcher turns surface input events into engine input calls.
//
// Mouse positions resolve against the rectangles windows are drawn at,
// animation included, so clicks during a window slide land on the
// content under the pointer rather than where it will settle. A drag
// stays bound to the grid it pressed on until release.
type Dispatcher struct {
	n Notifier

	dragButton surface.MouseButton
	dragGrid   int
	dragRect   screen.Rect

	pasting  bool
	pasteBuf strings.Builder
}

// NewDispatcher creates a dispatcher sending through n.
func NewDispatcher(n Notifier) *Dispatcher {
	return &Dispatcher{n: n}
}

// HandleKey forwards one key event. Keys arriving inside a bracketed
// paste are collected for delivery as a block instead.
func (d *Dispatcher) HandleKey(ev surface.Event) error {
	if d.pasting {
		d.collectPasted(ev)
		return nil
	}
	keys := Notation(ev)
	if keys == "" {
		return nil
	}
	return d.n.Input(keys)
}

// HandlePaste tracks bracketed paste boundaries. Text between them
// reaches the engine as one paste call, so mappings never fire on
// pasted characters.
func (d *Dispatcher) HandlePaste(ev surface.Event) error {
	if ev.Type != surface.EventPaste {
		return nil
	}
	if ev.PasteStart {
		d.pasting = true
		d.pasteBuf.Reset()
		return nil
	}
	if !d.pasting {
		return nil
	}
	d.pasting = false
	if d.pasteBuf.Len() == 0 {
		return nil
	}
	return d.n.Paste(d.pasteBuf.String())
}

func (d *Dispatcher) collectPasted(ev surface.Event) {
	switch ev.Key {
	case surface.KeyRune:
		if ev.Rune != 0 {
			d.pasteBuf.WriteRune(ev.Rune)
		}
	case surface.KeyEnter:
		d.pasteBuf.WriteByte('\n')
	case surface.KeyTab:
		d.pasteBuf.WriteByte('\t')
	}
}

// HandleMouse forwards one mouse event, hit-testing snap's windows top
// to bottom. Events are dropped while the engine has the mouse
// disabled.
func (d *Dispatcher) HandleMouse(ev surface.Event, snap *screen.Snapshot, eng *anim.Engine, now time.Time) error {
	if ev.Type != surface.EventMouse || snap == nil || !snap.MouseEnabled {
		return nil
	}
	mod := mouseModifier(ev.Mod)

	switch ev.Button {
	case surface.WheelUp, surface.WheelDown, surface.WheelLeft, surface.WheelRight:
		gridID, row, col, ok := hit(snap, eng, now, ev.MouseRow, ev.MouseCol)
		if !ok {
			return nil
		}
		return d.n.InputMouse("wheel", wheelAction(ev.Button), mod, gridID, row, col)

	case surface.MouseNone:
		// All buttons up: either the end of a drag or plain motion,
		// which the engine has no use for.
		if d.dragButton == surface.MouseNone {
			return nil
		}
		name := buttonName(d.dragButton)
		d.dragButton = surface.MouseNone
		gridID, row, col := d.dragPosition(snap, eng, now, ev.MouseRow, ev.MouseCol)
		return d.n.InputMouse(name, "release", mod, gridID, row, col)

	default:
		name := buttonName(ev.Button)
		if name == "" {
			return nil
		}
		if d.dragButton == ev.Button {
			gridID, row, col := d.dragPosition(snap, eng, now, ev.MouseRow, ev.MouseCol)
			return d.n.InputMouse(name, "drag", mod, gridID, row, col)
		}
		gridID, row, col, ok := hit(snap, eng, now, ev.MouseRow, ev.MouseCol)
		if !ok {
			return nil
		}
		d.dragButton = ev.Button
		d.dragGrid = gridID
		return d.n.InputMouse(name, "press", mod, gridID, row, col)
	}
}

// hit finds the topmost focusable window under the pointer and
// translates the screen cell into that window's grid.
func hit(snap *screen.Snapshot, eng *anim.Engine, now time.Time, srow, scol int) (gridID, row, col int, ok bool) {
	for i := len(snap.Windows) - 1; i >= 0; i-- {
		w := &snap.Windows[i]
		if !w.Focusable {
			continue
		}
		rect := drawnRect(snap, eng, now, w)
		if !rect.Contains(srow, scol) {
			continue
		}
		row, col = translate(rect, eng, now, w.GridID, srow, scol)
		return w.GridID, row, col, true
	}
	return 0, 0, 0, false
}

// dragPosition translates the pointer into the grid the drag started
// on, clamping when the pointer has left the window.
func (d *Dispatcher) dragPosition(snap *screen.Snapshot, eng *anim.Engine, now time.Time, srow, scol int) (gridID, row, col int) {
	if w, ok := snap.Window(d.dragGrid); ok {
		d.dragRect = drawnRect(snap, eng, now, w)
	}
	row, col = translate(d.dragRect, eng, now, d.dragGrid, srow, scol)
	return d.dragGrid, row, col
}

// drawnRect is the rectangle the window occupies on screen this frame.
func drawnRect(snap *screen.Snapshot, eng *anim.Engine, now time.Time, w *screen.WindowView) screen.Rect {
	rect := snap.Rect(w)
	if row, col, ok := eng.WindowOrigin(w.GridID, now); ok {
		rect.Row = int(math.Round(row))
		rect.Col = int(math.Round(col))
	}
	return rect
}

// translate converts a screen cell to grid coordinates, following the
// same scroll displacement the compositor draws with.
func translate(rect screen.Rect, eng *anim.Engine, now time.Time, gridID, srow, scol int) (row, col int) {
	row = srow - rect.Row - int(math.Round(eng.ScrollOffset(gridID, now)))
	col = scol - rect.Col
	row = clamp(row, 0, rect.Rows-1)
	col = clamp(col, 0, rect.Cols-1)
	return row, col
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

func buttonName(b surface.MouseButton) string {
	switch b {
	case surface.MouseLeft:
		return "left"
	case surface.MouseMiddle:
		return "middle"
	case surface.MouseRight:
		return "right"
	default:
		return ""
	}
}

func wheelAction(b surface.MouseButton) string {
	switch b {
	case surface.WheelUp:
		return "up"
	case surface.WheelDown:
		return "down"
	case surface.WheelLeft:
		return "left"
	default:
		return "right"
	}
}

// mouseModifier encodes held modifiers the way the engine's pointer
// call expects them.
func mouseModifier(mod surface.Mod) string {
	var b []byte
	if mod.Has(surface.ModCtrl) {
		b = append(b, 'c')
	}
	if mod.Has(surface.ModAlt) {
		b = append(b, 'a')
	}
	if mod.Has(surface.ModMeta) {
		b = append(b, 'd')
	}
	if mod.Has(surface.ModShift) {
		b = append(b, 's')
	}
	return string(b)
}
