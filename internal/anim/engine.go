// Package anim moves shown positions smoothly toward the state the
// engine reports. Every animated property follows the same rule: a new
// target restarts the curve from the value currently shown, so nothing
// on screen ever jumps.
package anim

import (
	"time"

	"github.com/dshills/slipstream/internal/screen"
)

// Config carries animation timing, read from user settings.
type Config struct {
	CursorDuration time.Duration
	ScrollDuration time.Duration
	WindowDuration time.Duration
	Easing         Easing
	CursorBlink    bool
}

// DefaultConfig returns the stock timing.
func DefaultConfig() Config {
	return Config{
		CursorDuration: 150 * time.Millisecond,
		ScrollDuration: 220 * time.Millisecond,
		WindowDuration: 220 * time.Millisecond,
		Easing:         EaseOut,
		CursorBlink:    true,
	}
}

// Engine owns the animated properties of the screen: the cursor, each
// window's origin, and each grid's scroll offset. The render loop is
// the sole caller; the engine is not safe for concurrent use.
type Engine struct {
	cfg Config

	cursor     Point
	windows    map[int]*Point
	scrolls    map[int]*Scalar
	blinkEpoch time.Time
	lastMode   int
	lastGen    uint64
}

// NewEngine returns an engine with no properties in flight.
func NewEngine(cfg Config) *Engine {
	if cfg.Easing == nil {
		cfg.Easing = EaseOut
	}
	return &Engine{
		cfg:     cfg,
		cursor:  NewPoint(cfg.CursorDuration, cfg.Easing),
		windows: make(map[int]*Point),
		scrolls: make(map[int]*Scalar),
	}
}

// Observe folds a published snapshot into the animators. A window seen
// for the first time snaps into place; a window that moved animates
// from its shown origin; a reported scroll delta bumps the grid's
// offset so the content glides back to rest.
func (e *Engine) Observe(snap *screen.Snapshot, now time.Time) {
	if snap == nil || snap.Gen == e.lastGen {
		return
	}
	e.lastGen = snap.Gen

	seen := make(map[int]bool, len(snap.Windows))
	for i := range snap.Windows {
		w := &snap.Windows[i]
		seen[w.GridID] = true

		r := snap.Rect(w)
		p, ok := e.windows[w.GridID]
		if !ok {
			np := NewPoint(e.cfg.WindowDuration, e.cfg.Easing)
			p = &np
			e.windows[w.GridID] = p
		}
		p.Set(float64(r.Row), float64(r.Col), now)

		if w.ScrollDelta != 0 {
			sc, ok := e.scrolls[w.GridID]
			if !ok {
				nsc := NewScalar(e.cfg.ScrollDuration, e.cfg.Easing)
				sc = &nsc
				e.scrolls[w.GridID] = sc
			}
			sc.Bump(float64(w.ScrollDelta), now)
		}
	}
	for id := range e.windows {
		if !seen[id] {
			delete(e.windows, id)
			delete(e.scrolls, id)
		}
	}

	if w, ok := snap.Window(snap.Cursor.Grid); ok {
		r := snap.Rect(w)
		row := float64(r.Row + snap.Cursor.Row)
		col := float64(r.Col + snap.Cursor.Col)
		tr, tc := e.cursor.Target()
		if tr != row || tc != col || snap.ModeIndex != e.lastMode {
			e.blinkEpoch = now
			e.lastMode = snap.ModeIndex
		}
		e.cursor.Set(row, col, now)
	}
}

// CursorPos returns the shown cursor position in screen cells.
func (e *Engine) CursorPos(now time.Time) (row, col float64) {
	return e.cursor.At(now)
}

// WindowOrigin returns the shown origin for a grid's window.
func (e *Engine) WindowOrigin(gridID int, now time.Time) (row, col float64, ok bool) {
	p, ok := e.windows[gridID]
	if !ok {
		return 0, 0, false
	}
	row, col = p.At(now)
	return row, col, true
}

// ScrollOffset returns the shown scroll displacement for a grid, in
// rows. It decays to zero as the scroll animation settles.
func (e *Engine) ScrollOffset(gridID int, now time.Time) float64 {
	if sc, ok := e.scrolls[gridID]; ok {
		return sc.At(now)
	}
	return 0
}

// Active reports whether any property is still in flight. The render
// loop keeps ticking while this is true.
func (e *Engine) Active(now time.Time) bool {
	if !e.cursor.Settled(now) {
		return true
	}
	for _, p := range e.windows {
		if !p.Settled(now) {
			return true
		}
	}
	for _, s := range e.scrolls {
		if !s.Settled(now) {
			return true
		}
	}
	return false
}

// CursorVisible folds busy state and the mode's blink cycle into one
// answer: should the cursor be drawn at this instant.
func (e *Engine) CursorVisible(snap *screen.Snapshot, now time.Time) bool {
	if snap == nil || snap.Busy {
		return false
	}
	if !e.cfg.CursorBlink {
		return true
	}
	mode, ok := snap.Mode()
	if !ok {
		return true
	}
	return BlinkVisible(mode.BlinkWait, mode.BlinkOn, mode.BlinkOff, now.Sub(e.blinkEpoch))
}

// Blinking reports whether the cursor's blink cycle calls for frames
// on its own, with no property in flight.
func (e *Engine) Blinking(snap *screen.Snapshot) bool {
	if !e.cfg.CursorBlink || snap == nil || snap.Busy {
		return false
	}
	mode, ok := snap.Mode()
	return ok && mode.BlinkOn > 0 && mode.BlinkOff > 0
}

// BlinkVisible reports whether a blinking cursor shows at the given
// offset into its cycle. wait, on, and off are milliseconds; a
// non-positive on or off disables blinking. The cursor stays lit
// through the wait period, then alternates.
func BlinkVisible(wait, on, off int, since time.Duration) bool {
	if on <= 0 || off <= 0 {
		return true
	}
	ms := since.Milliseconds()
	if wait > 0 && ms < int64(wait) {
		return true
	}
	if wait > 0 {
		ms -= int64(wait)
	}
	return ms%int64(on+off) < int64(on)
}
