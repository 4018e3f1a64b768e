package surface

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/slipstream/internal/grid"
	"github.com/dshills/slipstream/internal/render/shape"
)

// Terminal implements Surface on a tcell screen.
type Terminal struct {
	glyphs *shape.Cache
	events chan Event

	mu     sync.Mutex
	screen tcell.Screen
	done   chan struct{}
}

// NewTerminal creates a terminal surface. The display is not touched
// until Init.
func NewTerminal() *Terminal {
	return &Terminal{
		glyphs: shape.NewCache(4096),
		events: make(chan Event, 64),
	}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.EnableMouse()
	screen.EnablePaste()
	screen.EnableFocus()

	t.screen = screen
	t.done = make(chan struct{})
	go t.pump(screen, t.done)
	return nil
}

func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.screen == nil {
		return
	}
	t.screen.Fini()
	t.screen = nil
	close(t.done)
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.screen == nil {
		return 0, 0
	}
	return t.screen.Size()
}

func (t *Terminal) SetCell(col, row int, text string, st Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.screen == nil {
		return
	}
	g := t.glyphs.Glyph(text)
	t.screen.SetContent(col, row, g.Main, g.Comb, convertStyle(st))
}

func (t *Terminal) ShowCursor(col, row int, shape CursorShape) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.screen == nil {
		return
	}
	t.screen.ShowCursor(col, row)

	var cs tcell.CursorStyle
	switch shape {
	case CursorUnderline:
		cs = tcell.CursorStyleSteadyUnderline
	case CursorBar:
		cs = tcell.CursorStyleSteadyBar
	default:
		cs = tcell.CursorStyleSteadyBlock
	}
	t.screen.SetCursorStyle(cs)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.screen == nil {
		return
	}
	t.screen.HideCursor()
}

func (t *Terminal) Present() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.screen == nil {
		return nil
	}
	t.screen.Show()
	return nil
}

func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.screen == nil {
		return
	}
	t.screen.SetTitle(title)
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.screen == nil {
		return
	}
	_ = t.screen.Beep() // best-effort; terminal may not support beep
}

func (t *Terminal) Events() <-chan Event {
	return t.events
}

// pump feeds terminal input into the event channel until the screen
// is finalized.
func (t *Terminal) pump(screen tcell.Screen, done chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		out, ok := convertEvent(ev)
		if !ok {
			continue
		}
		select {
		case t.events <- out:
		case <-done:
			return
		}
	}
}

// convertStyle converts a surface Style to tcell.Style.
func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(s.Fg)).
		Background(convertColor(s.Bg))

	if s.Bold {
		style = style.Bold(true)
	}
	if s.Italic {
		style = style.Italic(true)
	}
	if s.Strikethrough {
		style = style.StrikeThrough(true)
	}
	if s.Underline != grid.UnderlineNone {
		style = style.Underline(convertUnderline(s.Underline), convertColor(s.UnderlineColor))
	}
	return style
}

func convertColor(c grid.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R()), int32(c.G()), int32(c.B()))
}

func convertUnderline(u grid.UnderlineStyle) tcell.UnderlineStyle {
	switch u {
	case grid.UnderlineDouble:
		return tcell.UnderlineStyleDouble
	case grid.UnderlineCurl:
		return tcell.UnderlineStyleCurly
	case grid.UnderlineDotted:
		return tcell.UnderlineStyleDotted
	case grid.UnderlineDashed:
		return tcell.UnderlineStyleDashed
	default:
		return tcell.UnderlineStyleSolid
	}
}

// convertEvent converts tcell events to surface events. The second
// return is false for event kinds the surface does not carry.
func convertEvent(ev tcell.Event) (Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return convertKeyEvent(e), true

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:     EventMouse,
			MouseCol: x,
			MouseRow: y,
			Button:   convertButtons(e.Buttons()),
			Mod:      convertMod(e.Modifiers()),
		}, true

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Cols: w, Rows: h}, true

	case *tcell.EventPaste:
		// Marks the start or end of a bracketed paste; the pasted text
		// arrives as key events in between.
		return Event{Type: EventPaste, PasteStart: e.Start()}, true

	case *tcell.EventFocus:
		return Event{Type: EventFocus, Focused: e.Focused}, true

	default:
		return Event{}, false
	}
}

// convertKeyEvent converts one tcell key event. Control-modified
// letters arrive from tcell as dedicated key codes; they are folded
// back into KeyRune with ModCtrl so consumers see the letter.
func convertKeyEvent(e *tcell.EventKey) Event {
	mod := convertMod(e.Modifiers())
	k := e.Key()

	switch k {
	case tcell.KeyRune:
		return Event{Type: EventKey, Key: KeyRune, Rune: e.Rune(), Mod: mod}
	case tcell.KeyEnter:
		return Event{Type: EventKey, Key: KeyEnter, Mod: mod}
	case tcell.KeyTab:
		return Event{Type: EventKey, Key: KeyTab, Mod: mod}
	case tcell.KeyBacktab:
		return Event{Type: EventKey, Key: KeyBacktab, Mod: mod}
	case tcell.KeyEscape:
		return Event{Type: EventKey, Key: KeyEscape, Mod: mod}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Event{Type: EventKey, Key: KeyBackspace, Mod: mod}
	case tcell.KeyDelete:
		return Event{Type: EventKey, Key: KeyDelete, Mod: mod}
	case tcell.KeyInsert:
		return Event{Type: EventKey, Key: KeyInsert, Mod: mod}
	case tcell.KeyHome:
		return Event{Type: EventKey, Key: KeyHome, Mod: mod}
	case tcell.KeyEnd:
		return Event{Type: EventKey, Key: KeyEnd, Mod: mod}
	case tcell.KeyPgUp:
		return Event{Type: EventKey, Key: KeyPageUp, Mod: mod}
	case tcell.KeyPgDn:
		return Event{Type: EventKey, Key: KeyPageDown, Mod: mod}
	case tcell.KeyUp:
		return Event{Type: EventKey, Key: KeyUp, Mod: mod}
	case tcell.KeyDown:
		return Event{Type: EventKey, Key: KeyDown, Mod: mod}
	case tcell.KeyLeft:
		return Event{Type: EventKey, Key: KeyLeft, Mod: mod}
	case tcell.KeyRight:
		return Event{Type: EventKey, Key: KeyRight, Mod: mod}
	case tcell.KeyF1:
		return Event{Type: EventKey, Key: KeyF1, Mod: mod}
	case tcell.KeyF2:
		return Event{Type: EventKey, Key: KeyF2, Mod: mod}
	case tcell.KeyF3:
		return Event{Type: EventKey, Key: KeyF3, Mod: mod}
	case tcell.KeyF4:
		return Event{Type: EventKey, Key: KeyF4, Mod: mod}
	case tcell.KeyF5:
		return Event{Type: EventKey, Key: KeyF5, Mod: mod}
	case tcell.KeyF6:
		return Event{Type: EventKey, Key: KeyF6, Mod: mod}
	case tcell.KeyF7:
		return Event{Type: EventKey, Key: KeyF7, Mod: mod}
	case tcell.KeyF8:
		return Event{Type: EventKey, Key: KeyF8, Mod: mod}
	case tcell.KeyF9:
		return Event{Type: EventKey, Key: KeyF9, Mod: mod}
	case tcell.KeyF10:
		return Event{Type: EventKey, Key: KeyF10, Mod: mod}
	case tcell.KeyF11:
		return Event{Type: EventKey, Key: KeyF11, Mod: mod}
	case tcell.KeyF12:
		return Event{Type: EventKey, Key: KeyF12, Mod: mod}
	case tcell.KeyCtrlSpace:
		return Event{Type: EventKey, Key: KeyRune, Rune: ' ', Mod: mod | ModCtrl}
	case tcell.KeyCtrlBackslash:
		return Event{Type: EventKey, Key: KeyRune, Rune: '\\', Mod: mod | ModCtrl}
	case tcell.KeyCtrlRightSq:
		return Event{Type: EventKey, Key: KeyRune, Rune: ']', Mod: mod | ModCtrl}
	case tcell.KeyCtrlCarat:
		return Event{Type: EventKey, Key: KeyRune, Rune: '^', Mod: mod | ModCtrl}
	case tcell.KeyCtrlUnderscore:
		return Event{Type: EventKey, Key: KeyRune, Rune: '_', Mod: mod | ModCtrl}
	}

	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return Event{Type: EventKey, Key: KeyRune, Rune: rune('a' + k - tcell.KeyCtrlA), Mod: mod | ModCtrl}
	}

	return Event{Type: EventKey, Key: KeyNone, Mod: mod}
}

// convertMod converts a tcell modifier mask.
func convertMod(m tcell.ModMask) Mod {
	var result Mod
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}

// convertButtons reduces a tcell button mask to the single button the
// event is about.
func convertButtons(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.ButtonPrimary != 0:
		return MouseLeft
	case b&tcell.ButtonMiddle != 0:
		return MouseMiddle
	case b&tcell.ButtonSecondary != 0:
		return MouseRight
	case b&tcell.WheelUp != 0:
		return WheelUp
	case b&tcell.WheelDown != 0:
		return WheelDown
	case b&tcell.WheelLeft != 0:
		return WheelLeft
	case b&tcell.WheelRight != 0:
		return WheelRight
	default:
		return MouseNone
	}
}
