package redraw

import (
	"fmt"

	"github.com/dshills/slipstream/internal/grid"
	"github.com/dshills/slipstream/internal/logger"
)

// Decode interprets the params of one "redraw" notification into an
// ordered event sequence. A malformed tuple is logged and skipped; the
// rest of the batch still decodes, in order.
func Decode(params []any) []Event {
	events := make([]Event, 0, len(params))
	for _, rec := range params {
		arr, ok := toArray(rec)
		if !ok || len(arr) == 0 {
			logger.Warn("redraw record is not an event array")
			continue
		}
		name, ok := toString(arr[0])
		if !ok {
			logger.Warn("redraw event name is not a string")
			continue
		}

		dec, known := decoders[name]
		if !known {
			if ignoredEvents[name] {
				continue
			}
			logger.Warn("unknown redraw event", "event", name)
			events = append(events, Unknown{Name: name})
			continue
		}

		for _, tuple := range arr[1:] {
			args, ok := toArray(tuple)
			if !ok {
				logger.Warn("redraw tuple is not an array", "event", name)
				continue
			}
			ev, err := dec(args)
			if err != nil {
				logger.Warn("bad redraw tuple", "event", name, "err", err)
				continue
			}
			events = append(events, ev)
		}
	}
	return events
}

var decoders = map[string]func([]any) (Event, error){
	"grid_resize":        decodeGridResize,
	"grid_line":          decodeGridLine,
	"grid_clear":         decodeGridClear,
	"grid_destroy":       decodeGridDestroy,
	"grid_cursor_goto":   decodeGridCursorGoto,
	"grid_scroll":        decodeGridScroll,
	"win_pos":            decodeWinPos,
	"win_float_pos":      decodeWinFloatPos,
	"win_hide":           decodeWinHide,
	"win_close":          decodeWinClose,
	"msg_set_pos":        decodeMsgSetPos,
	"win_viewport":       decodeWinViewport,
	"hl_attr_define":     decodeHlAttrDefine,
	"default_colors_set": decodeDefaultColors,
	"mode_info_set":      decodeModeInfoSet,
	"mode_change":        decodeModeChange,
	"set_title":          decodeSetTitle,
	"bell":               decodeBell,
	"visual_bell":        decodeVisualBell,
	"busy_start":         decodeBusyStart,
	"busy_stop":          decodeBusyStop,
	"mouse_on":           decodeMouseOn,
	"mouse_off":          decodeMouseOff,
	"flush":              decodeFlush,
}

// Events that arrive in every session but carry nothing this client acts
// on. Recognizing them keeps the unknown-event warning meaningful.
var ignoredEvents = map[string]bool{
	"option_set":   true,
	"set_icon":     true,
	"update_menu":  true,
	"hl_group_set": true,
}

// argReader walks one argument tuple, remembering the first failure so
// decoders can read all fields and check the error once.
type argReader struct {
	args []any
	err  error
}

func (r *argReader) fail(i int, want string) {
	if r.err == nil {
		if i >= len(r.args) {
			r.err = fmt.Errorf("missing arg %d (%s)", i, want)
		} else {
			r.err = fmt.Errorf("arg %d is %T, want %s", i, r.args[i], want)
		}
	}
}

func (r *argReader) int(i int) int {
	if r.err != nil || i >= len(r.args) {
		r.fail(i, "integer")
		return 0
	}
	n, ok := toInt(r.args[i])
	if !ok {
		r.fail(i, "integer")
		return 0
	}
	return n
}

// intOr reads an optional trailing integer.
func (r *argReader) intOr(i, def int) int {
	if r.err != nil || i >= len(r.args) {
		return def
	}
	n, ok := toInt(r.args[i])
	if !ok {
		return def
	}
	return n
}

func (r *argReader) float(i int) float64 {
	if r.err != nil || i >= len(r.args) {
		r.fail(i, "number")
		return 0
	}
	f, ok := toFloat(r.args[i])
	if !ok {
		r.fail(i, "number")
		return 0
	}
	return f
}

func (r *argReader) str(i int) string {
	if r.err != nil || i >= len(r.args) {
		r.fail(i, "string")
		return ""
	}
	s, ok := toString(r.args[i])
	if !ok {
		r.fail(i, "string")
		return ""
	}
	return s
}

// boolOr reads an optional boolean.
func (r *argReader) boolOr(i int, def bool) bool {
	if r.err != nil || i >= len(r.args) {
		return def
	}
	b, ok := toBool(r.args[i])
	if !ok {
		return def
	}
	return b
}

func (r *argReader) array(i int) []any {
	if r.err != nil || i >= len(r.args) {
		r.fail(i, "array")
		return nil
	}
	a, ok := toArray(r.args[i])
	if !ok {
		r.fail(i, "array")
		return nil
	}
	return a
}

func (r *argReader) mapAt(i int) map[string]any {
	if r.err != nil || i >= len(r.args) {
		r.fail(i, "map")
		return nil
	}
	m, ok := toMap(r.args[i])
	if !ok {
		r.fail(i, "map")
		return nil
	}
	return m
}

func decodeGridResize(args []any) (Event, error) {
	r := argReader{args: args}
	ev := GridResize{Grid: r.int(0), Cols: r.int(1), Rows: r.int(2)}
	return ev, r.err
}

func decodeGridLine(args []any) (Event, error) {
	r := argReader{args: args}
	ev := GridLine{Grid: r.int(0), Row: r.int(1), ColStart: r.int(2)}
	cells := r.array(3)
	if r.err != nil {
		return nil, r.err
	}

	ev.Runs = make([]CellRun, 0, len(cells))
	hl := 0
	for i, cv := range cells {
		cell, ok := toArray(cv)
		if !ok || len(cell) == 0 || len(cell) > 3 {
			return nil, fmt.Errorf("cell %d malformed", i)
		}
		text, ok := toString(cell[0])
		if !ok {
			return nil, fmt.Errorf("cell %d text is %T", i, cell[0])
		}
		repeat := 1
		if len(cell) >= 2 {
			if hl, ok = toInt(cell[1]); !ok {
				return nil, fmt.Errorf("cell %d hl is %T", i, cell[1])
			}
		}
		if len(cell) == 3 {
			if repeat, ok = toInt(cell[2]); !ok || repeat < 1 {
				return nil, fmt.Errorf("cell %d repeat malformed", i)
			}
		}
		ev.Runs = append(ev.Runs, CellRun{Text: text, HlID: hl, Repeat: repeat})
	}
	return ev, nil
}

func decodeGridClear(args []any) (Event, error) {
	r := argReader{args: args}
	ev := GridClear{Grid: r.int(0)}
	return ev, r.err
}

func decodeGridDestroy(args []any) (Event, error) {
	r := argReader{args: args}
	ev := GridDestroy{Grid: r.int(0)}
	return ev, r.err
}

func decodeGridCursorGoto(args []any) (Event, error) {
	r := argReader{args: args}
	ev := GridCursorGoto{Grid: r.int(0), Row: r.int(1), Col: r.int(2)}
	return ev, r.err
}

func decodeGridScroll(args []any) (Event, error) {
	r := argReader{args: args}
	ev := GridScroll{
		Grid: r.int(0),
		Top:  r.int(1), Bot: r.int(2),
		Left: r.int(3), Right: r.int(4),
		Rows: r.int(5), Cols: r.int(6),
	}
	return ev, r.err
}

func decodeWinPos(args []any) (Event, error) {
	r := argReader{args: args}
	ev := WinPos{
		Grid: r.int(0), Win: r.int(1),
		Row: r.int(2), Col: r.int(3),
		Width: r.int(4), Height: r.int(5),
	}
	return ev, r.err
}

func decodeWinFloatPos(args []any) (Event, error) {
	r := argReader{args: args}
	ev := WinFloatPos{
		Grid:       r.int(0),
		Win:        r.int(1),
		Anchor:     r.str(2),
		AnchorGrid: r.int(3),
		AnchorRow:  r.float(4),
		AnchorCol:  r.float(5),
		Focusable:  r.boolOr(6, true),
		ZIndex:     r.intOr(7, 50),
	}
	return ev, r.err
}

func decodeWinHide(args []any) (Event, error) {
	r := argReader{args: args}
	ev := WinHide{Grid: r.int(0)}
	return ev, r.err
}

func decodeWinClose(args []any) (Event, error) {
	r := argReader{args: args}
	ev := WinClose{Grid: r.int(0)}
	return ev, r.err
}

func decodeMsgSetPos(args []any) (Event, error) {
	r := argReader{args: args}
	ev := MsgSetPos{Grid: r.int(0), Row: r.int(1), Scrolled: r.boolOr(2, false)}
	if len(args) > 3 {
		if s, ok := toString(args[3]); ok {
			ev.SepChar = s
		}
	}
	return ev, r.err
}

func decodeWinViewport(args []any) (Event, error) {
	r := argReader{args: args}
	ev := WinViewport{
		Grid:        r.int(0),
		Win:         r.int(1),
		TopLine:     r.int(2),
		BotLine:     r.int(3),
		CurLine:     r.int(4),
		CurCol:      r.int(5),
		LineCount:   r.intOr(6, 0),
		ScrollDelta: r.intOr(7, 0),
	}
	return ev, r.err
}

func decodeHlAttrDefine(args []any) (Event, error) {
	r := argReader{args: args}
	id := r.int(0)
	rgb := r.mapAt(1)
	if r.err != nil {
		return nil, r.err
	}
	return HlAttrDefine{ID: id, Attrs: parseAttr(rgb)}, nil
}

// parseAttr reads the rgb attribute map of hl_attr_define.
func parseAttr(m map[string]any) grid.Attr {
	var a grid.Attr
	if v, ok := m["foreground"]; ok {
		if n, ok := toInt(v); ok {
			a.Fg, a.HasFg = grid.Color(n), true
		}
	}
	if v, ok := m["background"]; ok {
		if n, ok := toInt(v); ok {
			a.Bg, a.HasBg = grid.Color(n), true
		}
	}
	if v, ok := m["special"]; ok {
		if n, ok := toInt(v); ok {
			a.Special, a.HasSpecial = grid.Color(n), true
		}
	}
	a.Bold = mapBool(m, "bold")
	a.Italic = mapBool(m, "italic")
	a.Reverse = mapBool(m, "reverse")
	a.Strikethrough = mapBool(m, "strikethrough")
	a.Blend = mapInt(m, "blend", 0)

	switch {
	case mapBool(m, "undercurl"):
		a.Underline = grid.UnderlineCurl
	case mapBool(m, "underdouble"):
		a.Underline = grid.UnderlineDouble
	case mapBool(m, "underdotted"):
		a.Underline = grid.UnderlineDotted
	case mapBool(m, "underdashed"):
		a.Underline = grid.UnderlineDashed
	case mapBool(m, "underline"):
		a.Underline = grid.UnderlineSingle
	}
	return a
}

func decodeDefaultColors(args []any) (Event, error) {
	r := argReader{args: args}
	fg, bg, sp := r.int(0), r.int(1), r.int(2)
	if r.err != nil {
		return nil, r.err
	}
	ev := DefaultColorsSet{}
	if fg >= 0 {
		ev.Fg, ev.HasFg = grid.Color(fg), true
	}
	if bg >= 0 {
		ev.Bg, ev.HasBg = grid.Color(bg), true
	}
	if sp >= 0 {
		ev.Special, ev.HasSpecial = grid.Color(sp), true
	}
	return ev, nil
}

func decodeModeInfoSet(args []any) (Event, error) {
	r := argReader{args: args}
	enabled := r.boolOr(0, true)
	modes := r.array(1)
	if r.err != nil {
		return nil, r.err
	}

	ev := ModeInfoSet{CursorStyleEnabled: enabled, Modes: make([]ModeInfo, 0, len(modes))}
	for i, mv := range modes {
		m, ok := toMap(mv)
		if !ok {
			return nil, fmt.Errorf("mode %d is %T, want map", i, mv)
		}
		info := ModeInfo{
			Name:           mapString(m, "name"),
			ShortName:      mapString(m, "short_name"),
			CellPercentage: mapInt(m, "cell_percentage", 100),
			BlinkWait:      mapInt(m, "blinkwait", 0),
			BlinkOn:        mapInt(m, "blinkon", 0),
			BlinkOff:       mapInt(m, "blinkoff", 0),
			AttrID:         mapInt(m, "attr_id", 0),
		}
		switch mapString(m, "cursor_shape") {
		case "horizontal":
			info.Shape = CursorShapeHorizontal
		case "vertical":
			info.Shape = CursorShapeVertical
		default:
			info.Shape = CursorShapeBlock
		}
		ev.Modes = append(ev.Modes, info)
	}
	return ev, nil
}

func decodeModeChange(args []any) (Event, error) {
	r := argReader{args: args}
	ev := ModeChange{Mode: r.str(0), Index: r.int(1)}
	return ev, r.err
}

func decodeSetTitle(args []any) (Event, error) {
	r := argReader{args: args}
	ev := SetTitle{Title: r.str(0)}
	return ev, r.err
}

func decodeBell([]any) (Event, error)       { return Bell{}, nil }
func decodeVisualBell([]any) (Event, error) { return Bell{Visual: true}, nil }
func decodeBusyStart([]any) (Event, error)  { return BusyStart{}, nil }
func decodeBusyStop([]any) (Event, error)   { return BusyStop{}, nil }
func decodeMouseOn([]any) (Event, error)    { return MouseOn{}, nil }
func decodeMouseOff([]any) (Event, error)   { return MouseOff{}, nil }
func decodeFlush([]any) (Event, error)      { return Flush{}, nil }
