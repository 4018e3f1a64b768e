package surface

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
)

// MemoryCell is one painted cell of a Memory surface.
type MemoryCell struct {
	Text  string
	Style Style
}

// Memory is an in-memory surface for tests. It records painted cells
// and cursor state, counts lifecycle calls, and lets tests inject
// input events and present failures.
type Memory struct {
	mu         sync.Mutex
	cols, rows int
	cells      [][]MemoryCell

	cursorCol, cursorRow int
	cursorShape          CursorShape
	cursorShown          bool

	title string

	inits, finis    int
	presents        int
	beeps           int
	writes          int
	presentFailures []error

	events chan Event
}

// NewMemory creates a memory surface of the given size.
func NewMemory(cols, rows int) *Memory {
	return &Memory{
		cols:   cols,
		rows:   rows,
		events: make(chan Event, 16),
	}
}

func (m *Memory) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inits++
	m.alloc()
	return nil
}

func (m *Memory) Fini() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.finis++
}

func (m *Memory) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cols, m.rows
}

func (m *Memory) SetCell(col, row int, text string, st Style) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cells == nil || row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return
	}
	if text == "" {
		text = " "
	}
	m.cells[row][col] = MemoryCell{Text: text, Style: st}
	m.writes++

	// A wide glyph shadows the cell to its right, as a real terminal
	// would.
	if runewidth.StringWidth(text) >= 2 && col+1 < m.cols {
		m.cells[row][col+1] = MemoryCell{Text: "", Style: st}
	}
}

func (m *Memory) ShowCursor(col, row int, shape CursorShape) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cursorCol, m.cursorRow = col, row
	m.cursorShape = shape
	m.cursorShown = true
}

func (m *Memory) HideCursor() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cursorShown = false
}

func (m *Memory) Present() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.presentFailures) > 0 {
		err := m.presentFailures[0]
		m.presentFailures = m.presentFailures[1:]
		return err
	}
	m.presents++
	return nil
}

func (m *Memory) SetTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.title = title
}

func (m *Memory) Beep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.beeps++
}

func (m *Memory) Events() <-chan Event {
	return m.events
}

// FailNextPresent queues err to be returned by the next Present call.
func (m *Memory) FailNextPresent(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.presentFailures = append(m.presentFailures, err)
}

// PostEvent delivers an input event to the surface consumer.
func (m *Memory) PostEvent(ev Event) {
	m.events <- ev
}

// SetSize changes the surface size and emits a resize event.
func (m *Memory) SetSize(cols, rows int) {
	m.mu.Lock()
	m.cols, m.rows = cols, rows
	m.alloc()
	m.mu.Unlock()

	m.events <- Event{Type: EventResize, Cols: cols, Rows: rows}
}

// CellAt returns the painted cell at (col, row).
func (m *Memory) CellAt(col, row int) MemoryCell {
	m.mu.Lock()
	defer m.mu.Unlock()

	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return MemoryCell{}
	}
	return m.cells[row][col]
}

// Text returns the visible text of one row with trailing blanks
// trimmed. Cells shadowed by a wide glyph contribute nothing.
func (m *Memory) Text(row int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if row < 0 || row >= m.rows {
		return ""
	}
	var b strings.Builder
	for col := 0; col < m.cols; col++ {
		b.WriteString(m.cells[row][col].Text)
	}
	return strings.TrimRight(b.String(), " ")
}

// Cursor returns the hardware cursor state.
func (m *Memory) Cursor() (col, row int, shown bool, shape CursorShape) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cursorCol, m.cursorRow, m.cursorShown, m.cursorShape
}

// Title returns the last title set on the surface.
func (m *Memory) Title() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.title
}

// Inits returns how many times Init ran.
func (m *Memory) Inits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inits
}

// Presents returns how many presents succeeded.
func (m *Memory) Presents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presents
}

// Beeps returns how many times the bell rang.
func (m *Memory) Beeps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beeps
}

// Writes returns the total number of SetCell calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// alloc resets the cell matrix to blanks. Must be called with lock held.
func (m *Memory) alloc() {
	m.cells = make([][]MemoryCell, m.rows)
	for r := range m.cells {
		row := make([]MemoryCell, m.cols)
		for c := range row {
			row[c] = MemoryCell{Text: " "}
		}
		m.cells[r] = row
	}
}
