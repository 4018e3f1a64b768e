package grid

import "errors"

// ErrOutOfRange indicates a cell reference outside the grid rectangle.
var ErrOutOfRange = errors.New("grid: out of range")

// Grid is a rectangular cell buffer, row-major, origin top-left. The
// buffer is reallocated only by Resize; all other operations mutate in
// place.
type Grid struct {
	Cols, Rows int
	cells      []Cell
}

// New returns a cleared grid of the given size.
func New(cols, rows int) *Grid {
	g := &Grid{}
	g.Resize(cols, rows)
	return g
}

// Resize reallocates the buffer to the new size. No content is preserved;
// every cell is cleared.
func (g *Grid) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g.Cols, g.Rows = cols, rows
	g.cells = make([]Cell, cols*rows)
	g.Clear()
}

// Clear resets every cell to the empty cell.
func (g *Grid) Clear() {
	empty := EmptyCell()
	for i := range g.cells {
		g.cells[i] = empty
	}
}

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// At returns the cell at (row, col), or the empty cell when out of range.
func (g *Grid) At(row, col int) Cell {
	if !g.InBounds(row, col) {
		return EmptyCell()
	}
	return g.cells[row*g.Cols+col]
}

// Row returns the backing slice for one row. Callers must treat it as
// read-only outside the store's mutation path.
func (g *Grid) Row(row int) []Cell {
	if row < 0 || row >= g.Rows {
		return nil
	}
	return g.cells[row*g.Cols : (row+1)*g.Cols]
}

// Set writes one cell.
func (g *Grid) Set(row, col int, c Cell) error {
	if !g.InBounds(row, col) {
		return ErrOutOfRange
	}
	g.cells[row*g.Cols+col] = c
	return nil
}

// Fill stamps c into count consecutive cells of one row. The whole run
// must fit; nothing is written otherwise.
func (g *Grid) Fill(row, col, count int, c Cell) error {
	if count < 0 || !g.InBounds(row, col) || col+count > g.Cols {
		return ErrOutOfRange
	}
	base := row * g.Cols
	for i := col; i < col+count; i++ {
		g.cells[base+i] = c
	}
	return nil
}

// Scroll shifts the sub-rectangle rows [top,bot) x cols [left,right) by
// (rows, cols): the cell at (r, c) takes the value previously at
// (r+rows, c+cols). Cells whose source lies outside the rectangle are
// cleared. Content outside the rectangle is untouched.
func (g *Grid) Scroll(top, bot, left, right, rows, cols int) error {
	if top < 0 || bot > g.Rows || left < 0 || right > g.Cols || top > bot || left > right {
		return ErrOutOfRange
	}
	if rows == 0 && cols == 0 {
		return nil
	}

	// Iteration order follows the shift direction so overlapping source
	// cells are read before they are overwritten.
	rStart, rEnd, rStep := top, bot, 1
	if rows < 0 {
		rStart, rEnd, rStep = bot-1, top-1, -1
	}
	cStart, cEnd, cStep := left, right, 1
	if cols < 0 {
		cStart, cEnd, cStep = right-1, left-1, -1
	}

	empty := EmptyCell()
	for r := rStart; r != rEnd; r += rStep {
		src := r + rows
		for c := cStart; c != cEnd; c += cStep {
			sc := c + cols
			v := empty
			if src >= top && src < bot && sc >= left && sc < right {
				v = g.cells[src*g.Cols+sc]
			}
			g.cells[r*g.Cols+c] = v
		}
	}
	return nil
}

// Clone returns an independent deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{Cols: g.Cols, Rows: g.Rows, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}
