package screen

// Rect is a rectangle of grid cells. Row and Col locate the top-left
// corner; Rows and Cols are the extent.
type Rect struct {
	Row, Col   int
	Rows, Cols int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.Rows <= 0 || r.Cols <= 0 }

// Area returns the number of cells covered.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Rows * r.Cols
}

// Contains reports whether the cell at (row, col) lies inside r.
func (r Rect) Contains(row, col int) bool {
	return row >= r.Row && row < r.Row+r.Rows && col >= r.Col && col < r.Col+r.Cols
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	row := min(r.Row, o.Row)
	col := min(r.Col, o.Col)
	bot := max(r.Row+r.Rows, o.Row+o.Rows)
	right := max(r.Col+r.Cols, o.Col+o.Cols)
	return Rect{Row: row, Col: col, Rows: bot - row, Cols: right - col}
}

// Intersect clips r to o. The result is empty when they are disjoint.
func (r Rect) Intersect(o Rect) Rect {
	row := max(r.Row, o.Row)
	col := max(r.Col, o.Col)
	bot := min(r.Row+r.Rows, o.Row+o.Rows)
	right := min(r.Col+r.Cols, o.Col+o.Cols)
	return Rect{Row: row, Col: col, Rows: bot - row, Cols: right - col}
}

// Overlaps reports whether the rectangles share any cell.
func (r Rect) Overlaps(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// touches reports overlap or a shared edge, the condition for merging
// two damage regions.
func (r Rect) touches(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Row <= o.Row+o.Rows && o.Row <= r.Row+r.Rows &&
		r.Col <= o.Col+o.Cols && o.Col <= r.Col+r.Cols
}

const (
	maxDamageRegions = 32
	fullDamageRatio  = 0.5
)

// damage accumulates repaint regions for one grid between flushes.
// Touching marks merge; once the region count passes maxDamageRegions
// or the covered area passes fullDamageRatio of the grid, the tracker
// collapses to a full repaint.
type damage struct {
	full    bool
	regions []Rect
}

func (d *damage) markFull() {
	d.full = true
	d.regions = d.regions[:0]
}

func (d *damage) mark(r Rect, gridCols, gridRows int) {
	if d.full {
		return
	}
	r = r.Intersect(Rect{Rows: gridRows, Cols: gridCols})
	if r.Empty() {
		return
	}

	for i := range d.regions {
		if d.regions[i].touches(r) {
			d.regions[i] = d.regions[i].Union(r)
			d.coalesce()
			d.checkRatio(gridCols, gridRows)
			return
		}
	}
	d.regions = append(d.regions, r)
	if len(d.regions) > maxDamageRegions {
		d.coalesce()
		if len(d.regions) > maxDamageRegions {
			d.markFull()
			return
		}
	}
	d.checkRatio(gridCols, gridRows)
}

// coalesce merges touching pairs until none remain.
func (d *damage) coalesce() {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(d.regions) && !changed; i++ {
			for j := i + 1; j < len(d.regions); j++ {
				if d.regions[i].touches(d.regions[j]) {
					d.regions[i] = d.regions[i].Union(d.regions[j])
					d.regions = append(d.regions[:j], d.regions[j+1:]...)
					changed = true
					break
				}
			}
		}
	}
}

func (d *damage) checkRatio(gridCols, gridRows int) {
	total := gridCols * gridRows
	if total == 0 {
		return
	}
	area := 0
	for _, r := range d.regions {
		area += r.Area()
	}
	if float64(area)/float64(total) > fullDamageRatio {
		d.markFull()
	}
}

// take returns the accumulated damage and resets the tracker.
func (d *damage) take() (regions []Rect, full bool) {
	if d.full {
		d.full = false
		return nil, true
	}
	if len(d.regions) == 0 {
		return nil, false
	}
	regions = make([]Rect, len(d.regions))
	copy(regions, d.regions)
	d.regions = d.regions[:0]
	return regions, false
}
