package grid

// Cell is one display cell: a grapheme cluster and the highlight id that
// styles it. Empty text marks the trailing half of a double-width pair.
type Cell struct {
	Text string
	HlID int
	Wide bool // leading cell of a double-width pair
}

// EmptyCell returns the cleared cell value: a plain space in the default
// highlight.
func EmptyCell() Cell {
	return Cell{Text: " "}
}

// IsContinuation reports whether the cell is the trailing half of a
// double-width pair.
func (c Cell) IsContinuation() bool {
	return c.Text == ""
}
