// Package grid holds the cell-level data model: colors, highlight
// attributes, cells, and the rectangular cell buffers the engine mirrors
// into. A Grid is a dumb buffer; ordering and ownership rules live in the
// screen package.
package grid
