// Package input translates surface input events into engine input
// calls: key presses become key notation strings, mouse events become
// grid-addressed pointer calls hit-tested against the drawn window
// rectangles.
package input
