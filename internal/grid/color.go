package grid

import "fmt"

// Color is a 24-bit RGB color packed as 0xRRGGBB, the form the engine
// transmits colors in.
type Color uint32

// RGB builds a Color from components.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// R returns the red component.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green component.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue component.
func (c Color) B() uint8 { return uint8(c) }

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}
