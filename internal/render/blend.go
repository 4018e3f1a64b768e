package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/slipstream/internal/grid"
)

// mixColors blends top toward under by pct, where 0 keeps top and 100
// yields under. Interpolation happens in RGB, matching how the engine
// specifies blend levels.
func mixColors(top, under grid.Color, pct int) grid.Color {
	if pct <= 0 {
		return top
	}
	if pct >= 100 {
		return under
	}
	t := colorful.Color{
		R: float64(top.R()) / 255,
		G: float64(top.G()) / 255,
		B: float64(top.B()) / 255,
	}
	u := colorful.Color{
		R: float64(under.R()) / 255,
		G: float64(under.G()) / 255,
		B: float64(under.B()) / 255,
	}
	m := t.BlendRgb(u, float64(pct)/100)
	return grid.RGB(clampByte(m.R), clampByte(m.G), clampByte(m.B))
}

func clampByte(f float64) uint8 {
	v := int(f*255 + 0.5)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
