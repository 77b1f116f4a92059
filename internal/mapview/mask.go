package mapview

import (
	"image"
	"image/color"
	"math"
)

// ringMask is an antialiased alpha mask covering inner <= d <= outer from
// its center. inner == 0 gives a filled disc.
type ringMask struct {
	cx, cy       float64
	outer, inner float64
}

func (m ringMask) ColorModel() color.Model { return color.AlphaModel }

func (m ringMask) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(m.cx-m.outer))-1,
		int(math.Floor(m.cy-m.outer))-1,
		int(math.Ceil(m.cx+m.outer))+1,
		int(math.Ceil(m.cy+m.outer))+1,
	)
}

func (m ringMask) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-m.cx, float64(y)+0.5-m.cy)
	a := coverage(d, m.outer)
	if m.inner > 0 {
		a -= coverage(d, m.inner)
	}
	if a <= 0 {
		return color.Alpha{}
	}
	return color.Alpha{A: uint8(math.Round(a * 0xff))}
}

// coverage approximates how much of a pixel at distance d lies inside a
// circle of radius r.
func coverage(d, r float64) float64 {
	return math.Max(0, math.Min(1, r-d+0.5))
}
