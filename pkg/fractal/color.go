package fractal

import "image/color"

// Color is an opaque 8-bit-per-channel color.
type Color struct {
	R, G, B, A uint8
}

// InSet is the color of points that never escaped.
var InSet = Color{R: 0, G: 0, B: 0, A: 255}

// ColorFor maps an iteration count to a color.
//
// Escaping points get a linear gradient from cyan (escaped immediately) towards
// red; every division truncates so the bytes are reproducible exactly.
func ColorFor(iterations, maxIterations int) Color {
	if iterations == maxIterations {
		return InSet
	}

	r := uint8(255 * iterations / maxIterations)
	return Color{
		R: r,
		G: 255 - r,
		B: 255 - r/2,
		A: 255,
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

var _ color.Color = Color{}
