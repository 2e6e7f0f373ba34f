package fractal

// Viewport is the rectangle of the complex plane being rasterized.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Dimensions is the size of the output raster in pixels.
type Dimensions struct {
	Width, Height int
}

// Point is a point on the complex plane.
type Point struct {
	Re, Im float64
}

// Map returns the point of the plane sampled by pixel column x and row y.
//
// The axes are scaled independently, so there is no aspect-ratio correction.
// Row 0 maps to YMin: the imaginary axis grows downwards in the raster.
func Map(x, y int, v Viewport, d Dimensions) Point {
	return Point{
		Re: v.XMin + (v.XMax-v.XMin)*float64(x)/float64(d.Width),
		Im: v.YMin + (v.YMax-v.YMin)*float64(y)/float64(d.Height),
	}
}
