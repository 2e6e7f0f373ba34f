package fractal

import (
	"image"
	"time"
)

// BytesPerPixel is the size of one pixel in Frame.Pix.
const BytesPerPixel = 4

// A Frame is a finished raster of the set.
//
// Pix holds Height rows of Stride bytes each, with no padding between rows.
// Every pixel is four bytes in the order blue, green, red, alpha.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
	Stride int

	Stats Stats
}

// Stats describes the work done generating a Frame. It never affects Pix.
type Stats struct {
	// InSet is the number of pixels that did not escape.
	InSet int
	// Iterations is the total escape-time iterations over all pixels.
	Iterations int64
	Elapsed    time.Duration
}

func newFrame(d Dimensions) *Frame {
	stride := d.Width * BytesPerPixel
	return &Frame{
		Pix:    make([]byte, stride*d.Height),
		Width:  d.Width,
		Height: d.Height,
		Stride: stride,
	}
}

// Offset is the index in Pix of the first byte of pixel (x, y).
func (f *Frame) Offset(x, y int) int {
	return y*f.Stride + x*BytesPerPixel
}

// Pixel returns the color stored at (x, y).
func (f *Frame) Pixel(x, y int) Color {
	o := f.Offset(x, y)
	return Color{
		B: f.Pix[o],
		G: f.Pix[o+1],
		R: f.Pix[o+2],
		A: f.Pix[o+3],
	}
}

func (f *Frame) row(y int) []byte {
	return f.Pix[y*f.Stride : (y+1)*f.Stride]
}

// RGBA copies the frame into an image.RGBA, reordering the channels.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := f.row(y)
		dst := img.Pix[y*img.Stride : y*img.Stride+f.Width*BytesPerPixel]
		for o := 0; o < len(src); o += BytesPerPixel {
			dst[o] = src[o+2]
			dst[o+1] = src[o+1]
			dst[o+2] = src[o]
			dst[o+3] = src[o+3]
		}
	}
	return img
}
