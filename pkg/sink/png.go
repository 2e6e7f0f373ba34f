package sink

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/nfnt/resize"
	"github.com/willbeason/mandelbrot/pkg/fractal"
)

var ErrInvalidScale = errors.New("scale must be within [0, 1]")

// PNG encodes the frame to a PNG file.
type PNG struct {
	Path string

	// Scale in (0, 1) shrinks the image by that factor before encoding.
	// Zero and one keep the frame's size.
	Scale float64
}

func (p PNG) Present(_ context.Context, f *fractal.Frame) error {
	img, err := p.image(f)
	if err != nil {
		return err
	}

	file, err := os.Create(p.Path)
	if err != nil {
		return fmt.Errorf("unable to create %s - %w", p.Path, err)
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return fmt.Errorf("unable to encode %s - %w", p.Path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("unable to close %s - %w", p.Path, err)
	}

	return nil
}

// Encode writes the frame as PNG to w.
func (p PNG) Encode(w io.Writer, f *fractal.Frame) error {
	img, err := p.image(f)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func (p PNG) image(f *fractal.Frame) (image.Image, error) {
	switch {
	case math.IsNaN(p.Scale) || p.Scale < 0 || p.Scale > 1:
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, p.Scale)
	case p.Scale == 0 || p.Scale == 1:
		return f.RGBA(), nil
	}

	w := uint(math.Max(1, math.Round(float64(f.Width)*p.Scale)))
	h := uint(math.Max(1, math.Round(float64(f.Height)*p.Scale)))
	return resize.Resize(w, h, f.RGBA(), resize.Lanczos3), nil
}

var _ Sink = PNG{}
