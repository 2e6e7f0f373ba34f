// Package sink presents finished frames: to files, byte streams, or browsers.
package sink

import (
	"context"
	"fmt"
	"io"

	"github.com/willbeason/mandelbrot/pkg/fractal"
)

// A Sink presents a finished frame. The frame belongs to the sink once
// Present is called; the caller must not modify it afterwards.
type Sink interface {
	Present(ctx context.Context, f *fractal.Frame) error
}

// Raw writes the frame's BGRA bytes unchanged, row after row with no padding.
type Raw struct {
	W io.Writer
}

func (r Raw) Present(_ context.Context, f *fractal.Frame) error {
	n, err := r.W.Write(f.Pix)
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if n != len(f.Pix) {
		return io.ErrShortWrite
	}
	return nil
}

var _ Sink = Raw{}
