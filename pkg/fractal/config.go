package fractal

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrInvalidViewport   = errors.New("invalid viewport")
	ErrInvalidIterations = errors.New("invalid iteration budget")
)

// Config is everything needed to generate a frame.
type Config struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`

	MaxIterations int `json:"max_iterations"`
}

// DefaultConfig is the classic full view of the set at 1080p.
func DefaultConfig() Config {
	return Config{
		Width:         1920,
		Height:        1080,
		XMin:          -2.5,
		XMax:          1.0,
		YMin:          -1.0,
		YMax:          1.0,
		MaxIterations: 100,
	}
}

func (c Config) Viewport() Viewport {
	return Viewport{XMin: c.XMin, XMax: c.XMax, YMin: c.YMin, YMax: c.YMax}
}

func (c Config) Dimensions() Dimensions {
	return Dimensions{Width: c.Width, Height: c.Height}
}

// Validate reports the first precondition c violates. Errors wrap one of
// ErrInvalidDimensions, ErrInvalidViewport or ErrInvalidIterations.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}
	if c.Width > math.MaxInt/4/c.Height {
		return fmt.Errorf("%w: %dx%d overflows the pixel buffer", ErrInvalidDimensions, c.Width, c.Height)
	}

	for _, bound := range []float64{c.XMin, c.XMax, c.YMin, c.YMax} {
		if math.IsNaN(bound) || math.IsInf(bound, 0) {
			return fmt.Errorf("%w: bound %v is not finite", ErrInvalidViewport, bound)
		}
	}
	if c.XMin >= c.XMax {
		return fmt.Errorf("%w: x_min %v >= x_max %v", ErrInvalidViewport, c.XMin, c.XMax)
	}
	if c.YMin >= c.YMax {
		return fmt.Errorf("%w: y_min %v >= y_max %v", ErrInvalidViewport, c.YMin, c.YMax)
	}

	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, c.MaxIterations)
	}

	return nil
}
