package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/willbeason/mandelbrot/pkg/fractal"
)

const (
	FormatPNG = "png"
	FormatRaw = "raw"

	// Stdout as Output writes the frame to standard output.
	Stdout = "-"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Settings is a run of the renderer: the frame to generate plus where it goes.
type Settings struct {
	fractal.Config

	Workers int     `json:"workers"`
	Output  string  `json:"output"`
	Format  string  `json:"format"`
	Scale   float64 `json:"scale"`
	Address string  `json:"address"`
	Verbose bool    `json:"verbose"`
}

// Load reads settings from a JSON file. An empty path returns zero settings
// for Verify to fill in.
func Load(path string) (Settings, error) {
	var s Settings
	if path == "" {
		return s, nil
	}

	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("unable to read %s - %w", path, err)
	}
	if err := json.Unmarshal(fileBytes, &s); err != nil {
		return s, fmt.Errorf("unable to parse %s - %w", path, err)
	}

	return s, nil
}

// Verify fills unset fields with defaults.
//
// Values that are set but invalid, such as a negative width, are kept for
// Validate to reject.
func (s *Settings) Verify() {
	def := fractal.DefaultConfig()

	if s.Width == 0 {
		s.Width = def.Width
	}
	if s.Height == 0 {
		s.Height = def.Height
	}
	if !s.HasViewport() {
		s.UseDefaultViewport()
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = def.MaxIterations
	}
	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}
	if s.Format == "" {
		s.Format = FormatPNG
	}
	if s.Address == "" {
		s.Address = ":8080"
	}
}

// Validate checks the output format and the frame's preconditions.
func (s *Settings) Validate() error {
	switch s.Format {
	case FormatPNG, FormatRaw:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, s.Format)
	}
	return s.Config.Validate()
}

// HasViewport reports whether any bound of the viewport is set. A zero bound is
// a legitimate value, so the viewport only defaults as a whole.
func (s *Settings) HasViewport() bool {
	return s.XMin != 0 || s.XMax != 0 || s.YMin != 0 || s.YMax != 0
}

func (s *Settings) UseDefaultViewport() {
	def := fractal.DefaultConfig()
	s.XMin, s.XMax, s.YMin, s.YMax = def.XMin, def.XMax, def.YMin, def.YMax
}

// OutputPath is where the frame is written, named after the format when no
// output was given.
func (s *Settings) OutputPath() string {
	if s.Output == "" {
		return "mandelbrot." + s.Format
	}
	return s.Output
}

// ToStdout reports whether the frame is written to standard output.
func (s *Settings) ToStdout() bool {
	return s.Output == Stdout
}

func (s *Settings) String() string {
	output := "\nRender settings\n"
	output += fmt.Sprintf("Size: %dx%d\n", s.Width, s.Height)
	output += fmt.Sprintf("Viewport: [%g, %g] x [%g, %g]\n", s.XMin, s.XMax, s.YMin, s.YMax)
	output += fmt.Sprintf("Max Iterations: %d\n", s.MaxIterations)
	output += fmt.Sprintf("Workers: %d\n", s.Workers)
	output += fmt.Sprintf("Output: %s (%s, scale %g)\n", s.OutputPath(), s.Format, s.Scale)
	output += fmt.Sprintf("Address: %s\n", s.Address)
	return output
}
