package settings

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/willbeason/mandelbrot/pkg/fractal"
)

func writeSettings(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVerifyDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	s.Verify()
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}

	if s.Config != fractal.DefaultConfig() {
		t.Errorf("Config: got %+v, want %+v", s.Config, fractal.DefaultConfig())
	}
	if s.Workers != runtime.NumCPU() {
		t.Errorf("Workers: got %d, want %d", s.Workers, runtime.NumCPU())
	}
	if s.Format != FormatPNG || s.OutputPath() != "mandelbrot.png" {
		t.Errorf("output: got %q (%s)", s.OutputPath(), s.Format)
	}
	if s.Address != ":8080" {
		t.Errorf("Address: got %q", s.Address)
	}
	if s.ToStdout() {
		t.Error("default output should be a file")
	}
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, `{
		"width": 640,
		"height": 480,
		"x_min": -0.8,
		"x_max": -0.7,
		"y_min": 0.05,
		"y_max": 0.15,
		"max_iterations": 1000,
		"workers": 3,
		"format": "raw",
		"verbose": true
	}`)

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Verify()
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}

	want := fractal.Config{Width: 640, Height: 480, XMin: -0.8, XMax: -0.7, YMin: 0.05, YMax: 0.15, MaxIterations: 1000}
	if s.Config != want {
		t.Errorf("Config: got %+v, want %+v", s.Config, want)
	}
	if s.Workers != 3 || !s.Verbose {
		t.Errorf("got workers %d verbose %t", s.Workers, s.Verbose)
	}
	if s.OutputPath() != "mandelbrot.raw" {
		t.Errorf("OutputPath: got %q", s.OutputPath())
	}
}

func TestVerifyKeepsZeroBound(t *testing.T) {
	s := Settings{Config: fractal.Config{XMin: 0, XMax: 1, YMin: 0, YMax: 1}}
	s.Verify()
	if s.XMin != 0 || s.XMax != 1 || s.YMin != 0 || s.YMax != 1 {
		t.Errorf("viewport overwritten: %+v", s.Viewport())
	}
}

func TestValidateKeepsPreconditions(t *testing.T) {
	s := Settings{Config: fractal.Config{Width: -3, MaxIterations: -1}}
	s.Verify()
	if err := s.Validate(); !errors.Is(err, fractal.ErrInvalidDimensions) {
		t.Errorf("Validate: got %v, want %v", err, fractal.ErrInvalidDimensions)
	}

	s.Width = 10
	if err := s.Validate(); !errors.Is(err, fractal.ErrInvalidIterations) {
		t.Errorf("Validate: got %v, want %v", err, fractal.ErrInvalidIterations)
	}
}

func TestValidateUnknownFormat(t *testing.T) {
	s := Settings{Format: "jpeg"}
	s.Verify()
	if err := s.Validate(); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("got %v, want %v", err, ErrUnknownFormat)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	if _, err := Load(writeSettings(t, `{"width": "wide"}`)); err == nil {
		t.Error("malformed file: expected an error")
	}
}
