package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/willbeason/mandelbrot/pkg/fractal"
	"github.com/willbeason/mandelbrot/pkg/settings"
)

const (
	flagSettings      = "settings"
	flagWidth         = "width"
	flagHeight        = "height"
	flagXMin          = "xmin"
	flagXMax          = "xmax"
	flagYMin          = "ymin"
	flagYMax          = "ymax"
	flagMaxIterations = "max-iterations"
	flagWorkers       = "workers"
	flagVerbose       = "verbose"
	flagProfile       = "profile"

	flagOutput  = "output"
	flagFormat  = "format"
	flagScale   = "scale"
	flagAddress = "address"
)

func mainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mandelbrot",
		Short: "Render the Mandelbrot set with the escape-time algorithm",
	}

	def := fractal.DefaultConfig()
	flags := cmd.PersistentFlags()
	flags.String(flagSettings, "", "JSON settings file; flags override its values")
	flags.Int(flagWidth, def.Width, "width of the frame in pixels")
	flags.Int(flagHeight, def.Height, "height of the frame in pixels")
	flags.Float64(flagXMin, def.XMin, "real part of the left edge")
	flags.Float64(flagXMax, def.XMax, "real part of the right edge")
	flags.Float64(flagYMin, def.YMin, "imaginary part of row 0")
	flags.Float64(flagYMax, def.YMax, "imaginary part past the last row")
	flags.Int(flagMaxIterations, def.MaxIterations, "iterations before a point counts as in the set")
	flags.Int(flagWorkers, 0, "goroutines rendering rows; 0 uses every CPU, 1 renders sequentially")
	flags.BoolP(flagVerbose, "v", false, "log debug output")
	flags.String(flagProfile, "", "write a profile of the run: cpu, mem or trace")

	cmd.AddCommand(renderCmd(), serveCmd())
	return cmd
}

// loadSettings reads the settings file and applies any flags set on the
// command line over it.
func loadSettings(cmd *cobra.Command) (settings.Settings, error) {
	flags := cmd.Flags()

	path, err := flags.GetString(flagSettings)
	if err != nil {
		return settings.Settings{}, err
	}
	s, err := settings.Load(path)
	if err != nil {
		return s, err
	}
	// Defaults fill the file's gaps first so flags replace single bounds and an
	// explicit zero from a flag reaches Validate.
	s.Verify()

	overrides := []error{
		overrideInt(flags, flagWidth, &s.Width),
		overrideInt(flags, flagHeight, &s.Height),
		overrideFloat(flags, flagXMin, &s.XMin),
		overrideFloat(flags, flagXMax, &s.XMax),
		overrideFloat(flags, flagYMin, &s.YMin),
		overrideFloat(flags, flagYMax, &s.YMax),
		overrideInt(flags, flagMaxIterations, &s.MaxIterations),
		overrideInt(flags, flagWorkers, &s.Workers),
		overrideBool(flags, flagVerbose, &s.Verbose),
		overrideString(flags, flagOutput, &s.Output),
		overrideString(flags, flagFormat, &s.Format),
		overrideFloat(flags, flagScale, &s.Scale),
		overrideString(flags, flagAddress, &s.Address),
	}
	for _, err := range overrides {
		if err != nil {
			return s, err
		}
	}

	return s, s.Validate()
}

func overrideInt(flags *pflag.FlagSet, name string, dst *int) error {
	if flags.Lookup(name) == nil || !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetInt(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func overrideFloat(flags *pflag.FlagSet, name string, dst *float64) error {
	if flags.Lookup(name) == nil || !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetFloat64(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func overrideString(flags *pflag.FlagSet, name string, dst *string) error {
	if flags.Lookup(name) == nil || !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func overrideBool(flags *pflag.FlagSet, name string, dst *bool) error {
	if flags.Lookup(name) == nil || !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetBool(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// startProfile starts the profiler named by the profile flag. The returned
// function stops it and is always safe to call.
func startProfile(cmd *cobra.Command) (func(), error) {
	mode, err := cmd.Flags().GetString(flagProfile)
	if err != nil {
		return func() {}, err
	}

	var kind func(*profile.Profile)
	switch mode {
	case "":
		return func() {}, nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfile
	case "trace":
		kind = profile.TraceProfile
	default:
		return func() {}, fmt.Errorf("unknown profile %q: want cpu, mem or trace", mode)
	}

	p := profile.Start(kind, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	return p.Stop, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := mainCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
