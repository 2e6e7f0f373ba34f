package main

import (
	"fmt"
	"os"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/spf13/cobra"
	"github.com/willbeason/mandelbrot/pkg/fractal"
	"github.com/willbeason/mandelbrot/pkg/logging"
	"github.com/willbeason/mandelbrot/pkg/settings"
	"github.com/willbeason/mandelbrot/pkg/sink"
)

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame to a PNG or raw BGRA file",
		Args:  cobra.ExactArgs(0),
		RunE:  runRender,
	}

	cmd.Flags().StringP(flagOutput, "o", "", `output file, or "-" for stdout (default "mandelbrot.<format>")`)
	cmd.Flags().String(flagFormat, settings.FormatPNG, "output format: png or raw")
	cmd.Flags().Float64(flagScale, 0, "shrink the PNG by this factor in (0, 1)")

	return cmd
}

func runRender(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	stopProfile, err := startProfile(cmd)
	if err != nil {
		return err
	}
	defer stopProfile()

	logger := logging.New("Render", logging.LevelFor(s.Verbose, s.ToStdout()))
	logger.Debug(s.String())

	frame, err := fractal.Generator{Workers: s.Workers}.Generate(cmd.Context(), s.Config)
	if err != nil {
		return err
	}
	logFrame(logger, frame)

	switch {
	case s.Format == settings.FormatPNG && s.ToStdout():
		err = sink.PNG{Scale: s.Scale}.Encode(cmd.OutOrStdout(), frame)
	case s.Format == settings.FormatPNG:
		err = sink.PNG{Path: s.OutputPath(), Scale: s.Scale}.Present(cmd.Context(), frame)
	case s.ToStdout():
		err = sink.Raw{W: cmd.OutOrStdout()}.Present(cmd.Context(), frame)
	default:
		err = presentRawFile(cmd, logger, s.OutputPath(), frame)
	}
	if err != nil {
		return err
	}

	if !s.ToStdout() {
		logger.Infof("Saved frame to %s", s.OutputPath())
	}
	return nil
}

func presentRawFile(cmd *cobra.Command, logger bslogger.Logger, path string, frame *fractal.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s - %w", path, err)
	}
	defer func() {
		logging.CheckError(file.Close(), logger, logging.Warning)
	}()

	return sink.Raw{W: file}.Present(cmd.Context(), frame)
}

func logFrame(logger bslogger.Logger, frame *fractal.Frame) {
	logger.Infof("Rendered %dx%d frame in %s", frame.Width, frame.Height, frame.Stats.Elapsed)
	logger.Debugf("Frame stats [In set: %d/%d] [Iterations: %d]",
		frame.Stats.InSet, frame.Width*frame.Height, frame.Stats.Iterations)
}
