package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/willbeason/mandelbrot/pkg/fractal"
	"github.com/willbeason/mandelbrot/pkg/logging"
	"github.com/willbeason/mandelbrot/pkg/sink"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Render one frame and show it to browsers until interrupted",
		Args:  cobra.ExactArgs(0),
		RunE:  runServe,
	}

	cmd.Flags().String(flagAddress, ":8080", "address to serve the viewer on")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
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

	ctx := cmd.Context()
	logger := logging.New("Serve", logging.LevelFor(s.Verbose, false))
	logger.Debug(s.String())

	listener, err := net.Listen("tcp", s.Address)
	if err != nil {
		return err
	}

	viewer := sink.NewViewer(logging.New("Viewer", logging.LevelFor(s.Verbose, false)))
	server := &http.Server{
		Handler:           viewer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()
	logger.Infof("Viewer listening on http://%s", listener.Addr())

	// Browsers that connect while the frame renders wait for Present.
	frame, err := fractal.Generator{Workers: s.Workers}.Generate(ctx, s.Config)
	if err == nil {
		logFrame(logger, frame)
		err = viewer.Present(ctx, frame)
	}

	if err == nil {
		select {
		case <-ctx.Done():
		case err = <-serveErr:
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logging.CheckError(server.Shutdown(shutdownCtx), logger, logging.Warning)
	logger.Info("Shutting down")

	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
