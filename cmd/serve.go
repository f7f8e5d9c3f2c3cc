package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jvrabec/facecam/internal/capture"
	"github.com/jvrabec/facecam/internal/config"
	"github.com/jvrabec/facecam/internal/constants"
	"github.com/jvrabec/facecam/internal/detect"
	"github.com/jvrabec/facecam/internal/gallery"
	"github.com/jvrabec/facecam/internal/models"
	"github.com/jvrabec/facecam/internal/pipeline"
	"github.com/jvrabec/facecam/internal/web"
	"github.com/jvrabec/facecam/internal/web/handlers"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the facecam web server.
The page shows the live camera feed with detected faces boxed, the
gallery of labeled faces and the recognition results. The camera is
controlled from the page; nothing is captured until you press start.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().String("device", "", "V4L2 device to capture from (overrides CAMERA_DEVICE)")
	serveCmd.Flags().Float64("threshold", 0, "Match distance threshold (overrides MATCH_THRESHOLD)")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if device := mustGetString(cmd, "device"); device != "" {
		cfg.Camera.Device = device
	}
	if threshold := mustGetFloat64(cmd, "threshold"); threshold > 0 {
		cfg.Match.Threshold = threshold
	}

	if err := models.Verify(cfg.Models.Dir); err != nil {
		if errors.Is(err, models.ErrModelsMissing) {
			return fmt.Errorf("%w\nrun 'facecam models' to download them", err)
		}
		return fmt.Errorf("verifying face models: %w", err)
	}

	fmt.Printf("Loading face models from %s...\n", cfg.Models.Dir)
	detector, err := detect.NewDlibDetector(cfg.Models.Dir)
	if err != nil {
		return fmt.Errorf("loading face models: %w", err)
	}
	defer detector.Close()

	hub := handlers.NewHub()
	ctrl := pipeline.New(cfg, gallery.New(), detector, hub, func() (capture.Source, error) {
		return capture.Open(&capture.Options{
			Device:      cfg.Camera.Device,
			Width:       cfg.Camera.Width,
			Height:      cfg.Camera.Height,
			JPEGQuality: cfg.Pipeline.JPEGQuality,
		})
	})

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, port, host, ctrl, hub)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		ctrl.StopCapture()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeoutSec*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Camera device: %s\n", cfg.Camera.Device)
	fmt.Printf("Starting facecam on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
