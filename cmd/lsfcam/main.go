package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/lsfstream/internal/capture"
	"github.com/ayusman/lsfstream/internal/client"
	"github.com/ayusman/lsfstream/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "lsfcam: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("lsfcam", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a TOML config file (default: $LSF_CONFIG or ~/.lsfstream/config.toml)")
	serverURL := fs.String("server", "", "Server websocket URL, overrides client.server_url")
	cameraID := fs.Int("camera", -1, "Camera device index, overrides client.camera_id")
	always := fs.Bool("always", false, "Send every frame instead of waiting for motion")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		cfg config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	cc := cfg.Client
	if *serverURL != "" {
		cc.ServerURL = *serverURL
	}
	if *cameraID >= 0 {
		cc.CameraID = *cameraID
	}

	logger := cfg.Log.NewLogger(stderr)
	slog.SetDefault(logger)

	camera := capture.NewCamera(capture.CameraConfig{Device: cc.CameraID, FPS: cc.IdleFPS})
	streamer := client.New(client.Config{
		ServerURL:       cc.ServerURL,
		IdleFPS:         cc.IdleFPS,
		ActiveFPS:       cc.ActiveFPS,
		IdleTimeout:     cc.IdleTimeout,
		MotionThreshold: cc.MotionThreshold,
		AlwaysActive:    *always,
		JPEGQuality:     cc.JPEGQuality,
	}, camera, logger)
	streamer.OnSign(func(sign string) {
		fmt.Fprintln(stdout, sign)
	})

	logger.Info("streaming camera", "camera", cc.CameraID, "server", cc.ServerURL)
	err = streamer.Run(ctx)
	logger.Info("stopped", "frames_sent", streamer.Sent())
	return err
}
