package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/lsfstream/internal/app"
	"github.com/ayusman/lsfstream/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "lsfserver: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("lsfserver", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a TOML config file (default: $LSF_CONFIG or ~/.lsfstream/config.toml)")
	addr := fs.String("addr", "", "Listen address, overrides server.addr")
	mock := fs.Bool("mock", false, "Use the mock hand detector instead of MediaPipe")
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
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *mock {
		cfg.Detector.Mock = true
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = findWebDir()
	}

	logger := cfg.Log.NewLogger(stderr)
	slog.SetDefault(logger)

	a, err := app.New(cfg, app.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("starting lsfstream",
		"addr", cfg.Server.Addr,
		"static_dir", cfg.Server.StaticDir,
		"store", cfg.Store.Path)
	return a.Run(ctx)
}

// findWebDir returns the first existing web directory among "web",
// "../web" and ~/.lsfstream/web, or "" when none exists.
func findWebDir() string {
	for _, p := range []string{"web", "../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	homeWebDir := filepath.Join(homeDir, ".lsfstream", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}
