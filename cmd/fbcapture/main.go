// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command fbcapture renders a test pattern off-screen and saves each frame
// as a BMP file.
//
// Usage:
//
//	fbcapture [-config file.toml] [-out dir] [-width w] [-height h] [-frames n] [-adapter name]
//	fbcapture inspect image0.bmp [more.bmp ...]
//
// Flags override values from the config file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/fbcapture"
	"github.com/gogpu/fbcapture/backend/wgpu"
	"github.com/gogpu/fbcapture/internal/config"
	"github.com/gogpu/fbcapture/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "inspect" {
		return runInspect(args[1:], stdout, stderr)
	}

	cfg, err := parseCaptureFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	}))
	fbcapture.SetLogger(log)
	wgpu.SetLogger(log)

	if err := capture(cfg, log); err != nil {
		log.Error("capture failed", "error", err)
		return 1
	}
	return 0
}

// parseCaptureFlags loads the config file named by -config, if any, and
// applies the flags that were set on top of it.
func parseCaptureFlags(args []string, stderr io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("fbcapture", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath  = fs.String("config", "", "TOML config file")
		out      = fs.String("out", "", "output directory (must exist)")
		width    = fs.Int("width", 0, "image width")
		height   = fs.Int("height", 0, "image height")
		frames   = fs.Int("frames", 0, "number of frames to capture")
		bpp      = fs.Int("bpp", 0, "bits per pixel written to the bitmap")
		logLevel = fs.String("log-level", "", "log level: debug, info, warn, error")
		adapter  = fs.String("adapter", "", "use the first GPU adapter whose name contains this")
	)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.OutputDir = *out
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "frames":
			cfg.Frames = *frames
		case "bpp":
			cfg.BitsPerPixel = *bpp
		case "log-level":
			cfg.LogLevel = *logLevel
		case "adapter":
			cfg.Adapter = *adapter
		}
	})
	return cfg, cfg.Validate()
}

func capture(cfg config.Config, log *slog.Logger) (err error) {
	be, err := wgpu.Open(wgpu.WithAdapter(cfg.Adapter))
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, be.Close()) }()

	painter, err := wgpu.NewPatternPainter(be.Device())
	if err != nil {
		return err
	}
	defer painter.Destroy()

	reg := prometheus.NewRegistry()
	rec := fbcapture.New(be,
		fbcapture.WithSize(cfg.Width, cfg.Height),
		fbcapture.WithOutputDir(cfg.OutputDir),
		fbcapture.WithBitsPerPixel(cfg.BitsPerPixel),
		fbcapture.WithClearColor(cfg.Clear()),
		fbcapture.WithMetrics(reg),
		fbcapture.WithDrawFunc(func() error { return painter.Draw(be.Pass()) }),
	)
	if err := rec.Init(); err != nil {
		return err
	}
	defer func() { err = errors.Join(err, rec.Close()) }()

	for range cfg.Frames {
		path, err := rec.DumpImage()
		if err != nil {
			return err
		}
		log.Info("frame saved", "path", path)
	}
	logMetrics(reg, log)
	return nil
}

// logMetrics logs the total of every counter in reg.
func logMetrics(reg prometheus.Gatherer, log *slog.Logger) {
	families, err := reg.Gather()
	if err != nil {
		log.Warn("gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		log.Info("metric", "name", mf.GetName(), "value", total)
	}
}
