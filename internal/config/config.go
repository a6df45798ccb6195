// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the fbcapture command configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/fbcapture"
	"github.com/gogpu/fbcapture/capture"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds the command settings. Zero-valued keys missing from a file
// keep their defaults.
type Config struct {
	OutputDir    string     `toml:"output_dir"`
	Width        int        `toml:"width"`
	Height       int        `toml:"height"`
	Frames       int        `toml:"frames"`
	BitsPerPixel int        `toml:"bits_per_pixel"`
	ClearColor   [4]float64 `toml:"clear_color"` // RGBA, 0..1
	LogLevel     string     `toml:"log_level"`
	Adapter      string     `toml:"adapter"` // substring of the GPU adapter name
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		OutputDir:    fbcapture.DefaultOutputDir,
		Width:        fbcapture.DefaultWidth,
		Height:       fbcapture.DefaultHeight,
		Frames:       1,
		BitsPerPixel: fbcapture.DefaultBitsPerPixel,
		ClearColor:   [4]float64{0, 0, 0, 1},
		LogLevel:     "info",
	}
}

// Load reads path over the defaults. Unknown keys are an error. The result
// is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config: %s: %s", path, strict.String())
		}
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	var errs []error
	if c.OutputDir == "" {
		errs = append(errs, fmt.Errorf("%w: output_dir is empty", ErrInvalid))
	}
	if c.Width <= 0 || c.Width > capture.MaxDimension {
		errs = append(errs, fmt.Errorf("%w: width %d", ErrInvalid, c.Width))
	}
	if c.Height <= 0 || c.Height > capture.MaxDimension {
		errs = append(errs, fmt.Errorf("%w: height %d", ErrInvalid, c.Height))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("%w: frames %d", ErrInvalid, c.Frames))
	}
	if c.BitsPerPixel%8 != 0 || c.BitsPerPixel < 8 || c.BitsPerPixel > 32 {
		errs = append(errs, fmt.Errorf("%w: bits_per_pixel %d", ErrInvalid, c.BitsPerPixel))
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%w: clear_color[%d] = %v", ErrInvalid, i, v))
		}
	}
	return errors.Join(errs...)
}

// Clear returns ClearColor as a gputypes.Color.
func (c Config) Clear() gputypes.Color {
	return gputypes.Color{
		R: c.ClearColor[0],
		G: c.ClearColor[1],
		B: c.ClearColor[2],
		A: c.ClearColor[3],
	}
}
