// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/colinsongf/SLR2/enet"
	"github.com/colinsongf/SLR2/slr"
	"gopkg.in/yaml.v3"
)

// Config is the YAML run configuration. Command-line flags override it.
type Config struct {
	Data     string `yaml:"data"`
	Response string `yaml:"response"`
	Out      string `yaml:"out"`
	CSV      string `yaml:"csv,omitempty"`

	NSamp    int       `yaml:"nsamp"`
	NPerms   int       `yaml:"nperms"`
	Alphas   []float64 `yaml:"alphas"`
	CVFolds  int       `yaml:"cv_folds"`
	Reselect bool      `yaml:"reselect"`
	Seed     int64     `yaml:"seed"`
	Workers  int       `yaml:"workers"`

	LogLevel string `yaml:"log_level"`

	Solver SolverConfig `yaml:"solver"`
}

// SolverConfig mirrors enet.Options; zero values use the solver defaults.
type SolverConfig struct {
	NLambda        int     `yaml:"nlambda,omitempty"`
	LambdaMinRatio float64 `yaml:"lambda_min_ratio,omitempty"`
	Tol            float64 `yaml:"tol,omitempty"`
	MaxIter        int     `yaml:"max_iter,omitempty"`
}

// DefaultConfig returns the settings used when no file or flag sets a value.
func DefaultConfig() Config {
	return Config{
		NSamp:    100,
		NPerms:   1000,
		Alphas:   []float64{1},
		CVFolds:  10,
		LogLevel: "info",
	}
}

// LoadConfig reads path over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that slr.Options would otherwise default.
func (c Config) Validate() error {
	if c.Data == "" {
		return fmt.Errorf("no data file given")
	}
	if c.Response == "" {
		return fmt.Errorf("no response column given")
	}
	if c.NSamp < 1 {
		return fmt.Errorf("nsamp must be >= 1, got %d", c.NSamp)
	}
	if c.NPerms < 0 {
		return fmt.Errorf("nperms must be >= 0, got %d", c.NPerms)
	}
	if c.CVFolds < 0 || c.CVFolds == 1 {
		return fmt.Errorf("cv_folds must be 0 (default) or >= 2, got %d", c.CVFolds)
	}
	if len(c.Alphas) == 0 {
		return fmt.Errorf("at least one alpha is required")
	}
	for _, a := range c.Alphas {
		if a < 0 || a > 1 {
			return fmt.Errorf("alpha must be in [0, 1], got %v", a)
		}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// OutPath is the record file, SLR2run_<response>.dat unless set.
func (c Config) OutPath() string {
	if c.Out != "" {
		return c.Out
	}
	return "SLR2run_" + c.Response + ".dat"
}

// Options converts the configuration into run options.
func (c Config) Options(logger *slog.Logger) slr.Options {
	return slr.Options{
		NSamp:    c.NSamp,
		NPerms:   c.NPerms,
		Alphas:   append([]float64(nil), c.Alphas...),
		CVFolds:  c.CVFolds,
		Reselect: c.Reselect,
		Seed:     c.Seed,
		Workers:  c.Workers,
		Solver: enet.Options{
			NLambda:        c.Solver.NLambda,
			LambdaMinRatio: c.Solver.LambdaMinRatio,
			Tol:            c.Solver.Tol,
			MaxIter:        c.Solver.MaxIter,
		},
		Logger: logger,
	}
}

// newLogger builds a text logger at the configured level.
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}
