// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"

	"github.com/colinsongf/SLR2/slr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "slr",
		Short: "Sparse linear regression with resampling-based inference",
		Long: `slr selects an elastic-net model by bootstrap, estimates coefficient
distributions by bootstrap residuals and assigns permutation p-values
and importance scores to every selected predictor.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCmd(), newShowCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run selection, estimation and the permutation test on a CSV file",
		Args:  cobra.NoArgs,
		RunE:  runAnalysis,
	}

	defaults := DefaultConfig()
	flags := runCmd.Flags()
	flags.String("config", "", "YAML configuration file; flags override its values")
	flags.String("data", "", "CSV file with a header row of variable names")
	flags.String("response", "", "Name of the response column")
	flags.String("out", "", "Record file (default SLR2run_<response>.dat)")
	flags.String("csv", "", "Also write a per-feature CSV table to this file")
	flags.Int("nsamp", defaults.NSamp, "Bootstrap samples for selection and residual resampling")
	flags.Int("nperms", defaults.NPerms, "Response permutations; 0 skips the permutation test")
	flags.Float64Slice("alphas", defaults.Alphas, "Candidate elastic-net mixing parameters")
	flags.Int("cv-folds", defaults.CVFolds, "Folds for the cross-validated error estimates")
	flags.Bool("reselect", false, "Re-run selection on every permuted response")
	flags.Int64("seed", 0, "RNG seed (0 uses the clock)")
	flags.Int("workers", 0, "Worker goroutines (0 uses every CPU)")
	flags.String("log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
	return runCmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [record file]",
		Short: "Print a record written by run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := slr.ReadSolution(args[0])
			if err != nil {
				return err
			}
			slr.PrintRecord(rec)
			return nil
		},
	}
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	// 1. Configuration: defaults, then file, then flags
	cfg := DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := applyFlags(cmd.Flags(), &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	// 2. Load the data and split off the response
	table, err := slr.LoadCSV(cfg.Data)
	if err != nil {
		return err
	}
	X, y, names, err := table.SplitResponse(cfg.Response)
	if err != nil {
		return err
	}
	rows, cols := X.Dims()
	logger.Info("loaded data", "file", cfg.Data, "obs", rows, "regs", cols, "response", cfg.Response)

	// 3. Estimate and write the record
	out := cfg.OutPath()
	sol, err := slr.Run(X, y, out, cfg.Options(logger))
	if err != nil {
		return err
	}
	logger.Info("record written", "file", out)

	// 4. Optional per-feature table
	if cfg.CSV != "" {
		if err := slr.OutputSolutionToCSV(cfg.CSV, sol, names); err != nil {
			return fmt.Errorf("write %s: %w", cfg.CSV, err)
		}
		logger.Info("feature table written", "file", cfg.CSV)
	}

	// 5. Summary
	slr.PrintSummary(sol, names)
	return nil
}

// applyFlags copies every flag the user set into cfg.
func applyFlags(flags *pflag.FlagSet, cfg *Config) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}

	set("data", func() (e error) { cfg.Data, e = flags.GetString("data"); return })
	set("response", func() (e error) { cfg.Response, e = flags.GetString("response"); return })
	set("out", func() (e error) { cfg.Out, e = flags.GetString("out"); return })
	set("csv", func() (e error) { cfg.CSV, e = flags.GetString("csv"); return })
	set("nsamp", func() (e error) { cfg.NSamp, e = flags.GetInt("nsamp"); return })
	set("nperms", func() (e error) { cfg.NPerms, e = flags.GetInt("nperms"); return })
	set("alphas", func() (e error) { cfg.Alphas, e = flags.GetFloat64Slice("alphas"); return })
	set("cv-folds", func() (e error) { cfg.CVFolds, e = flags.GetInt("cv-folds"); return })
	set("reselect", func() (e error) { cfg.Reselect, e = flags.GetBool("reselect"); return })
	set("seed", func() (e error) { cfg.Seed, e = flags.GetInt64("seed"); return })
	set("workers", func() (e error) { cfg.Workers, e = flags.GetInt("workers"); return })
	set("log-level", func() (e error) { cfg.LogLevel, e = flags.GetString("log-level"); return })

	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	return nil
}
