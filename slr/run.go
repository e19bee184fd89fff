// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package slr

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Run estimates the full solution for y on X and, when name is not empty,
// writes its record to the file name.
//
// With opts.NPerms > 0 the permutation test supplies p-values; otherwise the
// model is estimated once with error and importance estimates.
func Run(X mat.Matrix, y []float64, name string, opts Options) (*Solution, error) {
	if X == nil {
		return nil, fmt.Errorf("run: design matrix not provided")
	}
	nObs, nRegs := X.Dims()
	if len(y) != nObs {
		return nil, fmt.Errorf("run: response has length %d, design matrix has %d rows", len(y), nObs)
	}
	if opts.CVFolds == 1 {
		return nil, fmt.Errorf("run: cross-validation needs at least 2 folds")
	}

	e := NewEstimator(opts)
	opts = e.Options()
	rng := newMasterRand(opts.Seed)

	start := time.Now()
	e.log.Info("run started", "obs", nObs, "regs", nRegs, "nsamp", opts.NSamp,
		"nperms", opts.NPerms, "alphas", opts.Alphas, "workers", opts.Workers)

	// 1. Estimate, with or without permutations
	var (
		sol *Solution
		err error
	)
	if opts.NPerms > 0 {
		sol, _, err = e.PermuteModel(X, y, rng)
	} else {
		cfg := EstimateConfig{
			NSamp:  opts.NSamp,
			Alphas: opts.Alphas,
			EstErr: true,
			EstImp: true,
		}
		sol, _, err = e.EstimateModel(X, y, cfg, rng)
	}
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	// 2. Scales for reporting in original units
	sol.SdY = stat.PopStdDev(y, nil)
	col := make([]float64, nObs)
	for _, j := range sol.Indices {
		mat.Col(col, j, X)
		sol.SdX[j] = stat.PopStdDev(col, nil)
	}

	// 3. Persist
	if name != "" {
		if err := WriteSolution(name, sol); err != nil {
			return nil, fmt.Errorf("run: %w", err)
		}
	}

	e.log.Info("run finished", "selected", len(sol.Indices), "indices", sol.Indices,
		"elapsed", time.Since(start).String())
	return sol, nil
}
