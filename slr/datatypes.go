// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

// Package slr runs sparse linear regression with resampling-based inference:
// penalty selection by bootstrap, coefficient distributions by bootstrap
// residuals, cross-validated prediction and importance errors, and
// permutation p-values.
package slr

import (
	"log/slog"

	"github.com/colinsongf/SLR2/enet"
	"gonum.org/v1/gonum/mat"
)

// Options for a full run
type Options struct {
	// Number of bootstrap samples for selection and residual resampling (default 100)
	NSamp int

	// Number of response permutations; 0 skips the permutation test
	NPerms int

	// Candidate mixing parameters, scanned in order (default [1])
	Alphas []float64

	// Folds used for the per-sample error estimates (default 10)
	CVFolds int

	// Re-run selection on every permuted response instead of reusing
	// the baseline (lambda, alpha)
	Reselect bool

	// RNG seed (if 0, time-based seed is used)
	Seed int64

	// Size of the trial worker pool (default runtime.NumCPU())
	Workers int

	// Solver settings passed to every elastic-net fit
	Solver enet.Options

	// Destination for progress logs; nil discards them
	Logger *slog.Logger
}

// OperatingPoint is a fixed (lambda, alpha) pair that bypasses selection.
type OperatingPoint struct {
	Lambda float64
	Alpha  float64
}

// EstimateConfig controls a single call to EstimateModel.
type EstimateConfig struct {
	NSamp  int
	Alphas []float64

	// Cross-validated model and null errors per pseudo-response
	EstErr bool
	// Leave-one-out and leave-only-one importance; implies EstErr
	EstImp bool

	// If set, selection is skipped and this operating point is used
	Params *OperatingPoint
}

// SamplingError is the resampled prediction error over a lambda path.
type SamplingError struct {
	Lambdas []float64
	Alpha   float64
	Method  string

	// Mean and population variance of the per-trial MSE, one entry per lambda
	Mean []float64
	Var  []float64

	// Per-trial MSE (nLambda x nSamp)
	AllVals *mat.Dense
}

// Solution aggregates every statistic of a run. Vector fields have one entry
// per column of X. ErrOut and ErrIn are zero outside Indices and P is 1 there;
// the coefficient summaries cover every column, so Coef, AveCoef and PSup can
// be nonzero for a feature whose median did not clear the selection cutoff.
type Solution struct {
	NRegs int

	// Operating point and its intercept
	Lambda    float64
	Alpha     float64
	Intercept float64

	// Cross-validated errors of the model and of the intercept-only model
	AveErr     float64
	SdErr      float64
	AveNullErr float64
	SdNullErr  float64

	// Population standard deviation of y and of the selected columns of X
	SdY float64
	SdX []float64

	// Selected features, strictly increasing
	Indices []int

	// Point estimate at the operating point
	Coef []float64

	// Bootstrap-residual coefficient distribution
	AveCoef []float64
	MedCoef []float64
	SdCoef  []float64
	PSup    []float64

	// Importance errors
	ErrOut []float64
	ErrIn  []float64

	// Permutation p-values; Permuted reports whether they were computed
	P        []float64
	Permuted bool
}

// Record is the persisted form of a Solution: the scalar block followed by
// vectors restricted to the selected features.
type Record struct {
	Lambda     float64
	Alpha      float64
	Intercept  float64
	AveErr     float64
	SdErr      float64
	AveNullErr float64
	SdNullErr  float64
	SdY        float64

	Indices []int
	SdX     []float64
	Coef    []float64
	MedCoef []float64
	SdCoef  []float64
	PSup    []float64
	ErrOut  []float64
	ErrIn   []float64
	P       []float64
}

// Table is a named numeric data set loaded from CSV.
type Table struct {
	Data     *mat.Dense
	VarNames []string
}

// trialResult holds the outputs of one bootstrap-residual trial.
type trialResult struct {
	y       []float64
	coef    []float64
	err     float64
	nullErr float64
}

// importanceResult holds the leave-out and leave-only errors of one
// pseudo-response, aligned with the selected indices.
type importanceResult struct {
	errOut []float64
	errIn  []float64
}

// nullDistribution maps a feature index to its per-trial permutation
// statistics.
type nullDistribution map[int][]float64
