// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package slr

import (
	"fmt"
	"math/rand"

	"github.com/colinsongf/SLR2/enet"
	"github.com/colinsongf/SLR2/resample"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// weight of the resampled error in the 0.632 bootstrap estimate
const weight632 = 0.632

// FitSampling estimates the prediction error of the elastic-net path of y on
// X by resampling. The full data fixes the lambda grid (unless lambdas is
// given) and every (train, validation) split produced by method is fitted on
// that grid. For resample.Bootstrap632 the mean is blended with the
// resubstitution error of the full fit.
//
// The returned path is the fit on all observations.
func FitSampling(
	X mat.Matrix,
	y []float64,
	alpha float64,
	nSamp int,
	method resample.Method,
	lambdas []float64,
	solver enet.Options,
	rng *rand.Rand,
) (*SamplingError, *enet.Path, error) {
	return fitSampling(X, y, alpha, nSamp, method, lambdas, solver, rng, 1)
}

func fitSampling(
	X mat.Matrix,
	y []float64,
	alpha float64,
	nSamp int,
	method resample.Method,
	lambdas []float64,
	solver enet.Options,
	rng *rand.Rand,
	workers int,
) (*SamplingError, *enet.Path, error) {
	if !method.Valid() {
		return nil, nil, fmt.Errorf("fit sampling: %w: %q", resample.ErrInvalidMethod, string(method))
	}
	if X == nil {
		return nil, nil, fmt.Errorf("fit sampling: design matrix not provided")
	}
	if nSamp < 1 {
		return nil, nil, fmt.Errorf("fit sampling: number of samples must be >= 1, got %d", nSamp)
	}
	nObs, _ := X.Dims()

	// 1. Full fit fixes the lambda grid shared by every split
	fitOpts := solver
	if len(lambdas) > 0 {
		fitOpts = solver.WithLambdas(lambdas)
	}
	full, err := enet.Fit(X, y, alpha, fitOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("fit sampling: full fit: %w", err)
	}

	// 2. Partition the observations
	train, val, err := resample.Split(method, nObs, nSamp, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("fit sampling: %w", err)
	}

	// 3. Validation error of every split on the fixed grid
	se, err := errorOnSplits(X, y, alpha, full.Lambdas, train, val, solver, workers)
	if err != nil {
		return nil, nil, fmt.Errorf("fit sampling: %w", err)
	}
	se.Method = string(method)

	// 4. 0.632 correction towards the training error
	if method == resample.Bootstrap632 {
		resub := meanSquaredErrors(full.Predict(X), y)
		for k := range se.Mean {
			se.Mean[k] = weight632*se.Mean[k] + (1-weight632)*resub[k]
		}
	}

	return se, full, nil
}

// ErrorOnSplits fits the path on each training set at the given lambdas and
// returns the mean and population variance of the validation MSE per lambda.
func ErrorOnSplits(
	X mat.Matrix,
	y []float64,
	alpha float64,
	lambdas []float64,
	train, val [][]int,
	solver enet.Options,
) (*SamplingError, error) {
	return errorOnSplits(X, y, alpha, lambdas, train, val, solver, 1)
}

func errorOnSplits(
	X mat.Matrix,
	y []float64,
	alpha float64,
	lambdas []float64,
	train, val [][]int,
	solver enet.Options,
	workers int,
) (*SamplingError, error) {
	if len(train) == 0 || len(train) != len(val) {
		return nil, fmt.Errorf("got %d training and %d validation sets", len(train), len(val))
	}
	if len(lambdas) == 0 {
		return nil, fmt.Errorf("no lambdas to evaluate")
	}
	nModels := len(lambdas)
	opts := solver.WithLambdas(lambdas)

	mse := make([][]float64, len(train))
	err := runTrials(len(train), workers, func(i int) error {
		if len(train[i]) == 0 || len(val[i]) == 0 {
			return fmt.Errorf("split %d: empty training or validation set", i)
		}
		path, err := enet.Fit(rowsOf(X, train[i]), pick(y, train[i]), alpha, opts)
		if err != nil {
			return fmt.Errorf("split %d: %w", i, err)
		}
		mse[i] = meanSquaredErrors(path.Predict(rowsOf(X, val[i])), pick(y, val[i]))
		return nil
	})
	if err != nil {
		return nil, err
	}

	acc := NewVecMoments(nModels)
	all := mat.NewDense(nModels, len(train), nil)
	for i, m := range mse {
		acc.Add(m)
		all.SetCol(i, m)
	}

	return &SamplingError{
		Lambdas: append([]float64(nil), lambdas...),
		Alpha:   alpha,
		Mean:    acc.Mean(),
		Var:     acc.PopVar(),
		AllVals: all,
	}, nil
}

// FitSamplingNull estimates the prediction error of the intercept-only model,
// which predicts the training mean, using the same partitioning as
// FitSampling. For resample.Bootstrap632 the resubstitution error is the
// population variance of y.
func FitSamplingNull(y []float64, nSamp int, method resample.Method, rng *rand.Rand) (mean, variance float64, err error) {
	if !method.Valid() {
		return 0, 0, fmt.Errorf("fit sampling null: %w: %q", resample.ErrInvalidMethod, string(method))
	}
	if nSamp < 1 {
		return 0, 0, fmt.Errorf("fit sampling null: number of samples must be >= 1, got %d", nSamp)
	}

	train, val, err := resample.Split(method, len(y), nSamp, rng)
	if err != nil {
		return 0, 0, fmt.Errorf("fit sampling null: %w", err)
	}
	mean, variance, err = NullErrorOnSplits(y, train, val)
	if err != nil {
		return 0, 0, fmt.Errorf("fit sampling null: %w", err)
	}

	if method == resample.Bootstrap632 {
		mean = weight632*mean + (1-weight632)*stat.PopVariance(y, nil)
	}
	return mean, variance, nil
}

// NullErrorOnSplits returns the mean and population variance over splits of
// the validation MSE of the training-set mean.
func NullErrorOnSplits(y []float64, train, val [][]int) (mean, variance float64, err error) {
	if len(train) == 0 || len(train) != len(val) {
		return 0, 0, fmt.Errorf("got %d training and %d validation sets", len(train), len(val))
	}

	var acc Moments
	for i := range train {
		if len(train[i]) == 0 || len(val[i]) == 0 {
			return 0, 0, fmt.Errorf("split %d: empty training or validation set", i)
		}
		mu := stat.Mean(pick(y, train[i]), nil)
		sse := 0.0
		for _, j := range val[i] {
			d := y[j] - mu
			sse += d * d
		}
		acc.Add(sse / float64(len(val[i])))
	}
	return acc.Mean(), acc.PopVar(), nil
}

// meanSquaredErrors returns, for every column of pred, the mean squared
// difference from y.
func meanSquaredErrors(pred *mat.Dense, y []float64) []float64 {
	rows, cols := pred.Dims()
	out := make([]float64, cols)
	for k := 0; k < cols; k++ {
		sse := 0.0
		for i := 0; i < rows; i++ {
			d := pred.At(i, k) - y[i]
			sse += d * d
		}
		out[k] = sse / float64(rows)
	}
	return out
}

// rowsOf copies the listed rows of X, in order, into a new matrix.
func rowsOf(X mat.Matrix, idx []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(idx), c, nil)
	row := make([]float64, c)
	for r, i := range idx {
		mat.Row(row, i, X)
		out.SetRow(r, row)
	}
	return out
}

// columnsOf copies the listed columns of X, in order, into a new matrix.
func columnsOf(X mat.Matrix, cols []int) *mat.Dense {
	r, _ := X.Dims()
	out := mat.NewDense(r, len(cols), nil)
	col := make([]float64, r)
	for k, j := range cols {
		mat.Col(col, j, X)
		out.SetCol(k, col)
	}
	return out
}

// pick returns y[idx[0]], y[idx[1]], ...
func pick(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = y[i]
	}
	return out
}
