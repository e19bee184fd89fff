// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package slr

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"runtime"

	"github.com/colinsongf/SLR2/enet"
	"github.com/colinsongf/SLR2/resample"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultNSamp   = 100
	defaultCVFolds = 10
)

// Estimator runs the selection, estimation and permutation steps with a
// fixed set of Options.
type Estimator struct {
	opts Options
	log  *slog.Logger
}

// NewEstimator returns an Estimator with the unset options filled in.
func NewEstimator(opts Options) *Estimator {
	opts = opts.withDefaults()
	return &Estimator{opts: opts, log: opts.Logger}
}

// Options returns the effective options.
func (e *Estimator) Options() Options { return e.opts }

// withDefaults fills the unset options.
func (o Options) withDefaults() Options {
	if o.NSamp <= 0 {
		o.NSamp = defaultNSamp
	}
	if o.NPerms < 0 {
		o.NPerms = 0
	}
	if len(o.Alphas) == 0 {
		o.Alphas = []float64{1}
	} else {
		o.Alphas = append([]float64(nil), o.Alphas...)
	}
	if o.CVFolds <= 0 {
		o.CVFolds = defaultCVFolds
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// serial returns a copy of e whose trials run on the calling goroutine.
func (e *Estimator) serial() *Estimator {
	opts := e.opts
	opts.Workers = 1
	return &Estimator{opts: opts, log: e.log}
}

// Select scans alphas in order, estimates the bootstrap prediction error of
// each lambda path over nSamp rounds and returns the model with the smallest
// mean error. The first minimum encountered wins.
func (e *Estimator) Select(X mat.Matrix, y []float64, alphas []float64, nSamp int, rng *rand.Rand) (*enet.Model, error) {
	if len(alphas) == 0 {
		return nil, fmt.Errorf("select: no alpha candidates")
	}

	var (
		best    *enet.Model
		bestErr = math.Inf(1)
	)
	for _, a := range alphas {
		se, path, err := fitSampling(X, y, a, nSamp, resample.Bootstrap, nil, e.opts.Solver, rng, e.opts.Workers)
		if err != nil {
			return nil, fmt.Errorf("select: alpha %v: %w", a, err)
		}
		k := floats.MinIdx(se.Mean)
		e.log.Debug("selection error", "alpha", a, "lambda", path.Lambdas[k], "err", se.Mean[k])
		if se.Mean[k] < bestErr {
			bestErr = se.Mean[k]
			best = path.Model(k)
		}
	}
	if best == nil {
		return nil, fmt.Errorf("select: no finite prediction error for any alpha")
	}

	e.log.Info("selected operating point", "lambda", best.Lambda, "alpha", best.Alpha, "err", bestErr)
	return best, nil
}
