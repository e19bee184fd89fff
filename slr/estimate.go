// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package slr

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/colinsongf/SLR2/enet"
	"github.com/colinsongf/SLR2/resample"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// coefficients at or below this magnitude are treated as zero
	zeroCoef = 1e-21
	// smallest magnitude counted towards support
	supportCoef = 1e-25
)

// EstimateModel bootstraps the residuals of the model at the operating point
// and summarizes the coefficient distribution over cfg.NSamp pseudo-responses.
//
// The operating point is cfg.Params when set, otherwise it is chosen by
// Select. With cfg.EstErr every pseudo-response also gets a cross-validated
// model error and null-model error; cfg.EstImp adds leave-one-out and
// leave-only-one importance errors for the selected features.
//
// Trial seeds are drawn from rng before any trial starts, so for a fixed
// seed the result does not depend on the number of workers.
func (e *Estimator) EstimateModel(X mat.Matrix, y []float64, cfg EstimateConfig, rng *rand.Rand) (*Solution, *enet.Model, error) {
	if X == nil {
		return nil, nil, fmt.Errorf("estimate model: design matrix not provided")
	}
	nObs, nRegs := X.Dims()
	if len(y) != nObs {
		return nil, nil, fmt.Errorf("estimate model: response has length %d, design matrix has %d rows", len(y), nObs)
	}
	if cfg.NSamp < 1 {
		return nil, nil, fmt.Errorf("estimate model: number of samples must be >= 1, got %d", cfg.NSamp)
	}
	if cfg.EstImp {
		cfg.EstErr = true
	}

	// 1. Operating point
	model, err := e.operatingPoint(X, y, cfg, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("estimate model: %w", err)
	}
	lam, alpha := model.Lambda, model.Alpha

	// 2. Fitted values and centered residuals
	yHat := model.Predict(X)
	resCent := make([]float64, nObs)
	floats.SubTo(resCent, y, yHat)
	floats.AddConst(-floats.Sum(resCent)/float64(nObs), resCent)

	// 3. Bootstrap-residual trials
	seeds := drawSeeds(rng, cfg.NSamp)
	fitOpts := e.opts.Solver.WithLambdas([]float64{lam})
	trials := make([]trialResult, cfg.NSamp)

	err = runTrials(cfg.NSamp, e.opts.Workers, func(i int) error {
		trng := rand.New(rand.NewSource(seeds[i]))

		ys := resample.SampleWithReplacement(resCent, trng)
		floats.Add(ys, yHat)

		path, err := enet.Fit(X, ys, alpha, fitOpts)
		if err != nil {
			return fmt.Errorf("trial %d: %w", i, err)
		}
		res := trialResult{y: ys, coef: path.Model(0).Coef.Dense(nRegs)}

		if cfg.EstErr {
			se, _, err := FitSampling(X, ys, alpha, e.opts.CVFolds, resample.CV, []float64{lam}, e.opts.Solver, trng)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			res.err = se.Mean[0]
			res.nullErr, _, err = FitSamplingNull(ys, e.opts.CVFolds, resample.CV, trng)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
		}
		trials[i] = res
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("estimate model: %w", err)
	}

	// 4. Reduce in trial order
	coefAcc := NewVecMoments(nRegs)
	support := make([]float64, nRegs)
	samples := make([][]float64, nRegs)
	for j := range samples {
		samples[j] = make([]float64, cfg.NSamp)
	}
	var errAcc, nullAcc Moments
	for i, tr := range trials {
		coefAcc.Add(tr.coef)
		for j, c := range tr.coef {
			samples[j][i] = c
			if math.Abs(c) > supportCoef {
				support[j]++
			}
		}
		if cfg.EstErr {
			errAcc.Add(tr.err)
			nullAcc.Add(tr.nullErr)
		}
	}

	// 5. Summaries
	sol := &Solution{
		NRegs:     nRegs,
		Lambda:    lam,
		Alpha:     alpha,
		Intercept: model.Intercept,
		SdX:       make([]float64, nRegs),
		Coef:      model.Coef.Threshold(zeroCoef).Dense(nRegs),
		AveCoef:   coefAcc.Mean(),
		SdCoef:    coefAcc.PopStd(),
		MedCoef:   make([]float64, nRegs),
		PSup:      support,
		ErrOut:    make([]float64, nRegs),
		ErrIn:     make([]float64, nRegs),
		P:         ones(nRegs),
	}
	floats.Scale(1/float64(cfg.NSamp), sol.PSup)
	for j := range samples {
		sol.MedCoef[j] = median(samples[j])
		if math.Abs(sol.MedCoef[j]) > zeroCoef {
			sol.Indices = append(sol.Indices, j)
		}
	}
	if cfg.EstErr {
		sol.AveErr = errAcc.Mean()
		sol.SdErr = errAcc.PopStd()
		sol.AveNullErr = nullAcc.Mean()
		sol.SdNullErr = nullAcc.PopStd()
	}

	// 6. Importance on the selected features
	if cfg.EstImp && len(sol.Indices) > 0 {
		if err := e.importance(X, trials, sol, rng); err != nil {
			return nil, nil, fmt.Errorf("estimate model: %w", err)
		}
	}

	return sol, model, nil
}

// operatingPoint fits the model at cfg.Params or selects one.
func (e *Estimator) operatingPoint(X mat.Matrix, y []float64, cfg EstimateConfig, rng *rand.Rand) (*enet.Model, error) {
	if cfg.Params == nil {
		alphas := cfg.Alphas
		if len(alphas) == 0 {
			alphas = e.opts.Alphas
		}
		return e.Select(X, y, alphas, cfg.NSamp, rng)
	}
	path, err := enet.Fit(X, y, cfg.Params.Alpha, e.opts.Solver.WithLambdas([]float64{cfg.Params.Lambda}))
	if err != nil {
		return nil, err
	}
	return path.Model(0), nil
}

// importance fills sol.ErrOut and sol.ErrIn with the average cross-validated
// error over the pseudo-responses of fits that leave each selected feature
// out, or use it alone.
func (e *Estimator) importance(X mat.Matrix, trials []trialResult, sol *Solution, rng *rand.Rand) error {
	nSel := len(sol.Indices)
	Xhat := columnsOf(X, sol.Indices)
	lambdas := []float64{sol.Lambda}

	// leave-out designs exist only when something remains
	var leaveOut []*mat.Dense
	if nSel > 1 {
		leaveOut = make([]*mat.Dense, nSel)
		for j := range leaveOut {
			keep := make([]int, 0, nSel-1)
			for k := 0; k < nSel; k++ {
				if k != j {
					keep = append(keep, k)
				}
			}
			leaveOut[j] = columnsOf(Xhat, keep)
		}
	}
	leaveIn := make([]*mat.Dense, nSel)
	for j := range leaveIn {
		leaveIn[j] = columnsOf(Xhat, []int{j})
	}

	seeds := drawSeeds(rng, len(trials))
	results := make([]importanceResult, len(trials))
	err := runTrials(len(trials), e.opts.Workers, func(i int) error {
		trng := rand.New(rand.NewSource(seeds[i]))
		res := importanceResult{
			errOut: make([]float64, nSel),
			errIn:  make([]float64, nSel),
		}
		for j := 0; j < nSel; j++ {
			if leaveOut != nil {
				se, _, err := FitSampling(leaveOut[j], trials[i].y, sol.Alpha, e.opts.CVFolds, resample.CV, lambdas, e.opts.Solver, trng)
				if err != nil {
					return fmt.Errorf("importance trial %d, leave out %d: %w", i, sol.Indices[j], err)
				}
				res.errOut[j] = se.Mean[0]
			}
			se, _, err := FitSampling(leaveIn[j], trials[i].y, sol.Alpha, e.opts.CVFolds, resample.CV, lambdas, e.opts.Solver, trng)
			if err != nil {
				return fmt.Errorf("importance trial %d, only %d: %w", i, sol.Indices[j], err)
			}
			res.errIn[j] = se.Mean[0]
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return err
	}

	out := NewVecMoments(nSel)
	in := NewVecMoments(nSel)
	for _, r := range results {
		out.Add(r.errOut)
		in.Add(r.errIn)
	}
	errOut, errIn := out.Mean(), in.Mean()
	for k, j := range sol.Indices {
		if nSel == 1 {
			// nothing left: the intercept-only model
			sol.ErrOut[j] = sol.AveNullErr
		} else {
			sol.ErrOut[j] = errOut[k]
		}
		sol.ErrIn[j] = errIn[k]
	}
	return nil
}

// ones returns a slice of n ones.
func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
