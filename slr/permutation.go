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
	"github.com/colinsongf/SLR2/gpd"
	"github.com/colinsongf/SLR2/resample"
	"gonum.org/v1/gonum/mat"
)

// floor for coefficient standard deviations in the test statistic
const minSd = 1e-21

// PermuteModel estimates the model on (X, y) with error and importance
// estimates, then builds a permutation null distribution of the statistic
// |median/sd| for every selected feature and assigns each a p-value.
//
// Each of the Options.NPerms trials permutes y and re-estimates the
// coefficient distribution, either at the baseline operating point or, with
// Options.Reselect, after a fresh selection. A selected feature that the trial
// does not select contributes a statistic of 0 to its null row.
//
// p-values come from the generalized Pareto tail estimate, falling back to
// the direct permutation count when the tail fit is unusable. Features that
// were not selected keep p = 1.
func (e *Estimator) PermuteModel(X mat.Matrix, y []float64, rng *rand.Rand) (*Solution, *enet.Model, error) {
	// 1. Baseline estimate
	base := EstimateConfig{
		NSamp:  e.opts.NSamp,
		Alphas: e.opts.Alphas,
		EstErr: true,
		EstImp: true,
	}
	sol, model, err := e.EstimateModel(X, y, base, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("permute model: %w", err)
	}
	sol.Permuted = true

	// 2. Nothing selected: every p stays at 1
	if len(sol.Indices) == 0 {
		e.log.Info("no features selected, skipping permutations")
		return sol, model, nil
	}

	// 3. Baseline statistic
	tStat := tStatistic(sol.MedCoef, sol.SdCoef)

	// 4. Permutation trials, each with its own RNG
	nPerms := e.opts.NPerms
	cfg := EstimateConfig{
		NSamp:  e.opts.NSamp,
		Alphas: e.opts.Alphas,
	}
	if !e.opts.Reselect {
		cfg.Params = &OperatingPoint{Lambda: sol.Lambda, Alpha: sol.Alpha}
	}

	inner := e.serial()
	seeds := drawSeeds(rng, nPerms)
	perTrial := make([]*Solution, nPerms)

	err = runTrials(nPerms, e.opts.Workers, func(i int) error {
		prng := rand.New(rand.NewSource(seeds[i]))
		yPerm := resample.Permute(y, prng)
		ps, _, err := inner.EstimateModel(X, yPerm, cfg, prng)
		if err != nil {
			return fmt.Errorf("permutation %d: %w", i, err)
		}
		perTrial[i] = ps
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("permute model: %w", err)
	}

	null := newNullDistribution(sol.Indices, nPerms)
	for _, ps := range perTrial {
		null.add(ps.Indices, tStatistic(ps.MedCoef, ps.SdCoef))
	}

	// 5. p-values for the selected features
	for _, j := range sol.Indices {
		sol.P[j] = e.pValue(j, tStat[j], null[j])
	}

	e.log.Info("permutation test finished", "perms", nPerms, "selected", len(sol.Indices))
	return sol, model, nil
}

// pValue applies the tail estimator and switches to the direct count when
// the estimate cannot be used.
func (e *Estimator) pValue(feature int, x0 float64, null []float64) float64 {
	res := gpd.Estimate(x0, null)
	p := res.P
	if res.NeedsFallback() {
		p = gpd.EmpiricalP(x0, null)
		e.log.Debug("tail estimate unusable, counting instead",
			"feature", feature, "method", res.Method.String(), "p", p)
	} else {
		e.log.Debug("tail estimate", "feature", feature, "method", res.Method.String(),
			"p", p, "nexc", res.Nexc)
	}
	return math.Min(1, math.Max(0, p))
}

// tStatistic returns |med/sd| with sd floored at minSd.
func tStatistic(med, sd []float64) []float64 {
	out := make([]float64, len(med))
	for j := range med {
		s := sd[j]
		if s < minSd {
			s = minSd
		}
		out[j] = math.Abs(med[j] / s)
	}
	return out
}

// newNullDistribution allocates a row for each feature.
func newNullDistribution(features []int, capacity int) nullDistribution {
	nd := make(nullDistribution, len(features))
	for _, j := range features {
		nd[j] = make([]float64, 0, capacity)
	}
	return nd
}

// add appends one trial: the statistic for features the trial selected and
// 0 for the rest.
func (nd nullDistribution) add(selected []int, stat []float64) {
	chosen := make(map[int]bool, len(selected))
	for _, j := range selected {
		chosen[j] = true
	}
	for j := range nd {
		v := 0.0
		if chosen[j] {
			v = stat[j]
		}
		nd[j] = append(nd[j], v)
	}
}
