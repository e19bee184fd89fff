// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package enet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultNLambda = 100
	defaultTol     = 1e-7
	defaultMaxIter = 1000

	// alpha used for the top of the path when alpha is (close to) zero
	minPathAlpha = 1e-3
)

// withDefaults fills the unset options for a problem of the given size.
func (o Options) withDefaults(nObs, nRegs int) Options {
	if o.NLambda <= 0 {
		o.NLambda = defaultNLambda
	}
	if o.LambdaMinRatio <= 0 || o.LambdaMinRatio >= 1 {
		if nObs > nRegs {
			o.LambdaMinRatio = 1e-4
		} else {
			o.LambdaMinRatio = 1e-2
		}
	}
	if o.Tol <= 0 {
		o.Tol = defaultTol
	}
	if o.MaxIter <= 0 {
		o.MaxIter = defaultMaxIter
	}
	return o
}

// WithLambdas returns a copy of o that fits exactly the given lambdas.
func (o Options) WithLambdas(lambdas []float64) Options {
	o.Lambdas = append([]float64(nil), lambdas...)
	return o
}

// Fit computes the elastic-net path of y on X for mixing parameter alpha.
//
// For every lambda the fit minimizes
//
//	(1/2n)||y - b0 - Xb||^2 + lambda*((1-alpha)/2*||b||^2 + alpha*||b||_1)
//
// with the columns of X standardized internally. Coefficients are reported
// on the original scale. Columns with zero variance keep a zero coefficient.
func Fit(X mat.Matrix, y []float64, alpha float64, opts Options) (*Path, error) {
	if X == nil {
		return nil, fmt.Errorf("design matrix not provided")
	}
	nObs, nRegs := X.Dims()
	if nObs == 0 {
		return nil, fmt.Errorf("design matrix has no rows")
	}
	if len(y) != nObs {
		return nil, fmt.Errorf("response has length %d, design matrix has %d rows", len(y), nObs)
	}
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("alpha must be in [0, 1], got %v", alpha)
	}
	for _, lam := range opts.Lambdas {
		if math.IsNaN(lam) || lam < 0 {
			return nil, fmt.Errorf("lambda must be >= 0, got %v", lam)
		}
	}
	opts = opts.withDefaults(nObs, nRegs)

	// 1. Standardize the columns and center the response
	cols, means, sds := standardize(X)

	n := float64(nObs)
	yMean := floats.Sum(y) / n
	resid := make([]float64, nObs)
	copy(resid, y)
	floats.AddConst(-yMean, resid)

	// 2. Lambda path, either given or computed from the data
	lambdas := opts.Lambdas
	if len(lambdas) == 0 {
		lambdas = lambdaPath(cols, resid, alpha, opts)
	} else {
		lambdas = append([]float64(nil), lambdas...)
	}

	// 3. Coordinate descent with warm starts along the path
	beta := make([]float64, nRegs)
	path := &Path{
		Alpha:   alpha,
		Lambdas: lambdas,
		Models:  make([]*Model, len(lambdas)),
	}
	for k, lam := range lambdas {
		coordinateDescent(cols, resid, beta, lam, alpha, opts)
		path.Models[k] = unstandardize(beta, means, sds, yMean, lam, alpha)
	}

	return path, nil
}

// standardize returns the columns of X scaled to mean 0 and population
// variance 1, with the original means and standard deviations.
// A zero-variance column is returned as nil.
func standardize(X mat.Matrix) (cols [][]float64, means, sds []float64) {
	nObs, nRegs := X.Dims()
	n := float64(nObs)

	cols = make([][]float64, nRegs)
	means = make([]float64, nRegs)
	sds = make([]float64, nRegs)

	for j := 0; j < nRegs; j++ {
		col := mat.Col(nil, j, X)
		mu := floats.Sum(col) / n
		floats.AddConst(-mu, col)
		sd := math.Sqrt(floats.Dot(col, col) / n)
		means[j] = mu
		sds[j] = sd
		if sd == 0 || math.IsNaN(sd) {
			continue
		}
		floats.Scale(1/sd, col)
		cols[j] = col
	}
	return cols, means, sds
}

// lambdaPath builds a log-spaced path from the smallest lambda that zeroes
// every coefficient down to LambdaMinRatio times that value.
func lambdaPath(cols [][]float64, resid []float64, alpha float64, opts Options) []float64 {
	n := float64(len(resid))
	a := math.Max(alpha, minPathAlpha)

	lamMax := 0.0
	for _, xj := range cols {
		if xj == nil {
			continue
		}
		if v := math.Abs(floats.Dot(xj, resid)) / (n * a); v > lamMax {
			lamMax = v
		}
	}

	// Nothing to explain: a single unpenalized fit already gives all zeros
	if lamMax == 0 || math.IsNaN(lamMax) {
		return []float64{0}
	}

	lambdas := make([]float64, opts.NLambda)
	if opts.NLambda == 1 {
		lambdas[0] = lamMax
		return lambdas
	}
	logRatio := math.Log(opts.LambdaMinRatio)
	for k := range lambdas {
		lambdas[k] = lamMax * math.Exp(logRatio*float64(k)/float64(opts.NLambda-1))
	}
	return lambdas
}

// coordinateDescent updates beta and resid in place for one lambda.
// resid must hold the centered response minus the standardized fit of beta.
func coordinateDescent(cols [][]float64, resid, beta []float64, lam, alpha float64, opts Options) {
	n := float64(len(resid))
	l1 := lam * alpha
	denom := 1 + lam*(1-alpha)

	for iter := 0; iter < opts.MaxIter; iter++ {
		maxDelta := 0.0
		for j, xj := range cols {
			if xj == nil {
				continue
			}
			old := beta[j]
			rho := floats.Dot(xj, resid)/n + old
			updated := softThreshold(rho, l1) / denom
			if updated == old {
				continue
			}
			// resid -= (updated - old) * x_j
			floats.AddScaled(resid, old-updated, xj)
			beta[j] = updated
			if d := math.Abs(updated - old); d > maxDelta {
				maxDelta = d
			}
		}
		if maxDelta < opts.Tol {
			return
		}
	}
}

// softThreshold: S(z, a) = sign(z) * max(|z|-a, 0)
func softThreshold(z, a float64) float64 {
	if z > a {
		return z - a
	}
	if z < -a {
		return z + a
	}
	return 0
}

// unstandardize maps standardized coefficients back to the scale of X.
func unstandardize(beta, means, sds []float64, yMean, lam, alpha float64) *Model {
	m := &Model{
		Lambda:    lam,
		Alpha:     alpha,
		Intercept: yMean,
	}
	for j, b := range beta {
		if b == 0 {
			continue
		}
		c := b / sds[j]
		m.Coef.Indices = append(m.Coef.Indices, j)
		m.Coef.Values = append(m.Coef.Values, c)
		m.Intercept -= c * means[j]
	}
	return m
}

// Predict returns intercept + X*coef for every row of X.
func (m *Model) Predict(X mat.Matrix) []float64 {
	nObs, _ := X.Dims()
	out := make([]float64, nObs)
	for i := 0; i < nObs; i++ {
		val := m.Intercept
		for k, j := range m.Coef.Indices {
			val += m.Coef.Values[k] * X.At(i, j)
		}
		out[i] = val
	}
	return out
}

// Len returns the number of models on the path.
func (p *Path) Len() int { return len(p.Models) }

// Model returns the i-th model of the path.
func (p *Path) Model(i int) *Model { return p.Models[i] }

// Predict returns an nObs x Len() matrix whose column k holds the
// predictions of the k-th model.
func (p *Path) Predict(X mat.Matrix) *mat.Dense {
	nObs, _ := X.Dims()
	out := mat.NewDense(nObs, len(p.Models), nil)
	for k, m := range p.Models {
		out.SetCol(k, m.Predict(X))
	}
	return out
}
