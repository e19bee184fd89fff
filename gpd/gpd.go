// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

// Package gpd estimates small permutation p-values by fitting a generalized
// Pareto distribution to the upper tail of the permutation null sample.
//
// When at least MinExceed null statistics reach the observed value the plain
// empirical fraction is used. Otherwise the largest Nexc null values are
// modelled as threshold exceedances, starting at 250 and shrinking by 10
// until an Anderson-Darling check accepts the fit.
package gpd

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/optimize"
)

const (
	// MinExceed is the exceedance count at which counting is accurate enough.
	MinExceed = 10
	// MinP is the smallest p-value considered numerically trustworthy.
	MinP = 1e-21

	startExceed = 250
	stepExceed  = 10

	// approximate 5% critical value of A^2 for GPD fits with estimated parameters
	adCritical = 0.757

	// |shape| below this is treated as the exponential limit
	shapeEps = 1e-9
)

// Method records how a Result was obtained.
type Method int

const (
	// Failed means no estimate could be produced.
	Failed Method = iota
	// Empirical is the fraction of null values >= the observed statistic.
	Empirical
	// Tail is the generalized Pareto tail approximation.
	Tail
)

func (m Method) String() string {
	switch m {
	case Empirical:
		return "empirical"
	case Tail:
		return "gpd"
	default:
		return "failed"
	}
}

// Result is the outcome of Estimate.
type Result struct {
	P      float64
	Method Method
	// Fields below are set for Tail results
	Nexc      int
	Threshold float64
	Shape     float64
	Scale     float64
	AD        float64
}

// NeedsFallback reports whether the caller should switch to another strategy.
func (r Result) NeedsFallback() bool {
	return r.Method == Failed || math.IsNaN(r.P) || r.P < MinP
}

// Estimate returns the upper-tail probability of x0 under the empirical null
// sample.
func Estimate(x0 float64, null []float64) Result {
	n := len(null)
	if n == 0 || math.IsNaN(x0) {
		return Result{P: math.NaN()}
	}

	exceed := 0
	for _, v := range null {
		if v >= x0 {
			exceed++
		}
	}
	if exceed >= MinExceed {
		return Result{P: float64(exceed) / float64(n), Method: Empirical}
	}

	z := append([]float64(nil), null...)
	sort.Float64s(z)

	nexc := startExceed
	if nexc > n-1 {
		nexc = n - 1
	}
	for ; nexc >= MinExceed; nexc -= stepExceed {
		// threshold halfway between the smallest exceedance and the next value down
		t := (z[n-nexc] + z[n-nexc-1]) / 2
		if x0 <= t {
			continue
		}
		y := make([]float64, nexc)
		for i := range y {
			y[i] = z[n-nexc+i] - t
		}

		shape, scale, ok := fit(y)
		if !ok {
			continue
		}
		ad := andersonDarling(y, shape, scale)
		if math.IsNaN(ad) || ad > adCritical {
			continue
		}

		p := float64(nexc) / float64(n) * (1 - cdf(x0-t, shape, scale))
		return Result{
			P:         p,
			Method:    Tail,
			Nexc:      nexc,
			Threshold: t,
			Shape:     shape,
			Scale:     scale,
			AD:        ad,
		}
	}

	return Result{P: math.NaN()}
}

// EmpiricalP is the direct permutation p-value (count(null >= x0)+1)/(N+1),
// clipped to at most 1.
func EmpiricalP(x0 float64, null []float64) float64 {
	count := 0
	for _, v := range null {
		if v >= x0 {
			count++
		}
	}
	p := float64(count+1) / float64(len(null)+1)
	if p > 1 {
		p = 1
	}
	return p
}

// cdf is the generalized Pareto distribution function.
func cdf(x, shape, scale float64) float64 {
	if x <= 0 {
		return 0
	}
	if math.Abs(shape) < shapeEps {
		return 1 - math.Exp(-x/scale)
	}
	arg := 1 + shape*x/scale
	if arg <= 0 {
		// beyond the upper end point of a bounded tail
		return 1
	}
	return 1 - math.Pow(arg, -1/shape)
}

// negLogLike is the GPD negative log-likelihood of y.
func negLogLike(y []float64, shape, scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) || math.IsNaN(shape) {
		return math.Inf(1)
	}
	n := float64(len(y))
	if math.Abs(shape) < shapeEps {
		sum := 0.0
		for _, v := range y {
			sum += v
		}
		return n*math.Log(scale) + sum/scale
	}
	sum := 0.0
	for _, v := range y {
		arg := 1 + shape*v/scale
		if arg <= 0 {
			return math.Inf(1)
		}
		sum += math.Log(arg)
	}
	return n*math.Log(scale) + (1+1/shape)*sum
}

// fit estimates shape and scale by maximum likelihood, starting from the
// method-of-moments estimates.
func fit(y []float64) (shape, scale float64, ok bool) {
	n := float64(len(y))
	mean, sq := 0.0, 0.0
	for _, v := range y {
		mean += v
	}
	mean /= n
	for _, v := range y {
		sq += (v - mean) * (v - mean)
	}
	variance := sq / (n - 1)
	if mean <= 0 || variance <= 0 {
		return 0, 0, false
	}

	// moments: shape = (1 - mean^2/var)/2, scale = mean*(mean^2/var + 1)/2
	r := mean * mean / variance
	shape0 := 0.5 * (1 - r)
	scale0 := 0.5 * mean * (r + 1)
	if shape0 < 0 {
		// a negative start can sit outside the support of the data
		shape0 = 0
		scale0 = mean
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return negLogLike(y, x[0], math.Exp(x[1]))
		},
	}
	res, err := optimize.Minimize(problem, []float64{shape0, math.Log(scale0)}, nil, &optimize.NelderMead{})
	if err != nil || res == nil {
		return 0, 0, false
	}
	shape, scale = res.X[0], math.Exp(res.X[1])
	if math.IsNaN(shape) || math.IsNaN(scale) || math.IsInf(res.F, 0) {
		return 0, 0, false
	}
	return shape, scale, true
}

// andersonDarling computes the A^2 statistic of y against the fitted GPD.
func andersonDarling(y []float64, shape, scale float64) float64 {
	s := append([]float64(nil), y...)
	sort.Float64s(s)
	n := len(s)

	sum := 0.0
	for i := 0; i < n; i++ {
		lo := cdf(s[i], shape, scale)
		hi := cdf(s[n-1-i], shape, scale)
		sum += float64(2*i+1) * (math.Log(lo) + math.Log(1-hi))
	}
	a2 := -float64(n) - sum/float64(n)
	if math.IsInf(a2, 0) {
		return math.NaN()
	}
	return a2
}
