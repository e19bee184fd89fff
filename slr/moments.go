// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package slr

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Moments accumulates the count, sum and sum of squares of a scalar.
type Moments struct {
	N     int
	Sum   float64
	SumSq float64
}

// Add records one observation.
func (m *Moments) Add(x float64) {
	m.N++
	m.Sum += x
	m.SumSq += x * x
}

// Combine merges the observations of o into m.
func (m *Moments) Combine(o Moments) {
	m.N += o.N
	m.Sum += o.Sum
	m.SumSq += o.SumSq
}

// Mean returns Sum/N, or NaN when nothing was added.
func (m Moments) Mean() float64 {
	if m.N == 0 {
		return math.NaN()
	}
	return m.Sum / float64(m.N)
}

// PopVar returns SumSq/N - Mean^2, floored at zero.
func (m Moments) PopVar() float64 {
	if m.N == 0 {
		return math.NaN()
	}
	mean := m.Mean()
	return math.Max(0, m.SumSq/float64(m.N)-mean*mean)
}

// PopStd is the square root of PopVar.
func (m Moments) PopStd() float64 {
	return math.Sqrt(m.PopVar())
}

// VecMoments accumulates Moments element-wise over fixed-length vectors.
type VecMoments struct {
	N     int
	Sum   []float64
	SumSq []float64
}

// NewVecMoments returns an empty accumulator for vectors of length n.
func NewVecMoments(n int) *VecMoments {
	return &VecMoments{
		Sum:   make([]float64, n),
		SumSq: make([]float64, n),
	}
}

// Add records one vector. It panics if x has the wrong length.
func (v *VecMoments) Add(x []float64) {
	v.N++
	floats.Add(v.Sum, x)
	for i, xi := range x {
		v.SumSq[i] += xi * xi
	}
}

// Combine merges the observations of o into v.
func (v *VecMoments) Combine(o *VecMoments) {
	v.N += o.N
	floats.Add(v.Sum, o.Sum)
	floats.Add(v.SumSq, o.SumSq)
}

// Mean returns the element-wise mean.
func (v *VecMoments) Mean() []float64 {
	out := make([]float64, len(v.Sum))
	if v.N == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	floats.ScaleTo(out, 1/float64(v.N), v.Sum)
	return out
}

// PopVar returns the element-wise population variance, floored at zero.
func (v *VecMoments) PopVar() []float64 {
	mean := v.Mean()
	out := make([]float64, len(mean))
	for i, mu := range mean {
		out[i] = math.Max(0, v.SumSq[i]/float64(v.N)-mu*mu)
	}
	return out
}

// PopStd returns the element-wise population standard deviation.
func (v *VecMoments) PopStd() []float64 {
	out := v.PopVar()
	for i, x := range out {
		out[i] = math.Sqrt(x)
	}
	return out
}

// median returns the middle order statistic of samples, or the average of
// the middle pair for an even count. samples is left unsorted.
func median(samples []float64) float64 {
	n := len(samples)
	if n == 0 {
		return math.NaN()
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
