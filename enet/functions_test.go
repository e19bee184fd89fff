// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package enet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// almostEqual compares floats with tolerance
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func linearData() (*mat.Dense, []float64) {
	// y = 1 + 2*x0, x1 is unrelated
	x0 := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	x1 := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	X := mat.NewDense(len(x0), 2, nil)
	y := make([]float64, len(x0))
	for i := range x0 {
		X.Set(i, 0, x0[i])
		X.Set(i, 1, x1[i])
		y[i] = 1 + 2*x0[i]
	}
	return X, y
}

func TestFitRecoversLinearModel(t *testing.T) {
	X, y := linearData()

	path, err := Fit(X, y, 1, Options{Lambdas: []float64{1e-6}})
	require.NoError(t, err)
	require.Equal(t, 1, path.Len())

	m := path.Model(0)
	coef := m.Coef.Dense(2)
	if !almostEqual(coef[0], 2, 1e-3) {
		t.Errorf("coef[0] = %v, want 2", coef[0])
	}
	if !almostEqual(coef[1], 0, 1e-3) {
		t.Errorf("coef[1] = %v, want 0", coef[1])
	}
	if !almostEqual(m.Intercept, 1, 1e-2) {
		t.Errorf("intercept = %v, want 1", m.Intercept)
	}

	pred := m.Predict(X)
	for i := range y {
		if !almostEqual(pred[i], y[i], 1e-2) {
			t.Errorf("pred[%d] = %v, want %v", i, pred[i], y[i])
		}
	}
}

func TestFitComputedPath(t *testing.T) {
	X, y := linearData()

	path, err := Fit(X, y, 1, Options{})
	require.NoError(t, err)
	require.Equal(t, defaultNLambda, path.Len())

	// decreasing lambdas, all models carry the path alpha
	for k := 1; k < path.Len(); k++ {
		assert.Less(t, path.Lambdas[k], path.Lambdas[k-1])
		assert.Equal(t, path.Lambdas[k], path.Model(k).Lambda)
		assert.Equal(t, 1.0, path.Model(k).Alpha)
	}

	// the top of the path zeroes every coefficient
	assert.Equal(t, 0, path.Model(0).Coef.Len())
	assert.InDelta(t, 10.0, path.Model(0).Intercept, 1e-12) // mean of y

	// the bottom of the path is close to the least-squares fit
	last := path.Model(path.Len() - 1).Coef.Dense(2)
	assert.InDelta(t, 2.0, last[0], 1e-2)
}

func TestFitConstantResponse(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{1, 1, 1, 1, 1})
	y := []float64{4, 4, 4, 4, 4}

	path, err := Fit(X, y, 1, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, path.Len())
	assert.Equal(t, 0.0, path.Lambdas[0])
	assert.Equal(t, 0, path.Model(0).Coef.Len())
	assert.Equal(t, 4.0, path.Model(0).Intercept)
}

func TestFitZeroVarianceColumn(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		1, 7,
		2, 7,
		3, 7,
		4, 7,
		5, 7,
		6, 7,
	})
	y := []float64{2, 4, 6, 8, 10, 12}

	path, err := Fit(X, y, 0.5, Options{Lambdas: []float64{0.01, 0.001}})
	require.NoError(t, err)
	for k := 0; k < path.Len(); k++ {
		for _, j := range path.Model(k).Coef.Indices {
			assert.NotEqual(t, 1, j, "constant column must stay at zero")
		}
	}
}

func TestFitRidgeShrinks(t *testing.T) {
	X, y := linearData()

	path, err := Fit(X, y, 0, Options{Lambdas: []float64{10, 1, 0.1}})
	require.NoError(t, err)

	// pure ridge keeps both columns but shrinks less as lambda falls
	prev := 0.0
	for k := 0; k < path.Len(); k++ {
		c := path.Model(k).Coef.Dense(2)[0]
		assert.Greater(t, c, prev)
		prev = c
	}
}

func TestFitErrors(t *testing.T) {
	X, y := linearData()

	tests := map[string]struct {
		X     mat.Matrix
		y     []float64
		alpha float64
		opts  Options
	}{
		"nil X":           {nil, y, 1, Options{}},
		"length mismatch": {X, y[:3], 1, Options{}},
		"alpha too big":   {X, y, 1.5, Options{}},
		"alpha negative":  {X, y, -0.1, Options{}},
		"alpha NaN":       {X, y, math.NaN(), Options{}},
		"negative lambda": {X, y, 1, Options{Lambdas: []float64{-1}}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Fit(tc.X, tc.y, tc.alpha, tc.opts)
			assert.Error(t, err)
		})
	}
}

func TestPathPredict(t *testing.T) {
	X, y := linearData()

	path, err := Fit(X, y, 0.7, Options{NLambda: 5})
	require.NoError(t, err)

	pred := path.Predict(X)
	rows, cols := pred.Dims()
	require.Equal(t, 8, rows)
	require.Equal(t, 5, cols)

	for k := 0; k < cols; k++ {
		single := path.Model(k).Predict(X)
		for i := 0; i < rows; i++ {
			if pred.At(i, k) != single[i] {
				t.Errorf("Predict(%d, %d) = %v, model gives %v", i, k, pred.At(i, k), single[i])
			}
		}
	}
}

func TestSparseVec(t *testing.T) {
	sv := NewSparseVec([]float64{0, 1.5, 0, -2, 1e-30})
	assert.Equal(t, []int{1, 3, 4}, sv.Indices)
	assert.Equal(t, []float64{1.5, -2, 1e-30}, sv.Values)
	assert.NoError(t, sv.Validate(5))
	assert.Error(t, sv.Validate(4))

	assert.Equal(t, []float64{0, 1.5, 0, -2, 1e-30}, sv.Dense(5))

	th := sv.Threshold(1e-21)
	assert.Equal(t, []int{1, 3}, th.Indices)

	bad := SparseVec{Indices: []int{2, 1}, Values: []float64{1, 1}}
	assert.Error(t, bad.Validate(3))
}
