// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package slr

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// almostEqual compares floats with tolerance
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// normalDraw returns a standard normal value from rng.
func normalDraw(rng *rand.Rand) float64 {
	u := (float64(rng.Intn(1_000_000)) + 0.5) / 1_000_000
	return distuv.Normal{Mu: 0, Sigma: 1}.Quantile(u)
}

// normalDesign returns an n x p matrix of independent standard normals.
func normalDesign(n, p int, rng *rand.Rand) *mat.Dense {
	X := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			X.Set(i, j, normalDraw(rng))
		}
	}
	return X
}

// twoSignalData builds y = 3*x0 - 2*x3 + 0.1*noise over 10 columns.
func twoSignalData(n int, seed int64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := normalDesign(n, 10, rng)
	y := make([]float64, n)
	for i := range y {
		y[i] = 3*X.At(i, 0) - 2*X.At(i, 3) + 0.1*normalDraw(rng)
	}
	return X, y
}

// constantData is a single constant column with a constant response.
func constantData(n int) (*mat.Dense, []float64) {
	X := mat.NewDense(n, 1, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 2)
		y[i] = 4
	}
	return X, y
}

// testOptions keeps runs small and quiet.
func testOptions(workers int, seed int64) Options {
	return Options{
		NSamp:   10,
		Alphas:  []float64{1},
		Seed:    seed,
		Workers: workers,
	}
}
