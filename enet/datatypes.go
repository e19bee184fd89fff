// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

// Package enet fits elastic-net penalized linear regressions over a path of
// penalty strengths using coordinate descent.
package enet

// Options controls a call to Fit. The zero value is usable.
type Options struct {
	// Penalty strengths to fit, in order. If empty a path is computed from the data.
	Lambdas []float64
	// Number of lambdas on a computed path (default 100)
	NLambda int
	// Smallest lambda on a computed path as a fraction of the largest.
	// Default 1e-4 when nObs > nRegs, 1e-2 otherwise.
	LambdaMinRatio float64
	// Convergence tolerance on the standardized coefficient change (default 1e-7)
	Tol float64
	// Maximum coordinate sweeps per lambda (default 1000)
	MaxIter int
}

// SparseVec is an ordered list of (index, value) pairs.
// Indices are strictly increasing.
type SparseVec struct {
	Indices []int
	Values  []float64
}

// Model is a single point on a fitted path.
type Model struct {
	Lambda    float64
	Alpha     float64
	Intercept float64
	// Coefficients on the original scale of X, keyed by column
	Coef SparseVec
}

// Path holds the models fitted for one alpha over a sequence of lambdas.
type Path struct {
	Alpha   float64
	Lambdas []float64
	Models  []*Model
}
