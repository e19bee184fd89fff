// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

// Package resample builds the index partitions and resampled vectors used by
// cross-validation, bootstrap and permutation procedures.
package resample

import (
	"errors"
	"fmt"
	"math/rand"
)

// Method names a partitioning scheme.
type Method string

const (
	// CV is k-fold cross-validation with shuffled fold assignment.
	CV Method = "cv"
	// Bootstrap is k rounds of bootstrap training samples.
	Bootstrap Method = "bs"
	// Bootstrap632 partitions like Bootstrap; callers blend in the
	// resubstitution error with the 0.632 weights.
	Bootstrap632 Method = "bs632"
)

// ErrInvalidMethod is returned for an unrecognized partitioning method.
var ErrInvalidMethod = errors.New("invalid sampling method")

// ValidationMode selects how bootstrap validation sets are drawn.
type ValidationMode int

const (
	// OutOfBag validates on the observations not drawn into the training sample.
	OutOfBag ValidationMode = iota
	// FreshDraw validates on an independent bootstrap draw.
	FreshDraw
)

// ParseMethod converts a method name into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
	return m, nil
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	switch m {
	case CV, Bootstrap, Bootstrap632:
		return true
	}
	return false
}

// Split partitions n observations into k (train, validation) pairs using
// method. Cross-validation folds are shuffled.
func Split(method Method, n, k int, rng *rand.Rand) (train, val [][]int, err error) {
	switch method {
	case CV:
		return KFold(n, k, true, rng)
	case Bootstrap, Bootstrap632:
		return BootstrapRounds(n, k, OutOfBag, rng)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidMethod, string(method))
	}
}

// KFold partitions the indices 0..n-1 into k folds. Fold sizes differ by at
// most one (the first n%k folds get the extra element), each index is in
// exactly one validation set, and train/validation are disjoint per fold.
// When shuffle is false folds are contiguous blocks. k larger than n is
// reduced to n.
func KFold(n, k int, shuffle bool, rng *rand.Rand) (train, val [][]int, err error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("need at least one observation, got %d", n)
	}
	if k < 1 {
		return nil, nil, fmt.Errorf("number of folds must be >= 1, got %d", k)
	}
	if k > n {
		k = n
	}

	var order []int
	if shuffle {
		order = rng.Perm(n)
	} else {
		order = make([]int, n)
		for i := range order {
			order[i] = i
		}
	}

	train = make([][]int, k)
	val = make([][]int, k)

	perFold := n / k
	remainder := n % k

	idx := 0
	for f := 0; f < k; f++ {
		size := perFold
		if f < remainder {
			size++
		}
		val[f] = make([]int, size)
		copy(val[f], order[idx:idx+size])

		train[f] = make([]int, 0, n-size)
		train[f] = append(train[f], order[:idx]...)
		train[f] = append(train[f], order[idx+size:]...)

		idx += size
	}
	return train, val, nil
}

// BootstrapRounds draws k bootstrap training samples of size n with
// replacement. The validation set of a round is chosen by mode; an empty
// out-of-bag set falls back to a fresh draw for that round.
func BootstrapRounds(n, k int, mode ValidationMode, rng *rand.Rand) (train, val [][]int, err error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("need at least one observation, got %d", n)
	}
	if k < 1 {
		return nil, nil, fmt.Errorf("number of rounds must be >= 1, got %d", k)
	}

	train = make([][]int, k)
	val = make([][]int, k)

	for r := 0; r < k; r++ {
		drawn := make([]bool, n)
		train[r] = make([]int, n)
		for i := 0; i < n; i++ {
			idx := rng.Intn(n)
			train[r][i] = idx
			drawn[idx] = true
		}

		if mode == OutOfBag {
			for i := 0; i < n; i++ {
				if !drawn[i] {
					val[r] = append(val[r], i)
				}
			}
		}
		if len(val[r]) == 0 {
			val[r] = drawIndices(n, rng)
		}
	}
	return train, val, nil
}

// drawIndices samples n indices from 0..n-1 with replacement.
func drawIndices(n int, rng *rand.Rand) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(n)
	}
	return out
}

// SampleWithReplacement returns a new slice of len(values) elements drawn
// uniformly with replacement from values.
func SampleWithReplacement(values []float64, rng *rand.Rand) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := range out {
		out[i] = values[rng.Intn(n)]
	}
	return out
}

// Permute returns a uniformly shuffled copy of values.
func Permute(values []float64, rng *rand.Rand) []float64 {
	out := make([]float64, len(values))
	for i, j := range rng.Perm(len(values)) {
		out[i] = values[j]
	}
	return out
}
