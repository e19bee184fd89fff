// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package enet

import (
	"fmt"
	"math"
)

// NewSparseVec keeps the nonzero entries of dense.
func NewSparseVec(dense []float64) SparseVec {
	var sv SparseVec
	for j, v := range dense {
		if v != 0 {
			sv.Indices = append(sv.Indices, j)
			sv.Values = append(sv.Values, v)
		}
	}
	return sv
}

// Len returns the number of stored entries.
func (sv SparseVec) Len() int { return len(sv.Indices) }

// Dense scatters the stored entries into a zero vector of length n.
// Entries with an index outside [0, n) cause a panic, as with slice indexing.
func (sv SparseVec) Dense(n int) []float64 {
	out := make([]float64, n)
	for k, j := range sv.Indices {
		out[j] = sv.Values[k]
	}
	return out
}

// Threshold returns the entries with |value| > eps.
func (sv SparseVec) Threshold(eps float64) SparseVec {
	var out SparseVec
	for k, v := range sv.Values {
		if math.Abs(v) > eps {
			out.Indices = append(out.Indices, sv.Indices[k])
			out.Values = append(out.Values, v)
		}
	}
	return out
}

// Validate checks that the indices are strictly increasing, inside [0, n),
// and aligned with the values.
func (sv SparseVec) Validate(n int) error {
	if len(sv.Indices) != len(sv.Values) {
		return fmt.Errorf("sparse vector has %d indices but %d values", len(sv.Indices), len(sv.Values))
	}
	for k, j := range sv.Indices {
		if j < 0 || j >= n {
			return fmt.Errorf("index %d out of range [0, %d)", j, n)
		}
		if k > 0 && j <= sv.Indices[k-1] {
			return fmt.Errorf("indices not strictly increasing at position %d", k)
		}
	}
	return nil
}
