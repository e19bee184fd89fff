// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package main

import (
	"os"
)

// slr runs the sparse regression analysis on a CSV data set.
//
//	slr run --data data.csv --response y [--config run.yaml] [--nsamp 100] [--nperms 1000] ...
//	slr show SLR2run_y.dat
//
// The run command goes through 5 steps: loading the configuration, loading
// the CSV and splitting off the response, running selection, estimation and
// the permutation test, writing the record, and printing a summary.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
