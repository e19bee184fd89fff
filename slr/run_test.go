// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package slr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func countLines(t *testing.T, path string) int {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return len(strings.Split(strings.TrimRight(string(raw), "\n"), "\n"))
}

func TestRunWritesRecord(t *testing.T) {
	X, y := twoSignalData(50, 7)
	out := filepath.Join(t.TempDir(), "SLR2run_test.dat")

	opts := testOptions(2, 7)
	opts.NPerms = 5
	sol, err := Run(X, y, out, opts)
	require.NoError(t, err)
	require.NotEmpty(t, sol.Indices)

	assert.InDelta(t, stat.PopStdDev(y, nil), sol.SdY, 1e-12)
	for j := 0; j < 10; j++ {
		sd := 0.0
		for _, k := range sol.Indices {
			if k == j {
				sd = stat.PopStdDev(mat.Col(nil, j, X), nil)
			}
		}
		assert.InDelta(t, sd, sol.SdX[j], 1e-12)
	}

	rec, err := ReadSolution(out)
	require.NoError(t, err)
	assert.Equal(t, sol.Record(), rec)
	assert.Equal(t, sol.Lambda, rec.Lambda)
	assert.Equal(t, sol.Indices, rec.Indices)
	require.Len(t, rec.P, len(sol.Indices))

	// 8 scalars, indices, 7 vectors and p
	assert.Equal(t, 8+1+7+1, countLines(t, out))
}

func TestRunWithoutPermutations(t *testing.T) {
	X, y := twoSignalData(40, 8)
	out := filepath.Join(t.TempDir(), "run.dat")

	sol, err := Run(X, y, out, testOptions(1, 8))
	require.NoError(t, err)
	assert.False(t, sol.Permuted)

	rec, err := ReadSolution(out)
	require.NoError(t, err)
	assert.Nil(t, rec.P)
	assert.Equal(t, 8+1+7, countLines(t, out))

	for _, p := range sol.P {
		assert.Equal(t, 1.0, p)
	}
}

func TestRunNoSelection(t *testing.T) {
	X, y := constantData(12)
	out := filepath.Join(t.TempDir(), "empty.dat")

	opts := testOptions(1, 3)
	opts.NPerms = 3
	sol, err := Run(X, y, out, opts)
	require.NoError(t, err)
	assert.Empty(t, sol.Indices)
	assert.Equal(t, 0.0, sol.SdY)

	assert.Equal(t, 8, countLines(t, out))
	rec, err := ReadSolution(out)
	require.NoError(t, err)
	assert.Empty(t, rec.Indices)
	assert.Equal(t, 4.0, rec.Intercept)
}

func TestRunSameSeedSameResult(t *testing.T) {
	X, y := twoSignalData(30, 15)
	opts := testOptions(1, 15)
	opts.NSamp = 5

	first, err := Run(X, y, "", opts)
	require.NoError(t, err)

	opts.Workers = 3
	second, err := Run(X, y, "", opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunErrors(t *testing.T) {
	X, y := twoSignalData(20, 1)

	_, err := Run(nil, y, "", testOptions(1, 1))
	assert.Error(t, err)

	_, err = Run(X, y[:4], "", testOptions(1, 1))
	assert.Error(t, err)

	_, err = Run(X, y, filepath.Join(t.TempDir(), "missing", "out.dat"), testOptions(1, 1))
	assert.Error(t, err)

	oneFold := testOptions(1, 1)
	oneFold.CVFolds = 1
	_, err = Run(X, y, "", oneFold)
	assert.ErrorContains(t, err, "2 folds")
}
