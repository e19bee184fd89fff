// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package slr

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSolution() *Solution {
	return &Solution{
		NRegs:      4,
		Lambda:     0.0125,
		Alpha:      1,
		Intercept:  -0.5,
		AveErr:     0.011,
		SdErr:      0.002,
		AveNullErr: 13.2,
		SdNullErr:  1.1,
		SdY:        3.6,
		Indices:    []int{0, 3},
		SdX:        []float64{0.9, 0, 0, 1.1},
		Coef:       []float64{2.98, 0, 0, -1.97},
		AveCoef:    []float64{2.97, 0, 0.001, -1.96},
		MedCoef:    []float64{2.975, 0, 0, -1.965},
		SdCoef:     []float64{0.014, 0, 0.002, 0.013},
		PSup:       []float64{1, 0, 0.1, 1},
		ErrOut:     []float64{8.1, 0, 0, 4.2},
		ErrIn:      []float64{4.3, 0, 0, 8.2},
		P:          []float64{0.05, 1, 1, 3e-7},
		Permuted:   true,
	}
}

func TestWriteRecordLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecord(&buf, sampleSolution().Record()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 17)
	assert.Equal(t, "0.0125", lines[0])
	assert.Equal(t, "1", lines[1])
	assert.Equal(t, "-0.5", lines[2])
	assert.Equal(t, "3.6", lines[7])
	assert.Equal(t, "0\t3", lines[8])
	assert.Equal(t, "0.9\t1.1", lines[9])
	assert.Equal(t, "2.98\t-1.97", lines[10])
	assert.Equal(t, "2.975\t-1.965", lines[11])
	assert.Equal(t, "0.05\t3e-07", lines[16])
}

func TestRecordRoundTrip(t *testing.T) {
	sol := sampleSolution()

	var buf bytes.Buffer
	require.NoError(t, WriteRecord(&buf, sol.Record()))
	rec, err := ReadRecord(&buf)
	require.NoError(t, err)
	assert.Equal(t, sol.Record(), rec)

	// without permutations the p line is absent
	sol.Permuted = false
	buf.Reset()
	require.NoError(t, WriteRecord(&buf, sol.Record()))
	rec, err = ReadRecord(&buf)
	require.NoError(t, err)
	assert.Nil(t, rec.P)
	assert.Equal(t, []float64{4.3, 8.2}, rec.ErrIn)
}

func TestRecordWithoutSelection(t *testing.T) {
	sol := sampleSolution()
	sol.Indices = nil
	sol.AveErr = math.NaN()

	var buf bytes.Buffer
	require.NoError(t, WriteRecord(&buf, sol.Record()))
	assert.Equal(t, 8, strings.Count(buf.String(), "\n"))

	rec, err := ReadRecord(&buf)
	require.NoError(t, err)
	assert.Nil(t, rec.Indices)
	assert.True(t, math.IsNaN(rec.AveErr))
	assert.Equal(t, 13.2, rec.AveNullErr)
}

func TestReadRecordErrors(t *testing.T) {
	tests := map[string]string{
		"too short":       "1\n2\n3\n",
		"bad scalar":      "1\n2\nx\n4\n5\n6\n7\n8\n",
		"two scalars":     "1\t2\n2\n3\n4\n5\n6\n7\n8\n",
		"bad index":       "1\n2\n3\n4\n5\n6\n7\n8\na\n",
		"missing vectors": "1\n2\n3\n4\n5\n6\n7\n8\n0\t1\n1\t1\n",
		"ragged vector":   "1\n2\n3\n4\n5\n6\n7\n8\n0\t1\n1\n1\t1\n1\t1\n1\t1\n1\t1\n1\t1\n1\t1\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadRecord(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestOutputSolutionToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solution.csv")
	require.NoError(t, OutputSolutionToCSV(path, sampleSolution(), []string{"temp", "humidity", "wind", "rain"}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "Variable", rows[0][0])
	assert.Equal(t, "temp", rows[1][0])
	assert.Equal(t, "rain", rows[2][0])
	assert.Equal(t, "3", rows[2][1])
	assert.Equal(t, "-1.970000", rows[2][3])
	assert.Equal(t, "0.05", rows[1][10])
	assert.Equal(t, "3e-07", rows[2][10])
}

func TestOutputSolutionToCSVWithoutPermutations(t *testing.T) {
	sol := sampleSolution()
	sol.Permuted = false
	path := filepath.Join(t.TempDir(), "solution.csv")
	require.NoError(t, OutputSolutionToCSV(path, sol, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	for _, row := range rows[1:] {
		assert.Equal(t, "", row[len(row)-1])
	}
}

func TestOutputSolutionToCSVBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "solution.csv")
	assert.Error(t, OutputSolutionToCSV(path, sampleSolution(), nil))
}

func TestLoadCSVAndSplitResponse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	content := "x1, y, x2\n1, 10, 5\n2, 20, 6\n\n3, 30, 7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "y", "x2"}, table.VarNames)
	r, c := table.Data.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)

	X, y, names, err := table.SplitResponse("y")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, y)
	assert.Equal(t, []string{"x1", "x2"}, names)
	assert.Equal(t, []float64{1, 5, 2, 6, 3, 7}, X.RawMatrix().Data)

	_, _, _, err = table.SplitResponse("z")
	assert.Error(t, err)
}

func TestLoadCSVErrors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"no rows":   "a,b\n",
		"ragged":    "a,b\n1,2\n3\n",
		"not float": "a,b\n1,two\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".csv")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := LoadCSV(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadCSV(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
