// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Sparse Linear Regression with Resampling-Based Inference
// Class: 02-613 at Caregie Mellon University

package slr

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// number of unconditional scalar lines at the top of a record
const scalarLines = 8

// Record restricts the vector fields of s to the selected features.
func (s *Solution) Record() *Record {
	sel := func(v []float64) []float64 {
		out := make([]float64, len(s.Indices))
		for k, j := range s.Indices {
			out[k] = v[j]
		}
		return out
	}

	r := &Record{
		Lambda:     s.Lambda,
		Alpha:      s.Alpha,
		Intercept:  s.Intercept,
		AveErr:     s.AveErr,
		SdErr:      s.SdErr,
		AveNullErr: s.AveNullErr,
		SdNullErr:  s.SdNullErr,
		SdY:        s.SdY,
	}
	if len(s.Indices) == 0 {
		return r
	}
	r.Indices = append([]int(nil), s.Indices...)
	r.SdX = sel(s.SdX)
	r.Coef = sel(s.Coef)
	r.MedCoef = sel(s.MedCoef)
	r.SdCoef = sel(s.SdCoef)
	r.PSup = sel(s.PSup)
	r.ErrOut = sel(s.ErrOut)
	r.ErrIn = sel(s.ErrIn)
	if s.Permuted {
		r.P = sel(s.P)
	}
	return r
}

// WriteSolution writes the record of s to path.
func WriteSolution(path string, s *Solution) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteRecord(file, s.Record()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// ReadSolution reads a record written by WriteSolution.
func ReadSolution(path string) (*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	r, err := ReadRecord(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return r, nil
}

// WriteRecord writes r as tab-delimited lines, one quantity per line:
// lambda, alpha, intercept, aveErr, sdErr, aveNullErr, sdNullErr, sdY, then,
// if any feature is selected, indices, sdX, coef, medCoef, sdCoef, pSup,
// errOut, errIn and optionally p.
func WriteRecord(w io.Writer, r *Record) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	scalars := []float64{
		r.Lambda, r.Alpha, r.Intercept,
		r.AveErr, r.SdErr, r.AveNullErr, r.SdNullErr,
		r.SdY,
	}
	for _, v := range scalars {
		if err := writer.Write([]string{formatFloat(v)}); err != nil {
			return err
		}
	}

	if len(r.Indices) > 0 {
		idx := make([]string, len(r.Indices))
		for k, j := range r.Indices {
			idx[k] = strconv.Itoa(j)
		}
		if err := writer.Write(idx); err != nil {
			return err
		}

		vectors := [][]float64{r.SdX, r.Coef, r.MedCoef, r.SdCoef, r.PSup, r.ErrOut, r.ErrIn}
		if r.P != nil {
			vectors = append(vectors, r.P)
		}
		for _, vec := range vectors {
			if err := writer.Write(formatFloats(vec)); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadRecord parses the format written by WriteRecord.
func ReadRecord(rd io.Reader) (*Record, error) {
	reader := csv.NewReader(rd)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) < scalarLines {
		return nil, fmt.Errorf("expected at least %d lines, got %d", scalarLines, len(lines))
	}

	scalars := make([]float64, scalarLines)
	for i := 0; i < scalarLines; i++ {
		if len(lines[i]) != 1 {
			return nil, fmt.Errorf("line %d: expected 1 value, got %d", i+1, len(lines[i]))
		}
		v, err := strconv.ParseFloat(lines[i][0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		scalars[i] = v
	}
	r := &Record{
		Lambda:     scalars[0],
		Alpha:      scalars[1],
		Intercept:  scalars[2],
		AveErr:     scalars[3],
		SdErr:      scalars[4],
		AveNullErr: scalars[5],
		SdNullErr:  scalars[6],
		SdY:        scalars[7],
	}

	rest := lines[scalarLines:]
	if len(rest) == 0 {
		return r, nil
	}

	r.Indices = make([]int, len(rest[0]))
	for k, s := range rest[0] {
		j, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", scalarLines+1, err)
		}
		r.Indices[k] = j
	}

	targets := []*[]float64{&r.SdX, &r.Coef, &r.MedCoef, &r.SdCoef, &r.PSup, &r.ErrOut, &r.ErrIn, &r.P}
	vecLines := rest[1:]
	if len(vecLines) < len(targets)-1 || len(vecLines) > len(targets) {
		return nil, fmt.Errorf("expected %d or %d vector lines, got %d", len(targets)-1, len(targets), len(vecLines))
	}
	for i, fields := range vecLines {
		if len(fields) != len(r.Indices) {
			return nil, fmt.Errorf("line %d: expected %d values, got %d", scalarLines+2+i, len(r.Indices), len(fields))
		}
		vec, err := parseFloats(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", scalarLines+2+i, err)
		}
		*targets[i] = vec
	}
	return r, nil
}

// OutputSolutionToCSV writes one row per selected feature.
// Columns: Variable, Index, SdX, Coef, AveCoef, MedCoef, SdCoef, PSup, ErrOut, ErrIn, P
// P is left blank when no permutation test was run.
func OutputSolutionToCSV(path string, s *Solution, varNames []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"Variable", "Index", "SdX", "Coef", "AveCoef", "MedCoef", "SdCoef", "PSup", "ErrOut", "ErrIn", "P"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, j := range s.Indices {
		record := []string{
			varName(varNames, j),
			strconv.Itoa(j),
			fmt.Sprintf("%f", s.SdX[j]),
			fmt.Sprintf("%f", s.Coef[j]),
			fmt.Sprintf("%f", s.AveCoef[j]),
			fmt.Sprintf("%f", s.MedCoef[j]),
			fmt.Sprintf("%f", s.SdCoef[j]),
			fmt.Sprintf("%f", s.PSup[j]),
			fmt.Sprintf("%f", s.ErrOut[j]),
			fmt.Sprintf("%f", s.ErrIn[j]),
			"",
		}
		if s.Permuted {
			record[len(record)-1] = fmt.Sprintf("%g", s.P[j])
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// PrintSummary prints the operating point, errors and selected features.
func PrintSummary(s *Solution, varNames []string) {
	if s == nil {
		fmt.Println("solution is nil")
		return
	}
	fmt.Println("      Sparse Linear Regression Summary      ")

	fmt.Printf("Number of regressors:    %d\n", s.NRegs)
	fmt.Printf("Lambda:                  %g\n", s.Lambda)
	fmt.Printf("Alpha:                   %g\n", s.Alpha)
	fmt.Printf("Intercept:               %g\n", s.Intercept)
	fmt.Println()

	fmt.Println("Prediction error (10-fold CV over bootstrap residuals):")
	fmt.Printf("  Model: %12.6f  (sd %.6f)\n", s.AveErr, s.SdErr)
	fmt.Printf("  Null:  %12.6f  (sd %.6f)\n", s.AveNullErr, s.SdNullErr)
	fmt.Printf("  sd(y): %12.6f\n", s.SdY)
	fmt.Println()

	if len(s.Indices) == 0 {
		fmt.Println("No features selected.")
		fmt.Println("============================================")
		return
	}

	names := make([]string, len(s.Indices))
	for k, j := range s.Indices {
		names[k] = varName(varNames, j)
	}
	fmt.Printf("Selected features (%d): %s\n\n", len(s.Indices), strings.Join(names, ", "))

	fmt.Printf("%-16s %12s %12s %12s %8s %12s %12s", "Variable", "Coef", "MedCoef", "SdCoef", "PSup", "ErrOut", "ErrIn")
	if s.Permuted {
		fmt.Printf(" %12s", "P")
	}
	fmt.Println()
	for k, j := range s.Indices {
		fmt.Printf("%-16s %12.6f %12.6f %12.6f %8.3f %12.6f %12.6f",
			names[k], s.Coef[j], s.MedCoef[j], s.SdCoef[j], s.PSup[j], s.ErrOut[j], s.ErrIn[j])
		if s.Permuted {
			fmt.Printf(" %12.4g", s.P[j])
		}
		fmt.Println()
	}
	fmt.Println("============================================")
}

// PrintRecord prints a stored record.
func PrintRecord(r *Record) {
	fmt.Printf("lambda:      %g\n", r.Lambda)
	fmt.Printf("alpha:       %g\n", r.Alpha)
	fmt.Printf("intercept:   %g\n", r.Intercept)
	fmt.Printf("aveErr:      %g\n", r.AveErr)
	fmt.Printf("sdErr:       %g\n", r.SdErr)
	fmt.Printf("aveNullErr:  %g\n", r.AveNullErr)
	fmt.Printf("sdNullErr:   %g\n", r.SdNullErr)
	fmt.Printf("sdY:         %g\n", r.SdY)
	if len(r.Indices) == 0 {
		fmt.Println("no features selected")
		return
	}
	fmt.Printf("indices:     %v\n", r.Indices)
	fmt.Printf("sdX:         %v\n", r.SdX)
	fmt.Printf("coef:        %v\n", r.Coef)
	fmt.Printf("medCoef:     %v\n", r.MedCoef)
	fmt.Printf("sdCoef:      %v\n", r.SdCoef)
	fmt.Printf("pSup:        %v\n", r.PSup)
	fmt.Printf("errOut:      %v\n", r.ErrOut)
	fmt.Printf("errIn:       %v\n", r.ErrIn)
	if r.P != nil {
		fmt.Printf("p:           %v\n", r.P)
	}
}

// LoadCSV loads a CSV file with a header row of variable names and numeric
// data rows.
func LoadCSV(path string) (*Table, error) {
	// 1. Open file
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// 2. Make CSV reader
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	// 3. Read header row
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("empty header in %s", path)
	}
	K := len(header)

	var (
		data []float64
		row  int
	)

	// 4. Read each data row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+2, err) // +2 for header + 1-based
		}

		if len(record) == 1 && record[0] == "" {
			continue
		}

		if len(record) != K {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", row+2, K, len(record))
		}

		for j, s := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("parse float at row %d col %d (%q): %w", row+2, j+1, s, err)
			}
			data = append(data, v)
		}
		row++
	}

	if row == 0 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	// 5. Build mat.Dense
	return &Table{
		Data:     mat.NewDense(row, K, data),
		VarNames: header,
	}, nil
}

// SplitResponse removes the named column from t and returns it as the
// response, with the remaining columns as the design matrix.
func (t *Table) SplitResponse(response string) (X *mat.Dense, y []float64, names []string, err error) {
	col := -1
	for j, name := range t.VarNames {
		if name == response {
			col = j
			break
		}
	}
	if col < 0 {
		return nil, nil, nil, fmt.Errorf("response column %q not found", response)
	}

	rows, cols := t.Data.Dims()
	if cols < 2 {
		return nil, nil, nil, fmt.Errorf("need at least one regressor besides %q", response)
	}

	y = mat.Col(nil, col, t.Data)
	keep := make([]int, 0, cols-1)
	for j := 0; j < cols; j++ {
		if j != col {
			keep = append(keep, j)
			names = append(names, t.VarNames[j])
		}
	}
	X = mat.NewDense(rows, len(keep), nil)
	for k, j := range keep {
		X.SetCol(k, mat.Col(nil, j, t.Data))
	}
	return X, y, names, nil
}

func varName(varNames []string, j int) string {
	if j < len(varNames) {
		return varNames[j]
	}
	return fmt.Sprintf("Var%d", j+1)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloats(v []float64) []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = formatFloat(x)
	}
	return out
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
