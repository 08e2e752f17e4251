// Copyright Jei Raju, 2026. All rights reserved.

// Package dataset loads and prepares the fixed 50-gene expression
// matrix: CSV parsing, per-gene summaries, z-scoring, quantile
// discretization, and seeded fold assignment.
//
// Implements: prd001-dataset (R1-R4); docs/ARCHITECTURE.md § Dataset.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ErrUnknownGene indicates a gene symbol not present in the matrix.
var ErrUnknownGene = errors.New("dataset: unknown gene")

// Matrix is the in-memory expression table, stored column-major: one
// slice of sample values per gene. Columns are never copied on access;
// callers that modify values must copy first.
type Matrix struct {
	// Genes lists the gene symbols in header order.
	Genes []string

	// Samples is the row count.
	Samples int

	// Cols holds one column per gene, each of length Samples.
	Cols [][]float64

	index map[string]int
}

// Load reads an expression matrix CSV. The header row carries the gene
// symbols; every following row is one sample. Values must parse as
// float64, so blank or NA cells are rejected with the offending row and
// column named (R1.2). Constant columns are rejected because every
// downstream procedure divides by the column standard deviation (R1.4).
func Load(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return m, nil
}

// Read parses an expression matrix CSV from r. See Load.
func Read(r io.Reader) (*Matrix, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("need at least 2 gene columns, got %d", len(header))
	}

	genes := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		sym := strings.TrimSpace(h)
		if sym == "" {
			return nil, fmt.Errorf("column %d has an empty gene symbol", i+1)
		}
		if _, dup := index[sym]; dup {
			return nil, fmt.Errorf("duplicate gene symbol %q", sym)
		}
		genes[i] = sym
		index[sym] = i
	}

	cols := make([][]float64, len(genes))
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row+1, err)
		}
		if len(record) != len(genes) {
			return nil, fmt.Errorf("row %d has %d values, want %d", row+1, len(record), len(genes))
		}
		for i, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %q is not numeric", row+1, genes[i], cell)
			}
			cols[i] = append(cols[i], v)
		}
		row++
	}

	n := row - 1
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", n)
	}
	for i, col := range cols {
		if stat.StdDev(col, nil) == 0 {
			return nil, fmt.Errorf("gene %s is constant across all samples", genes[i])
		}
	}

	return &Matrix{Genes: genes, Samples: n, Cols: cols, index: index}, nil
}

// Index returns the column index of a gene symbol.
func (m *Matrix) Index(gene string) (int, error) {
	i, ok := m.index[gene]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownGene, gene)
	}
	return i, nil
}

// Column returns the value slice for a gene. The slice is the backing
// storage, not a copy.
func (m *Matrix) Column(gene string) ([]float64, error) {
	i, err := m.Index(gene)
	if err != nil {
		return nil, err
	}
	return m.Cols[i], nil
}

// Standardize returns a new Matrix with every column z-scored.
func (m *Matrix) Standardize() *Matrix {
	cols := make([][]float64, len(m.Cols))
	for i, col := range m.Cols {
		mean, std := stat.MeanStdDev(col, nil)
		z := make([]float64, len(col))
		for j, v := range col {
			z[j] = (v - mean) / std
		}
		cols[i] = z
	}
	out := &Matrix{
		Genes:   append([]string(nil), m.Genes...),
		Samples: m.Samples,
		Cols:    cols,
		index:   make(map[string]int, len(m.Genes)),
	}
	for i, g := range out.Genes {
		out.index[g] = i
	}
	return out
}

// Summary holds per-gene descriptive statistics (R3.1).
type Summary struct {
	Gene   string  `json:"gene" yaml:"gene"`
	N      int     `json:"n" yaml:"n"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min" yaml:"min"`
	Median float64 `json:"median" yaml:"median"`
	Max    float64 `json:"max" yaml:"max"`
}

// Summarize computes descriptive statistics for every gene, in header
// order.
func (m *Matrix) Summarize() []Summary {
	out := make([]Summary, len(m.Genes))
	for i, col := range m.Cols {
		sorted := append([]float64(nil), col...)
		sort.Float64s(sorted)
		mean, std := stat.MeanStdDev(col, nil)
		out[i] = Summary{
			Gene:   m.Genes[i],
			N:      len(col),
			Mean:   mean,
			StdDev: std,
			Min:    sorted[0],
			Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
			Max:    sorted[len(sorted)-1],
		}
	}
	return out
}
