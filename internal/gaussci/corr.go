// Copyright Jei Raju, 2026. All rights reserved.

// Package gaussci implements the Gaussian conditional-independence test
// used by the structure search and the Markov-blanket discovery. The
// test works from a single precomputed correlation matrix, so every
// query is a submatrix operation rather than a pass over the data.
//
// Implements: prd002-citest (R1-R4); docs/ARCHITECTURE.md § Conditional
// independence testing.
package gaussci

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrSingular reports a conditioning set whose correlation
	// submatrix cannot be inverted.
	ErrSingular = errors.New("gaussci: singular correlation submatrix")

	// ErrSampleSize reports too few samples for the requested
	// conditioning-set size. The test needs n > |S| + 3.
	ErrSampleSize = errors.New("gaussci: sample size too small for conditioning set")
)

// NewCorrMatrix computes the sample correlation matrix of the given
// column-major data. Every column must have the same length.
func NewCorrMatrix(cols [][]float64) (*mat.SymDense, error) {
	p := len(cols)
	if p < 2 {
		return nil, fmt.Errorf("need at least 2 variables, got %d", p)
	}
	n := len(cols[0])
	for i, c := range cols {
		if len(c) != n {
			return nil, fmt.Errorf("column %d has %d samples, column 0 has %d", i, len(c), n)
		}
	}

	x := mat.NewDense(n, p, nil)
	for j, c := range cols {
		for i, v := range c {
			x.Set(i, j, v)
		}
	}
	corr := mat.NewSymDense(p, nil)
	stat.CorrelationMatrix(corr, x, nil)
	return corr, nil
}

// PartialCorr returns the partial correlation of variables i and j
// given the conditioning set cond, computed from the correlation
// matrix alone.
//
// Per prd002 R2.1, the empty and single-element sets use the closed
// forms, and larger sets invert the submatrix over {i, j} u cond and
// read the coefficient off the precision matrix.
func PartialCorr(corr *mat.SymDense, i, j int, cond []int) (float64, error) {
	switch len(cond) {
	case 0:
		return corr.At(i, j), nil
	case 1:
		k := cond[0]
		rij := corr.At(i, j)
		rik := corr.At(i, k)
		rjk := corr.At(j, k)
		den := (1 - rik*rik) * (1 - rjk*rjk)
		if den <= 0 {
			return 0, fmt.Errorf("%w: conditioning on %d", ErrSingular, k)
		}
		return (rij - rik*rjk) / math.Sqrt(den), nil
	}

	idx := make([]int, 0, 2+len(cond))
	idx = append(idx, i, j)
	idx = append(idx, cond...)
	k := len(idx)
	sub := mat.NewSymDense(k, nil)
	for a := 0; a < k; a++ {
		for b := a; b < k; b++ {
			sub.SetSym(a, b, corr.At(idx[a], idx[b]))
		}
	}

	var prec mat.Dense
	if err := prec.Inverse(sub); err != nil {
		return 0, fmt.Errorf("%w: conditioning set %v", ErrSingular, cond)
	}
	den := prec.At(0, 0) * prec.At(1, 1)
	if den <= 0 {
		return 0, fmt.Errorf("%w: conditioning set %v", ErrSingular, cond)
	}
	return -prec.At(0, 1) / math.Sqrt(den), nil
}
