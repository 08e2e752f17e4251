// Copyright Jei Raju, 2026. All rights reserved.

// Package linreg provides the least-squares core shared by the
// causal-effect estimates and the cross-validation scoring.
package linreg

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingularDesign reports a design matrix with linearly dependent
// columns or too few rows.
var ErrSingularDesign = errors.New("linreg: singular design matrix")

// Fit regresses y on the given predictor columns and returns the
// coefficients, intercept first. An empty predictor list fits the
// intercept-only model.
func Fit(y []float64, cols [][]float64) ([]float64, error) {
	n := len(y)
	p := len(cols)
	if n == 0 {
		return nil, fmt.Errorf("%w: no observations", ErrSingularDesign)
	}
	for i, c := range cols {
		if len(c) != n {
			return nil, fmt.Errorf("predictor %d has %d rows, response has %d", i, len(c), n)
		}
	}
	if n < p+1 {
		return nil, fmt.Errorf("%w: %d rows for %d coefficients", ErrSingularDesign, n, p+1)
	}

	x := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
	}
	for j, c := range cols {
		for i, v := range c {
			x.Set(i, j+1, v)
		}
	}

	var qr mat.QR
	qr.Factorize(x)
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, mat.NewVecDense(n, y)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularDesign, err)
	}
	coef := make([]float64, p+1)
	for j := range coef {
		coef[j] = sol.At(j, 0)
	}
	return coef, nil
}

// Predict applies intercept-first coefficients to predictor columns,
// returning n fitted values. cols may be empty for the intercept-only
// model.
func Predict(coef []float64, cols [][]float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		v := coef[0]
		for j, c := range cols {
			v += coef[j+1] * c[i]
		}
		out[i] = v
	}
	return out
}
