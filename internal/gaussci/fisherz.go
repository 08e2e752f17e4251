// Copyright Jei Raju, 2026. All rights reserved.

package gaussci

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// clampCorr keeps the Fisher transform finite when a correlation is
// numerically at +-1.
const clampCorr = 0.9999999

// Result holds one conditional-independence decision together with the
// quantities behind it, so callers can persist a full test trail.
type Result struct {
	I, J        int
	Cond        []int
	PartialCorr float64
	Statistic   float64
	PValue      float64
	Independent bool
}

// Tester runs Fisher-z conditional-independence tests against a fixed
// correlation matrix. It counts tests as it goes and is not safe for
// concurrent use.
type Tester struct {
	corr  *mat.SymDense
	n     int
	alpha float64

	tests int

	// Record, when set, receives every test result in call order.
	Record func(Result)
}

// NewTester returns a tester over the given correlation matrix with n
// underlying samples, declaring independence when p >= alpha.
func NewTester(corr *mat.SymDense, n int, alpha float64) *Tester {
	return &Tester{corr: corr, n: n, alpha: alpha}
}

// Alpha returns the significance level the tester was built with.
func (t *Tester) Alpha() float64 { return t.alpha }

// Tests returns the number of tests performed so far.
func (t *Tester) Tests() int { return t.tests }

// Test runs one conditional-independence test of variables i and j
// given cond.
//
// Per prd002 R1.1, the statistic is sqrt(n-|S|-3) * |z| with z the
// Fisher transform of the partial correlation, and the p-value is the
// two-sided standard normal tail. Per prd002 R1.3, independence is
// declared when p >= alpha.
func (t *Tester) Test(i, j int, cond []int) (Result, error) {
	if t.n-len(cond)-3 <= 0 {
		return Result{}, ErrSampleSize
	}
	r, err := PartialCorr(t.corr, i, j, cond)
	if err != nil {
		return Result{}, err
	}
	r = math.Max(-clampCorr, math.Min(clampCorr, r))

	z := 0.5 * math.Log((1+r)/(1-r))
	statistic := math.Sqrt(float64(t.n-len(cond)-3)) * math.Abs(z)
	p := 2 * distuv.UnitNormal.Survival(statistic)

	res := Result{
		I:           i,
		J:           j,
		Cond:        sortedCopy(cond),
		PartialCorr: r,
		Statistic:   statistic,
		PValue:      p,
		Independent: p >= t.alpha,
	}
	t.tests++
	if t.Record != nil {
		t.Record(res)
	}
	return res, nil
}

// Independent reports whether i and j test as independent given cond.
func (t *Tester) Independent(i, j int, cond []int) (bool, error) {
	res, err := t.Test(i, j, cond)
	if err != nil {
		return false, err
	}
	return res.Independent, nil
}

func sortedCopy(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	sort.Ints(out)
	return out
}
