// Copyright Jei Raju, 2026. All rights reserved.

package blanket

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/dataset"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/gaussci"
)

// corrFromDAG builds the population correlation matrix of the linear
// Gaussian model x_j = sum_i w[{i,j}] * x_i + e_j with unit noise, so
// d-separated pairs have exactly zero partial correlation.
func corrFromDAG(nvars int, weights map[[2]int]float64) *mat.SymDense {
	b := mat.NewDense(nvars, nvars, nil)
	for k, w := range weights {
		b.Set(k[0], k[1], w)
	}
	a := mat.NewDense(nvars, nvars, nil)
	for i := 0; i < nvars; i++ {
		a.Set(i, i, 1)
	}
	a.Sub(a, b.T())
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		panic(err)
	}
	var sigma mat.Dense
	sigma.Mul(&inv, inv.T())
	corr := mat.NewSymDense(nvars, nil)
	for i := 0; i < nvars; i++ {
		for j := i; j < nvars; j++ {
			corr.SetSym(i, j, sigma.At(i, j)/math.Sqrt(sigma.At(i, i)*sigma.At(j, j)))
		}
	}
	return corr
}

func TestIAMBFindsParentsChildrenSpouses(t *testing.T) {
	// A and B are parents of T, C is a child, D is C's other parent,
	// E is disconnected. The blanket is {A, B, C, D}.
	const (
		gA = iota
		gB
		gT
		gC
		gD
		gE
	)
	corr := corrFromDAG(6, map[[2]int]float64{
		{gA, gT}: 0.8,
		{gB, gT}: 0.8,
		{gT, gC}: 0.8,
		{gD, gC}: 0.8,
	})
	tester := gaussci.NewTester(corr, 10000, 0.01)

	bl, err := IAMB(tester, 6, gT)
	if err != nil {
		t.Fatalf("IAMB: %v", err)
	}
	if want := []int{gA, gB, gC, gD}; !reflect.DeepEqual(bl.Members, want) {
		t.Errorf("Members = %v, want %v", bl.Members, want)
	}
	// The spouse only becomes dependent once the child is in the
	// blanket, so the child must have been admitted before it.
	var childAt, spouseAt int
	for i, s := range bl.Steps {
		if s.Grow && s.Kept && s.Gene == gC {
			childAt = i
		}
		if s.Grow && s.Kept && s.Gene == gD {
			spouseAt = i
		}
	}
	if childAt >= spouseAt {
		t.Errorf("child admitted at step %d, spouse at %d; want child first", childAt, spouseAt)
	}
}

func TestIAMBShrinkDropsFalsePositive(t *testing.T) {
	// X feeds T through three intermediates, and the three pooled paths
	// give it a larger marginal correlation with T than any single
	// intermediate has. The forward phase therefore admits X first, and
	// the backward phase must drop it once A, B, and C are all in.
	const (
		gX = iota
		gA
		gB
		gC
		gT
	)
	corr := corrFromDAG(5, map[[2]int]float64{
		{gX, gA}: 0.9,
		{gX, gB}: 0.9,
		{gX, gC}: 0.9,
		{gA, gT}: 0.7,
		{gB, gT}: 0.7,
		{gC, gT}: 0.7,
	})
	tester := gaussci.NewTester(corr, 10000, 0.01)

	bl, err := IAMB(tester, 5, gT)
	if err != nil {
		t.Fatalf("IAMB: %v", err)
	}
	if want := []int{gA, gB, gC}; !reflect.DeepEqual(bl.Members, want) {
		t.Errorf("Members = %v, want %v", bl.Members, want)
	}
	if len(bl.Steps) == 0 {
		t.Fatal("no steps recorded")
	}
	if first := bl.Steps[0]; !first.Grow || first.Gene != gX || !first.Kept {
		t.Errorf("first step = %+v, want X admitted", first)
	}
	dropped := false
	for _, s := range bl.Steps {
		if !s.Grow && s.Gene == gX && !s.Kept {
			dropped = true
		}
	}
	if !dropped {
		t.Error("X should be dropped in the backward phase")
	}
}

func TestIAMBTargetOutOfRange(t *testing.T) {
	tester := gaussci.NewTester(corrFromDAG(2, nil), 100, 0.01)
	if _, err := IAMB(tester, 2, 5); err == nil {
		t.Error("out-of-range target should fail")
	}
}

func TestCrossValidateExactModel(t *testing.T) {
	// The response is an exact linear function of gene A, so every
	// held-out fold is predicted perfectly.
	m := &dataset.Matrix{
		Genes:   []string{"A", "B", "Y"},
		Samples: 8,
		Cols: [][]float64{
			{1, 2, 3, 4, 5, 6, 7, 8},
			{1, 4, 9, 16, 25, 36, 49, 64},
			{2, 4, 6, 8, 10, 12, 14, 16},
		},
	}
	cv, err := CrossValidate(m, 2, []int{0}, 2, 1)
	if err != nil {
		t.Fatalf("CrossValidate: %v", err)
	}
	if cv.K != 2 || len(cv.FoldR2) != 2 {
		t.Fatalf("K = %d with %d folds", cv.K, len(cv.FoldR2))
	}
	for i, r2 := range cv.FoldR2 {
		if math.Abs(r2-1) > 1e-9 {
			t.Errorf("FoldR2[%d] = %v, want 1", i, r2)
		}
	}
	if math.Abs(cv.Mean-1) > 1e-9 {
		t.Errorf("Mean = %v, want 1", cv.Mean)
	}
}

func TestCompareUsesSameFolds(t *testing.T) {
	m := &dataset.Matrix{
		Genes:   []string{"A", "B", "Y"},
		Samples: 8,
		Cols: [][]float64{
			{1, 2, 3, 4, 5, 6, 7, 8},
			{1, 4, 9, 16, 25, 36, 49, 64},
			{2, 4, 6, 8, 10, 12, 14, 16},
		},
	}
	blanketCV, fullCV, err := Compare(m, 2, []int{0}, 2, 1)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if blanketCV.K != 2 || fullCV.K != 2 {
		t.Error("both models should use the configured fold count")
	}
	// Both models contain the true predictor, so both are exact.
	if math.Abs(blanketCV.Mean-1) > 1e-9 || math.Abs(fullCV.Mean-1) > 1e-9 {
		t.Errorf("Mean = (%v, %v), want (1, 1)", blanketCV.Mean, fullCV.Mean)
	}
}
