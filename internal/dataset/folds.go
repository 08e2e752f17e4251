// Copyright Jei Raju, 2026. All rights reserved.

package dataset

import (
	"fmt"
	"math/rand"
)

// Folds is a deterministic k-fold partition of sample indices (R4.1).
type Folds struct {
	// K is the fold count.
	K int

	assign []int // sample index → fold number
}

// NewFolds partitions n samples into k folds using a seeded shuffle.
// Fold sizes differ by at most one, and every fold is nonempty (R4.2).
func NewFolds(n, k int, seed int64) (Folds, error) {
	if k < 2 {
		return Folds{}, fmt.Errorf("fold count %d: need at least 2", k)
	}
	if k > n {
		return Folds{}, fmt.Errorf("fold count %d exceeds sample count %d", k, n)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	assign := make([]int, n)
	for pos, sample := range perm {
		assign[sample] = pos % k
	}
	return Folds{K: k, assign: assign}, nil
}

// Split returns the train and test sample indices for one fold, both in
// ascending order.
func (f Folds) Split(fold int) (train, test []int) {
	for i, a := range f.assign {
		if a == fold {
			test = append(test, i)
		} else {
			train = append(train, i)
		}
	}
	return train, test
}

// Subset extracts the given samples of the given columns into dense
// slices, one per column. Used by the cross-validated predictive check.
func Subset(cols [][]float64, samples []int) [][]float64 {
	out := make([][]float64, len(cols))
	for c, col := range cols {
		sub := make([]float64, len(samples))
		for i, s := range samples {
			sub[i] = col[s]
		}
		out[c] = sub
	}
	return out
}
