// Copyright Jei Raju, 2026. All rights reserved.

package dataset

import (
	"testing"
)

func TestNewFoldsPartition(t *testing.T) {
	const n, k = 17, 5
	f, err := NewFolds(n, k, 42)
	if err != nil {
		t.Fatalf("NewFolds: %v", err)
	}

	seen := make(map[int]int)
	for fold := 0; fold < k; fold++ {
		train, test := f.Split(fold)
		if len(test) == 0 {
			t.Errorf("fold %d is empty", fold)
		}
		if len(train)+len(test) != n {
			t.Errorf("fold %d: train+test = %d, want %d", fold, len(train)+len(test), n)
		}
		for _, s := range test {
			seen[s]++
		}
		// Fold sizes differ by at most one.
		if len(test) < n/k || len(test) > n/k+1 {
			t.Errorf("fold %d size = %d, want %d or %d", fold, len(test), n/k, n/k+1)
		}
	}
	// Every sample appears in exactly one test fold.
	if len(seen) != n {
		t.Fatalf("covered %d samples, want %d", len(seen), n)
	}
	for s, c := range seen {
		if c != 1 {
			t.Errorf("sample %d appears in %d test folds", s, c)
		}
	}
}

func TestNewFoldsDeterministic(t *testing.T) {
	f1, err := NewFolds(20, 4, 7)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := NewFolds(20, 4, 7)
	if err != nil {
		t.Fatal(err)
	}
	for fold := 0; fold < 4; fold++ {
		_, t1 := f1.Split(fold)
		_, t2 := f2.Split(fold)
		if len(t1) != len(t2) {
			t.Fatalf("fold %d sizes differ", fold)
		}
		for i := range t1 {
			if t1[i] != t2[i] {
				t.Errorf("fold %d differs at %d: %d vs %d", fold, i, t1[i], t2[i])
			}
		}
	}

	// A different seed must give a different assignment somewhere.
	f3, err := NewFolds(20, 4, 8)
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for fold := 0; fold < 4 && same; fold++ {
		_, t1 := f1.Split(fold)
		_, t3 := f3.Split(fold)
		if len(t1) != len(t3) {
			same = false
			break
		}
		for i := range t1 {
			if t1[i] != t3[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("seeds 7 and 8 produced identical folds")
	}
}

func TestNewFoldsRejectsBadCounts(t *testing.T) {
	if _, err := NewFolds(10, 1, 1); err == nil {
		t.Error("k=1 should fail")
	}
	if _, err := NewFolds(3, 5, 1); err == nil {
		t.Error("k>n should fail")
	}
}

func TestSubset(t *testing.T) {
	cols := [][]float64{{10, 11, 12, 13}, {20, 21, 22, 23}}
	sub := Subset(cols, []int{1, 3})
	if len(sub) != 2 || len(sub[0]) != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", len(sub), len(sub[0]))
	}
	if sub[0][0] != 11 || sub[0][1] != 13 || sub[1][0] != 21 || sub[1][1] != 23 {
		t.Errorf("Subset = %v", sub)
	}
}
