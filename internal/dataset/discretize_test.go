// Copyright Jei Raju, 2026. All rights reserved.

package dataset

import (
	"strings"
	"testing"
)

func TestDiscretizeMedianSplit(t *testing.T) {
	m, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	d, err := m.DiscretizeQuantile(2)
	if err != nil {
		t.Fatalf("DiscretizeQuantile: %v", err)
	}

	if len(d.Levels) != 2 || d.Levels[0] != "low" || d.Levels[1] != "high" {
		t.Errorf("Levels = %v", d.Levels)
	}

	// A = 1,2,3,4: median cut 2 → low,low,high,high.
	wantA := []int{0, 0, 1, 1}
	colA, err := d.Column("A")
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range wantA {
		if colA[i] != w {
			t.Errorf("A[%d] = %d, want %d", i, colA[i], w)
		}
	}

	// C = 5,1,4,2: sorted 1,2,4,5, cut 2 → high,low,high,low.
	wantC := []int{1, 0, 1, 0}
	colC, err := d.Column("C")
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range wantC {
		if colC[i] != w {
			t.Errorf("C[%d] = %d, want %d", i, colC[i], w)
		}
	}
}

func TestDiscretizeTertiles(t *testing.T) {
	csv := "A,B\n1,6\n2,5\n3,4\n4,3\n5,2\n6,1\n"
	m, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	d, err := m.DiscretizeQuantile(3)
	if err != nil {
		t.Fatalf("DiscretizeQuantile: %v", err)
	}

	// A = 1..6: cuts at 2 and 4 → low,low,mid,mid,high,high.
	want := []int{0, 0, 1, 1, 2, 2}
	colA, err := d.Column("A")
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range want {
		if colA[i] != w {
			t.Errorf("A[%d] = %d, want %d", i, colA[i], w)
		}
	}
	if d.StateName(0) != "low" || d.StateName(1) != "mid" || d.StateName(2) != "high" {
		t.Errorf("state names = %v", d.Levels)
	}
}

func TestDiscretizeRejectsEmptyLevel(t *testing.T) {
	// B's median equals its maximum, so the high level would be empty.
	csv := "A,B\n1,1\n2,2\n3,2\n4,2\n"
	m, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	_, err = m.DiscretizeQuantile(2)
	if err == nil {
		t.Fatal("expected empty-level error")
	}
	if !strings.Contains(err.Error(), "gene B") {
		t.Errorf("error should name gene B, got: %v", err)
	}
}

func TestDiscretizeRejectsBadLevelCount(t *testing.T) {
	m, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	for _, levels := range []int{0, 1, 4} {
		if _, err := m.DiscretizeQuantile(levels); err == nil {
			t.Errorf("DiscretizeQuantile(%d) should fail", levels)
		}
	}
}
