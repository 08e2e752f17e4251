// Copyright Jei Raju, 2026. All rights reserved.

package pdag

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

var names = []string{"A", "B", "C", "D"}

func TestNewComplete(t *testing.T) {
	g := NewComplete(names)
	directed, undirected := g.EdgeCount()
	if directed != 0 || undirected != 6 {
		t.Fatalf("EdgeCount = (%d, %d), want (0, 6)", directed, undirected)
	}
	for i := 0; i < g.Len(); i++ {
		for j := i + 1; j < g.Len(); j++ {
			if !g.HasUndirected(i, j) || !g.HasUndirected(j, i) {
				t.Errorf("missing undirected edge %d - %d", i, j)
			}
		}
	}
}

func TestOrient(t *testing.T) {
	g := NewComplete(names)
	if err := g.Orient(0, 1); err != nil {
		t.Fatalf("Orient: %v", err)
	}
	if !g.HasDirected(0, 1) {
		t.Error("0 -> 1 not set")
	}
	if g.HasDirected(1, 0) || g.HasUndirected(0, 1) {
		t.Error("mirror state inconsistent")
	}

	// Re-orienting a directed edge and orienting a missing edge both
	// fail.
	if err := g.Orient(1, 0); !errors.Is(err, ErrNotUndirected) {
		t.Errorf("err = %v, want ErrNotUndirected", err)
	}
	g.RemoveEdge(2, 3)
	if err := g.Orient(2, 3); !errors.Is(err, ErrNotUndirected) {
		t.Errorf("err = %v, want ErrNotUndirected", err)
	}
}

func TestAdjacencySets(t *testing.T) {
	g := NewEmpty(names)
	g.SetUndirected(0, 1)
	g.SetDirected(2, 1)
	g.SetDirected(1, 3)

	if got := g.Adj(1); !reflect.DeepEqual(got, []int{0, 2, 3}) {
		t.Errorf("Adj(1) = %v", got)
	}
	if got := g.UndirectedAdj(1); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("UndirectedAdj(1) = %v", got)
	}
	if got := g.Parents(1); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("Parents(1) = %v", got)
	}
	if got := g.Children(1); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("Children(1) = %v", got)
	}
	if got := g.Parents(0); got != nil {
		t.Errorf("Parents(0) = %v, want nil", got)
	}
}

func TestEdgesDeterministic(t *testing.T) {
	g := NewEmpty(names)
	g.SetDirected(2, 1)
	g.SetUndirected(0, 1)
	g.SetDirected(0, 3)

	want := []Edge{
		{From: 0, To: 1},
		{From: 0, To: 3, Directed: true},
		{From: 2, To: 1, Directed: true},
	}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges = %v, want %v", got, want)
	}
}

func TestClone(t *testing.T) {
	g := NewComplete(names)
	c := g.Clone()
	c.RemoveEdge(0, 1)
	if !g.HasUndirected(0, 1) {
		t.Error("mutating clone changed original")
	}
	if err := c.Orient(2, 3); err != nil {
		t.Fatal(err)
	}
	if g.HasDirected(2, 3) {
		t.Error("mutating clone changed original")
	}
}

func TestWriteDOT(t *testing.T) {
	g := NewEmpty([]string{"A", "B", "C"})
	g.SetUndirected(0, 1)
	g.SetDirected(2, 1)

	var buf bytes.Buffer
	err := g.WriteDOT(&buf, DOTOptions{Label: "skeleton", Highlight: []string{"A"}})
	if err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`label="skeleton";`,
		`"A" [style=filled, fillcolor=lightsteelblue];`,
		`"A" -> "B" [dir=none];`,
		`"C" -> "B";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
