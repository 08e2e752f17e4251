// Copyright Jei Raju, 2026. All rights reserved.

// Package pdag provides a partially directed graph over a fixed set of
// named variables. The structure search starts from a complete
// undirected graph, thins it to a skeleton, and orients edges in
// place, so the same type serves as skeleton, CPDAG, and intermediate
// mixed graph.
//
// Implements: prd003-structure (R1); docs/ARCHITECTURE.md § Graphs.
package pdag

import (
	"errors"
	"fmt"
)

// ErrNotUndirected reports an attempt to orient an edge that is absent
// or already directed.
var ErrNotUndirected = errors.New("pdag: edge is not undirected")

// mark describes one endpoint's view of an edge. marks[i][j] == markOut
// means i -> j, and the mirror entry marks[j][i] is then markIn.
type mark uint8

const (
	markNone mark = iota
	markUndirected
	markOut
	markIn
)

// Edge is one edge in deterministic listing order. For undirected
// edges From < To.
type Edge struct {
	From, To int
	Directed bool
}

// Graph is a partially directed graph over len(names) variables.
// Methods index variables by position in the name list.
type Graph struct {
	names []string
	marks [][]mark
}

// NewEmpty returns a graph with the given variables and no edges.
func NewEmpty(names []string) *Graph {
	n := len(names)
	g := &Graph{names: append([]string(nil), names...), marks: make([][]mark, n)}
	for i := range g.marks {
		g.marks[i] = make([]mark, n)
	}
	return g
}

// NewComplete returns a graph with an undirected edge between every
// pair of variables.
func NewComplete(names []string) *Graph {
	g := NewEmpty(names)
	for i := 0; i < len(g.names); i++ {
		for j := i + 1; j < len(g.names); j++ {
			g.SetUndirected(i, j)
		}
	}
	return g
}

// Len returns the number of variables.
func (g *Graph) Len() int { return len(g.names) }

// Name returns the name of variable i.
func (g *Graph) Name(i int) string { return g.names[i] }

// Names returns a copy of the variable names in index order.
func (g *Graph) Names() []string {
	return append([]string(nil), g.names...)
}

// HasEdge reports whether any edge joins i and j.
func (g *Graph) HasEdge(i, j int) bool {
	return g.marks[i][j] != markNone
}

// HasUndirected reports whether i - j is undirected.
func (g *Graph) HasUndirected(i, j int) bool {
	return g.marks[i][j] == markUndirected
}

// HasDirected reports whether the directed edge i -> j is present.
func (g *Graph) HasDirected(i, j int) bool {
	return g.marks[i][j] == markOut
}

// SetUndirected places an undirected edge between i and j, replacing
// any existing edge.
func (g *Graph) SetUndirected(i, j int) {
	g.marks[i][j] = markUndirected
	g.marks[j][i] = markUndirected
}

// SetDirected places the directed edge i -> j, replacing any existing
// edge between the pair.
func (g *Graph) SetDirected(i, j int) {
	g.marks[i][j] = markOut
	g.marks[j][i] = markIn
}

// RemoveEdge deletes whatever edge joins i and j.
func (g *Graph) RemoveEdge(i, j int) {
	g.marks[i][j] = markNone
	g.marks[j][i] = markNone
}

// Orient turns the undirected edge i - j into i -> j. It fails if the
// pair is not joined by an undirected edge.
func (g *Graph) Orient(i, j int) error {
	if g.marks[i][j] != markUndirected {
		return fmt.Errorf("%w: %s, %s", ErrNotUndirected, g.names[i], g.names[j])
	}
	g.SetDirected(i, j)
	return nil
}

// Adj returns all variables joined to i by any edge, ascending.
func (g *Graph) Adj(i int) []int {
	var out []int
	for j, m := range g.marks[i] {
		if m != markNone {
			out = append(out, j)
		}
	}
	return out
}

// UndirectedAdj returns the variables joined to i by an undirected
// edge, ascending.
func (g *Graph) UndirectedAdj(i int) []int {
	var out []int
	for j, m := range g.marks[i] {
		if m == markUndirected {
			out = append(out, j)
		}
	}
	return out
}

// Parents returns the variables with a directed edge into i,
// ascending.
func (g *Graph) Parents(i int) []int {
	var out []int
	for j, m := range g.marks[i] {
		if m == markIn {
			out = append(out, j)
		}
	}
	return out
}

// Children returns the variables i points to, ascending.
func (g *Graph) Children(i int) []int {
	var out []int
	for j, m := range g.marks[i] {
		if m == markOut {
			out = append(out, j)
		}
	}
	return out
}

// Edges lists all edges in deterministic order: pairs scanned with
// i < j, directed edges reported tail first.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for i := 0; i < len(g.names); i++ {
		for j := i + 1; j < len(g.names); j++ {
			switch g.marks[i][j] {
			case markUndirected:
				out = append(out, Edge{From: i, To: j})
			case markOut:
				out = append(out, Edge{From: i, To: j, Directed: true})
			case markIn:
				out = append(out, Edge{From: j, To: i, Directed: true})
			}
		}
	}
	return out
}

// EdgeCount returns the number of directed and undirected edges.
func (g *Graph) EdgeCount() (directed, undirected int) {
	for _, e := range g.Edges() {
		if e.Directed {
			directed++
		} else {
			undirected++
		}
	}
	return directed, undirected
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := NewEmpty(g.names)
	for i := range g.marks {
		copy(c.marks[i], g.marks[i])
	}
	return c
}
