// Copyright Jei Raju, 2026. All rights reserved.

package pcalg

import (
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/pdag"
)

// orientVStructures finds every unshielded triple a - c - b whose
// separating set excludes c and orients both arms toward c.
//
// Per prd003 R3.2, when two triples disagree about an arm the earlier
// orientation stands, so the pass never produces a bidirected edge.
func orientVStructures(g *pdag.Graph, sep SepSets) []VStructure {
	var found []VStructure
	for c := 0; c < g.Len(); c++ {
		adj := g.Adj(c)
		for ai := 0; ai < len(adj); ai++ {
			for bi := ai + 1; bi < len(adj); bi++ {
				a, b := adj[ai], adj[bi]
				if g.HasEdge(a, b) {
					continue
				}
				s, ok := sep.Get(a, b)
				if !ok || containsInt(s, c) {
					continue
				}
				found = append(found, VStructure{A: a, B: b, Collider: c})
				if g.HasUndirected(a, c) {
					g.SetDirected(a, c)
				}
				if g.HasUndirected(b, c) {
					g.SetDirected(b, c)
				}
			}
		}
	}
	return found
}

// applyMeek repeats the three Meek rules until none fires, so every
// edge whose direction is compelled by the colliders becomes directed.
// Rule four needs background knowledge to trigger and this search has
// none, so it is omitted.
func applyMeek(g *pdag.Graph) int {
	oriented := 0
	n := g.Len()
	for changed := true; changed; {
		changed = false

		// R1: a -> b with b - c and a, c nonadjacent directs b -> c,
		// otherwise the triple would be a new collider.
		for b := 0; b < n; b++ {
			for _, a := range g.Parents(b) {
				for _, c := range g.UndirectedAdj(b) {
					if c == a || g.HasEdge(a, c) {
						continue
					}
					g.SetDirected(b, c)
					oriented++
					changed = true
				}
			}
		}

		// R2: a -> k -> b with a - b directs a -> b, otherwise the
		// graph would admit a cycle.
		for a := 0; a < n; a++ {
			for _, b := range g.UndirectedAdj(a) {
				for _, k := range g.Children(a) {
					if g.HasDirected(k, b) {
						g.SetDirected(a, b)
						oriented++
						changed = true
						break
					}
				}
			}
		}

		// R3: a - b with a - c -> b, a - d -> b and c, d nonadjacent
		// directs a -> b.
		for a := 0; a < n; a++ {
			for _, b := range g.UndirectedAdj(a) {
				sibs := g.UndirectedAdj(a)
				done := false
				for ci := 0; ci < len(sibs) && !done; ci++ {
					for di := ci + 1; di < len(sibs) && !done; di++ {
						c, d := sibs[ci], sibs[di]
						if c == b || d == b {
							continue
						}
						if !g.HasDirected(c, b) || !g.HasDirected(d, b) {
							continue
						}
						if g.HasEdge(c, d) {
							continue
						}
						g.SetDirected(a, b)
						oriented++
						changed = true
						done = true
					}
				}
			}
		}
	}
	return oriented
}
