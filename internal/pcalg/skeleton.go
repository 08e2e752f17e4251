// Copyright Jei Raju, 2026. All rights reserved.

package pcalg

import (
	"fmt"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/gaussci"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/pdag"
)

// buildSkeleton thins the complete graph by removing every edge whose
// endpoints test independent given some subset of a neighborhood.
//
// Per prd003 R2.2, conditioning sets of size L are drawn from the
// current adjacency of the first endpoint minus the second, for both
// orderings of the pair, and L grows until no adjacency set is large
// enough or the configured cap is reached.
func buildSkeleton(tester *gaussci.Tester, names []string, cfg Config) (*pdag.Graph, SepSets, error) {
	g := pdag.NewComplete(names)
	sep := make(SepSets)
	n := g.Len()

	for level := 0; cfg.MaxCond < 0 || level <= cfg.MaxCond; level++ {
		// Adjacency snapshot for the stable variant. The classic
		// variant reads the live graph instead.
		frozen := make([][]int, n)
		anyPair := false
		for i := 0; i < n; i++ {
			frozen[i] = g.Adj(i)
			if len(frozen[i])-1 >= level {
				anyPair = true
			}
		}
		if !anyPair {
			break
		}

		var testErr error
		for x := 0; x < n && testErr == nil; x++ {
			for _, y := range frozen[x] {
				if !g.HasEdge(x, y) {
					continue
				}
				base := frozen[x]
				if !cfg.Stable {
					base = g.Adj(x)
				}
				cand := exclude(base, y)
				if len(cand) < level {
					continue
				}
				combinations(cand, level, func(s []int) bool {
					res, err := tester.Test(x, y, s)
					if err != nil {
						testErr = fmt.Errorf("testing %s, %s given %v: %w", names[x], names[y], s, err)
						return true
					}
					if res.Independent {
						g.RemoveEdge(x, y)
						sep.put(x, y, s)
						return true
					}
					return false
				})
				if testErr != nil {
					break
				}
			}
		}
		if testErr != nil {
			return nil, nil, testErr
		}

		_, undirected := g.EdgeCount()
		fmt.Fprintf(cfg.Progress, "level %d: %d tests so far, %d edges remain\n", level, tester.Tests(), undirected)
	}
	return g, sep, nil
}

// exclude returns set without v, preserving order.
func exclude(set []int, v int) []int {
	out := make([]int, 0, len(set))
	for _, x := range set {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// combinations calls f with every k-element subset of set in
// lexicographic order until f returns true. The slice passed to f is
// reused between calls. It reports whether f stopped the enumeration.
func combinations(set []int, k int, f func([]int) bool) bool {
	if k == 0 {
		return f(nil)
	}
	if k > len(set) {
		return false
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	buf := make([]int, k)
	for {
		for i, x := range idx {
			buf[i] = set[x]
		}
		if f(buf) {
			return true
		}
		i := k - 1
		for i >= 0 && idx[i] == len(set)-k+i {
			i--
		}
		if i < 0 {
			return false
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
