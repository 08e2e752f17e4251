// Copyright Jei Raju, 2026. All rights reserved.

// Package ida estimates bounds on total causal effects from a CPDAG
// using the local adjustment method: for every locally valid way of
// orienting the undirected edges at the cause, regress the effect on
// the cause and the implied parent set. The multiset of coefficients
// brackets the effect that any DAG in the equivalence class would
// give.
//
// Implements: prd004-effects (R1-R3); docs/ARCHITECTURE.md § Causal
// effects.
package ida

import (
	"fmt"
	"sort"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/dataset"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/linreg"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/pdag"
)

// Effects is the multiset of possible total effects of Cause on
// Effect, one entry per locally valid parent set.
type Effects struct {
	Cause, Effect int

	// Values[i] is the regression coefficient of the cause when
	// adjusting for ParentSets[i]. A zero is recorded when the effect
	// variable itself lands in the parent set.
	Values     []float64
	ParentSets [][]int
}

// MinAbs returns the smallest absolute effect across the valid parent
// sets, the usual summary bound.
func (e *Effects) MinAbs() float64 {
	if len(e.Values) == 0 {
		return 0
	}
	min := e.Values[0]
	if min < 0 {
		min = -min
	}
	for _, v := range e.Values[1:] {
		if v < 0 {
			v = -v
		}
		if v < min {
			min = v
		}
	}
	return min
}

// Range returns the smallest and largest signed effect.
func (e *Effects) Range() (lo, hi float64) {
	if len(e.Values) == 0 {
		return 0, 0
	}
	lo, hi = e.Values[0], e.Values[0]
	for _, v := range e.Values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Estimate computes the possible effects of cause on effect under the
// given CPDAG, using the raw expression columns for the regressions.
//
// Per prd004 R1.2, a subset of the cause's undirected neighbors is a
// valid adoption when its members are pairwise adjacent and each is
// adjacent to every existing parent; anything else would orient a new
// collider at the cause.
func Estimate(g *pdag.Graph, m *dataset.Matrix, cause, effect int) (*Effects, error) {
	if cause == effect {
		return nil, fmt.Errorf("cause and effect are both %s", g.Name(cause))
	}
	pa := g.Parents(cause)
	sibs := g.UndirectedAdj(cause)

	eff := &Effects{Cause: cause, Effect: effect}
	for mask := 0; mask < 1<<uint(len(sibs)); mask++ {
		adopted := pick(sibs, mask)
		if !validAdoption(g, pa, adopted) {
			continue
		}
		parents := merged(pa, adopted)

		var value float64
		if containsInt(parents, effect) {
			value = 0
		} else {
			cols := make([][]float64, 0, 1+len(parents))
			cols = append(cols, m.Cols[cause])
			for _, p := range parents {
				cols = append(cols, m.Cols[p])
			}
			coef, err := linreg.Fit(m.Cols[effect], cols)
			if err != nil {
				return nil, fmt.Errorf("effect of %s on %s adjusting for %d parents: %w",
					g.Name(cause), g.Name(effect), len(parents), err)
			}
			value = coef[1]
		}
		eff.Values = append(eff.Values, value)
		eff.ParentSets = append(eff.ParentSets, parents)
	}
	return eff, nil
}

// RankCauses estimates the possible effects of every other gene on
// target and returns them sorted by MinAbs descending, ties broken by
// gene index.
func RankCauses(g *pdag.Graph, m *dataset.Matrix, target int) ([]*Effects, error) {
	out := make([]*Effects, 0, g.Len()-1)
	for cause := 0; cause < g.Len(); cause++ {
		if cause == target {
			continue
		}
		eff, err := Estimate(g, m, cause, target)
		if err != nil {
			return nil, err
		}
		out = append(out, eff)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].MinAbs(), out[j].MinAbs()
		if a != b {
			return a > b
		}
		return out[i].Cause < out[j].Cause
	})
	return out, nil
}

// validAdoption reports whether directing the adopted siblings into
// the cause leaves the cause collider-free.
func validAdoption(g *pdag.Graph, pa, adopted []int) bool {
	for i := 0; i < len(adopted); i++ {
		for j := i + 1; j < len(adopted); j++ {
			if !g.HasEdge(adopted[i], adopted[j]) {
				return false
			}
		}
		for _, p := range pa {
			if !g.HasEdge(adopted[i], p) {
				return false
			}
		}
	}
	return true
}

func pick(set []int, mask int) []int {
	var out []int
	for i, v := range set {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, v)
		}
	}
	return out
}

func merged(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	sort.Ints(out)
	return out
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
