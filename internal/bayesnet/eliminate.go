// Copyright Jei Raju, 2026. All rights reserved.

package bayesnet

import (
	"errors"
	"fmt"
)

// ErrImpossibleEvidence reports a query whose evidence has zero
// probability under the network, which leaves nothing to normalize.
var ErrImpossibleEvidence = errors.New("bayesnet: evidence has zero probability")

// Query computes the posterior distribution of the target variable
// given evidence, by variable elimination with a greedy smallest-scope
// ordering. The result is aligned with the target's state list.
//
// Per prd006 R3.1, evidence is applied by table reduction before any
// elimination, so the factors only ever shrink.
func (n *Network) Query(target int, evidence map[int]int) ([]float64, error) {
	if target < 0 || target >= len(n.Variables) {
		return nil, fmt.Errorf("target %d out of range", target)
	}
	if _, ok := evidence[target]; ok {
		return nil, fmt.Errorf("target %s is also evidence", n.Variables[target].Name)
	}
	for v, s := range evidence {
		if v < 0 || v >= len(n.Variables) {
			return nil, fmt.Errorf("evidence variable %d out of range", v)
		}
		if s < 0 || s >= len(n.Variables[v].States) {
			return nil, fmt.Errorf("evidence state %d out of range for %s", s, n.Variables[v].Name)
		}
	}

	factors := make([]factor, 0, len(n.Variables))
	for v := range n.Variables {
		f := fromCPT(n, v)
		for ev, state := range evidence {
			f = f.reduce(ev, state)
		}
		factors = append(factors, f)
	}

	// Eliminate everything but the target; evidence variables are
	// already gone from every scope.
	remaining := make(map[int]bool)
	for v := range n.Variables {
		if v == target {
			continue
		}
		if _, isEv := evidence[v]; !isEv {
			remaining[v] = true
		}
	}
	for len(remaining) > 0 {
		v := pickSmallestScope(factors, remaining)
		factors = eliminate(factors, v)
		delete(remaining, v)
	}

	result := factor{}
	result.vals = []float64{1}
	for _, f := range factors {
		result = product(result, f)
	}
	dist, ok := result.normalize()
	if !ok {
		return nil, ErrImpossibleEvidence
	}
	if len(dist) != len(n.Variables[target].States) {
		return nil, fmt.Errorf("internal: posterior has %d entries for %d states", len(dist), len(n.Variables[target].States))
	}
	return dist, nil
}

// QueryByName resolves variable and state names, then queries.
// Evidence maps variable name to state name.
func (n *Network) QueryByName(target string, evidence map[string]string) ([]float64, error) {
	ti, ok := n.Index(target)
	if !ok {
		return nil, fmt.Errorf("unknown variable %s", target)
	}
	ev := make(map[int]int, len(evidence))
	for name, state := range evidence {
		vi, ok := n.Index(name)
		if !ok {
			return nil, fmt.Errorf("unknown evidence variable %s", name)
		}
		si, ok := n.stateIndex(vi, state)
		if !ok {
			return nil, fmt.Errorf("variable %s has no state %s", name, state)
		}
		ev[vi] = si
	}
	return n.Query(ti, ev)
}

// pickSmallestScope returns the candidate whose elimination touches
// the smallest combined scope, ties to the lowest index.
func pickSmallestScope(factors []factor, candidates map[int]bool) int {
	best, bestSize := -1, -1
	for v := range candidates {
		scope := make(map[int]bool)
		involved := false
		for _, f := range factors {
			if indexIn(f.vars, v) < 0 {
				continue
			}
			involved = true
			for _, x := range f.vars {
				scope[x] = true
			}
		}
		size := len(scope)
		if !involved {
			size = 0
		}
		if best < 0 || size < bestSize || (size == bestSize && v < best) {
			best, bestSize = v, size
		}
	}
	return best
}

// eliminate multiplies every factor containing v and sums v out.
func eliminate(factors []factor, v int) []factor {
	var kept []factor
	combined := factor{vals: []float64{1}}
	touched := false
	for _, f := range factors {
		if indexIn(f.vars, v) < 0 {
			kept = append(kept, f)
			continue
		}
		combined = product(combined, f)
		touched = true
	}
	if !touched {
		return kept
	}
	return append(kept, combined.sumOut(v))
}
