// Copyright Jei Raju, 2026. All rights reserved.

package bayesnet

import "sort"

// factor is a nonnegative table over a sorted set of variables, laid
// out row-major with the first variable varying slowest. A factor with
// no variables is a scalar weight.
type factor struct {
	vars []int
	card []int
	vals []float64
}

// fromCPT turns variable v's table into a factor over parents plus v.
// The CPT row-major layout matches the factor layout directly.
func fromCPT(n *Network, v int) factor {
	parents := n.parentIndices(v)
	vars := append(parents, v)
	card := make([]int, len(vars))
	size := 1
	for i, x := range vars {
		card[i] = len(n.Variables[x].States)
		size *= card[i]
	}
	vals := make([]float64, 0, size)
	for _, row := range n.Variables[v].CPT {
		vals = append(vals, row...)
	}
	return normalizeScope(factor{vars: vars, card: card, vals: vals})
}

// normalizeScope reorders a factor's variables ascending so scopes
// compare and merge cheaply.
func normalizeScope(f factor) factor {
	sorted := true
	for i := 1; i < len(f.vars); i++ {
		if f.vars[i-1] > f.vars[i] {
			sorted = false
			break
		}
	}
	if sorted {
		return f
	}
	vars := append([]int(nil), f.vars...)
	sort.Ints(vars)
	card := make([]int, len(vars))
	pos := make([]int, len(f.vars))
	for k, v := range f.vars {
		pos[k] = indexIn(vars, v)
		card[pos[k]] = f.card[k]
	}
	out := factor{vars: vars, card: card, vals: make([]float64, len(f.vals))}
	assign := make([]int, len(vars))
	for i := range out.vals {
		out.vals[i] = f.vals[f.indexOf(assign, pos)]
		next(assign, card)
	}
	return out
}

// indexOf maps an assignment over a superset scope to this factor's
// flat index. pos[k] is the superset position of f.vars[k].
func (f factor) indexOf(assign []int, pos []int) int {
	idx := 0
	for k := range f.vars {
		idx = idx*f.card[k] + assign[pos[k]]
	}
	return idx
}

// product multiplies two factors over the union of their scopes.
func product(a, b factor) factor {
	vars, card := unionScope(a, b)
	out := factor{vars: vars, card: card, vals: make([]float64, sizeOf(card))}
	posA := positions(a.vars, vars)
	posB := positions(b.vars, vars)
	assign := make([]int, len(vars))
	for i := range out.vals {
		out.vals[i] = a.vals[a.indexOf(assign, posA)] * b.vals[b.indexOf(assign, posB)]
		next(assign, card)
	}
	return out
}

// sumOut marginalizes v away.
func (f factor) sumOut(v int) factor {
	p := indexIn(f.vars, v)
	if p < 0 {
		return f
	}
	out := f.without(p)
	pos := dropPositions(len(f.vars), p)
	assign := make([]int, len(f.vars))
	for i := range f.vals {
		out.vals[f.project(assign, pos, out.card)] += f.vals[i]
		next(assign, f.card)
	}
	return out
}

// reduce fixes v to state and drops it from the scope.
func (f factor) reduce(v, state int) factor {
	p := indexIn(f.vars, v)
	if p < 0 {
		return f
	}
	out := f.without(p)
	pos := dropPositions(len(f.vars), p)
	assign := make([]int, len(f.vars))
	for i := range f.vals {
		if assign[p] == state {
			out.vals[f.project(assign, pos, out.card)] = f.vals[i]
		}
		next(assign, f.card)
	}
	return out
}

// normalize scales the table to sum to one. It reports false when the
// total mass is zero.
func (f factor) normalize() ([]float64, bool) {
	sum := 0.0
	for _, v := range f.vals {
		sum += v
	}
	if sum <= 0 {
		return nil, false
	}
	out := make([]float64, len(f.vals))
	for i, v := range f.vals {
		out[i] = v / sum
	}
	return out, true
}

// without returns an empty factor shaped like f minus position p.
func (f factor) without(p int) factor {
	vars := make([]int, 0, len(f.vars)-1)
	card := make([]int, 0, len(f.vars)-1)
	for i := range f.vars {
		if i != p {
			vars = append(vars, f.vars[i])
			card = append(card, f.card[i])
		}
	}
	return factor{vars: vars, card: card, vals: make([]float64, sizeOf(card))}
}

// project maps a full assignment to the flat index of the scope with
// one position dropped. keep[k] is the source position of output
// variable k.
func (f factor) project(assign []int, keep []int, card []int) int {
	idx := 0
	for k := range keep {
		idx = idx*card[k] + assign[keep[k]]
	}
	return idx
}

func dropPositions(n, p int) []int {
	out := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != p {
			out = append(out, i)
		}
	}
	return out
}

func unionScope(a, b factor) (vars, card []int) {
	i, j := 0, 0
	for i < len(a.vars) || j < len(b.vars) {
		switch {
		case j >= len(b.vars) || (i < len(a.vars) && a.vars[i] < b.vars[j]):
			vars = append(vars, a.vars[i])
			card = append(card, a.card[i])
			i++
		case i >= len(a.vars) || a.vars[i] > b.vars[j]:
			vars = append(vars, b.vars[j])
			card = append(card, b.card[j])
			j++
		default:
			vars = append(vars, a.vars[i])
			card = append(card, a.card[i])
			i++
			j++
		}
	}
	return vars, card
}

// positions maps each of sub to its index in super. Both are sorted
// and sub is a subset of super.
func positions(sub, super []int) []int {
	out := make([]int, len(sub))
	j := 0
	for i, v := range sub {
		for super[j] != v {
			j++
		}
		out[i] = j
	}
	return out
}

func indexIn(vars []int, v int) int {
	for i, x := range vars {
		if x == v {
			return i
		}
	}
	return -1
}

func sizeOf(card []int) int {
	size := 1
	for _, c := range card {
		size *= c
	}
	return size
}

// next advances a row-major assignment, first variable slowest.
func next(assign, card []int) {
	for i := len(assign) - 1; i >= 0; i-- {
		assign[i]++
		if assign[i] < card[i] {
			return
		}
		assign[i] = 0
	}
}
