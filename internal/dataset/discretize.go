// Copyright Jei Raju, 2026. All rights reserved.

package dataset

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Level names for the supported discretizations (R2.2).
var (
	twoLevelNames   = []string{"low", "high"}
	threeLevelNames = []string{"low", "mid", "high"}
)

// Discretized is an integer-level view of the matrix: one level value in
// [0, len(Levels)) per cell. Produced by DiscretizeQuantile.
type Discretized struct {
	// Genes lists the gene symbols in matrix order.
	Genes []string

	// Levels names the discrete states, lowest first.
	Levels []string

	// Cols holds one level column per gene.
	Cols [][]int

	// Cuts holds the per-gene quantile cut points (len(Levels)-1 each).
	Cuts [][]float64

	index map[string]int
}

// DiscretizeQuantile maps every column to discrete levels by empirical
// quantile cuts: 2 levels split at the median, 3 at the tertiles (R2.1).
// A value is assigned the lowest level whose cut it does not exceed.
// A gene whose cuts leave any level empty is rejected by name (R2.4).
func (m *Matrix) DiscretizeQuantile(levels int) (*Discretized, error) {
	var names []string
	switch levels {
	case 2:
		names = twoLevelNames
	case 3:
		names = threeLevelNames
	default:
		return nil, fmt.Errorf("unsupported level count %d: use 2 or 3", levels)
	}

	d := &Discretized{
		Genes:  append([]string(nil), m.Genes...),
		Levels: names,
		Cols:   make([][]int, len(m.Cols)),
		Cuts:   make([][]float64, len(m.Cols)),
		index:  make(map[string]int, len(m.Genes)),
	}
	for i, g := range d.Genes {
		d.index[g] = i
	}

	for i, col := range m.Cols {
		sorted := append([]float64(nil), col...)
		sort.Float64s(sorted)

		cuts := make([]float64, levels-1)
		for c := range cuts {
			p := float64(c+1) / float64(levels)
			cuts[c] = stat.Quantile(p, stat.Empirical, sorted, nil)
		}

		lv := make([]int, len(col))
		counts := make([]int, levels)
		for j, v := range col {
			lv[j] = assignLevel(v, cuts)
			counts[lv[j]]++
		}
		for state, c := range counts {
			if c == 0 {
				return nil, fmt.Errorf("gene %s: level %q would be empty after discretization", m.Genes[i], names[state])
			}
		}
		d.Cols[i] = lv
		d.Cuts[i] = cuts
	}
	return d, nil
}

// assignLevel returns the lowest level whose cut v does not exceed.
func assignLevel(v float64, cuts []float64) int {
	for c, cut := range cuts {
		if v <= cut {
			return c
		}
	}
	return len(cuts)
}

// Index returns the column index of a gene symbol.
func (d *Discretized) Index(gene string) (int, error) {
	i, ok := d.index[gene]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownGene, gene)
	}
	return i, nil
}

// Column returns the level slice for a gene.
func (d *Discretized) Column(gene string) ([]int, error) {
	i, err := d.Index(gene)
	if err != nil {
		return nil, err
	}
	return d.Cols[i], nil
}

// StateName returns the printable name of a level value.
func (d *Discretized) StateName(level int) string {
	if level < 0 || level >= len(d.Levels) {
		return fmt.Sprintf("level-%d", level)
	}
	return d.Levels[level]
}
