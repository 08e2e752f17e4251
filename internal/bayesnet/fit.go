// Copyright Jei Raju, 2026. All rights reserved.

package bayesnet

import (
	"fmt"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/dataset"
)

// FitCPTs fills every variable's table with relative frequencies from
// the discretized expression data, with additive smoothing weight
// smooth spread over the states.
//
// Per prd006 R4.2, smooth zero gives the raw maximum-likelihood
// estimate, and a parent combination never observed falls back to the
// uniform row. Variable names and state lists must match the
// discretization exactly.
func (n *Network) FitCPTs(d *dataset.Discretized, smooth float64) error {
	if smooth < 0 {
		return fmt.Errorf("smoothing weight %v is negative", smooth)
	}
	if err := n.ValidateStructure(); err != nil {
		return err
	}

	col := make(map[string]int, len(d.Genes))
	for i, g := range d.Genes {
		col[g] = i
	}
	for _, v := range n.Variables {
		if _, ok := col[v.Name]; !ok {
			return fmt.Errorf("variable %s is not in the discretized data", v.Name)
		}
		if len(v.States) != len(d.Levels) {
			return fmt.Errorf("variable %s has %d states, discretization has %d levels", v.Name, len(v.States), len(d.Levels))
		}
		for i, s := range v.States {
			if s != d.Levels[i] {
				return fmt.Errorf("variable %s state %q does not match level %q", v.Name, s, d.Levels[i])
			}
		}
	}

	samples := len(d.Cols[0])
	for vi := range n.Variables {
		v := &n.Variables[vi]
		parents := n.parentIndices(vi)
		rows := 1
		for _, p := range parents {
			rows *= len(n.Variables[p].States)
		}
		nStates := len(v.States)

		counts := make([][]float64, rows)
		for r := range counts {
			counts[r] = make([]float64, nStates)
		}
		for s := 0; s < samples; s++ {
			row := 0
			for _, p := range parents {
				row = row*len(n.Variables[p].States) + d.Cols[col[n.Variables[p].Name]][s]
			}
			counts[row][d.Cols[col[v.Name]][s]]++
		}

		cpt := make([][]float64, rows)
		for r := range cpt {
			total := smooth * float64(nStates)
			for _, c := range counts[r] {
				total += c
			}
			cpt[r] = make([]float64, nStates)
			if total == 0 {
				for s := range cpt[r] {
					cpt[r][s] = 1 / float64(nStates)
				}
				continue
			}
			for s := range cpt[r] {
				cpt[r][s] = (counts[r][s] + smooth) / total
			}
		}
		v.CPT = cpt
	}
	return nil
}
