// Copyright Jei Raju, 2026. All rights reserved.

// Package blanket discovers the Markov blanket of a target gene with
// the incremental association method and scores the result by
// cross-validated prediction against the all-genes model.
//
// Implements: prd005-blanket (R1-R3); docs/ARCHITECTURE.md § Markov
// blankets.
package blanket

import (
	"fmt"
	"sort"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/gaussci"
)

// Step is one admit-or-drop decision in the discovery trace.
type Step struct {
	// Grow marks a forward-phase step; otherwise the step belongs to
	// the backward phase.
	Grow   bool
	Gene   int
	PValue float64
	// Kept is true when the gene was admitted (grow) or retained
	// (shrink).
	Kept bool
}

// Blanket is a discovered Markov blanket with its decision trace.
type Blanket struct {
	Target  int
	Members []int
	Steps   []Step
}

// IAMB discovers the Markov blanket of target among nvars variables.
//
// Per prd005 R1.1, the forward phase repeatedly admits the candidate
// most associated with the target given the current blanket until the
// best candidate tests independent; the backward phase then drops any
// member that is independent of the target given the others.
func IAMB(tester *gaussci.Tester, nvars, target int) (*Blanket, error) {
	if target < 0 || target >= nvars {
		return nil, fmt.Errorf("target %d out of range, have %d variables", target, nvars)
	}
	var mb []int
	inMB := make([]bool, nvars)
	var steps []Step

	for {
		var best *gaussci.Result
		bestGene := -1
		for x := 0; x < nvars; x++ {
			if x == target || inMB[x] {
				continue
			}
			res, err := tester.Test(target, x, mb)
			if err != nil {
				return nil, fmt.Errorf("grow phase with blanket size %d: %w", len(mb), err)
			}
			if best == nil || res.PValue < best.PValue {
				r := res
				best = &r
				bestGene = x
			}
		}
		if bestGene < 0 {
			break
		}
		if best.Independent {
			steps = append(steps, Step{Grow: true, Gene: bestGene, PValue: best.PValue})
			break
		}
		steps = append(steps, Step{Grow: true, Gene: bestGene, PValue: best.PValue, Kept: true})
		inMB[bestGene] = true
		mb = append(mb, bestGene)
	}

	for i := 0; i < len(mb); {
		x := mb[i]
		res, err := tester.Test(target, x, excluding(mb, x))
		if err != nil {
			return nil, fmt.Errorf("shrink phase: %w", err)
		}
		if res.Independent {
			steps = append(steps, Step{Gene: x, PValue: res.PValue})
			inMB[x] = false
			mb = append(mb[:i], mb[i+1:]...)
			continue
		}
		steps = append(steps, Step{Gene: x, PValue: res.PValue, Kept: true})
		i++
	}

	members := append([]int(nil), mb...)
	sort.Ints(members)
	return &Blanket{Target: target, Members: members, Steps: steps}, nil
}

func excluding(set []int, v int) []int {
	out := make([]int, 0, len(set))
	for _, x := range set {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
