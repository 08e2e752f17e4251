// Copyright Jei Raju, 2026. All rights reserved.

// Package pcalg implements the constraint-based structure search that
// turns pairwise conditional-independence decisions into a CPDAG. The
// search runs in three phases: skeleton thinning over growing
// conditioning-set sizes, collider orientation from the recorded
// separating sets, and Meek-rule propagation to the maximally oriented
// graph.
//
// Implements: prd003-structure (R2-R5); docs/ARCHITECTURE.md §
// Structure search.
package pcalg

import (
	"fmt"
	"io"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/gaussci"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/pdag"
)

// Config controls one structure-search run.
type Config struct {
	// MaxCond caps the conditioning-set size; negative means
	// unlimited.
	MaxCond int

	// Stable selects the order-independent skeleton phase, which
	// freezes adjacency sets at the start of each level. When false
	// the classic variant reads adjacency live, so edge removals
	// within a level influence later tests.
	Stable bool

	// Progress, when set, receives one line per skeleton level.
	Progress io.Writer
}

// VStructure is one unshielded collider A -> Collider <- B found
// during orientation.
type VStructure struct {
	A, B     int
	Collider int
}

// Result holds the outcome of a structure search.
type Result struct {
	// Graph is the CPDAG after collider orientation and Meek
	// propagation.
	Graph *pdag.Graph

	// Skeleton is the undirected graph before orientation.
	Skeleton *pdag.Graph

	// SepSets records the separating set found for each removed edge.
	SepSets SepSets

	// VStructures lists the unshielded colliders in detection order.
	VStructures []VStructure

	// Tests is the total number of independence tests performed.
	Tests int

	// MeekOriented is the number of edges directed by Meek
	// propagation, beyond the collider arms.
	MeekOriented int
}

// Run performs the full structure search using the given tester over
// variables named names. The tester's significance level decides every
// edge removal.
func Run(tester *gaussci.Tester, names []string, cfg Config) (*Result, error) {
	if cfg.Progress == nil {
		cfg.Progress = io.Discard
	}

	g, sep, err := buildSkeleton(tester, names, cfg)
	if err != nil {
		return nil, err
	}
	skeleton := g.Clone()

	vs := orientVStructures(g, sep)
	fmt.Fprintf(cfg.Progress, "oriented %d unshielded colliders\n", len(vs))

	meek := applyMeek(g)
	fmt.Fprintf(cfg.Progress, "meek rules directed %d further edges\n", meek)

	return &Result{
		Graph:        g,
		Skeleton:     skeleton,
		SepSets:      sep,
		VStructures:  vs,
		Tests:        tester.Tests(),
		MeekOriented: meek,
	}, nil
}

// SepSets maps an unordered variable pair to the conditioning set that
// separated it.
type SepSets map[[2]int][]int

// Get returns the separating set recorded for the pair, if any.
func (s SepSets) Get(i, j int) ([]int, bool) {
	sep, ok := s[pairKey(i, j)]
	return sep, ok
}

func (s SepSets) put(i, j int, sep []int) {
	cp := make([]int, len(sep))
	copy(cp, sep)
	s[pairKey(i, j)] = cp
}

func pairKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
