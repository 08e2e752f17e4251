// Copyright Jei Raju, 2026. All rights reserved.

// Package bayesnet implements small discrete Bayesian networks over
// gene expression levels: YAML-specified structures with manual
// tables, maximum-likelihood fitting from discretized data, and exact
// posterior queries by variable elimination.
//
// Implements: prd006-bayesnet (R1-R5); docs/ARCHITECTURE.md § Discrete
// network.
package bayesnet

import (
	"fmt"
	"math"
	"os"

	"go.yaml.in/yaml/v3"
)

// Variable is one node: named states in fixed order, optional parents,
// and a conditional probability table. The table holds one row per
// combination of parent states, listed with the first parent varying
// slowest, and one column per state of the variable.
type Variable struct {
	Name    string      `yaml:"name" json:"name"`
	States  []string    `yaml:"states" json:"states"`
	Parents []string    `yaml:"parents,omitempty" json:"parents,omitempty"`
	CPT     [][]float64 `yaml:"cpt,omitempty" json:"cpt,omitempty"`
}

// Network is a set of variables wired into a DAG by parent references.
type Network struct {
	Name      string     `yaml:"name" json:"name"`
	Variables []Variable `yaml:"variables" json:"variables"`

	index map[string]int
}

// Load reads a network spec from a YAML file and checks its structure.
// Tables may be absent when the caller intends to fit them.
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading network spec: %w", err)
	}
	var n Network
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parsing network spec %s: %w", path, err)
	}
	if err := n.ValidateStructure(); err != nil {
		return nil, fmt.Errorf("network spec %s: %w", path, err)
	}
	return &n, nil
}

func (n *Network) lookup() map[string]int {
	if n.index == nil {
		n.index = make(map[string]int, len(n.Variables))
		for i, v := range n.Variables {
			n.index[v.Name] = i
		}
	}
	return n.index
}

// Index returns the position of the named variable.
func (n *Network) Index(name string) (int, bool) {
	i, ok := n.lookup()[name]
	return i, ok
}

// ValidateStructure checks names, states, and parent wiring, and
// rejects cyclic parent graphs. It ignores the probability tables.
func (n *Network) ValidateStructure() error {
	if len(n.Variables) == 0 {
		return fmt.Errorf("network has no variables")
	}
	seen := make(map[string]bool, len(n.Variables))
	for _, v := range n.Variables {
		if v.Name == "" {
			return fmt.Errorf("variable with empty name")
		}
		if seen[v.Name] {
			return fmt.Errorf("duplicate variable %s", v.Name)
		}
		seen[v.Name] = true
		if len(v.States) < 2 {
			return fmt.Errorf("variable %s needs at least 2 states, has %d", v.Name, len(v.States))
		}
		states := make(map[string]bool, len(v.States))
		for _, s := range v.States {
			if states[s] {
				return fmt.Errorf("variable %s repeats state %s", v.Name, s)
			}
			states[s] = true
		}
	}
	for _, v := range n.Variables {
		prev := make(map[string]bool, len(v.Parents))
		for _, p := range v.Parents {
			if p == v.Name {
				return fmt.Errorf("variable %s lists itself as parent", v.Name)
			}
			if !seen[p] {
				return fmt.Errorf("variable %s has unknown parent %s", v.Name, p)
			}
			if prev[p] {
				return fmt.Errorf("variable %s repeats parent %s", v.Name, p)
			}
			prev[p] = true
		}
	}
	return n.checkAcyclic()
}

// Validate checks the structure and every probability table.
func (n *Network) Validate() error {
	if err := n.ValidateStructure(); err != nil {
		return err
	}
	for _, v := range n.Variables {
		rows := 1
		for _, p := range v.Parents {
			pi, _ := n.Index(p)
			rows *= len(n.Variables[pi].States)
		}
		if len(v.CPT) != rows {
			return fmt.Errorf("variable %s: table has %d rows, parents imply %d", v.Name, len(v.CPT), rows)
		}
		for ri, row := range v.CPT {
			if len(row) != len(v.States) {
				return fmt.Errorf("variable %s row %d: %d entries for %d states", v.Name, ri, len(row), len(v.States))
			}
			sum := 0.0
			for _, p := range row {
				if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
					return fmt.Errorf("variable %s row %d: bad probability %v", v.Name, ri, p)
				}
				sum += p
			}
			if math.Abs(sum-1) > 1e-6 {
				return fmt.Errorf("variable %s row %d sums to %v, want 1", v.Name, ri, sum)
			}
		}
	}
	return nil
}

// checkAcyclic runs Kahn's algorithm over the parent edges.
func (n *Network) checkAcyclic() error {
	indeg := make([]int, len(n.Variables))
	children := make([][]int, len(n.Variables))
	for i, v := range n.Variables {
		indeg[i] = len(v.Parents)
		for _, p := range v.Parents {
			pi, _ := n.Index(p)
			children[pi] = append(children[pi], i)
		}
	}
	var queue []int
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	done := 0
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		done++
		for _, c := range children[i] {
			indeg[c]--
			if indeg[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	if done != len(n.Variables) {
		return fmt.Errorf("parent graph has a cycle")
	}
	return nil
}

// parentIndices resolves a variable's parents to positions.
func (n *Network) parentIndices(v int) []int {
	ps := n.Variables[v].Parents
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i], _ = n.Index(p)
	}
	return out
}

// stateIndex returns the position of state within variable v.
func (n *Network) stateIndex(v int, state string) (int, bool) {
	for i, s := range n.Variables[v].States {
		if s == state {
			return i, true
		}
	}
	return 0, false
}
