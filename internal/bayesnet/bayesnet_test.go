// Copyright Jei Raju, 2026. All rights reserved.

package bayesnet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/dataset"
)

// sprinkler is the usual cloudy-sprinkler-rain-wet network, small
// enough to check posteriors by hand.
func sprinkler() *Network {
	return &Network{
		Name: "sprinkler",
		Variables: []Variable{
			{Name: "C", States: []string{"f", "t"}, CPT: [][]float64{{0.5, 0.5}}},
			{Name: "S", States: []string{"f", "t"}, Parents: []string{"C"},
				CPT: [][]float64{{0.5, 0.5}, {0.9, 0.1}}},
			{Name: "R", States: []string{"f", "t"}, Parents: []string{"C"},
				CPT: [][]float64{{0.8, 0.2}, {0.2, 0.8}}},
			{Name: "W", States: []string{"f", "t"}, Parents: []string{"S", "R"},
				CPT: [][]float64{{1, 0}, {0.2, 0.8}, {0.1, 0.9}, {0.01, 0.99}}},
		},
	}
}

const (
	vC = iota
	vS
	vR
	vW
)

func TestValidate(t *testing.T) {
	require.NoError(t, sprinkler().Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(n *Network)
	}{
		{"duplicate variable", func(n *Network) { n.Variables[1].Name = "C" }},
		{"unknown parent", func(n *Network) { n.Variables[1].Parents = []string{"X"} }},
		{"self parent", func(n *Network) { n.Variables[1].Parents = []string{"S"} }},
		{"repeated parent", func(n *Network) { n.Variables[3].Parents = []string{"S", "S"} }},
		{"cycle", func(n *Network) { n.Variables[0].Parents = []string{"W"} }},
		{"single state", func(n *Network) { n.Variables[0].States = []string{"f"} }},
		{"row count", func(n *Network) { n.Variables[3].CPT = n.Variables[3].CPT[:2] }},
		{"row width", func(n *Network) { n.Variables[0].CPT = [][]float64{{1}} }},
		{"row sum", func(n *Network) { n.Variables[0].CPT = [][]float64{{0.7, 0.7}} }},
		{"negative entry", func(n *Network) { n.Variables[0].CPT = [][]float64{{1.5, -0.5}} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := sprinkler()
			tc.mutate(n)
			assert.Error(t, n.Validate())
		})
	}
}

func TestQueryPosteriors(t *testing.T) {
	n := sprinkler()

	dist, err := n.Query(vC, map[int]int{vS: 1, vR: 1})
	require.NoError(t, err)
	assert.InDelta(t, 4.0/9.0, dist[1], 1e-9)
	assert.InDelta(t, 5.0/9.0, dist[0], 1e-9)

	dist, err = n.Query(vR, map[int]int{vW: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.6881702689325194, dist[1], 1e-9)

	dist, err = n.Query(vS, map[int]int{vW: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.4588351757135786, dist[1], 1e-9)
}

func TestQueryNoEvidence(t *testing.T) {
	n := sprinkler()
	dist, err := n.Query(vW, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.6061, dist[1], 1e-9)
}

func TestQueryGivenCloudy(t *testing.T) {
	n := sprinkler()
	dist, err := n.Query(vW, map[int]int{vC: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.6732, dist[1], 1e-9)
}

func TestQueryImpossibleEvidence(t *testing.T) {
	// Dry sprinkler and no rain force dry grass, so wet grass has
	// zero mass.
	n := sprinkler()
	_, err := n.Query(vC, map[int]int{vS: 0, vR: 0, vW: 1})
	require.ErrorIs(t, err, ErrImpossibleEvidence)
}

func TestQueryRejectsBadArguments(t *testing.T) {
	n := sprinkler()
	_, err := n.Query(vC, map[int]int{vC: 1})
	assert.Error(t, err, "target as evidence")
	_, err = n.Query(99, nil)
	assert.Error(t, err, "target out of range")
	_, err = n.Query(vC, map[int]int{vS: 9})
	assert.Error(t, err, "state out of range")
}

func TestQueryByName(t *testing.T) {
	n := sprinkler()
	dist, err := n.QueryByName("C", map[string]string{"S": "t", "R": "t"})
	require.NoError(t, err)
	assert.InDelta(t, 4.0/9.0, dist[1], 1e-9)

	_, err = n.QueryByName("X", nil)
	assert.Error(t, err)
	_, err = n.QueryByName("C", map[string]string{"S": "soggy"})
	assert.Error(t, err)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	spec := `name: toy
variables:
  - name: A
    states: [low, high]
    cpt:
      - [0.6, 0.4]
  - name: B
    states: [low, high]
    parents: [A]
    cpt:
      - [0.9, 0.1]
      - [0.2, 0.8]
`
	require.NoError(t, os.WriteFile(path, []byte(spec), 0o644))

	n, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, n.Validate())
	require.Len(t, n.Variables, 2)

	dist, err := n.QueryByName("B", nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.38, dist[1], 1e-9)
}

func TestLoadStructureOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	spec := `name: toy
variables:
  - name: A
    states: [low, high]
  - name: B
    states: [low, high]
    parents: [A]
`
	require.NoError(t, os.WriteFile(path, []byte(spec), 0o644))

	n, err := Load(path)
	require.NoError(t, err)
	// Tables are absent until fitted.
	assert.Error(t, n.Validate())
}

func TestFitCPTs(t *testing.T) {
	d := &dataset.Discretized{
		Genes:  []string{"A", "B"},
		Levels: []string{"low", "high"},
		Cols: [][]int{
			{0, 0, 1, 1, 1},
			{0, 1, 1, 1, 0},
		},
	}
	n := &Network{Variables: []Variable{
		{Name: "A", States: []string{"low", "high"}},
		{Name: "B", States: []string{"low", "high"}, Parents: []string{"A"}},
	}}

	require.NoError(t, n.FitCPTs(d, 0))
	require.NoError(t, n.Validate())
	assert.InDelta(t, 0.4, n.Variables[0].CPT[0][0], 1e-9)
	assert.InDelta(t, 0.6, n.Variables[0].CPT[0][1], 1e-9)
	assert.InDelta(t, 0.5, n.Variables[1].CPT[0][0], 1e-9)
	assert.InDelta(t, 1.0/3.0, n.Variables[1].CPT[1][0], 1e-9)
	assert.InDelta(t, 2.0/3.0, n.Variables[1].CPT[1][1], 1e-9)

	require.NoError(t, n.FitCPTs(d, 1))
	assert.InDelta(t, 3.0/7.0, n.Variables[0].CPT[0][0], 1e-9)
	assert.InDelta(t, 4.0/7.0, n.Variables[0].CPT[0][1], 1e-9)
	assert.InDelta(t, 0.5, n.Variables[1].CPT[0][0], 1e-9)
	assert.InDelta(t, 2.0/5.0, n.Variables[1].CPT[1][0], 1e-9)
	assert.InDelta(t, 3.0/5.0, n.Variables[1].CPT[1][1], 1e-9)
}

func TestFitCPTsUnseenParentRow(t *testing.T) {
	d := &dataset.Discretized{
		Genes:  []string{"A", "B"},
		Levels: []string{"low", "high"},
		Cols: [][]int{
			{0, 0, 0},
			{0, 1, 1},
		},
	}
	n := &Network{Variables: []Variable{
		{Name: "A", States: []string{"low", "high"}},
		{Name: "B", States: []string{"low", "high"}, Parents: []string{"A"}},
	}}
	require.NoError(t, n.FitCPTs(d, 0))
	// A is never high, so that row falls back to uniform.
	assert.InDelta(t, 0.5, n.Variables[1].CPT[1][0], 1e-9)
	assert.InDelta(t, 0.5, n.Variables[1].CPT[1][1], 1e-9)
}

func TestFitCPTsRejectsMismatch(t *testing.T) {
	d := &dataset.Discretized{
		Genes:  []string{"A"},
		Levels: []string{"low", "high"},
		Cols:   [][]int{{0, 1}},
	}
	missing := &Network{Variables: []Variable{
		{Name: "Z", States: []string{"low", "high"}},
		{Name: "A", States: []string{"low", "high"}},
	}}
	assert.Error(t, missing.FitCPTs(d, 0))

	mismatch := &Network{Variables: []Variable{
		{Name: "A", States: []string{"off", "on"}},
	}}
	assert.Error(t, mismatch.FitCPTs(d, 0))
}
