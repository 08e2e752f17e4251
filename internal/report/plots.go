// Copyright Jei Raju, 2026. All rights reserved.

package report

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/JeiRaju/brca50-causal-inference-analysis/pkg/types"
)

// corrGrid adapts a correlation matrix to the heat map grid interface.
type corrGrid struct {
	corr *mat.SymDense
	n    int
}

func (g corrGrid) Dims() (c, r int)   { return g.n, g.n }
func (g corrGrid) Z(c, r int) float64 { return g.corr.At(r, c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrelationHeatmap renders the pairwise correlation matrix to a PNG
// (R4.1). The color scale is pinned to [-1, 1] so figures from
// different runs compare directly.
func CorrelationHeatmap(path string, corr *mat.SymDense, names []string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Pairwise correlation, %d genes", len(names))
	p.X.Label.Text = "gene index"
	p.Y.Label.Text = "gene index"

	h := plotter.NewHeatMap(corrGrid{corr: corr, n: len(names)}, palette.Heat(12, 1))
	h.Min, h.Max = -1, 1
	p.Add(h)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving heatmap: %w", err)
	}
	return nil
}

// PValueHistogram renders the distribution of test p-values to a PNG
// (R4.2).
func PValueHistogram(path string, pvalues []float64) error {
	if len(pvalues) == 0 {
		return fmt.Errorf("no p-values to plot")
	}

	p := plot.New()
	p.Title.Text = "Conditional-independence test p-values"
	p.X.Label.Text = "p-value"
	p.Y.Label.Text = "tests"

	h, err := plotter.NewHist(plotter.Values(pvalues), 20)
	if err != nil {
		return fmt.Errorf("building histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving histogram: %w", err)
	}
	return nil
}

// EffectBarChart renders the conservative effect bounds of the ranked
// causes to a PNG (R4.3). Effects arrive ranked, strongest first.
func EffectBarChart(path string, effects []types.EffectRecord) error {
	if len(effects) == 0 {
		return fmt.Errorf("no effects to plot")
	}

	values := make(plotter.Values, len(effects))
	labels := make([]string, len(effects))
	for i, e := range effects {
		values[i] = e.MinAbs
		labels[i] = e.Cause
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Strongest causes of %s", effects[0].Effect)
	p.Y.Label.Text = "minimum absolute effect"

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("building bar chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving bar chart: %w", err)
	}
	return nil
}
