// Copyright Jei Raju, 2026. All rights reserved.

// Package report turns analysis results into console tables, figures,
// and the final markdown write-up.
// Implements: prd007-report (R1-R5); docs/ARCHITECTURE.md § Reporting.
package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/dataset"
	"github.com/JeiRaju/brca50-causal-inference-analysis/pkg/types"
)

// Figures holds the artifact paths the write-up links to, relative to
// the report file.
type Figures struct {
	Heatmap   string
	PValues   string
	CPDAG     string
	EffectBar string
}

// Report collects everything the final write-up presents (R5.1).
// Sections with no content are left out of the rendered document.
type Report struct {
	Meta types.RunMeta

	// Summaries are the per-gene descriptive statistics.
	Summaries []dataset.Summary

	SkeletonEdges []types.EdgeRecord
	CPDAGEdges    []types.EdgeRecord
	VStructures   []string
	MeekOriented  int
	Tests         int

	// EffectTarget is the response gene of the ranked effect table.
	EffectTarget string
	Effects      []types.EffectRecord

	Blankets []types.BlanketRecord
	Queries  []types.ProbQueryRecord

	Figures Figures
}

// WriteMarkdown renders the full report document (R5.2).
func (r *Report) WriteMarkdown(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Causal analysis of %d breast-cancer genes\n\n", r.Meta.Genes)
	fmt.Fprintf(bw, "Run `%s`, started %s.\n\n",
		r.Meta.ID, r.Meta.StartedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(bw, "Dataset `%s`: %d samples, %d genes.\n\n",
		r.Meta.DatasetPath, r.Meta.Samples, r.Meta.Genes)

	r.writeDataset(bw)
	r.writeStructure(bw)
	r.writeEffects(bw)
	r.writeBlankets(bw)
	r.writeQueries(bw)
	r.writeSettings(bw)

	return bw.Flush()
}

func (r *Report) writeDataset(bw *bufio.Writer) {
	if len(r.Summaries) > 0 {
		fmt.Fprintf(bw, "## Dataset\n\n")
		fmt.Fprintln(bw, "| Gene | Mean | StdDev | Min | Median | Max |")
		fmt.Fprintln(bw, "|---|---:|---:|---:|---:|---:|")
		for _, s := range r.Summaries {
			fmt.Fprintf(bw, "| %s | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
				s.Gene, s.Mean, s.StdDev, s.Min, s.Median, s.Max)
		}
		fmt.Fprintln(bw)
	}

	if r.Figures.Heatmap == "" {
		return
	}
	fmt.Fprintf(bw, "## Expression correlation\n\n")
	fmt.Fprintf(bw, "![Pairwise correlation](%s)\n\n", r.Figures.Heatmap)
}

func (r *Report) writeStructure(bw *bufio.Writer) {
	if len(r.CPDAGEdges) == 0 && len(r.SkeletonEdges) == 0 {
		return
	}

	fmt.Fprintf(bw, "## Learned structure\n\n")

	directed := 0
	for _, e := range r.CPDAGEdges {
		if e.Directed {
			directed++
		}
	}
	fmt.Fprintf(bw, "The search ran %d conditional-independence tests and kept "+
		"%d of the %d skeleton edges in the CPDAG: %d directed, %d undirected. "+
		"Collider detection found %d v-structures; Meek propagation oriented "+
		"%d further edges.\n\n",
		r.Tests, len(r.CPDAGEdges), len(r.SkeletonEdges),
		directed, len(r.CPDAGEdges)-directed, len(r.VStructures), r.MeekOriented)

	if len(r.VStructures) > 0 {
		fmt.Fprintf(bw, "V-structures:\n\n")
		for _, v := range r.VStructures {
			fmt.Fprintf(bw, "- %s\n", v)
		}
		fmt.Fprintln(bw)
	}

	if r.Figures.CPDAG != "" {
		fmt.Fprintf(bw, "![CPDAG](%s)\n\n", r.Figures.CPDAG)
	}
	if r.Figures.PValues != "" {
		fmt.Fprintf(bw, "![Test p-values](%s)\n\n", r.Figures.PValues)
	}
}

func (r *Report) writeEffects(bw *bufio.Writer) {
	if len(r.Effects) == 0 {
		return
	}

	fmt.Fprintf(bw, "## Intervention effects on %s\n\n", r.EffectTarget)
	fmt.Fprintf(bw, "Total effects estimated by adjusting for every valid "+
		"parent set in the CPDAG; the table reports the conservative "+
		"minimum-absolute bound per cause.\n\n")

	fmt.Fprintln(bw, "| Rank | Cause | Min abs effect | Effect range | Parent sets |")
	fmt.Fprintln(bw, "|---:|---|---:|---|---:|")
	for i, e := range r.Effects {
		fmt.Fprintf(bw, "| %d | %s | %.3f | [%.3f, %.3f] | %d |\n",
			i+1, e.Cause, e.MinAbs, e.Lo, e.Hi, e.ParentSets)
	}
	fmt.Fprintln(bw)

	if r.Figures.EffectBar != "" {
		fmt.Fprintf(bw, "![Strongest causes](%s)\n\n", r.Figures.EffectBar)
	}
}

func (r *Report) writeBlankets(bw *bufio.Writer) {
	if len(r.Blankets) == 0 {
		return
	}

	fmt.Fprintf(bw, "## Markov blankets\n\n")
	fmt.Fprintf(bw, "Held-out R2 compares regression on the blanket against "+
		"regression on all other genes.\n\n")

	fmt.Fprintln(bw, "| Target | Blanket | Folds | R2 blanket | R2 all genes |")
	fmt.Fprintln(bw, "|---|---|---:|---:|---:|")
	for _, b := range r.Blankets {
		fmt.Fprintf(bw, "| %s | %s | %d | %.3f | %.3f |\n",
			b.Target, strings.Join(b.Members, ", "), b.CVFolds,
			b.CVR2Blanket, b.CVR2Full)
	}
	fmt.Fprintln(bw)
}

func (r *Report) writeQueries(bw *bufio.Writer) {
	if len(r.Queries) == 0 {
		return
	}

	fmt.Fprintf(bw, "## Posterior probabilities\n\n")
	for _, q := range r.Queries {
		fmt.Fprintf(bw, "**%s**\n\n", queryHeading(q))

		states := make([]string, 0, len(q.Distribution))
		for state := range q.Distribution {
			states = append(states, state)
		}
		sort.Strings(states)

		fmt.Fprintln(bw, "| State | Probability |")
		fmt.Fprintln(bw, "|---|---:|")
		for _, state := range states {
			fmt.Fprintf(bw, "| %s | %.4f |\n", state, q.Distribution[state])
		}
		fmt.Fprintln(bw)
	}
}

func (r *Report) writeSettings(bw *bufio.Writer) {
	fmt.Fprintf(bw, "## Settings\n\n")
	variant := "stable (order-independent)"
	if !r.Meta.Stable {
		variant = "classic (order-dependent)"
	}
	fmt.Fprintf(bw, "- significance level: %g\n", r.Meta.Alpha)
	fmt.Fprintf(bw, "- conditioning-set cap: %s\n", formatMaxCond(r.Meta.MaxCond))
	fmt.Fprintf(bw, "- skeleton variant: %s\n", variant)
	if r.Meta.Notes != "" {
		fmt.Fprintf(bw, "- notes: %s\n", r.Meta.Notes)
	}
}

func formatMaxCond(maxCond int) string {
	if maxCond < 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", maxCond)
}
