// Copyright Jei Raju, 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/dataset"
	"github.com/JeiRaju/brca50-causal-inference-analysis/pkg/types"
)

// FormatRunTable writes recorded runs as a human-readable table (R3.1).
func FormatRunTable(w io.Writer, runs []types.RunMeta) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-19s  %-7s  %-5s  %-6s  %s\n",
		"Run", "Started", "Samples", "Genes", "Alpha", "Notes")
	fmt.Fprintln(w, strings.Repeat("-", 92))

	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-19s  %-7d  %-5d  %-6.3g  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Samples, r.Genes, r.Alpha, r.Notes)
	}

	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}

// FormatEdgeTable writes learned edges as a table (R3.2).
func FormatEdgeTable(w io.Writer, edges []types.EdgeRecord) {
	if len(edges) == 0 {
		fmt.Fprintln(w, "No edges.")
		return
	}

	fmt.Fprintf(w, "%-10s  %-3s  %-10s  %s\n", "From", "", "To", "Phase")
	fmt.Fprintln(w, strings.Repeat("-", 36))

	directed := 0
	for _, e := range edges {
		arrow := "---"
		if e.Directed {
			arrow = "-->"
			directed++
		}
		fmt.Fprintf(w, "%-10s  %-3s  %-10s  %s\n", e.From, arrow, e.To, e.Phase)
	}

	fmt.Fprintf(w, "\n%d edges (%d directed, %d undirected)\n",
		len(edges), directed, len(edges)-directed)
}

// FormatEffectTable writes ranked effect estimates as a table (R3.3).
// The slice order is kept, so callers pass effects already ranked.
func FormatEffectTable(w io.Writer, effects []types.EffectRecord) {
	if len(effects) == 0 {
		fmt.Fprintln(w, "No effects estimated.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-10s  %-8s  %-17s  %s\n",
		"Rank", "Cause", "Effect", "MinAbs", "Range", "Sets")
	fmt.Fprintln(w, strings.Repeat("-", 62))

	for i, e := range effects {
		rangeStr := fmt.Sprintf("[%.3f, %.3f]", e.Lo, e.Hi)
		fmt.Fprintf(w, "%-4d  %-10s  %-10s  %-8.3f  %-17s  %d\n",
			i+1, e.Cause, e.Effect, e.MinAbs, rangeStr, e.ParentSets)
	}

	fmt.Fprintf(w, "\n%d cause-effect pairs\n", len(effects))
}

// FormatBlanketTable writes discovered blankets with their
// cross-validated predictive scores (R3.4).
func FormatBlanketTable(w io.Writer, blankets []types.BlanketRecord) {
	if len(blankets) == 0 {
		fmt.Fprintln(w, "No blankets discovered.")
		return
	}

	fmt.Fprintf(w, "%-10s  %-4s  %-10s  %-10s  %s\n",
		"Target", "Size", "R2blanket", "R2all", "Members")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	for _, b := range blankets {
		fmt.Fprintf(w, "%-10s  %-4d  %-10.3f  %-10.3f  %s\n",
			b.Target, len(b.Members), b.CVR2Blanket, b.CVR2Full,
			strings.Join(b.Members, " "))
	}
}

// FormatDistribution writes one posterior distribution (R3.5). The
// states slice fixes the row order; when nil the states print in
// lexicographic order.
func FormatDistribution(w io.Writer, q types.ProbQueryRecord, states []string) {
	fmt.Fprintf(w, "%s\n", queryHeading(q))

	if states == nil {
		for state := range q.Distribution {
			states = append(states, state)
		}
		sort.Strings(states)
	}

	for _, state := range states {
		fmt.Fprintf(w, "  %-8s  %.4f\n", state, q.Distribution[state])
	}
}

// FormatSummaryTable writes per-gene descriptive statistics (R3.6).
func FormatSummaryTable(w io.Writer, sums []dataset.Summary) {
	if len(sums) == 0 {
		fmt.Fprintln(w, "No genes.")
		return
	}

	fmt.Fprintf(w, "%-9s  %-4s  %8s  %8s  %8s  %8s  %8s\n",
		"Gene", "N", "Mean", "StdDev", "Min", "Median", "Max")
	fmt.Fprintln(w, strings.Repeat("-", 65))

	for _, s := range sums {
		fmt.Fprintf(w, "%-9s  %-4d  %8.3f  %8.3f  %8.3f  %8.3f  %8.3f\n",
			s.Gene, s.N, s.Mean, s.StdDev, s.Min, s.Median, s.Max)
	}

	fmt.Fprintf(w, "\n%d genes\n", len(sums))
}

// FormatCutTable writes the discretization audit: per-gene quantile
// cut points and the resulting level occupancy (R3.7).
func FormatCutTable(w io.Writer, d *dataset.Discretized) {
	if len(d.Genes) == 0 {
		fmt.Fprintln(w, "No genes.")
		return
	}

	fmt.Fprintf(w, "%-9s  %-24s  %s\n", "Gene", "Cuts", "Counts")
	fmt.Fprintln(w, strings.Repeat("-", 60))

	for i, gene := range d.Genes {
		cuts := make([]string, len(d.Cuts[i]))
		for c, v := range d.Cuts[i] {
			cuts[c] = fmt.Sprintf("%.3f", v)
		}
		counts := make([]int, len(d.Levels))
		for _, lv := range d.Cols[i] {
			counts[lv]++
		}
		parts := make([]string, len(d.Levels))
		for s, c := range counts {
			parts[s] = fmt.Sprintf("%s=%d", d.Levels[s], c)
		}
		fmt.Fprintf(w, "%-9s  %-24s  %s\n",
			gene, strings.Join(cuts, " "), strings.Join(parts, " "))
	}

	fmt.Fprintf(w, "\n%d genes at %d levels\n", len(d.Genes), len(d.Levels))
}

// queryHeading renders a query as conditional-probability notation,
// e.g. "P(ESR1 | AURKA=high, MKI67=low)".
func queryHeading(q types.ProbQueryRecord) string {
	if len(q.Evidence) == 0 {
		return fmt.Sprintf("P(%s)", q.Target)
	}

	vars := make([]string, 0, len(q.Evidence))
	for v := range q.Evidence {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	terms := make([]string, len(vars))
	for i, v := range vars {
		terms[i] = v + "=" + q.Evidence[v]
	}
	return fmt.Sprintf("P(%s | %s)", q.Target, strings.Join(terms, ", "))
}
