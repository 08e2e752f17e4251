// Copyright Jei Raju, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/gaussci"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/pcalg"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/pdag"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/report"
	"github.com/JeiRaju/brca50-causal-inference-analysis/pkg/types"
)

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Learn the CPDAG over the genes with the PC algorithm",
	Long: `Structure runs the PC algorithm against the expression matrix:
skeleton thinning by Fisher-z conditional-independence tests,
v-structure orientation from the recorded separating sets, and Meek
propagation to the maximally oriented graph.

The learned edges and the complete test trail are recorded in the
results database; --dot additionally writes the CPDAG in Graphviz
form.`,
	RunE: runStructure,
}

func runStructure(cmd *cobra.Command, args []string) error {
	m, err := loadMatrix(cmd)
	if err != nil {
		return err
	}
	cfg := structureSettings(cmd)

	tester, err := newTester(m, cfg.Alpha)
	if err != nil {
		return err
	}
	var trail []gaussci.Result
	tester.Record = func(r gaussci.Result) { trail = append(trail, r) }

	res, err := pcalg.Run(tester, m.Genes, pcalg.Config{
		MaxCond:  cfg.MaxCond,
		Stable:   !cfg.OrderDependent,
		Progress: os.Stdout,
	})
	if err != nil {
		return err
	}

	cpdagEdges := report.EdgeRecords(res.Graph, types.PhaseCPDAG)
	fmt.Println()
	report.FormatEdgeTable(os.Stdout, cpdagEdges)
	fmt.Printf("\n%d tests, %d v-structures, %d edges directed by Meek propagation\n",
		res.Tests, len(res.VStructures), res.MeekOriented)

	if dotPath, _ := cmd.Flags().GetString("dot"); dotPath != "" {
		if err := writeDOT(dotPath, res.Graph, "CPDAG"); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", dotPath)
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	notes, _ := cmd.Flags().GetString("notes")
	if notes == "" {
		notes = "structure"
	}
	meta, err := store.BeginRun(cmd.Context(), types.RunMeta{
		DatasetPath: stringSetting(cmd, "data", "dataset.path"),
		Samples:     m.Samples,
		Genes:       len(m.Genes),
		Alpha:       cfg.Alpha,
		MaxCond:     cfg.MaxCond,
		Stable:      !cfg.OrderDependent,
		Notes:       notes,
	})
	if err != nil {
		return err
	}
	edges := append(report.EdgeRecords(res.Skeleton, types.PhaseSkeleton), cpdagEdges...)
	if err := store.SaveEdges(cmd.Context(), meta.ID, edges); err != nil {
		return err
	}
	if err := store.SaveCITests(cmd.Context(), meta.ID, report.CITestRecords(m.Genes, trail)); err != nil {
		return err
	}

	fmt.Printf("Recorded run %s (%d edges, %d tests)\n", meta.ID, len(edges), len(trail))
	return nil
}

// structureSettings resolves the structure-stage configuration from
// flags and the config file.
func structureSettings(cmd *cobra.Command) types.StructureConfig {
	return types.StructureConfig{
		CITestConfig: types.CITestConfig{
			Alpha:   floatSetting(cmd, "alpha", "structure.alpha"),
			MaxCond: intSetting(cmd, "max-cond", "structure.max_cond"),
		},
		OrderDependent: boolSetting(cmd, "order-dependent", "structure.order_dependent"),
	}
}

// writeDOT writes a graph to path in Graphviz DOT form.
func writeDOT(path string, g *pdag.Graph, label string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := g.WriteDOT(f, pdag.DOTOptions{Label: label}); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func init() {
	structureCmd.Flags().Float64("alpha", 0.01, "significance level for independence tests")
	structureCmd.Flags().Int("max-cond", 3, "conditioning set size cap (-1 = unbounded)")
	structureCmd.Flags().Bool("order-dependent", false, "use the classic order-dependent skeleton phase")
	structureCmd.Flags().String("dot", "", "write the CPDAG in DOT form to this file")
	structureCmd.Flags().String("notes", "", "free-form note stored with the run")

	rootCmd.AddCommand(structureCmd)
}
