// Copyright Jei Raju, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/report"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/resultdb"
	"github.com/JeiRaju/brca50-causal-inference-analysis/pkg/types"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Query recorded analysis runs (list, show, export)",
	Long: `Results reads the SQLite database every analysis stage records
into. Use subcommands to list runs, inspect one run's artifacts, or
export a complete run to YAML or JSON.`,
}

// --- list subcommand ---

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE:  runResultsList,
}

func runResultsList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	report.FormatRunTable(os.Stdout, runs)
	return nil
}

// --- show subcommand ---

var resultsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run's recorded artifacts (default: latest run)",
	RunE:  runResultsShow,
}

func runResultsShow(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := resolveRunID(cmd, store, args)
	if err != nil {
		return err
	}
	sum, err := store.Summary(cmd.Context(), id)
	if err != nil {
		return err
	}

	report.FormatRunTable(os.Stdout, []types.RunMeta{sum.Meta})
	fmt.Printf("\nRecorded: %d edges, %d CI tests, %d effects, %d blankets, %d queries\n",
		sum.Edges, sum.CITests, sum.Effects, sum.Blankets, sum.Queries)

	if top, _ := cmd.Flags().GetInt("top"); sum.Effects > 0 {
		effects, err := store.EffectsForRun(cmd.Context(), id, top)
		if err != nil {
			return err
		}
		fmt.Println()
		report.FormatEffectTable(os.Stdout, effects)
	}
	if sum.Blankets > 0 {
		blankets, err := store.BlanketsForRun(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Println()
		report.FormatBlanketTable(os.Stdout, blankets)
	}
	if sum.Queries > 0 {
		queries, err := store.QueriesForRun(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Println()
		for _, q := range queries {
			report.FormatDistribution(os.Stdout, q, nil)
		}
	}
	if showEdges, _ := cmd.Flags().GetBool("edges"); showEdges && sum.Edges > 0 {
		edges, err := store.EdgesForRun(cmd.Context(), id, types.PhaseCPDAG)
		if err != nil {
			return err
		}
		fmt.Println()
		report.FormatEdgeTable(os.Stdout, edges)
	}
	return nil
}

// --- export subcommand ---

var resultsExportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export a complete run to YAML or JSON (default: latest run)",
	RunE:  runResultsExport,
}

func runResultsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := resolveRunID(cmd, store, args)
	if err != nil {
		return err
	}

	switch format {
	case "yaml", "":
		if out == "" {
			out = fmt.Sprintf("run-%s.yaml", id)
		}
		if err := store.ExportYAML(cmd.Context(), id, out); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = fmt.Sprintf("run-%s.json", id)
		}
		if err := store.ExportJSON(cmd.Context(), id, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Printf("Exported run %s to %s\n", id, out)
	return nil
}

// --- shared helpers ---

// resolveRunID returns the run named by the first positional argument,
// or the latest recorded run when none is given.
func resolveRunID(cmd *cobra.Command, store *resultdb.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	meta, err := store.LatestRun(cmd.Context())
	if err != nil {
		return "", err
	}
	return meta.ID, nil
}

func init() {
	// Show flags.
	resultsShowCmd.Flags().Int("top", 10, "rows in the effect table (0 = all)")
	resultsShowCmd.Flags().Bool("edges", false, "also print the CPDAG edge table")

	// Export flags.
	resultsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	resultsExportCmd.Flags().String("out", "", "output file (default: run-<id>.<format>)")

	// Wire subcommands.
	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsShowCmd)
	resultsCmd.AddCommand(resultsExportCmd)

	rootCmd.AddCommand(resultsCmd)
}
