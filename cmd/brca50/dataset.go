// Copyright Jei Raju, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/report"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect the expression dataset (summary, discretize)",
	Long: `Dataset inspects the fixed expression matrix before any analysis
runs against it. Use subcommands to print per-gene descriptive
statistics or to audit the quantile discretization the Bayesian
network stage relies on.`,
}

// --- summary subcommand ---

var datasetSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print per-gene descriptive statistics",
	RunE:  runDatasetSummary,
}

func runDatasetSummary(cmd *cobra.Command, args []string) error {
	m, err := loadMatrix(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("Dataset %s: %d samples, %d genes\n\n",
		stringSetting(cmd, "data", "dataset.path"), m.Samples, len(m.Genes))
	report.FormatSummaryTable(os.Stdout, m.Summarize())
	return nil
}

// --- discretize subcommand ---

var datasetDiscretizeCmd = &cobra.Command{
	Use:   "discretize",
	Short: "Audit the quantile discretization of every gene",
	Long: `Discretize maps every gene to discrete expression levels by
empirical quantile cuts (2 levels split at the median, 3 at the
tertiles) and prints the cut points with the resulting level
occupancy. The same mapping feeds CPT estimation in the bn stage.`,
	RunE: runDatasetDiscretize,
}

func runDatasetDiscretize(cmd *cobra.Command, args []string) error {
	levels := intSetting(cmd, "levels", "bayes_net.levels")

	m, err := loadMatrix(cmd)
	if err != nil {
		return err
	}
	d, err := m.DiscretizeQuantile(levels)
	if err != nil {
		return err
	}

	report.FormatCutTable(os.Stdout, d)
	return nil
}

func init() {
	datasetDiscretizeCmd.Flags().Int("levels", 2, "discretization levels: 2 (median split) or 3 (tertiles)")

	datasetCmd.AddCommand(datasetSummaryCmd)
	datasetCmd.AddCommand(datasetDiscretizeCmd)

	rootCmd.AddCommand(datasetCmd)
}
