// Copyright Jei Raju, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/bayesnet"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/report"
	"github.com/JeiRaju/brca50-causal-inference-analysis/pkg/types"
)

var bnCmd = &cobra.Command{
	Use:   "bn",
	Short: "Work with the discrete Bayesian network (validate, fit, query)",
	Long: `Bn works with the small discrete Bayesian network over curated genes.
The network structure and its hand-built conditional probability
tables live in a YAML spec; fit replaces the tables with
maximum-likelihood estimates from the discretized expression data,
and query answers exact posterior questions by variable elimination.`,
}

// --- validate subcommand ---

var bnValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the network spec and its probability tables",
	RunE:  runBNValidate,
}

func runBNValidate(cmd *cobra.Command, args []string) error {
	n, err := loadNetwork(cmd)
	if err != nil {
		return err
	}
	if err := n.Validate(); err != nil {
		return err
	}

	fmt.Printf("Network %s: %d variables, tables OK\n\n", n.Name, len(n.Variables))
	for _, v := range n.Variables {
		line := fmt.Sprintf("  %-8s (%s)", v.Name, strings.Join(v.States, ", "))
		if len(v.Parents) > 0 {
			line += "  <- " + strings.Join(v.Parents, " ")
		}
		fmt.Println(line)
	}
	return nil
}

// --- fit subcommand ---

var bnFitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Estimate the probability tables from the discretized data",
	Long: `Fit discretizes the expression matrix and replaces every table in
the network with relative frequencies, Laplace-smoothed by the
configured pseudo-count. Use --out to write the fitted network back
to a YAML file.`,
	RunE: runBNFit,
}

func runBNFit(cmd *cobra.Command, args []string) error {
	n, err := fittedNetwork(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("Fitted tables (laplace %g):\n\n", floatSetting(cmd, "laplace", "bayes_net.laplace"))
	for _, v := range n.Variables {
		printCPT(n, v)
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		data, err := yaml.Marshal(n)
		if err != nil {
			return fmt.Errorf("marshaling fitted network: %w", err)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("writing fitted network: %w", err)
		}
		fmt.Printf("\nWrote fitted network to %s\n", out)
	}
	return nil
}

// --- query subcommand ---

var bnQueryCmd = &cobra.Command{
	Use:   "query TARGET",
	Short: "Compute an exact posterior distribution",
	Long: `Query computes P(TARGET | evidence) by variable elimination.
Evidence is given as repeated --evidence GENE=state flags. By default
the hand-built tables answer the query; --fit estimates the tables
from the discretized data first.

Example:
  brca50 bn query ESR1 --evidence FOXA1=high --evidence GATA3=high`,
	RunE: runBNQuery,
}

func runBNQuery(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("target required: brca50 bn query TARGET")
	}
	target := args[0]

	evFlags, _ := cmd.Flags().GetStringSlice("evidence")
	evidence := make(map[string]string, len(evFlags))
	for _, e := range evFlags {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("bad evidence %q: use GENE=state", e)
		}
		evidence[parts[0]] = parts[1]
	}

	var n *bayesnet.Network
	var err error
	if fit, _ := cmd.Flags().GetBool("fit"); fit {
		n, err = fittedNetwork(cmd)
	} else {
		n, err = loadNetwork(cmd)
		if err == nil {
			err = n.Validate()
		}
	}
	if err != nil {
		return err
	}

	dist, err := n.QueryByName(target, evidence)
	if err != nil {
		return err
	}

	ti, _ := n.Index(target)
	states := n.Variables[ti].States
	rec := types.ProbQueryRecord{
		Target:       target,
		Evidence:     evidence,
		Distribution: make(map[string]float64, len(states)),
	}
	for i, s := range states {
		rec.Distribution[s] = dist[i]
	}
	report.FormatDistribution(os.Stdout, rec, states)
	return nil
}

// --- shared helpers ---

func loadNetwork(cmd *cobra.Command) (*bayesnet.Network, error) {
	return bayesnet.Load(stringSetting(cmd, "network", "bayes_net.network_path"))
}

// fittedNetwork loads the network spec and replaces its tables with
// estimates from the discretized expression data.
func fittedNetwork(cmd *cobra.Command) (*bayesnet.Network, error) {
	n, err := loadNetwork(cmd)
	if err != nil {
		return nil, err
	}
	m, err := loadMatrix(cmd)
	if err != nil {
		return nil, err
	}
	d, err := m.DiscretizeQuantile(intSetting(cmd, "levels", "bayes_net.levels"))
	if err != nil {
		return nil, err
	}
	if err := n.FitCPTs(d, floatSetting(cmd, "laplace", "bayes_net.laplace")); err != nil {
		return nil, err
	}
	return n, nil
}

// printCPT writes one variable's table with a labeled row per parent
// state combination, first parent varying slowest.
func printCPT(n *bayesnet.Network, v bayesnet.Variable) {
	if len(v.Parents) == 0 {
		fmt.Printf("%s: %s\n\n", v.Name, probRow(v.States, v.CPT[0]))
		return
	}

	fmt.Printf("%s | %s\n", v.Name, strings.Join(v.Parents, " "))
	cards := make([]int, len(v.Parents))
	for i, p := range v.Parents {
		pi, _ := n.Index(p)
		cards[i] = len(n.Variables[pi].States)
	}
	assign := make([]int, len(v.Parents))
	for _, row := range v.CPT {
		labels := make([]string, len(v.Parents))
		for i, p := range v.Parents {
			pi, _ := n.Index(p)
			labels[i] = n.Variables[pi].States[assign[i]]
		}
		fmt.Printf("  %-20s  %s\n", strings.Join(labels, " "), probRow(v.States, row))
		for i := len(assign) - 1; i >= 0; i-- {
			assign[i]++
			if assign[i] < cards[i] {
				break
			}
			assign[i] = 0
		}
	}
	fmt.Println()
}

func probRow(states []string, row []float64) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = fmt.Sprintf("%s=%.3f", s, row[i])
	}
	return strings.Join(parts, " ")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	bnCmd.PersistentFlags().String("network", "data/network.yaml", "network spec YAML")
	bnCmd.PersistentFlags().Int("levels", 2, "discretization levels: 2 (median split) or 3 (tertiles)")
	bnCmd.PersistentFlags().Float64("laplace", 1.0, "smoothing pseudo-count for table estimation")

	// Fit flags.
	bnFitCmd.Flags().String("out", "", "write the fitted network to this YAML file")

	// Query flags.
	bnQueryCmd.Flags().StringSlice("evidence", nil, "evidence as GENE=state (repeatable)")
	bnQueryCmd.Flags().Bool("fit", false, "estimate tables from the data before querying")

	// Wire subcommands.
	bnCmd.AddCommand(bnValidateCmd)
	bnCmd.AddCommand(bnFitCmd)
	bnCmd.AddCommand(bnQueryCmd)

	rootCmd.AddCommand(bnCmd)
}
