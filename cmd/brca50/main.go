// Copyright Jei Raju, 2026. All rights reserved.

// Package main is the entry point for the brca50 CLI.
// Implements: prd001-dataset, prd003-structure, prd004-effects,
//             prd005-blanket, prd006-bayesnet, prd007-report,
//             prd008-results-db (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/dataset"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/gaussci"
	"github.com/JeiRaju/brca50-causal-inference-analysis/internal/resultdb"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the brca50 CLI.
var rootCmd = &cobra.Command{
	Use:   "brca50",
	Short: "Causal analysis of a 50-gene breast-cancer expression panel",
	Long: `brca50 analyzes a fixed 50-gene breast-cancer expression dataset:
constraint-based structure learning, causal effect bounds, Markov
blanket discovery, and exact queries against a small discrete Bayesian
network.

Each analysis stage is a subcommand: dataset, structure, effects,
blanket, and bn. The report command runs the whole pipeline into an
output directory, and results queries the recorded runs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./brca50.yaml or ~/.config/brca50/config.yaml)")
	rootCmd.PersistentFlags().String("data", "data/brca50.csv", "expression matrix CSV")
	rootCmd.PersistentFlags().String("db", "output/results.db", "results database file")
	rootCmd.PersistentFlags().Int64("seed", 1, "seed for randomized steps (fold assignment)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("brca50")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "brca50"))
		}
	}

	viper.SetEnvPrefix("BRCA50")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// --- setting resolution ---

// Settings resolve in three steps: an explicitly set flag wins, then
// the config file, then the flag default.

func stringSetting(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func stringSliceSetting(cmd *cobra.Command, flag, key string) []string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetStringSlice(key)
	}
	v, _ := cmd.Flags().GetStringSlice(flag)
	return v
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func int64Setting(cmd *cobra.Command, flag, key string) int64 {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt64(key)
	}
	v, _ := cmd.Flags().GetInt64(flag)
	return v
}

func floatSetting(cmd *cobra.Command, flag, key string) float64 {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	v, _ := cmd.Flags().GetFloat64(flag)
	return v
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetBool(key)
	}
	v, _ := cmd.Flags().GetBool(flag)
	return v
}

// --- shared stage plumbing ---

// loadMatrix reads the expression matrix configured for cmd.
func loadMatrix(cmd *cobra.Command) (*dataset.Matrix, error) {
	path := stringSetting(cmd, "data", "dataset.path")
	m, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"path":    path,
		"samples": m.Samples,
		"genes":   len(m.Genes),
	}).Debug("dataset loaded")
	return m, nil
}

// newTester builds a Fisher-z tester over the matrix correlations.
func newTester(m *dataset.Matrix, alpha float64) (*gaussci.Tester, error) {
	corr, err := gaussci.NewCorrMatrix(m.Cols)
	if err != nil {
		return nil, err
	}
	return gaussci.NewTester(corr, m.Samples, alpha), nil
}

// openStore opens the results database configured for cmd.
func openStore(cmd *cobra.Command) (*resultdb.Store, error) {
	return resultdb.Open(stringSetting(cmd, "db", "results.db_path"))
}

func seedSetting(cmd *cobra.Command) int64 {
	return int64Setting(cmd, "seed", "dataset.seed")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
