package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of brca50",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("brca50 %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
