// Package main is the skirmish command line: it validates content and runs
// autopiloted encounters through the rules engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skirmish",
	Short: "Tactical squad rules engine",
	Long:  `skirmish resolves turn-based squad encounters from a YAML content catalog.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(validateCmd)
}
