package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eagerloop",
	Short: "Cooperative scheduler playground",
	Long:  `eagerloop demonstrates eager vs lazy coroutine execution on a cooperative scheduler with virtual time.`,
}

func main() {
	rootCmd.AddCommand(demoCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
