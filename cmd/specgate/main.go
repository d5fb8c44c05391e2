// file: cmd/specgate/main.go
package main

import (
	"os"

	"github.com/spf13/cobra"

	"specgate/cmd/specgate/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "specgate",
	Short: "Verify and enforce signed spec-coverage policies.",
	Long: `specgate validates the cryptographic signature, license terms, and
repository binding of a policy document, then evaluates its enforcement
rules against the scenario implementation status of the current repository.

Exit codes for enforce:
  0 - policy satisfied
  1 - policy violated (priority/coverage)
  2 - license, signature, or policy-file problem`,
	// If a subcommand is not provided, default to showing help.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Add all subcommands from the cmd package
	cmd.AddCommands(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, so we just need to exit
		os.Exit(1)
	}
}
