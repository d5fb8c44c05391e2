// file: cmd/specgate/cmd/root.go
package cmd

import "github.com/spf13/cobra"

// Process exit codes for the enforce/verify commands.
const (
	exitSatisfied = 0
	exitViolated  = 1
	exitLicense   = 2
)

// AddCommands adds all the subcommands to the root command.
func AddCommands(root *cobra.Command) {
	root.AddCommand(enforceCmd)
	root.AddCommand(verifyCmd)
	root.AddCommand(licenseStatusCmd)
	root.AddCommand(keygenCmd)
	root.AddCommand(signCmd)
}
