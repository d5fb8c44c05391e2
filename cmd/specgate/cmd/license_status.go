// file: cmd/specgate/cmd/license_status.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"specgate/internal/logger"
	"specgate/internal/policy"
)

var licenseStatusCmd = &cobra.Command{
	Use:   "license-status [policy-file]",
	Short: "Show the license terms carried by a policy document",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := loadConfig(configPath, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitLicense)
		}

		policyPath := cfg.Policy.Path
		if len(args) == 1 {
			policyPath = args[0]
		}

		doc := loadPolicyOrExit(policyPath, logger.NewNopLogger())

		printPolicyStatus(doc)
		fmt.Printf("License:     %s\n", doc.License.LicenseID)
		fmt.Printf("Licensed to: %s\n", doc.License.LicensedTo)
		fmt.Printf("Issued:      %s\n", doc.License.IssuedAt)
		fmt.Printf("Expires:     %s\n", doc.License.ExpiresAt)
		if doc.License.Evaluation != nil {
			fmt.Printf("Evaluation:  %s to %s\n",
				doc.License.Evaluation.StartsAt, doc.License.Evaluation.EndsAt)
		}
		if doc.License.DerivedFrom != "" {
			fmt.Printf("Derived from: %s\n", doc.License.DerivedFrom)
		}
		if doc.PolicyType == policy.TypeEnforce && doc.Rules.Coverage != nil {
			fmt.Printf("Coverage:    %d%% threshold\n", doc.Rules.Coverage.ThresholdPercent)
		}
	},
}

func init() {
	licenseStatusCmd.Flags().String("config", "", "Path to specgate config file")
}
