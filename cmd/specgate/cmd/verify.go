// file: cmd/specgate/cmd/verify.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"specgate/internal/logger"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [policy-file]",
	Short: "Verify a policy document without evaluating its rules",
	Long: `The verify command checks a policy document's signature, license
expiry, repository binding, and evaluation window, and reports the result.
It does not evaluate enforcement rules.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		repoOverride, _ := cmd.Flags().GetString("repo")

		cfg, err := loadConfig(configPath, repoOverride)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitLicense)
		}

		log, err := logger.NewLogger(&cfg.Logging)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitLicense)
		}
		defer log.Sync()

		policyPath := cfg.Policy.Path
		if len(args) == 1 {
			policyPath = args[0]
		}

		doc := loadPolicyOrExit(policyPath, log)

		result := newVerifier(cfg, log).Verify(doc)
		if !result.Valid {
			printVerifyFailure(result)
			os.Exit(exitLicense)
		}

		fmt.Printf("✓ Policy %s verified (key %s)\n", doc.PolicyID, doc.Signature.KeyID)
	},
}

func init() {
	verifyCmd.Flags().String("config", "", "Path to specgate config file")
	verifyCmd.Flags().String("repo", "", "Override repository identity (owner/name) instead of git detection")
}
