// file: cmd/specgate/cmd/enforce.go
package cmd

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"specgate/internal/enforce"
	"specgate/internal/logger"
	"specgate/internal/policy"
	"specgate/internal/status"
)

var enforceCmd = &cobra.Command{
	Use:   "enforce [policy-file]",
	Short: "Verify a policy and evaluate its rules against scenario status",
	Long: `The enforce command loads a signed policy document, verifies its
signature, license terms, and repository binding, then evaluates the policy
rules against the scenario status export and reports violations.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		format, _ := cmd.Flags().GetString("format")
		ignored, _ := cmd.Flags().GetStringArray("ignore-feature-id")
		statusPath, _ := cmd.Flags().GetString("status-file")
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
		if statusPath == "" {
			statusPath = cfg.Status.Path
		}
		if len(ignored) == 0 {
			ignored = cfg.Enforce.IgnoredFeatures
		}

		doc := loadPolicyOrExit(policyPath, log)

		// The ignore list is an enforce-tier capability.
		if len(ignored) > 0 && doc.PolicyType == policy.TypeCore {
			fmt.Fprintln(os.Stderr, "Error: --ignore-feature-id requires an enforce policy")
			os.Exit(exitViolated)
		}

		result := newVerifier(cfg, log).Verify(doc)
		if !result.Valid {
			printVerifyFailure(result)
			os.Exit(exitLicense)
		}

		if format == "table" {
			printPolicyStatus(doc)
		}

		records := loadStatusRecords(statusPath, log)
		report := enforce.Evaluate(doc, ignored, records)

		if format == "json" {
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(exitLicense)
			}
			fmt.Println(string(out))
		} else {
			printViolations(report)
		}

		if report.Failed {
			os.Exit(exitViolated)
		}
		os.Exit(exitSatisfied)
	},
}

func init() {
	enforceCmd.Flags().String("config", "", "Path to specgate config file")
	enforceCmd.Flags().String("format", "table", "Output format: table or json")
	enforceCmd.Flags().StringArray("ignore-feature-id", nil, "Exclude a feature from evaluation (enforce tier only, repeatable)")
	enforceCmd.Flags().String("status-file", "", "Path to the scenario status export")
	enforceCmd.Flags().String("repo", "", "Override repository identity (owner/name) instead of git detection")
}

// loadStatusRecords reads the scenario status export. A missing or broken
// export means there is nothing to enforce against, not a license problem.
func loadStatusRecords(path string, log *logger.Logger) []status.Record {
	provider := &status.FileProvider{Path: path}
	records, err := provider.Records()
	if err != nil {
		log.Warn("no usable status export, evaluating against empty scenario list",
			"path", path, "error", err)
		return nil
	}
	return records
}

func printPolicyStatus(doc *policy.Document) {
	switch {
	case doc.PolicyType == policy.TypeEnforce && doc.License.Evaluation != nil:
		days := evaluationDaysRemaining(doc.License.Evaluation.EndsAt, time.Now())
		fmt.Println("Enforce policy (evaluation)")
		fmt.Printf("Evaluation expires in %d days\n", days)
	case doc.PolicyType == policy.TypeEnforce:
		fmt.Println("Enforce policy active")
	case doc.License.DerivedFrom != "":
		fmt.Println("Core policy (downgraded from enforce)")
	default:
		fmt.Println("Core policy active")
	}
	fmt.Println()
}

// evaluationDaysRemaining counts whole calendar days from now's date to the
// evaluation end date. The time of day is irrelevant: a period ending
// tomorrow has one day left whether it is checked at 00:01 or 23:59.
func evaluationDaysRemaining(endsAt policy.Date, now time.Time) int {
	return int(endsAt.Sub(policy.DateOf(now).Time).Hours() / 24)
}

func printViolations(report enforce.Result) {
	if len(report.IgnoredFeatures) > 0 {
		fmt.Printf("Ignored features: %v\n\n", report.IgnoredFeatures)
	}

	if len(report.PriorityViolations) > 0 {
		fmt.Println("Priority violations:")
		for _, v := range report.PriorityViolations {
			fmt.Printf("  ✗ %s/%s (%s) - not implemented\n", v.FeatureID, v.ScenarioID, v.Priority)
		}
		fmt.Println()
	}

	if len(report.CoverageViolations) > 0 {
		fmt.Println("Coverage violations:")
		for _, v := range report.CoverageViolations {
			fmt.Printf("  ✗ Coverage %.1f%% below threshold %d%%\n", v.Actual, v.Threshold)
		}
		fmt.Println()
	}

	if !report.Failed {
		fmt.Println("✓ All checks passed")
	}
}
