// file: cmd/specgate/cmd/helpers.go
package cmd

import (
	"fmt"
	"os"

	"specgate/config"
	"specgate/internal/logger"
	"specgate/internal/policy"
	"specgate/internal/repoid"
	"specgate/internal/verify"
)

// loadConfig reads tool configuration and applies command-level overrides.
func loadConfig(configPath, repoOverride string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if repoOverride != "" {
		cfg.Repo.Override = repoOverride
	}
	return cfg, nil
}

// newVerifier wires the default key store to the configured repository
// resolver. An explicit override bypasses git detection entirely.
func newVerifier(cfg *config.Config, log *logger.Logger) *verify.Verifier {
	var resolver repoid.Resolver
	if cfg.Repo.Override != "" {
		resolver = repoid.Static(cfg.Repo.Override)
	} else {
		resolver = &repoid.GitResolver{}
	}
	return verify.New(verify.DefaultKeyStore(), resolver, verify.WithLogger(log))
}

// loadPolicyOrExit loads a policy document, exiting with the license exit
// code on structural errors.
func loadPolicyOrExit(path string, log *logger.Logger) *policy.Document {
	loader := policy.NewLoader(log)
	doc, err := loader.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitLicense)
	}
	return doc
}

// printVerifyFailure renders a verification failure with operator guidance.
func printVerifyFailure(result verify.Result) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", result.Message)

	switch result.Failure {
	case verify.FailureEvaluationExpired:
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "To continue enforcement, purchase an enforce license or downgrade")
		fmt.Fprintln(os.Stderr, "to a core policy: specgate sign --downgrade-from <policy.yml>")
	case verify.FailureExpired:
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Renew the license to continue.")
	case verify.FailureRepoMismatch:
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "This policy file is licensed for a different repository.")
	}
}
