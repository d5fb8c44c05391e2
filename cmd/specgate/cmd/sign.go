// file: cmd/specgate/cmd/sign.go
package cmd

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"specgate/internal/logger"
	"specgate/internal/policy"
	"specgate/internal/signing"
)

var signCmd = &cobra.Command{
	Use:   "sign [unsigned-policy.yml]",
	Short: "Sign policy data with a private key (issuance tooling)",
	Long: `The sign command computes the canonical payload over unsigned policy
data, signs it with the given private key, and emits the complete signed
policy document.

With --downgrade-from, a signed enforce-tier policy is converted into a new
core-tier document instead: the coverage rule and evaluation window are
stripped, derived_from records the original license, and a fresh license id
is minted before signing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyInline, _ := cmd.Flags().GetString("key")
		keyFile, _ := cmd.Flags().GetString("key-file")
		keyEnv, _ := cmd.Flags().GetString("key-env")
		keyID, _ := cmd.Flags().GetString("key-id")
		outPath, _ := cmd.Flags().GetString("out")
		downgradeFrom, _ := cmd.Flags().GetString("downgrade-from")

		priv, err := loadSigningKey(keyInline, keyFile, keyEnv)
		if err != nil {
			return err
		}

		loader := policy.NewLoader(logger.NewNopLogger())

		var unsigned *policy.Unsigned
		switch {
		case downgradeFrom != "":
			doc, err := loader.LoadFile(downgradeFrom)
			if err != nil {
				return err
			}
			unsigned, err = policy.Downgrade(doc)
			if err != nil {
				return err
			}
			unsigned.License.LicenseID = mintLicenseID()
		case len(args) == 1:
			unsigned, err = loader.LoadUnsignedFile(args[0])
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("either an unsigned policy file or --downgrade-from is required")
		}

		doc, err := signing.Sign(unsigned, priv, keyID)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal signed policy: %w", err)
		}

		if outPath != "" {
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("failed to write signed policy: %w", err)
			}
			fmt.Printf("Wrote signed policy to %s\n", outPath)
			return nil
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	signCmd.Flags().String("key", "", "Private key in base64 transport form")
	signCmd.Flags().String("key-file", "", "Path to a file holding the private key")
	signCmd.Flags().String("key-env", "", "Name of an environment variable holding the private key")
	signCmd.Flags().String("key-id", "", "Identifier of the signing key (required)")
	signCmd.Flags().String("out", "", "Write the signed policy to a file instead of stdout")
	signCmd.Flags().String("downgrade-from", "", "Derive a core policy from this signed enforce policy")
	signCmd.MarkFlagRequired("key-id")
}

func loadSigningKey(inline, file, env string) (ed25519.PrivateKey, error) {
	switch {
	case inline != "":
		return signing.LoadPrivateKey(inline)
	case file != "":
		return signing.LoadPrivateKeyFromFile(file)
	case env != "":
		return signing.LoadPrivateKeyFromEnv(env)
	default:
		return nil, fmt.Errorf("one of --key, --key-file, or --key-env is required")
	}
}

func mintLicenseID() string {
	return "lic_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
