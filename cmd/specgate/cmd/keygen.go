// file: cmd/specgate/cmd/keygen.go
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"specgate/internal/signing"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new signing keypair (issuance tooling)",
	Long: `The keygen command generates an ed25519 keypair for policy signing
and prints both halves in their base64 transport form. The public key goes
into the trusted key table of a release; the private key stays with the
issuer and must never ship.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPrefix, _ := cmd.Flags().GetString("out")

		pub, priv, err := signing.GenerateKeypair()
		if err != nil {
			return err
		}

		privB64 := signing.EncodePrivateKey(priv)
		pubB64 := signing.EncodePublicKey(pub)
		keyID := "specgate-local-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

		if outPrefix != "" {
			if err := os.WriteFile(outPrefix+".key", []byte(privB64+"\n"), 0o600); err != nil {
				return fmt.Errorf("failed to write private key: %w", err)
			}
			if err := os.WriteFile(outPrefix+".pub", []byte(pubB64+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write public key: %w", err)
			}
			fmt.Printf("Wrote %s.key and %s.pub\n", outPrefix, outPrefix)
		} else {
			fmt.Printf("Private key: %s\n", privB64)
			fmt.Printf("Public key:  %s\n", pubB64)
		}
		fmt.Printf("Suggested key id: %s\n", keyID)
		return nil
	},
}

func init() {
	keygenCmd.Flags().String("out", "", "Write <out>.key and <out>.pub instead of printing")
}
