// file: internal/signing/signer.go

// Issuance-side signing. Nothing in the verification path depends on this
// file; a deployment that only checks policies never holds a private key.

package signing

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"specgate/internal/policy"
)

// Sign computes the canonical payload over the policy's license and rules
// data, signs it, and returns the fully populated signed document. Pure:
// deterministic for a given key and input, no side effects.
func Sign(unsigned *policy.Unsigned, priv ed25519.PrivateKey, keyID string) (*policy.Document, error) {
	if err := unsigned.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to sign invalid policy: %w", err)
	}
	if keyID == "" {
		return nil, fmt.Errorf("key id is required")
	}

	payload := policy.CanonicalPayload(unsigned.PolicyType, &unsigned.License, &unsigned.Rules)
	sig := ed25519.Sign(priv, payload)

	return &policy.Document{
		PolicyID:      unsigned.PolicyID,
		PolicyVersion: unsigned.PolicyVersion,
		PolicyType:    unsigned.PolicyType,
		License:       unsigned.License,
		Rules:         unsigned.Rules,
		Signature: policy.SignatureBlock{
			Algorithm: policy.AlgorithmEd25519,
			KeyID:     keyID,
			Value:     base64.StdEncoding.EncodeToString(sig),
		},
	}, nil
}
