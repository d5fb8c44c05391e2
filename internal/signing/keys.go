// file: internal/signing/keys.go

package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// KeyError reports malformed or missing key material, naming the source the
// material came from (string, file, env) for operator diagnosis.
type KeyError struct {
	Source string
	Err    error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("signing key error (%s): %v", e.Source, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// GenerateKeypair creates a new ed25519 keypair.
func GenerateKeypair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return pub, priv, nil
}

// EncodePrivateKey serializes a private key to its transport form: the
// base64-encoded 32-byte seed.
func EncodePrivateKey(priv ed25519.PrivateKey) string {
	return base64.StdEncoding.EncodeToString(priv.Seed())
}

// EncodePublicKey serializes a public key to base64-encoded raw 32 bytes.
func EncodePublicKey(pub ed25519.PublicKey) string {
	return base64.StdEncoding.EncodeToString(pub)
}

// DecodePublicKey parses a base64-encoded 32-byte public key.
func DecodePublicKey(keyB64 string) (ed25519.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(keyB64))
	if err != nil {
		return nil, &KeyError{Source: "string", Err: fmt.Errorf("invalid base64: %w", err)}
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, &KeyError{Source: "string",
			Err: fmt.Errorf("public key is %d bytes, expected %d", len(raw), ed25519.PublicKeySize)}
	}
	return ed25519.PublicKey(raw), nil
}

// LoadPrivateKey parses a base64-encoded 32-byte private key seed.
func LoadPrivateKey(keyB64 string) (ed25519.PrivateKey, error) {
	return decodePrivateKey(keyB64, "string")
}

// LoadPrivateKeyFromFile reads a private key from a file holding the base64
// transport form.
func LoadPrivateKeyFromFile(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &KeyError{Source: "file", Err: fmt.Errorf("cannot read %s: %w", path, err)}
	}
	return decodePrivateKey(string(data), "file")
}

// LoadPrivateKeyFromEnv reads a private key from the named environment
// variable.
func LoadPrivateKeyFromEnv(name string) (ed25519.PrivateKey, error) {
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return nil, &KeyError{Source: "env", Err: fmt.Errorf("environment variable %s is not set", name)}
	}
	return decodePrivateKey(value, "env")
}

func decodePrivateKey(keyB64, source string) (ed25519.PrivateKey, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(keyB64))
	if err != nil {
		return nil, &KeyError{Source: source, Err: fmt.Errorf("invalid base64: %w", err)}
	}
	if len(raw) != ed25519.SeedSize {
		return nil, &KeyError{Source: source,
			Err: fmt.Errorf("private key is %d bytes, expected %d", len(raw), ed25519.SeedSize)}
	}
	return ed25519.NewKeyFromSeed(raw), nil
}
