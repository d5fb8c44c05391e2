// file: internal/policy/loader.go

package policy

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"specgate/internal/logger"
)

// Loader reads and structurally validates policy documents from disk.
type Loader struct {
	logger *logger.Logger
}

// NewLoader creates a new policy loader.
func NewLoader(log *logger.Logger) *Loader {
	return &Loader{logger: log}
}

// LoadFile parses a single policy file into a validated Document. The format
// is chosen by extension (.yaml/.yml/.json); anything else is tried as JSON
// first, then YAML, matching how the tool loads its own config.
//
// Failures here are structural errors: they are reported before any
// cryptographic work and are distinct from verification failures.
func (l *Loader) LoadFile(path string) (*Document, error) {
	l.logger.Debug("loading policy file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var doc Document
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := decodeStrictYAML(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML in policy file %s: %w", path, err)
		}
	case ".json":
		if err := decodeStrictJSON(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON in policy file %s: %w", path, err)
		}
	default:
		if jsonErr := decodeStrictJSON(data, &doc); jsonErr != nil {
			doc = Document{}
			if yamlErr := decodeStrictYAML(data, &doc); yamlErr != nil {
				return nil, fmt.Errorf("failed to parse policy file %s as JSON (%v) or YAML (%v)",
					path, jsonErr, yamlErr)
			}
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy document %s: %w", path, err)
	}

	l.logger.Debug("policy file loaded",
		"path", path,
		"policyId", doc.PolicyID,
		"policyType", doc.PolicyType,
		"keyId", doc.Signature.KeyID)

	return &doc, nil
}

// LoadUnsignedFile parses an unsigned policy file (issuance input).
func (l *Loader) LoadUnsignedFile(path string) (*Unsigned, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var u Unsigned
	if err := decodeStrictYAML(data, &u); err != nil {
		return nil, fmt.Errorf("invalid YAML in policy file %s: %w", path, err)
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy data %s: %w", path, err)
	}
	return &u, nil
}

// decodeStrictYAML decodes YAML and rejects fields the target type does not
// declare. A field the schema does not know about is a structural error, not
// something to silently drop.
func decodeStrictYAML(data []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// decodeStrictJSON is the JSON counterpart of decodeStrictYAML.
func decodeStrictJSON(data []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
