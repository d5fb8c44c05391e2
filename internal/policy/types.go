// file: internal/policy/types.go

package policy

import (
	"fmt"
	"regexp"
	"time"
)

// PolicyType is the policy tier tag.
type PolicyType string

const (
	// TypeCore is the free tier: priority rules only.
	TypeCore PolicyType = "core"
	// TypeEnforce is the paid tier: adds a coverage threshold and an
	// optional evaluation window.
	TypeEnforce PolicyType = "enforce"
)

const (
	// AlgorithmEd25519 is the only supported signature algorithm.
	AlgorithmEd25519 = "ed25519"

	// DateLayout is the wire format for all policy dates.
	DateLayout = "2006-01-02"
)

var (
	licenseIDPattern     = regexp.MustCompile(`^lic_[a-zA-Z0-9]{8,}$`)
	policyVersionPattern = regexp.MustCompile(`^\d+\.\d+$`)
)

// Date is a calendar date serialized as YYYY-MM-DD in both YAML and JSON.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected string", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// EvaluationPeriod is a fixed trial window set at purchase time. Present only
// on enforce-tier licenses that have not been purchased outright.
type EvaluationPeriod struct {
	StartsAt Date `json:"starts_at" yaml:"starts_at"`
	EndsAt   Date `json:"ends_at" yaml:"ends_at"`
}

// CoverageRule is the coverage threshold configuration (enforce tier only).
type CoverageRule struct {
	ThresholdPercent int  `json:"threshold_percent" yaml:"threshold_percent"`
	FailBelow        bool `json:"fail_below" yaml:"fail_below"`
}

// PriorityRule is the rule for a single priority level.
type PriorityRule struct {
	MustBeImplemented bool `json:"must_be_implemented" yaml:"must_be_implemented"`
}

// Rules is the enforcement rules block.
type Rules struct {
	Priorities map[string]PriorityRule `json:"priorities" yaml:"priorities"`
	Coverage   *CoverageRule           `json:"coverage,omitempty" yaml:"coverage,omitempty"`
}

// LicenseInfo is the license binding block of a policy.
type LicenseInfo struct {
	LicenseID   string            `json:"license_id" yaml:"license_id"`
	LicensedTo  string            `json:"licensed_to" yaml:"licensed_to"`
	IssuedAt    Date              `json:"issued_at" yaml:"issued_at"`
	ExpiresAt   Date              `json:"expires_at" yaml:"expires_at"`
	Evaluation  *EvaluationPeriod `json:"evaluation,omitempty" yaml:"evaluation,omitempty"`
	DerivedFrom string            `json:"derived_from,omitempty" yaml:"derived_from,omitempty"`
}

// SignatureBlock is the detached signature over the canonical payload.
type SignatureBlock struct {
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	KeyID     string `json:"key_id" yaml:"key_id"`
	Value     string `json:"value" yaml:"value"`
}

// Document is a complete signed policy file. It is never mutated after
// construction; downgrading produces a new document, not a mutation.
type Document struct {
	PolicyID      string         `json:"policy_id" yaml:"policy_id"`
	PolicyVersion string         `json:"policy_version" yaml:"policy_version"`
	PolicyType    PolicyType     `json:"policy_type" yaml:"policy_type"`
	License       LicenseInfo    `json:"license" yaml:"license"`
	Rules         Rules          `json:"rules" yaml:"rules"`
	Signature     SignatureBlock `json:"signature" yaml:"signature"`
}

// Unsigned is policy data before signing (no signature block).
type Unsigned struct {
	PolicyID      string      `json:"policy_id" yaml:"policy_id"`
	PolicyVersion string      `json:"policy_version" yaml:"policy_version"`
	PolicyType    PolicyType  `json:"policy_type" yaml:"policy_type"`
	License       LicenseInfo `json:"license" yaml:"license"`
	Rules         Rules       `json:"rules" yaml:"rules"`
}

// Validate enforces the structural invariants of a signed document. These
// are independent of cryptographic verification and run before any of it.
func (d *Document) Validate() error {
	if err := validateHeader(d.PolicyID, d.PolicyVersion, d.PolicyType); err != nil {
		return err
	}
	if err := d.License.validate(); err != nil {
		return err
	}
	if err := validateTierRules(d.PolicyType, &d.License, &d.Rules); err != nil {
		return err
	}
	return d.Signature.validate()
}

// Validate enforces the structural invariants of unsigned policy data.
func (u *Unsigned) Validate() error {
	if err := validateHeader(u.PolicyID, u.PolicyVersion, u.PolicyType); err != nil {
		return err
	}
	if err := u.License.validate(); err != nil {
		return err
	}
	return validateTierRules(u.PolicyType, &u.License, &u.Rules)
}

func validateHeader(id, version string, typ PolicyType) error {
	if id == "" {
		return fmt.Errorf("policy_id is required")
	}
	if !policyVersionPattern.MatchString(version) {
		return fmt.Errorf("policy_version %q must match major.minor", version)
	}
	if typ != TypeCore && typ != TypeEnforce {
		return fmt.Errorf("policy_type %q must be %q or %q", typ, TypeCore, TypeEnforce)
	}
	return nil
}

func (l *LicenseInfo) validate() error {
	if !licenseIDPattern.MatchString(l.LicenseID) {
		return fmt.Errorf("license_id %q must match lic_<8+ alphanumerics>", l.LicenseID)
	}
	if l.LicensedTo == "" {
		return fmt.Errorf("licensed_to is required")
	}
	if l.IssuedAt.IsZero() || l.ExpiresAt.IsZero() {
		return fmt.Errorf("issued_at and expires_at are required")
	}
	if !l.ExpiresAt.After(l.IssuedAt) {
		return fmt.Errorf("license expires_at %s must be after issued_at %s", l.ExpiresAt, l.IssuedAt)
	}
	if l.Evaluation != nil {
		if l.Evaluation.StartsAt.IsZero() || l.Evaluation.EndsAt.IsZero() {
			return fmt.Errorf("evaluation starts_at and ends_at are required")
		}
		if !l.Evaluation.EndsAt.After(l.Evaluation.StartsAt) {
			return fmt.Errorf("evaluation ends_at %s must be after starts_at %s",
				l.Evaluation.EndsAt, l.Evaluation.StartsAt)
		}
	}
	return nil
}

// validateTierRules enforces the tier-specific contract: the two tiers carry
// different contractual guarantees, so a document mixing them is malformed
// regardless of its signature.
func validateTierRules(typ PolicyType, license *LicenseInfo, rules *Rules) error {
	if typ == TypeCore {
		if rules.Coverage != nil {
			return fmt.Errorf("core policies cannot have coverage rules")
		}
		if license.Evaluation != nil {
			return fmt.Errorf("core policies cannot have evaluation periods")
		}
	}
	if typ == TypeEnforce && rules.Coverage == nil {
		return fmt.Errorf("enforce policies must have coverage rules")
	}
	if rules.Coverage != nil {
		if rules.Coverage.ThresholdPercent < 0 || rules.Coverage.ThresholdPercent > 100 {
			return fmt.Errorf("coverage threshold_percent %d must be within 0-100",
				rules.Coverage.ThresholdPercent)
		}
	}
	return nil
}

func (s *SignatureBlock) validate() error {
	if s.Algorithm != AlgorithmEd25519 {
		return fmt.Errorf("signature algorithm %q is not supported, expected %q",
			s.Algorithm, AlgorithmEd25519)
	}
	if s.KeyID == "" {
		return fmt.Errorf("signature key_id is required")
	}
	if s.Value == "" {
		return fmt.Errorf("signature value is required")
	}
	return nil
}
