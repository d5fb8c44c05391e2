// file: internal/policy/downgrade.go

package policy

import "fmt"

// Downgrade derives unsigned core-tier policy data from an enforce-tier
// document. The coverage rule and evaluation window are stripped (the core
// tier forbids both) and derived_from records the original license id. The
// result must be re-signed before it verifies; the original document is not
// touched.
//
// derived_from is a free-text back-reference: it is stored, shown to the
// user, and never itself re-verified or chained cryptographically.
func Downgrade(doc *Document) (*Unsigned, error) {
	if doc.PolicyType != TypeEnforce {
		return nil, fmt.Errorf("only enforce policies can be downgraded, got %q", doc.PolicyType)
	}

	u := &Unsigned{
		PolicyID:      doc.PolicyID,
		PolicyVersion: doc.PolicyVersion,
		PolicyType:    TypeCore,
		License: LicenseInfo{
			LicenseID:   doc.License.LicenseID,
			LicensedTo:  doc.License.LicensedTo,
			IssuedAt:    doc.License.IssuedAt,
			ExpiresAt:   doc.License.ExpiresAt,
			DerivedFrom: doc.License.LicenseID,
		},
		Rules: Rules{
			Priorities: make(map[string]PriorityRule, len(doc.Rules.Priorities)),
		},
	}
	for k, v := range doc.Rules.Priorities {
		u.Rules.Priorities[k] = v
	}

	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("downgraded policy is invalid: %w", err)
	}
	return u, nil
}
