// file: internal/policy/canonical.go

// Canonical payload generation for signing and verification.
//
// CRITICAL: this file is a frozen wire protocol, not an implementation
// detail. The same bytes are produced at signing time and at verification
// time; any change to field order, optional-field inclusion, or date
// formatting silently breaks every signature already issued. The field order
// is the de facto protocol version: adding a field requires a new key id
// (key rotation), never an in-place reorder.

package policy

import (
	"bytes"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"
)

// CanonicalPayload produces the deterministic byte sequence that gets signed.
//
// Layout (compact JSON, no insignificant whitespace):
//
//	{"license":{...},"policy_type":"core|enforce","rules":{...}}
//
// The license object keys are emitted in a fixed, hand-specified order:
// expires_at, issued_at, license_id, licensed_to, then evaluation only if
// present, then derived_from only if present. The rules.priorities keys are
// sorted lexicographically. rules.coverage is included only for the enforce
// tier and only when the source data actually carries a coverage rule.
func CanonicalPayload(policyType PolicyType, license *LicenseInfo, rules *Rules) []byte {
	var buf bytes.Buffer

	buf.WriteString(`{"license":{`)
	writeKeyString(&buf, "expires_at", license.ExpiresAt.String())
	buf.WriteByte(',')
	writeKeyString(&buf, "issued_at", license.IssuedAt.String())
	buf.WriteByte(',')
	writeKeyString(&buf, "license_id", license.LicenseID)
	buf.WriteByte(',')
	writeKeyString(&buf, "licensed_to", license.LicensedTo)

	if license.Evaluation != nil {
		buf.WriteString(`,"evaluation":{`)
		writeKeyString(&buf, "ends_at", license.Evaluation.EndsAt.String())
		buf.WriteByte(',')
		writeKeyString(&buf, "starts_at", license.Evaluation.StartsAt.String())
		buf.WriteByte('}')
	}

	if license.DerivedFrom != "" {
		buf.WriteByte(',')
		writeKeyString(&buf, "derived_from", license.DerivedFrom)
	}

	buf.WriteString(`},"policy_type":`)
	writeString(&buf, string(policyType))

	buf.WriteString(`,"rules":{"priorities":{`)
	keys := make([]string, 0, len(rules.Priorities))
	for k := range rules.Priorities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, k)
		buf.WriteString(`:{"must_be_implemented":`)
		buf.WriteString(strconv.FormatBool(rules.Priorities[k].MustBeImplemented))
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	if policyType == TypeEnforce && rules.Coverage != nil {
		buf.WriteString(`,"coverage":{"fail_below":`)
		buf.WriteString(strconv.FormatBool(rules.Coverage.FailBelow))
		buf.WriteString(`,"threshold_percent":`)
		buf.WriteString(strconv.Itoa(rules.Coverage.ThresholdPercent))
		buf.WriteByte('}')
	}

	buf.WriteString(`}}`)
	return buf.Bytes()
}

func writeKeyString(buf *bytes.Buffer, key, value string) {
	buf.WriteByte('"')
	buf.WriteString(key)
	buf.WriteString(`":`)
	writeString(buf, value)
}

// writeString emits a JSON string literal. Marshaling a string cannot fail;
// the escaping rules are the encoder's, so arbitrary license text stays a
// valid payload.
func writeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
