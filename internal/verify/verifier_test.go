// file: internal/verify/verifier_test.go

package verify

import (
	"fmt"
	"testing"
	"time"

	"specgate/internal/policy"
	"specgate/internal/repoid"
	"specgate/internal/signing"
)

const testKeyID = "test-key-2026"

// today is the pinned clock for every test in this file.
var today = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

type testSetup struct {
	verifier *Verifier
	sign     func(*policy.Unsigned) *policy.Document
	keys     KeyStore
}

func newTestSetup(t *testing.T, repo string) *testSetup {
	t.Helper()

	pub, priv, err := signing.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair() error: %v", err)
	}

	keys := DefaultKeyStore().With(testKeyID, signing.EncodePublicKey(pub))
	verifier := New(keys, repoid.Static(repo), WithClock(func() time.Time { return today }))

	return &testSetup{
		verifier: verifier,
		keys:     keys,
		sign: func(u *policy.Unsigned) *policy.Document {
			doc, err := signing.Sign(u, priv, testKeyID)
			if err != nil {
				t.Fatalf("Sign() error: %v", err)
			}
			return doc
		},
	}
}

func coreUnsigned() *policy.Unsigned {
	return &policy.Unsigned{
		PolicyID:      "pol-verify-001",
		PolicyVersion: "1.0",
		PolicyType:    policy.TypeCore,
		License: policy.LicenseInfo{
			LicenseID:  "lic_abc12345",
			LicensedTo: "acme/widgets",
			IssuedAt:   policy.NewDate(2026, time.January, 1),
			ExpiresAt:  policy.NewDate(2027, time.January, 1),
		},
		Rules: policy.Rules{
			Priorities: map[string]policy.PriorityRule{
				"critical": {MustBeImplemented: true},
			},
		},
	}
}

func enforceUnsigned() *policy.Unsigned {
	u := coreUnsigned()
	u.PolicyType = policy.TypeEnforce
	u.Rules.Coverage = &policy.CoverageRule{ThresholdPercent: 100, FailBelow: true}
	return u
}

func TestVerify_ValidDocument(t *testing.T) {
	setup := newTestSetup(t, "acme/widgets")
	doc := setup.sign(coreUnsigned())

	result := setup.verifier.Verify(doc)
	if !result.Valid {
		t.Errorf("Verify() failed: %s %s", result.Failure, result.Message)
	}
	if result.Failure != "" {
		t.Errorf("valid result carries failure kind %s", result.Failure)
	}
}

// TestVerify_TamperSensitivity mutates every scalar field of license and
// rules after signing; each mutation must surface as InvalidSignature.
func TestVerify_TamperSensitivity(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(*policy.Document)
	}{
		{"license_id", func(d *policy.Document) { d.License.LicenseID = "lic_forged999" }},
		{"licensed_to", func(d *policy.Document) { d.License.LicensedTo = "acme/other" }},
		{"issued_at", func(d *policy.Document) { d.License.IssuedAt = policy.NewDate(2025, time.January, 1) }},
		{"expires_at", func(d *policy.Document) { d.License.ExpiresAt = policy.NewDate(2030, time.January, 1) }},
		{"derived_from", func(d *policy.Document) { d.License.DerivedFrom = "lic_fabricated" }},
		{"policy_type", func(d *policy.Document) {
			d.PolicyType = policy.TypeEnforce
			d.Rules.Coverage = &policy.CoverageRule{ThresholdPercent: 0, FailBelow: false}
		}},
		{"priority flag", func(d *policy.Document) {
			d.Rules.Priorities["critical"] = policy.PriorityRule{MustBeImplemented: false}
		}},
		{"priority added", func(d *policy.Document) {
			d.Rules.Priorities["low"] = policy.PriorityRule{}
		}},
		{"signature value", func(d *policy.Document) {
			d.Signature.Value = "QUFBQQ=="
		}},
		{"signature not base64", func(d *policy.Document) {
			d.Signature.Value = "%%%%"
		}},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			setup := newTestSetup(t, "acme/widgets")
			doc := setup.sign(coreUnsigned())
			tt.mutate(doc)

			result := setup.verifier.Verify(doc)
			if result.Valid {
				t.Fatal("tampered document verified")
			}
			if result.Failure != FailureInvalidSignature {
				t.Errorf("Failure = %s, want %s", result.Failure, FailureInvalidSignature)
			}
		})
	}
}

func TestVerify_KeyStoreGates(t *testing.T) {
	setup := newTestSetup(t, "acme/widgets")
	doc := setup.sign(coreUnsigned())

	t.Run("unknown key id", func(t *testing.T) {
		v := New(setup.keys.Without(testKeyID), repoid.Static("acme/widgets"),
			WithClock(func() time.Time { return today }))
		result := v.Verify(doc)
		if result.Valid || result.Failure != FailureInvalidSignature {
			t.Errorf("got %+v, want InvalidSignature", result)
		}
	})

	t.Run("unconfigured key slot", func(t *testing.T) {
		v := New(setup.keys.With(testKeyID, ""), repoid.Static("acme/widgets"),
			WithClock(func() time.Time { return today }))
		result := v.Verify(doc)
		if result.Valid || result.Failure != FailureInvalidSignature {
			t.Errorf("got %+v, want InvalidSignature", result)
		}
	})

	t.Run("wrong key material", func(t *testing.T) {
		otherPub, _, err := signing.GenerateKeypair()
		if err != nil {
			t.Fatalf("GenerateKeypair() error: %v", err)
		}
		v := New(setup.keys.With(testKeyID, signing.EncodePublicKey(otherPub)),
			repoid.Static("acme/widgets"), WithClock(func() time.Time { return today }))
		result := v.Verify(doc)
		if result.Valid || result.Failure != FailureInvalidSignature {
			t.Errorf("got %+v, want InvalidSignature", result)
		}
	})
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt policy.Date
		wantValid bool
	}{
		{"expires tomorrow", policy.DateOf(today.AddDate(0, 0, 1)), true},
		{"expires today", policy.DateOf(today), true},
		{"expired yesterday", policy.DateOf(today.AddDate(0, 0, -1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := newTestSetup(t, "acme/widgets")
			u := coreUnsigned()
			u.License.ExpiresAt = tt.expiresAt
			doc := setup.sign(u)

			result := setup.verifier.Verify(doc)
			if result.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (%s)", result.Valid, tt.wantValid, result.Message)
			}
			if !tt.wantValid && result.Failure != FailureExpired {
				t.Errorf("Failure = %s, want %s", result.Failure, FailureExpired)
			}
		})
	}
}

func TestVerify_RepoBinding(t *testing.T) {
	tests := []struct {
		licensedTo string
		repo       string
		wantValid  bool
	}{
		{"acme/widgets", "acme/widgets", true},
		{"acme/widgets", "acme/gadgets", false},
		{"acme/*", "acme/widgets", true},
		{"acme/*", "acme/other-repo", true},
		{"acme/*", "different-owner/widgets", false},
		// Owner comparison is case-sensitive.
		{"acme/*", "Acme/widgets", false},
		{"acme/widgets", "Acme/widgets", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s vs %s", tt.licensedTo, tt.repo), func(t *testing.T) {
			setup := newTestSetup(t, tt.repo)
			u := coreUnsigned()
			u.License.LicensedTo = tt.licensedTo
			doc := setup.sign(u)

			result := setup.verifier.Verify(doc)
			if result.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (%s)", result.Valid, tt.wantValid, result.Message)
			}
			if !tt.wantValid && result.Failure != FailureRepoMismatch {
				t.Errorf("Failure = %s, want %s", result.Failure, FailureRepoMismatch)
			}
		})
	}
}

func TestVerify_RepoDetectionFailed(t *testing.T) {
	setup := newTestSetup(t, "acme/widgets")
	doc := setup.sign(coreUnsigned())

	noRepo := repoid.ResolverFunc(func() (*repoid.Identity, error) {
		return nil, fmt.Errorf("no remote configured")
	})
	v := New(setup.keys, noRepo, WithClock(func() time.Time { return today }))

	result := v.Verify(doc)
	if result.Valid || result.Failure != FailureRepoDetectionFailed {
		t.Errorf("got %+v, want RepoDetectionFailed", result)
	}
}

func TestVerify_EvaluationBoundary(t *testing.T) {
	tests := []struct {
		name      string
		endsAt    policy.Date
		wantValid bool
	}{
		{"ends tomorrow", policy.DateOf(today.AddDate(0, 0, 1)), true},
		{"ends today", policy.DateOf(today), true},
		{"ended yesterday", policy.DateOf(today.AddDate(0, 0, -1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := newTestSetup(t, "acme/widgets")
			u := enforceUnsigned()
			u.License.Evaluation = &policy.EvaluationPeriod{
				StartsAt: policy.NewDate(2026, time.January, 1),
				EndsAt:   tt.endsAt,
			}
			doc := setup.sign(u)

			result := setup.verifier.Verify(doc)
			if result.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (%s)", result.Valid, tt.wantValid, result.Message)
			}
			if !tt.wantValid && result.Failure != FailureEvaluationExpired {
				t.Errorf("Failure = %s, want %s", result.Failure, FailureEvaluationExpired)
			}
		})
	}

	t.Run("absent window always passes the stage", func(t *testing.T) {
		setup := newTestSetup(t, "acme/widgets")
		doc := setup.sign(enforceUnsigned())
		if result := setup.verifier.Verify(doc); !result.Valid {
			t.Errorf("purchased license failed the evaluation stage: %+v", result)
		}
	})
}

// TestVerify_StageOrder confirms that an earlier gate masks later failures:
// a tampered document that is also expired reports InvalidSignature.
func TestVerify_StageOrder(t *testing.T) {
	setup := newTestSetup(t, "acme/widgets")
	u := coreUnsigned()
	doc := setup.sign(u)
	doc.License.ExpiresAt = policy.DateOf(today.AddDate(0, 0, -10))

	result := setup.verifier.Verify(doc)
	if result.Failure != FailureInvalidSignature {
		t.Errorf("Failure = %s, want %s (signature gate runs first)",
			result.Failure, FailureInvalidSignature)
	}

	// Expired and bound to the wrong repo: expiry gate runs first.
	u2 := coreUnsigned()
	u2.License.IssuedAt = policy.NewDate(2025, time.January, 1)
	u2.License.ExpiresAt = policy.DateOf(today.AddDate(0, 0, -1))
	u2.License.LicensedTo = "other/repo"
	doc2 := setup.sign(u2)

	result = setup.verifier.Verify(doc2)
	if result.Failure != FailureExpired {
		t.Errorf("Failure = %s, want %s (expiry gate precedes repo binding)",
			result.Failure, FailureExpired)
	}
}

func TestKeyStore(t *testing.T) {
	base := NewKeyStore(map[string]string{"a": "key-a", "b": ""})

	t.Run("lookup distinguishes absent from unconfigured", func(t *testing.T) {
		if _, ok := base.Lookup("missing"); ok {
			t.Error("absent id should not be found")
		}
		key, ok := base.Lookup("b")
		if !ok || key != "" {
			t.Errorf("unconfigured id should be found with empty key, got %q %v", key, ok)
		}
	})

	t.Run("with and without return copies", func(t *testing.T) {
		added := base.With("c", "key-c")
		if _, ok := base.Lookup("c"); ok {
			t.Error("With mutated the receiver")
		}
		if key, ok := added.Lookup("c"); !ok || key != "key-c" {
			t.Errorf("With did not add the entry: %q %v", key, ok)
		}

		removed := added.Without("a")
		if _, ok := added.Lookup("a"); !ok {
			t.Error("Without mutated the receiver")
		}
		if _, ok := removed.Lookup("a"); ok {
			t.Error("Without did not remove the entry")
		}
	})

	t.Run("default store ships the release table", func(t *testing.T) {
		store := DefaultKeyStore()
		if _, ok := store.Lookup("specgate-dev-2026"); !ok {
			t.Error("dev key missing from default store")
		}
		key, ok := store.Lookup("specgate-prod-2026")
		if !ok || key != "" {
			t.Errorf("prod slot should be present but unconfigured, got %q %v", key, ok)
		}
	})
}
