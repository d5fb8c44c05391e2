// file: internal/verify/verifier.go

package verify

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"time"

	"specgate/internal/logger"
	"specgate/internal/policy"
	"specgate/internal/repoid"
)

// Failure is a discriminated verification failure kind. Callers switch on
// the kind, never on the message.
type Failure string

const (
	FailureInvalidSignature    Failure = "invalid_signature"
	FailureExpired             Failure = "expired"
	FailureRepoDetectionFailed Failure = "repo_detection_failed"
	FailureRepoMismatch        Failure = "repo_mismatch"
	FailureEvaluationExpired   Failure = "evaluation_expired"
)

// Result is the outcome of a verification run. On failure it carries exactly
// one Failure kind and a human-readable message.
type Result struct {
	Valid   bool    `json:"valid"`
	Failure Failure `json:"failure,omitempty"`
	Message string  `json:"message,omitempty"`
}

func failure(kind Failure, format string, args ...interface{}) Result {
	return Result{Failure: kind, Message: fmt.Sprintf(format, args...)}
}

// Verifier runs the verification pipeline over signed policy documents. The
// key store and the repository resolver are injected at construction; the
// verifier itself holds no mutable state and is safe for concurrent use.
type Verifier struct {
	keys     KeyStore
	resolver repoid.Resolver
	now      func() time.Time
	logger   *logger.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithClock overrides the source of "today". Tests pin the clock; production
// uses the default time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

// WithLogger attaches a logger for per-stage debug output.
func WithLogger(log *logger.Logger) Option {
	return func(v *Verifier) {
		v.logger = log
	}
}

// New creates a Verifier bound to a key store and a repository resolver.
func New(keys KeyStore, resolver repoid.Resolver, opts ...Option) *Verifier {
	v := &Verifier{
		keys:     keys,
		resolver: resolver,
		now:      time.Now,
		logger:   logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify runs the pipeline: signature, expiry, repository binding,
// evaluation window, in that order. Each stage is a hard gate; the first
// failure short-circuits the rest. The evaluation stage passes implicitly
// when the license carries no evaluation window (a purchased license).
func (v *Verifier) Verify(doc *policy.Document) Result {
	if res := v.checkSignature(doc); !res.Valid {
		return res
	}

	today := policy.DateOf(v.now())

	if doc.License.ExpiresAt.Before(today) {
		v.logger.Debug("license expired", "expiresAt", doc.License.ExpiresAt.String())
		return failure(FailureExpired, "license expired on %s", doc.License.ExpiresAt)
	}

	if res := v.checkRepoBinding(doc); !res.Valid {
		return res
	}

	if doc.License.Evaluation != nil && today.After(doc.License.Evaluation.EndsAt) {
		v.logger.Debug("evaluation window ended", "endsAt", doc.License.Evaluation.EndsAt.String())
		return failure(FailureEvaluationExpired, "evaluation period ended on %s",
			doc.License.Evaluation.EndsAt)
	}

	v.logger.Debug("policy verified",
		"policyId", doc.PolicyID,
		"keyId", doc.Signature.KeyID)
	return Result{Valid: true}
}

// checkSignature recomputes the canonical payload from the document's own
// license and rules and verifies the stored signature against it. Decode
// errors and cryptographic mismatches collapse to the same failure kind so
// the result does not reveal which step rejected a forgery.
func (v *Verifier) checkSignature(doc *policy.Document) Result {
	keyID := doc.Signature.KeyID

	publicKeyB64, ok := v.keys.Lookup(keyID)
	if !ok {
		return failure(FailureInvalidSignature, "unknown signing key: %s", keyID)
	}
	if publicKeyB64 == "" {
		return failure(FailureInvalidSignature, "signing key not configured: %s", keyID)
	}

	pubBytes, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil || len(pubBytes) != ed25519.PublicKeySize {
		return failure(FailureInvalidSignature, "signature verification failed")
	}

	sig, err := base64.StdEncoding.DecodeString(doc.Signature.Value)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return failure(FailureInvalidSignature, "signature verification failed")
	}

	payload := policy.CanonicalPayload(doc.PolicyType, &doc.License, &doc.Rules)
	if !ed25519.Verify(ed25519.PublicKey(pubBytes), payload, sig) {
		return failure(FailureInvalidSignature, "signature verification failed")
	}

	return Result{Valid: true}
}

func (v *Verifier) checkRepoBinding(doc *policy.Document) Result {
	repo, err := v.resolver.Resolve()
	if err != nil || repo == nil {
		if err != nil {
			v.logger.Debug("repository detection failed", "error", err)
		}
		return failure(FailureRepoDetectionFailed,
			"cannot detect repository; ensure git remote 'origin' exists")
	}

	if !repo.Matches(doc.License.LicensedTo) {
		return failure(FailureRepoMismatch, "license is for %q, current repository is %q",
			doc.License.LicensedTo, repo.Canonical())
	}

	return Result{Valid: true}
}
