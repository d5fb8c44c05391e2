// file: internal/verify/keystore.go

package verify

// KeyStore maps key ids to base64-encoded ed25519 public keys. It is an
// immutable value: With and Without return copies, so a verifier holding a
// store never observes mutation and test code builds scoped variants instead
// of touching shared state.
//
// An empty string marks a key id that is known but not yet provisioned,
// which is distinct from an absent id; both fail verification the same way.
type KeyStore struct {
	keys map[string]string
}

// Release key table. The prod slot ships unconfigured until the production
// public key is provisioned at release time.
var trustedKeys = map[string]string{
	"specgate-dev-2026":  "FxAOfYmDn5xs49I1cpBy+vPJPI+QaDBKxwUxIGOthpU=",
	"specgate-prod-2026": "",
}

// DefaultKeyStore returns the store built from the embedded release table.
func DefaultKeyStore() KeyStore {
	return NewKeyStore(trustedKeys)
}

// NewKeyStore builds a store from a key id -> base64 public key mapping.
func NewKeyStore(keys map[string]string) KeyStore {
	m := make(map[string]string, len(keys))
	for id, key := range keys {
		m[id] = key
	}
	return KeyStore{keys: m}
}

// Lookup returns the base64 public key for a key id. The second result is
// false when the id is absent entirely.
func (s KeyStore) Lookup(keyID string) (string, bool) {
	key, ok := s.keys[keyID]
	return key, ok
}

// With returns a copy of the store with one entry added or replaced.
func (s KeyStore) With(keyID, publicKeyB64 string) KeyStore {
	m := make(map[string]string, len(s.keys)+1)
	for id, key := range s.keys {
		m[id] = key
	}
	m[keyID] = publicKeyB64
	return KeyStore{keys: m}
}

// Without returns a copy of the store with one entry removed.
func (s KeyStore) Without(keyID string) KeyStore {
	m := make(map[string]string, len(s.keys))
	for id, key := range s.keys {
		if id != keyID {
			m[id] = key
		}
	}
	return KeyStore{keys: m}
}
