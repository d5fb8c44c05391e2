// file: internal/repoid/repoid.go

// Repository identity detection for license binding. The license engine only
// consumes the two possible outcomes: an owner/name identity, or none.

package repoid

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// Identity is a repository identity extracted from version-control metadata.
type Identity struct {
	Owner string
	Name  string
}

// Canonical returns the owner/name form.
func (id Identity) Canonical() string {
	return id.Owner + "/" + id.Name
}

// Matches reports whether this repository satisfies a license binding
// pattern. "owner/name" matches only the identical string; "owner/*" matches
// any repository of the same owner. Owner comparison is case-sensitive.
func (id Identity) Matches(pattern string) bool {
	if owner, ok := strings.CutSuffix(pattern, "/*"); ok {
		return id.Owner == owner
	}
	return id.Canonical() == pattern
}

// Resolver resolves the current repository's canonical identity.
type Resolver interface {
	// Resolve returns the identity, or nil when it cannot be determined.
	// The error carries detail for logging; a nil identity with nil error
	// is never returned.
	Resolve() (*Identity, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func() (*Identity, error)

func (f ResolverFunc) Resolve() (*Identity, error) {
	return f()
}

// Static returns a resolver that always yields the given owner/name string.
// Used for offline/testing overrides, bypassing live lookup.
func Static(identity string) Resolver {
	return ResolverFunc(func() (*Identity, error) {
		parts := strings.Split(identity, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("identity override %q must be owner/name", identity)
		}
		return &Identity{Owner: parts[0], Name: parts[1]}, nil
	})
}

const gitTimeout = 5 * time.Second

// GitResolver detects the repository identity from the git remote "origin".
type GitResolver struct {
	// Dir is the working directory for the git query; empty means the
	// process working directory.
	Dir string
}

// Resolve runs a single read-only git query and parses the remote URL. Any
// failure (no git, no remote, unparseable URL) reports no identity; nothing
// here retries.
func (g *GitResolver) Resolve() (*Identity, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = g.Dir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git remote lookup failed: %w", err)
	}

	id := ParseRemoteURL(strings.TrimSpace(string(out)))
	if id == nil {
		return nil, fmt.Errorf("cannot parse remote URL %q", strings.TrimSpace(string(out)))
	}
	return id, nil
}

var remotePatterns = []*regexp.Regexp{
	// SSH form: git@host:owner/repo.git
	regexp.MustCompile(`^git@[^:]+:([^/]+)/([^/]+?)(?:\.git)?$`),
	// HTTPS form: https://host/owner/repo[.git]
	regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/]+?)(?:\.git)?$`),
}

// ParseRemoteURL extracts owner and repository name from a git remote URL.
// Returns nil when the URL matches neither the SSH nor the HTTPS form.
func ParseRemoteURL(url string) *Identity {
	for _, pattern := range remotePatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return &Identity{Owner: m[1], Name: m[2]}
		}
	}
	return nil
}
