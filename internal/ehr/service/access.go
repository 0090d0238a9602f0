package service

import (
	"errors"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
)

var ErrForbidden = errors.New("insufficient_scope")

// AccessPolicy decides whether a validated claim set may invoke an
// operation guarded by the given scopes.
type AccessPolicy interface {
	Allows(info domain.TokenInfo, requiredScopes []string) bool
}

// ScopeSubsetPolicy allows a call when every required scope was granted to
// the token at issuance.
type ScopeSubsetPolicy struct{}

func (ScopeSubsetPolicy) Allows(info domain.TokenInfo, requiredScopes []string) bool {
	granted := make(map[string]struct{}, len(info.Scopes))
	for _, s := range info.Scopes {
		granted[s] = struct{}{}
	}
	for _, req := range requiredScopes {
		if _, ok := granted[req]; !ok {
			return false
		}
	}
	return true
}

// RoleBypassPolicy allows every call regardless of scopes. Reserved for
// roles trusted with full access.
type RoleBypassPolicy struct{}

func (RoleBypassPolicy) Allows(domain.TokenInfo, []string) bool { return true }

// AccessGuard selects the policy for a claim set by role. The policy table
// is fixed at construction, so granting a new role special treatment never
// touches the dispatcher.
type AccessGuard struct {
	policies map[domain.Role]AccessPolicy
	fallback AccessPolicy
}

// NewAccessGuard builds the standard guard: admins bypass scope checks,
// every other role needs the full required-scope set.
func NewAccessGuard() *AccessGuard {
	return &AccessGuard{
		policies: map[domain.Role]AccessPolicy{
			domain.RoleAdmin: RoleBypassPolicy{},
		},
		fallback: ScopeSubsetPolicy{},
	}
}

// CheckAccess runs strictly between token validation and handler
// invocation. A Forbidden result means the handler was never reached, so a
// denied call leaves no side effects anywhere.
func (g *AccessGuard) CheckAccess(info domain.TokenInfo, requiredScopes []string) error {
	policy, ok := g.policies[info.Role]
	if !ok {
		policy = g.fallback
	}
	if policy.Allows(info, requiredScopes) {
		return nil
	}
	return ErrForbidden
}
