package service

import (
	"testing"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/stretchr/testify/require"
)

func TestScopeSubsetPolicy(t *testing.T) {
	t.Parallel()

	policy := ScopeSubsetPolicy{}
	info := domain.TokenInfo{
		Role:   domain.RoleDoctor,
		Scopes: []string{"read:patients", "write:appointments"},
	}

	t.Run("allows when every required scope is held", func(t *testing.T) {
		require.True(t, policy.Allows(info, []string{"read:patients"}))
		require.True(t, policy.Allows(info, []string{"read:patients", "write:appointments"}))
	})

	t.Run("denies when any required scope is missing", func(t *testing.T) {
		require.False(t, policy.Allows(info, []string{"write:medications"}))
		require.False(t, policy.Allows(info, []string{"read:patients", "write:medications"}))
	})

	t.Run("allows when nothing is required", func(t *testing.T) {
		require.True(t, policy.Allows(domain.TokenInfo{}, nil))
		require.True(t, policy.Allows(domain.TokenInfo{}, []string{}))
	})
}

func TestRoleBypassPolicy(t *testing.T) {
	t.Parallel()

	policy := RoleBypassPolicy{}
	require.True(t, policy.Allows(domain.TokenInfo{}, []string{"write:medications"}))
	require.True(t, policy.Allows(domain.TokenInfo{}, nil))
}

func TestAccessGuardCheckAccess(t *testing.T) {
	t.Parallel()

	guard := NewAccessGuard()

	t.Run("admin bypasses scope checks", func(t *testing.T) {
		info := domain.TokenInfo{Role: domain.RoleAdmin, Scopes: nil}
		require.NoError(t, guard.CheckAccess(info, []string{"write:medications", "write:patients"}))
	})

	t.Run("other roles need the full scope set", func(t *testing.T) {
		info := domain.TokenInfo{
			Role:   domain.RoleNurse,
			Scopes: []string{"read:patients", "read:vitals"},
		}
		require.NoError(t, guard.CheckAccess(info, []string{"read:vitals"}))

		err := guard.CheckAccess(info, []string{"write:medications"})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown roles fall back to scope checking", func(t *testing.T) {
		info := domain.TokenInfo{
			Role:   domain.Role("auditor"),
			Scopes: []string{"read:patients"},
		}
		require.NoError(t, guard.CheckAccess(info, []string{"read:patients"}))
		require.ErrorIs(t, guard.CheckAccess(info, []string{"write:patients"}), ErrForbidden)
	})
}
