package tenant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func TestStrategyFromConfig(t *testing.T) {
	t.Run("subdomain", func(t *testing.T) {
		t.Setenv(tenant.EnvBaseDomain, "")

		s, err := tenant.StrategyFromConfig(tenant.Config{
			Strategy:   tenant.StrategySubdomain,
			BaseDomain: "example.org",
		})
		require.NoError(t, err)

		key, ok := s.Identify(tenant.Request{Host: "acme.example.org"})
		require.True(t, ok)
		assert.Equal(t, "acme", key.Value)
	})

	t.Run("empty strategy defaults to subdomain", func(t *testing.T) {
		t.Setenv(tenant.EnvBaseDomain, "")

		s, err := tenant.StrategyFromConfig(tenant.Config{BaseDomain: "example.org"})
		require.NoError(t, err)

		_, ok := s.Identify(tenant.Request{Host: "acme.example.org"})
		assert.True(t, ok)
	})

	t.Run("placeholder base domain ignored", func(t *testing.T) {
		t.Setenv(tenant.EnvBaseDomain, "")

		s, err := tenant.StrategyFromConfig(tenant.Config{
			Strategy:   tenant.StrategySubdomain,
			BaseDomain: tenant.PlaceholderBaseDomain,
		})
		require.NoError(t, err)

		// With the placeholder discarded the base domain is localhost, so
		// a placeholder-domain host never resolves a tenant.
		_, ok := s.Identify(tenant.Request{Host: "acme.example.com"})
		assert.False(t, ok)
	})

	t.Run("domain", func(t *testing.T) {
		s, err := tenant.StrategyFromConfig(tenant.Config{Strategy: tenant.StrategyDomain})
		require.NoError(t, err)
		assert.IsType(t, tenant.Domain{}, s)
	})

	t.Run("domain or subdomain", func(t *testing.T) {
		s, err := tenant.StrategyFromConfig(tenant.Config{Strategy: tenant.StrategyDomainOrSubdomain})
		require.NoError(t, err)
		assert.IsType(t, tenant.DomainOrSubdomain{}, s)
	})

	t.Run("path", func(t *testing.T) {
		s, err := tenant.StrategyFromConfig(tenant.Config{Strategy: tenant.StrategyPath, PathPosition: 2})
		require.NoError(t, err)

		key, ok := s.Identify(tenant.Request{Path: "/api/acme/users"})
		require.True(t, ok)
		assert.Equal(t, "acme", key.Value)
	})

	t.Run("header", func(t *testing.T) {
		s, err := tenant.StrategyFromConfig(tenant.Config{
			Strategy: tenant.StrategyHeader,
			Header:   "X-Tenant",
		})
		require.NoError(t, err)
		assert.IsType(t, tenant.HeaderOrQuery{}, s)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := tenant.StrategyFromConfig(tenant.Config{Strategy: "dns"})
		require.ErrorIs(t, err, tenant.ErrInvalidIdentifier)
	})
}
