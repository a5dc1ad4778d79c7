package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledClientResolvesFree(t *testing.T) {
	c := NewClient("", "", nil)
	assert.False(t, c.Enabled())

	sub, err := c.Subscription(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, TierFree, sub.Tier)
	assert.False(t, c.IsPremium(context.Background(), "u1"))
}

func TestSubscriptionResolvesPremium(t *testing.T) {
	expires := time.Now().UTC().Add(30 * 24 * time.Hour).Format(time.RFC3339)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribers/u1", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"subscriber":{"entitlements":{"premium":{"expires_date":"` + expires + `"}}}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, nil)
	sub, err := c.Subscription(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, TierPremium, sub.Tier)
	require.NotNil(t, sub.ExpiresAt)
	assert.True(t, c.IsPremium(context.Background(), "u1"))
}

func TestSubscriptionExpiredEntitlementIsFree(t *testing.T) {
	expired := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"subscriber":{"entitlements":{"premium":{"expires_date":"` + expired + `"}}}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, nil)
	sub, err := c.Subscription(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, TierFree, sub.Tier)
}

func TestSubscriptionEnterpriseOutranksPremium(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"subscriber":{"entitlements":{"premium":{},"enterprise":{}}}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, nil)
	sub, err := c.Subscription(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, TierEnterprise, sub.Tier)
}

func TestSubscriptionUnknownSubscriberIsFree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, nil)
	sub, err := c.Subscription(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, TierFree, sub.Tier)
}

func TestSubscriptionProviderErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, nil)
	_, err := c.Subscription(context.Background(), "u1")
	assert.Error(t, err)

	// IsPremium fails closed.
	assert.False(t, c.IsPremium(context.Background(), "u1"))
}
