package tracking

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	userID := uuid.New()

	t.Run("creates active store with hex secret", func(t *testing.T) {
		s, err := NewStore(userID, MarketplaceShopify, " My Shop ", "https://shop.example.com")

		require.NoError(t, err)
		assert.Equal(t, "My Shop", s.Name)
		assert.Equal(t, StoreStatusActive, s.Status)
		assert.True(t, s.OwnedBy(userID))
		assert.False(t, s.IsDisabled())
		assert.Len(t, s.WebhookSecret, 64)
		_, err = hex.DecodeString(s.WebhookSecret)
		assert.NoError(t, err)
	})

	t.Run("secrets differ between stores", func(t *testing.T) {
		a, err := NewStore(userID, MarketplaceMagento, "A", "http://a.example.com")
		require.NoError(t, err)
		b, err := NewStore(userID, MarketplaceMagento, "B", "http://b.example.com")
		require.NoError(t, err)

		assert.NotEqual(t, a.WebhookSecret, b.WebhookSecret)
	})

	tests := []struct {
		name        string
		user        uuid.UUID
		marketplace Marketplace
		storeName   string
		url         string
		code        string
	}{
		{"nil user", uuid.Nil, MarketplaceShopify, "x", "https://x.io", "INVALID_USER"},
		{"bad marketplace", userID, Marketplace("ETSY"), "x", "https://x.io", "INVALID_MARKETPLACE"},
		{"empty name", userID, MarketplaceShopify, "  ", "https://x.io", "INVALID_NAME"},
		{"long name", userID, MarketplaceShopify, strings.Repeat("n", 101), "https://x.io", "INVALID_NAME"},
		{"bad url", userID, MarketplaceShopify, "x", "not a url", "INVALID_URL"},
		{"ftp url", userID, MarketplaceShopify, "x", "ftp://x.io", "INVALID_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(tt.user, tt.marketplace, tt.storeName, tt.url)

			assert.Nil(t, s)
			require.Error(t, err)
			assertDomainCode(t, err, tt.code)
		})
	}
}

func TestStore_SetStatus(t *testing.T) {
	s, err := NewStore(uuid.New(), MarketplaceWooCommerce, "W", "https://w.example.com")
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(StoreStatusDisabled))
	assert.True(t, s.IsDisabled())

	err = s.SetStatus(StoreStatus("PAUSED"))
	assertDomainCode(t, err, "INVALID_STATUS")
	assert.True(t, s.IsDisabled())
}
