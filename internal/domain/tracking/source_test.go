package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMarketplace(t *testing.T) {
	tests := []struct {
		in   string
		want Marketplace
		ok   bool
	}{
		{"shopify", MarketplaceShopify, true},
		{"WooCommerce", MarketplaceWooCommerce, true},
		{"BIGCOMMERCE", MarketplaceBigCommerce, true},
		{" magento ", MarketplaceMagento, true},
		{"etsy", Marketplace("ETSY"), false},
		{"", Marketplace(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMarketplace(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarketplace_PathSegment(t *testing.T) {
	assert.Equal(t, "woocommerce", MarketplaceWooCommerce.PathSegment())
}

func TestSource_Classification(t *testing.T) {
	for _, s := range AllSources() {
		assert.True(t, s.IsValid(), s)
	}
	assert.Len(t, AllSources(), 13)

	assert.True(t, SourceShopify.IsMarketplace())
	assert.False(t, SourceShopify.IsAdPlatform())

	assert.True(t, SourceTikTokAds.IsAdPlatform())
	assert.False(t, SourceTikTokAds.IsMarketplace())

	assert.False(t, SourceCustomSite1.IsMarketplace())
	assert.False(t, SourceCustomSite1.IsAdPlatform())

	assert.False(t, Source("NEWSLETTER").IsValid())
	assert.Equal(t, SourceMagento, SourceFromMarketplace(MarketplaceMagento))
}

func TestDecodeOrderPayload(t *testing.T) {
	p, err := DecodeOrderPayload([]byte(`{"id":820982911946154508,"name":"#1"}`))
	assert.NoError(t, err)
	assert.Equal(t, "820982911946154508", p["id"].(interface{ String() string }).String())

	_, err = DecodeOrderPayload([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeOrderPayload([]byte(`[1,2,3]`))
	assert.Error(t, err)
}
