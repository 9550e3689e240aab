package tracking

import "strings"

// Marketplace is a storefront platform that delivers order webhooks
type Marketplace string

const (
	MarketplaceShopify     Marketplace = "SHOPIFY"
	MarketplaceWooCommerce Marketplace = "WOOCOMMERCE"
	MarketplaceBigCommerce Marketplace = "BIGCOMMERCE"
	MarketplaceMagento     Marketplace = "MAGENTO"
)

// AllMarketplaces returns every supported marketplace
func AllMarketplaces() []Marketplace {
	return []Marketplace{
		MarketplaceShopify,
		MarketplaceWooCommerce,
		MarketplaceBigCommerce,
		MarketplaceMagento,
	}
}

// String returns the string representation
func (m Marketplace) String() string {
	return string(m)
}

// IsValid checks if the marketplace is supported
func (m Marketplace) IsValid() bool {
	switch m {
	case MarketplaceShopify, MarketplaceWooCommerce, MarketplaceBigCommerce, MarketplaceMagento:
		return true
	}
	return false
}

// PathSegment is the lower-case form used in webhook URLs
func (m Marketplace) PathSegment() string {
	return strings.ToLower(string(m))
}

// ParseMarketplace accepts either the enum value or its URL path segment
func ParseMarketplace(s string) (Marketplace, bool) {
	m := Marketplace(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.IsValid()
}

// Source is where a tracked event came from
type Source string

const (
	SourceShopify      Source = "SHOPIFY"
	SourceWooCommerce  Source = "WOOCOMMERCE"
	SourceBigCommerce  Source = "BIGCOMMERCE"
	SourceMagento      Source = "MAGENTO"
	SourceCustomSite1  Source = "CUSTOM_SITE_1"
	SourceCustomSite2  Source = "CUSTOM_SITE_2"
	SourceMetaAds      Source = "META_ADS"
	SourceGoogleAds    Source = "GOOGLE_ADS"
	SourceTikTokAds    Source = "TIKTOK_ADS"
	SourceXAds         Source = "X_ADS"
	SourceSnapchatAds  Source = "SNAPCHAT_ADS"
	SourceRedditAds    Source = "REDDIT_ADS"
	SourcePinterestAds Source = "PINTEREST_ADS"
)

var adPlatforms = map[Source]bool{
	SourceMetaAds:      true,
	SourceGoogleAds:    true,
	SourceTikTokAds:    true,
	SourceXAds:         true,
	SourceSnapchatAds:  true,
	SourceRedditAds:    true,
	SourcePinterestAds: true,
}

// AllSources returns every accepted source
func AllSources() []Source {
	return []Source{
		SourceShopify, SourceWooCommerce, SourceBigCommerce, SourceMagento,
		SourceCustomSite1, SourceCustomSite2,
		SourceMetaAds, SourceGoogleAds, SourceTikTokAds, SourceXAds,
		SourceSnapchatAds, SourceRedditAds, SourcePinterestAds,
	}
}

// SourceFromMarketplace maps a marketplace onto its event source
func SourceFromMarketplace(m Marketplace) Source {
	return Source(m)
}

// String returns the string representation
func (s Source) String() string {
	return string(s)
}

// IsValid checks if the source is accepted
func (s Source) IsValid() bool {
	switch s {
	case SourceCustomSite1, SourceCustomSite2:
		return true
	}
	return s.IsMarketplace() || s.IsAdPlatform()
}

// IsMarketplace reports whether the source is a storefront platform
func (s Source) IsMarketplace() bool {
	return Marketplace(s).IsValid()
}

// IsAdPlatform reports whether the source is an ad network.
// Ad platforms can only be tracked manually, never via webhooks.
func (s Source) IsAdPlatform() bool {
	return adPlatforms[s]
}
