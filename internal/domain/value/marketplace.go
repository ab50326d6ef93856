package value

import (
	"fmt"
	"strings"
)

type Marketplace string

const (
	MarketplaceAppSumo     Marketplace = "AppSumo"
	MarketplaceDealMirror  Marketplace = "DealMirror"
	MarketplaceSaasMantra  Marketplace = "SaasMantra"
	MarketplaceRockethub   Marketplace = "Rockethub"
	MarketplaceDealFuel    Marketplace = "DealFuel"
	MarketplaceDealify     Marketplace = "Dealify"
	MarketplaceDealfy      Marketplace = "Dealfy"
	MarketplacePitchGround Marketplace = "PitchGround"
	MarketplacePrimeClub   Marketplace = "Prime Club"
	MarketplaceStackSocial Marketplace = "StackSocial"
	MarketplaceOther       Marketplace = "Other"
)

func Marketplaces() []Marketplace {
	return []Marketplace{
		MarketplaceAppSumo,
		MarketplaceDealMirror,
		MarketplaceSaasMantra,
		MarketplaceRockethub,
		MarketplaceDealFuel,
		MarketplaceDealify,
		MarketplaceDealfy,
		MarketplacePitchGround,
		MarketplacePrimeClub,
		MarketplaceStackSocial,
		MarketplaceOther,
	}
}

// ParseMarketplace сравнивает без учёта регистра и пробелов по краям:
// "appsumo" -> AppSumo.
func ParseMarketplace(s string) (Marketplace, error) {
	needle := strings.TrimSpace(s)

	for _, m := range Marketplaces() {
		if strings.EqualFold(needle, string(m)) {
			return m, nil
		}
	}

	return "", fmt.Errorf("unknown marketplace %q", s)
}

func (m Marketplace) String() string {
	return string(m)
}
