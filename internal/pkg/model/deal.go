package model

// ProductType tags how a deal is priced.
type ProductType string

func (pt ProductType) String() string {
	return string(pt)
}

const (
	ProductFixed      ProductType = "fixed"
	ProductSpot       ProductType = "spot"
	ProductHourlySpot ProductType = "hourly_spot"
	ProductPlus       ProductType = "plus"
)

// MarketIndexed reports whether the product follows the spot market, i.e.
// its effective price depends on the current market price.
func (pt ProductType) MarketIndexed() bool {
	switch pt {
	case ProductSpot, ProductHourlySpot, ProductPlus:
		return true
	}
	return false
}

// SalesNetwork is the per-grid pricing entry inside a deal. For fixed deals
// KwPrice is the contracted rate in øre/kWh.
type SalesNetwork struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	KwPrice float64 `json:"kwPrice"`
}

// Deal is a single electricity product from the Forbrukerrådet feed. The
// site never mutates or persists deals; they are reshaped per request.
type Deal struct {
	ID                 int            `json:"id"`
	Name               string         `json:"name"`
	ProviderID         int            `json:"providerId"`
	ProductType        ProductType    `json:"productType"`
	MonthlyFee         float64        `json:"monthlyFee"`
	AddonPrice         float64        `json:"addonPrice"`
	ElCertificatePrice float64        `json:"elCertificatePrice"`
	AgreementTime      int            `json:"agreementTime"`
	CancellationFee    float64        `json:"cancellationFee"`
	SalesNetworks      []SalesNetwork `json:"salesNetworks"`
}

// FixedKwPrice returns the contracted rate of a fixed deal, or 0 when the
// deal carries no sales network entry.
func (d Deal) FixedKwPrice() float64 {
	if len(d.SalesNetworks) == 0 {
		return 0
	}
	return d.SalesNetworks[0].KwPrice
}

// ProviderInfo is the denormalized provider sub-object embedded in each
// normalized product.
type ProviderInfo struct {
	Name               string `json:"name"`
	OrganizationNumber string `json:"organizationNumber"`
	URL                string `json:"url,omitempty"`
	PricelistURL       string `json:"pricelistUrl,omitempty"`
}

// Product is a Deal flattened out of the providers-with-nested-products
// feed, annotated with its provider.
type Product struct {
	Deal
	Provider ProviderInfo `json:"provider"`
}
