package model

import "time"

// PriceArea is one of the five Norwegian bidding zones.
type PriceArea string

func (pa PriceArea) String() string {
	return string(pa)
}

const (
	NO1 PriceArea = "NO1" // Øst-Norge
	NO2 PriceArea = "NO2" // Sør-Norge
	NO3 PriceArea = "NO3" // Midt-Norge
	NO4 PriceArea = "NO4" // Nord-Norge
	NO5 PriceArea = "NO5" // Vest-Norge
)

var PriceAreas = []PriceArea{NO1, NO2, NO3, NO4, NO5}

// ValidArea reports whether s names one of the five bidding zones.
func ValidArea(s string) bool {
	for _, area := range PriceAreas {
		if string(area) == s {
			return true
		}
	}
	return false
}

// PriceObservation is a single hourly spot price as published by
// hvakosterstrommen.no. Values are per kWh, VAT excluded.
type PriceObservation struct {
	NOKPerKwh float64   `json:"NOK_per_kWh"`
	EURPerKwh float64   `json:"EUR_per_kWh"`
	EXR       float64   `json:"EXR"`
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`
}

// Contains reports whether t falls within the observation's hour.
func (o PriceObservation) Contains(t time.Time) bool {
	return !t.Before(o.TimeStart) && t.Before(o.TimeEnd)
}

// Provider is an electricity retailer. The registry is a static list merged
// with entries discovered in the deals feed.
type Provider struct {
	Name               string `json:"name"`
	OrganizationNumber string `json:"organizationNumber"`
	URL                string `json:"url,omitempty"`
	PricelistURL       string `json:"pricelistUrl,omitempty"`
	Slug               string `json:"slug"`
}

// Municipality is static reference data mapping postal codes to a nominal
// price area.
type Municipality struct {
	Number       int       `json:"number"`
	Name         string    `json:"name"`
	CountyNumber int       `json:"countyNumber"`
	AreaCode     PriceArea `json:"areaCode"`
	PostalCodes  []string  `json:"postalCodes"`
}

// LocalGrid is a distribution grid operator area. A grid's areaCode
// overrides the municipality's nominal area where they differ.
type LocalGrid struct {
	ID                     int       `json:"id"`
	Name                   string    `json:"name"`
	MunicipalityNumber     int       `json:"municipalityNumber"`
	AreaCode               PriceArea `json:"areaCode"`
	VATExemption           bool      `json:"vatExemption"`
	ElCertificateExemption bool      `json:"elCertificateExemption"`
}
