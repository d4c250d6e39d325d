package model

// ReservoirStatistic is one NVE magasinstatistikk row: the fill state of a
// price area for one ISO week. Ratios are fractions (0..1) upstream and
// scaled x100 for display.
type ReservoirStatistic struct {
	OmrType      string  `json:"omrType"`
	Omrnr        int     `json:"omrnr"`
	ISOYear      int     `json:"iso_aar"`
	ISOWeek      int     `json:"iso_uke"`
	Fyllingsgrad float64 `json:"fyllingsgrad"`
	KapasitetTWh float64 `json:"kapasitet_TWh"`
	FyllingTWh   float64 `json:"fylling_TWh"`
	EndringTWh   float64 `json:"endring_fylling_TWh"`
}

// ReservoirHistory is the historical spread for one area and ISO week.
type ReservoirHistory struct {
	OmrType       string  `json:"omrType"`
	Omrnr         int     `json:"omrnr"`
	ISOWeek       int     `json:"iso_uke"`
	MinFylling    float64 `json:"minFyllingsgrad"`
	MaxFylling    float64 `json:"maxFyllingsgrad"`
	MedianFylling float64 `json:"medianFyllingsGrad"`
}

// AreaMeta is static descriptive metadata for an NVE elspot area number.
type AreaMeta struct {
	Omrnr       int       `json:"omrnr"`
	AreaCode    PriceArea `json:"areaCode"`
	Description string    `json:"description"`
}

// HydroPlant is one entry of the embedded hydropower plant registry.
type HydroPlant struct {
	Name          string    `json:"name"`
	AreaCode      PriceArea `json:"areaCode"`
	Municipality  string    `json:"municipality"`
	CapacityMW    float64   `json:"capacityMW"`
	MeanAnnualGWh float64   `json:"meanAnnualGWh"`
	Owner         string    `json:"owner"`
}
