package hydropower

import (
	"context"
	"slices"

	"github.com/samber/lo"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"github.com/strompris-no/strompris-api/internal/pkg/nve"
	"github.com/strompris-no/strompris-api/internal/pkg/reservoir"
	"go.uber.org/zap"
)

const largestPlantCount = 10

type reservoirSource interface {
	Aggregate(ctx context.Context) model.Sourced[reservoir.Overview]
}

// NationalSummary describes the registered hydropower fleet as a whole.
type NationalSummary struct {
	PlantCount           int     `json:"plantCount"`
	TotalCapacityMW      float64 `json:"totalCapacityMW"`
	TotalMeanAnnualGWh   float64 `json:"totalMeanAnnualGWh"`
	ReservoirFillPercent float64 `json:"reservoirFillPercent"`
}

// AreaSummary describes the fleet within one price area, joined with the
// area's current reservoir fill.
type AreaSummary struct {
	AreaCode             model.PriceArea `json:"areaCode"`
	PlantCount           int             `json:"plantCount"`
	CapacityMW           float64         `json:"capacityMW"`
	MeanAnnualGWh        float64         `json:"meanAnnualGWh"`
	ReservoirFillPercent float64         `json:"reservoirFillPercent"`
}

// Report is the /api/hydropower payload.
type Report struct {
	NationalSummary  NationalSummary    `json:"nationalSummary"`
	PriceAreaSummary []AreaSummary      `json:"priceAreaSummary"`
	LargestPlants    []model.HydroPlant `json:"largestPlants"`
}

// Aggregator joins the embedded plant registry with live reservoir fill.
type Aggregator struct {
	reservoirs reservoirSource
	logger     *zap.Logger
}

func NewAggregator(reservoirs reservoirSource) *Aggregator {
	return &Aggregator{reservoirs: reservoirs, logger: zap.L()}
}

// Aggregate builds the hydropower report. Reservoir data degrading to its
// fallback snapshot only affects the fill percentages, not the registry
// figures.
func (a *Aggregator) Aggregate(ctx context.Context) Report {
	plants := nve.Plants()
	overview := a.reservoirs.Aggregate(ctx)
	if overview.IsFallback() {
		a.logger.Warn("hydropower report using fallback reservoir data",
			zap.String("reason", overview.Reason))
	}

	fillByArea := lo.SliceToMap(overview.Value.PriceAreas, func(s reservoir.AreaSummary) (model.PriceArea, float64) {
		return s.AreaCode, s.FillPercent
	})

	byArea := lo.GroupBy(plants, func(p model.HydroPlant) model.PriceArea {
		return p.AreaCode
	})
	areaSummaries := make([]AreaSummary, 0, len(model.PriceAreas))
	for _, area := range model.PriceAreas {
		areaPlants := byArea[area]
		if len(areaPlants) == 0 && fillByArea[area] == 0 {
			continue
		}
		areaSummaries = append(areaSummaries, AreaSummary{
			AreaCode:   area,
			PlantCount: len(areaPlants),
			CapacityMW: lo.SumBy(areaPlants, func(p model.HydroPlant) float64 {
				return p.CapacityMW
			}),
			MeanAnnualGWh: lo.SumBy(areaPlants, func(p model.HydroPlant) float64 {
				return p.MeanAnnualGWh
			}),
			ReservoirFillPercent: fillByArea[area],
		})
	}

	largest := slices.Clone(plants)
	slices.SortFunc(largest, func(a, b model.HydroPlant) int {
		switch {
		case a.CapacityMW > b.CapacityMW:
			return -1
		case a.CapacityMW < b.CapacityMW:
			return 1
		}
		return 0
	})
	if len(largest) > largestPlantCount {
		largest = largest[:largestPlantCount]
	}

	return Report{
		NationalSummary: NationalSummary{
			PlantCount: len(plants),
			TotalCapacityMW: lo.SumBy(plants, func(p model.HydroPlant) float64 {
				return p.CapacityMW
			}),
			TotalMeanAnnualGWh: lo.SumBy(plants, func(p model.HydroPlant) float64 {
				return p.MeanAnnualGWh
			}),
			ReservoirFillPercent: overview.Value.National.FillPercent,
		},
		PriceAreaSummary: areaSummaries,
		LargestPlants:    largest,
	}
}
