package hydropower

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"github.com/strompris-no/strompris-api/internal/pkg/reservoir"
	"go.uber.org/zap"
)

type fakeReservoirs struct {
	result model.Sourced[reservoir.Overview]
}

func (f *fakeReservoirs) Aggregate(context.Context) model.Sourced[reservoir.Overview] {
	return f.result
}

func testAggregator(result model.Sourced[reservoir.Overview]) *Aggregator {
	return &Aggregator{reservoirs: &fakeReservoirs{result: result}, logger: zap.NewNop()}
}

func liveOverview() reservoir.Overview {
	return reservoir.Overview{
		National: reservoir.NationalSummary{FillPercent: 81.2},
		PriceAreas: []reservoir.AreaSummary{
			{AreaCode: model.NO2, FillPercent: 84.1},
			{AreaCode: model.NO5, FillPercent: 76.9},
		},
	}
}

func TestAggregateJoinsRegistryWithReservoirFill(t *testing.T) {
	report := testAggregator(model.Real(liveOverview())).Aggregate(context.Background())

	assert.Equal(t, 12, report.NationalSummary.PlantCount)
	assert.InDelta(t, 7530.0, report.NationalSummary.TotalCapacityMW, 1e-9)
	assert.InDelta(t, 26096.0, report.NationalSummary.TotalMeanAnnualGWh, 1e-9)
	assert.InDelta(t, 81.2, report.NationalSummary.ReservoirFillPercent, 1e-9)

	byArea := map[model.PriceArea]AreaSummary{}
	for _, s := range report.PriceAreaSummary {
		byArea[s.AreaCode] = s
	}

	no2 := byArea[model.NO2]
	assert.Equal(t, 5, no2.PlantCount)
	assert.InDelta(t, 3600.0, no2.CapacityMW, 1e-9)
	assert.InDelta(t, 84.1, no2.ReservoirFillPercent, 1e-9)

	// NO3 has a registered plant but no reservoir row
	no3 := byArea[model.NO3]
	assert.Equal(t, 1, no3.PlantCount)
	assert.Zero(t, no3.ReservoirFillPercent)
}

func TestLargestPlantsTruncatedAndSortedByCapacity(t *testing.T) {
	report := testAggregator(model.Real(liveOverview())).Aggregate(context.Background())

	require.Len(t, report.LargestPlants, largestPlantCount)
	assert.Equal(t, "Kvilldal", report.LargestPlants[0].Name)
	for i := 1; i < len(report.LargestPlants); i++ {
		assert.GreaterOrEqual(t,
			report.LargestPlants[i-1].CapacityMW,
			report.LargestPlants[i].CapacityMW)
	}
	for _, p := range report.LargestPlants {
		assert.NotEqual(t, "Nea", p.Name, "smallest plant must fall off the list")
	}
}

func TestFallbackReservoirStillReportsRegistry(t *testing.T) {
	result := model.Fallback(reservoir.Overview{}, "nve unreachable")
	report := testAggregator(result).Aggregate(context.Background())

	assert.Equal(t, 12, report.NationalSummary.PlantCount)
	assert.Zero(t, report.NationalSummary.ReservoirFillPercent)
	// every area with registered plants still appears, fill at zero
	require.Len(t, report.PriceAreaSummary, 4)
	for _, s := range report.PriceAreaSummary {
		assert.NotZero(t, s.PlantCount)
		assert.Zero(t, s.ReservoirFillPercent)
	}
}
