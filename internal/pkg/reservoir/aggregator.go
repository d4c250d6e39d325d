package reservoir

import (
	"context"
	"math"
	"sync"

	"github.com/samber/lo"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"github.com/strompris-no/strompris-api/internal/pkg/nve"
	"go.uber.org/zap"
)

type statsSource interface {
	Latest(ctx context.Context) ([]model.ReservoirStatistic, error)
	MinMaxMedian(ctx context.Context) ([]model.ReservoirHistory, error)
}

// AreaSummary is the joined reservoir state for one price area. Percent
// fields are 0..100 for display; upstream stores fractions.
type AreaSummary struct {
	AreaCode       model.PriceArea `json:"areaCode"`
	Description    string          `json:"description"`
	ISOWeek        int             `json:"isoWeek"`
	FillPercent    float64         `json:"fillPercent"`
	CapacityTWh    float64         `json:"capacityTWh"`
	FillingTWh     float64         `json:"fillingTWh"`
	ChangeTWh      float64         `json:"changeTWh"`
	MedianPercent  float64         `json:"medianPercent"`
	PercentileRank int             `json:"percentileRank"`
}

// NationalSummary is the country-wide reservoir state.
type NationalSummary struct {
	ISOWeek        int     `json:"isoWeek"`
	FillPercent    float64 `json:"fillPercent"`
	CapacityTWh    float64 `json:"capacityTWh"`
	FillingTWh     float64 `json:"fillingTWh"`
	PercentileRank int     `json:"percentileRank"`
}

// Overview is the full reservoir response payload.
type Overview struct {
	National   NationalSummary `json:"national"`
	PriceAreas []AreaSummary   `json:"priceAreas"`
}

// Aggregator joins the latest fill statistics with the historical spread
// and the static area metadata.
type Aggregator struct {
	source statsSource
	logger *zap.Logger
}

func NewAggregator(source statsSource) *Aggregator {
	return &Aggregator{source: source, logger: zap.L()}
}

// PercentileRank places v within the historical [min, max] for the same ISO
// week, as a 0..100 rank. A week with no spread ranks neutral at 50.
func PercentileRank(v, min, max float64) int {
	if max == min {
		return 50
	}
	return int(math.Round((v - min) / (max - min) * 100))
}

// Aggregate fetches both datasets in parallel and joins them per area. A
// failing history fetch degrades ranks to neutral; an empty primary fetch
// substitutes the static fallback snapshot so the page always has numbers.
func (a *Aggregator) Aggregate(ctx context.Context) model.Sourced[Overview] {
	var (
		wg      sync.WaitGroup
		latest  []model.ReservoirStatistic
		history []model.ReservoirHistory
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rows, err := a.source.Latest(ctx)
		if err != nil {
			a.logger.Warn("reservoir fill fetch failed", zap.Error(err))
			return
		}
		latest = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := a.source.MinMaxMedian(ctx)
		if err != nil {
			a.logger.Warn("reservoir history fetch failed", zap.Error(err))
			return
		}
		history = rows
	}()
	wg.Wait()

	if len(latest) == 0 {
		a.logger.Warn("no reservoir fill data, serving fallback snapshot")
		return model.Fallback(fallbackSnapshot(), "NVE magasinstatistikk returned no rows")
	}

	return model.Real(a.join(latest, history))
}

func (a *Aggregator) join(latest []model.ReservoirStatistic, history []model.ReservoirHistory) Overview {
	overview := Overview{}
	for _, row := range latest {
		switch row.OmrType {
		case "NO":
			overview.National = NationalSummary{
				ISOWeek:        row.ISOWeek,
				FillPercent:    row.Fyllingsgrad * 100,
				CapacityTWh:    row.KapasitetTWh,
				FillingTWh:     row.FyllingTWh,
				PercentileRank: a.rankFor(history, row),
			}
		case "EL":
			meta, ok := nve.AreaForOmrnr(row.Omrnr)
			if !ok {
				continue
			}
			summary := AreaSummary{
				AreaCode:       meta.AreaCode,
				Description:    meta.Description,
				ISOWeek:        row.ISOWeek,
				FillPercent:    row.Fyllingsgrad * 100,
				CapacityTWh:    row.KapasitetTWh,
				FillingTWh:     row.FyllingTWh,
				ChangeTWh:      row.EndringTWh,
				PercentileRank: a.rankFor(history, row),
			}
			if h, ok := a.historyFor(history, row); ok {
				summary.MedianPercent = h.MedianFylling * 100
			}
			overview.PriceAreas = append(overview.PriceAreas, summary)
		}
	}
	return overview
}

func (a *Aggregator) historyFor(history []model.ReservoirHistory, row model.ReservoirStatistic) (model.ReservoirHistory, bool) {
	return lo.Find(history, func(h model.ReservoirHistory) bool {
		return h.OmrType == row.OmrType && h.Omrnr == row.Omrnr && h.ISOWeek == row.ISOWeek
	})
}

// rankFor computes the percentile rank for a row, neutral when no matching
// history exists.
func (a *Aggregator) rankFor(history []model.ReservoirHistory, row model.ReservoirStatistic) int {
	h, ok := a.historyFor(history, row)
	if !ok {
		return 50
	}
	return PercentileRank(row.Fyllingsgrad, h.MinFylling, h.MaxFylling)
}
