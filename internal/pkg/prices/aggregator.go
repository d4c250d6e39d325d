package prices

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"go.uber.org/zap"
)

// ErrNoObservations means every day in the window came back empty. Callers
// surface an explicit "no data" state instead of a numeric default.
var ErrNoObservations = errors.New("no price observations in window")

const (
	// windowDays is the trailing fetch window, today included.
	windowDays = 10

	// fallbackNationalOre substitutes the national average when all five
	// areas fail. Tagged as fallback, never presented as real data.
	fallbackNationalOre = 85.0
)

type dayFetcher interface {
	FetchDay(ctx context.Context, area model.PriceArea, day time.Time) ([]model.PriceObservation, error)
}

// Summary is the aggregation result for one price area. Prices are øre/kWh.
type Summary struct {
	CurrentPrice       float64         `json:"currentPrice"`
	AveragePrice       float64         `json:"averagePrice"`
	AreaCode           model.PriceArea `json:"areaCode"`
	DaysIncluded       int             `json:"daysIncluded"`
	TotalHoursIncluded int             `json:"totalHoursIncluded"`
}

// NationalAverage is the five-area average ("kingAverage" on the site).
type NationalAverage struct {
	Areas         map[model.PriceArea]float64
	National      float64
	CalculatedAt  time.Time
	AreasIncluded []model.PriceArea
	AreasFailed   []model.PriceArea
}

// Aggregator fetches per-day price files and reduces them to summaries.
type Aggregator struct {
	fetcher dayFetcher
	logger  *zap.Logger
	now     func() time.Time
}

func NewAggregator(fetcher dayFetcher) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  zap.L(),
		now:     time.Now,
	}
}

// Aggregate fetches the trailing window for one area in parallel and reduces
// it to a current/average summary. A day that fails or is unpublished
// contributes an empty list; a sibling failure never cancels the others.
func (a *Aggregator) Aggregate(ctx context.Context, area model.PriceArea) (Summary, error) {
	now := a.now()
	days := make([][]model.PriceObservation, windowDays)

	var wg sync.WaitGroup
	for i := 0; i < windowDays; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			day := now.AddDate(0, 0, -slot)
			observations, err := a.fetcher.FetchDay(ctx, area, day)
			if err != nil {
				a.logger.Warn("day fetch failed, counting as empty",
					zap.String("area", area.String()),
					zap.String("day", day.Format("2006-01-02")),
					zap.Error(err))
				return
			}
			days[slot] = observations
		}(i)
	}
	wg.Wait()

	all := lo.Flatten(days)
	if len(all) == 0 {
		return Summary{}, ErrNoObservations
	}

	daysIncluded := lo.CountBy(days, func(d []model.PriceObservation) bool {
		return len(d) > 0
	})

	mean := lo.SumBy(all, func(o model.PriceObservation) float64 {
		return o.NOKPerKwh
	}) / float64(len(all))

	return Summary{
		CurrentPrice:       currentObservation(all, now).NOKPerKwh * 100,
		AveragePrice:       mean * 100,
		AreaCode:           area,
		DaysIncluded:       daysIncluded,
		TotalHoursIncluded: len(all),
	}, nil
}

// currentObservation picks the observation whose hour contains now, falling
// back to the most recent one when none matches (clock skew, last data
// point).
func currentObservation(observations []model.PriceObservation, now time.Time) model.PriceObservation {
	for _, o := range observations {
		if o.Contains(now) {
			return o
		}
	}
	return slices.MaxFunc(observations, func(a, b model.PriceObservation) int {
		return a.TimeStart.Compare(b.TimeStart)
	})
}

// National aggregates all five areas and averages the ones that returned
// data. When every area fails, the documented fallback constant is
// substituted and tagged as such.
func (a *Aggregator) National(ctx context.Context) model.Sourced[NationalAverage] {
	type areaResult struct {
		area    model.PriceArea
		summary Summary
		err     error
	}

	results := make([]areaResult, len(model.PriceAreas))
	var wg sync.WaitGroup
	for i, area := range model.PriceAreas {
		wg.Add(1)
		go func(slot int, area model.PriceArea) {
			defer wg.Done()
			summary, err := a.Aggregate(ctx, area)
			results[slot] = areaResult{area: area, summary: summary, err: err}
		}(i, area)
	}
	wg.Wait()

	na := NationalAverage{
		Areas:        make(map[model.PriceArea]float64, len(model.PriceAreas)),
		CalculatedAt: a.now(),
	}
	for _, r := range results {
		if r.err != nil {
			a.logger.Warn("area excluded from national average",
				zap.String("area", r.area.String()), zap.Error(r.err))
			na.AreasFailed = append(na.AreasFailed, r.area)
			continue
		}
		na.Areas[r.area] = r.summary.AveragePrice
		na.AreasIncluded = append(na.AreasIncluded, r.area)
	}

	if len(na.AreasIncluded) == 0 {
		na.National = fallbackNationalOre
		for _, area := range model.PriceAreas {
			na.Areas[area] = fallbackNationalOre
		}
		return model.Fallback(na, "all price areas failed to return observations")
	}

	na.National = lo.Sum(lo.Values(na.Areas)) / float64(len(na.Areas))
	return model.Real(na)
}
