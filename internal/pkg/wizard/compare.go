package wizard

import (
	"context"
	"errors"

	"github.com/strompris-no/strompris-api/internal/pkg/cost"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"github.com/strompris-no/strompris-api/internal/pkg/prices"
	"go.uber.org/zap"
)

var ErrComparisonNotReady = errors.New("wizard has not reached the comparison step")

type areaResolver interface {
	Resolve(ctx context.Context, postalCode string) model.PriceArea
}

type priceSource interface {
	Aggregate(ctx context.Context, area model.PriceArea) (prices.Summary, error)
}

// Comparison is the wizard's final verdict, prices in øre/kWh.
type Comparison struct {
	AreaCode         model.PriceArea `json:"areaCode"`
	MarketPrice      float64         `json:"marketPrice"`
	EstimatedPerKwh  float64         `json:"estimatedPerKwh"`
	EstimatedMonthly float64         `json:"estimatedMonthly"`
	DifferencePerKwh float64         `json:"differencePerKwh"`
	Overpaying       bool            `json:"overpaying"`
	ProductName      string          `json:"productName"`
	ProviderName     string          `json:"providerName"`
}

// Comparer runs the comparison step: resolve the visitor's price area, fetch
// its trailing average, and price the chosen product against it.
type Comparer struct {
	areas             areaResolver
	prices            priceSource
	defaultMonthlyKwh float64
	logger            *zap.Logger
}

// NewComparer takes the monthly consumption used to amortize fees when the
// visitor does not enter their own; zero or negative falls back to the
// package default.
func NewComparer(areas areaResolver, priceSource priceSource, defaultMonthlyKwh float64) *Comparer {
	return &Comparer{
		areas:             areas,
		prices:            priceSource,
		defaultMonthlyKwh: defaultMonthlyKwh,
		logger:            zap.L(),
	}
}

// Compare requires the session to be in show_comparison. The visitor's
// annual consumption, when given, replaces the default monthly-fee
// amortization base.
func (c *Comparer) Compare(ctx context.Context, session *Session) (Comparison, error) {
	if session.Step() != StepShowComparison {
		return Comparison{}, ErrComparisonNotReady
	}

	areaCode := c.areas.Resolve(ctx, session.PostalCode)
	summary, err := c.prices.Aggregate(ctx, areaCode)
	if err != nil {
		return Comparison{}, err
	}

	monthlyKwh := c.defaultMonthlyKwh
	if session.AnnualConsumptionKwh > 0 {
		monthlyKwh = session.AnnualConsumptionKwh / 12
	}
	estimator := cost.NewEstimator(monthlyKwh)

	perKwh := estimator.PerKwh(session.Product.Deal, summary.AveragePrice)
	return Comparison{
		AreaCode:         areaCode,
		MarketPrice:      summary.AveragePrice,
		EstimatedPerKwh:  perKwh,
		EstimatedMonthly: estimator.Monthly(session.Product.Deal, summary.AveragePrice),
		DifferencePerKwh: perKwh - summary.AveragePrice,
		Overpaying:       perKwh > summary.AveragePrice,
		ProductName:      session.Product.Name,
		ProviderName:     session.Provider.Name,
	}, nil
}
