package cost

import "github.com/strompris-no/strompris-api/internal/pkg/model"

// DefaultMonthlyConsumptionKwh amortizes a deal's monthly fee into a per-kWh
// addend when the user's actual consumption is unknown. Note that call sites
// which do collect an annual consumption should pass it through
// NewEstimator instead of relying on this default; the two figures are not
// otherwise reconciled.
const DefaultMonthlyConsumptionKwh = 1000.0

// Estimator computes effective deal prices. It is a pure function of the
// deal and the supplied market price; units (øre or NOK per kWh) are the
// caller's responsibility and must match between the deal's fee fields and
// the market price.
type Estimator struct {
	monthlyConsumptionKwh float64
}

func NewEstimator(monthlyConsumptionKwh float64) Estimator {
	if monthlyConsumptionKwh <= 0 {
		monthlyConsumptionKwh = DefaultMonthlyConsumptionKwh
	}
	return Estimator{monthlyConsumptionKwh: monthlyConsumptionKwh}
}

// PerKwh returns the estimated effective price per kWh for a deal at the
// given market price.
//
// Fixed deals return their contracted rate; the market price is ignored.
// Market-indexed deals add the markup, el-certificate price and the
// amortized monthly fee on top of the market price. An unknown product type
// returns 0, meaning "no price" rather than an error; callers filter those
// out.
func (e Estimator) PerKwh(deal model.Deal, marketPrice float64) float64 {
	switch {
	case deal.ProductType == model.ProductFixed:
		return deal.FixedKwPrice()
	case deal.ProductType.MarketIndexed():
		return marketPrice + deal.AddonPrice + deal.ElCertificatePrice +
			deal.MonthlyFee/e.monthlyConsumptionKwh
	default:
		return 0
	}
}

// Monthly returns the estimated monthly cost at the estimator's assumed
// consumption.
func (e Estimator) Monthly(deal model.Deal, marketPrice float64) float64 {
	return e.PerKwh(deal, marketPrice) * e.monthlyConsumptionKwh
}
