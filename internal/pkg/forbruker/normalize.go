package forbruker

import (
	"encoding/json"

	"github.com/samber/lo"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"go.uber.org/zap"
)

// Normalize flattens the nested feed into one product list, each product
// carrying a denormalized provider sub-object. Provider entries whose
// product payload cannot be decoded are skipped, not fatal; the rest of the
// feed is still usable.
func Normalize(feed *Feed) []model.Product {
	return lo.FlatMap(feed.Providers, func(fp FeedProvider, _ int) []model.Product {
		var deals []model.Deal
		if len(fp.Products) > 0 {
			if err := json.Unmarshal(fp.Products, &deals); err != nil {
				zap.L().Warn("skipping provider with undecodable products",
					zap.String("provider", fp.Name), zap.Error(err))
				return nil
			}
		}
		info := model.ProviderInfo{
			Name:               fp.Name,
			OrganizationNumber: fp.OrganizationNumber,
			URL:                fp.URL,
			PricelistURL:       fp.PricelistURL,
		}
		return lo.Map(deals, func(d model.Deal, _ int) model.Product {
			if d.ProviderID == 0 {
				d.ProviderID = fp.ID
			}
			return model.Product{Deal: d, Provider: info}
		})
	})
}

// StructureAnalysis summarizes the feed's shape for the route's debug field.
type StructureAnalysis struct {
	ProviderCount int                       `json:"providerCount"`
	ProductCount  int                       `json:"productCount"`
	ProductTypes  map[model.ProductType]int `json:"productTypes"`
}

func Analyze(feed *Feed, products []model.Product) StructureAnalysis {
	return StructureAnalysis{
		ProviderCount: len(feed.Providers),
		ProductCount:  len(products),
		ProductTypes: lo.CountValuesBy(products, func(p model.Product) model.ProductType {
			return p.ProductType
		}),
	}
}
