package forbruker

import (
	_ "embed"
	"encoding/json"

	"github.com/gosimple/slug"
	"github.com/samber/lo"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
)

//go:embed data/providers.json
var providersJSON []byte

// StaticProviders returns the embedded provider registry. The file is part
// of the build; a decode failure is a programming error.
func StaticProviders() []model.Provider {
	var providers []model.Provider
	if err := json.Unmarshal(providersJSON, &providers); err != nil {
		panic("forbruker: embedded providers.json is invalid: " + err.Error())
	}
	for i := range providers {
		if providers[i].Slug == "" {
			providers[i].Slug = slug.Make(providers[i].Name)
		}
	}
	return providers
}

// MergeProviders extends the static registry with providers discovered in
// the feed, keyed by organization number. Static entries win on conflict.
func MergeProviders(static []model.Provider, feed *Feed) []model.Provider {
	known := lo.SliceToMap(static, func(p model.Provider) (string, struct{}) {
		return p.OrganizationNumber, struct{}{}
	})
	merged := append([]model.Provider{}, static...)
	for _, fp := range feed.Providers {
		if _, ok := known[fp.OrganizationNumber]; ok {
			continue
		}
		known[fp.OrganizationNumber] = struct{}{}
		merged = append(merged, model.Provider{
			Name:               fp.Name,
			OrganizationNumber: fp.OrganizationNumber,
			URL:                fp.URL,
			PricelistURL:       fp.PricelistURL,
			Slug:               slug.Make(fp.Name),
		})
	}
	return merged
}
