package area

import (
	"context"
	_ "embed"
	"encoding/json"
	"slices"

	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"go.uber.org/zap"
)

//go:embed data/municipalities.json
var municipalitiesJSON []byte

type gridSource interface {
	Grids(ctx context.Context) ([]model.LocalGrid, error)
}

// Resolver maps a postal code to a price area: postal code → municipality
// (static table) → local-grid override where one exists. It is total: any
// input resolves to one of the five areas, defaulting to NO1 because the
// calling UI always needs some area to proceed.
type Resolver struct {
	grids          gridSource
	municipalities []model.Municipality
	logger         *zap.Logger
}

func NewResolver(grids gridSource) *Resolver {
	return &Resolver{
		grids:          grids,
		municipalities: Municipalities(),
		logger:         zap.L(),
	}
}

// Municipalities returns the embedded municipality table.
func Municipalities() []model.Municipality {
	var municipalities []model.Municipality
	if err := json.Unmarshal(municipalitiesJSON, &municipalities); err != nil {
		panic("area: embedded municipalities.json is invalid: " + err.Error())
	}
	return municipalities
}

// Lookup finds the municipality owning a postal code, by exact membership.
func (r *Resolver) Lookup(postalCode string) (model.Municipality, bool) {
	for _, m := range r.municipalities {
		if slices.Contains(m.PostalCodes, postalCode) {
			return m, true
		}
	}
	return model.Municipality{}, false
}

// Resolve returns the effective price area for a postal code. A local grid
// matching the municipality is authoritative over the nominal area (covers
// municipality mergers and grid boundaries crossing municipal lines); any
// miss or fetch error falls back first to the nominal area, then to NO1.
func (r *Resolver) Resolve(ctx context.Context, postalCode string) model.PriceArea {
	municipality, ok := r.Lookup(postalCode)
	if !ok {
		r.logger.Debug("postal code not in municipality table, defaulting",
			zap.String("postalCode", postalCode))
		return model.NO1
	}

	grids, err := r.grids.Grids(ctx)
	if err != nil {
		r.logger.Warn("grid lookup failed, using nominal area",
			zap.String("municipality", municipality.Name), zap.Error(err))
		return municipality.AreaCode
	}
	for _, g := range grids {
		if g.MunicipalityNumber == municipality.Number && model.ValidArea(string(g.AreaCode)) {
			return g.AreaCode
		}
	}
	return municipality.AreaCode
}
