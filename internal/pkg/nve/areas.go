package nve

import "github.com/strompris-no/strompris-api/internal/pkg/model"

// Areas maps NVE elspot area numbers to price areas. The numbering is
// stable; NVE has published it unchanged since the zones were drawn.
func Areas() []model.AreaMeta {
	return []model.AreaMeta{
		{Omrnr: 1, AreaCode: model.NO1, Description: "Østlandet"},
		{Omrnr: 2, AreaCode: model.NO2, Description: "Sørlandet"},
		{Omrnr: 3, AreaCode: model.NO3, Description: "Midt-Norge"},
		{Omrnr: 4, AreaCode: model.NO4, Description: "Nord-Norge"},
		{Omrnr: 5, AreaCode: model.NO5, Description: "Vestlandet"},
	}
}

// AreaForOmrnr resolves an elspot area number, with ok=false for numbers
// outside the five zones.
func AreaForOmrnr(omrnr int) (model.AreaMeta, bool) {
	for _, meta := range Areas() {
		if meta.Omrnr == omrnr {
			return meta, true
		}
	}
	return model.AreaMeta{}, false
}
