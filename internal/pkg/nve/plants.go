package nve

import (
	_ "embed"
	"encoding/json"

	"github.com/strompris-no/strompris-api/internal/pkg/model"
)

//go:embed data/plants.json
var plantsJSON []byte

// Plants returns the embedded registry of the largest Norwegian hydropower
// plants. Plant data changes on the timescale of years, so it ships with
// the binary instead of being fetched.
func Plants() []model.HydroPlant {
	var plants []model.HydroPlant
	if err := json.Unmarshal(plantsJSON, &plants); err != nil {
		panic("nve: embedded plants.json is invalid: " + err.Error())
	}
	return plants
}
