package spot

import (
	"math/rand/v2"
	"time"
)

// Quote is a simulated spot-price reading. This is demo data for the
// landing-page ticker, not a market feed; the route documents it as such.
type Quote struct {
	Price     float64   `json:"price"`
	Unit      string    `json:"unit"`
	Timestamp time.Time `json:"timestamp"`
}

// Simulator produces quotes jittered around a base price.
type Simulator struct {
	baseOre float64
	now     func() time.Time
}

func NewSimulator(baseOre float64) *Simulator {
	return &Simulator{baseOre: baseOre, now: time.Now}
}

// Next returns a quote within ±15% of the base.
func (s *Simulator) Next() Quote {
	jitter := (rand.Float64()*2 - 1) * 0.15
	return Quote{
		Price:     s.baseOre * (1 + jitter),
		Unit:      "øre/kWh",
		Timestamp: s.now(),
	}
}
