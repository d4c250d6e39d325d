package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/strompris-no/strompris-api/internal/pkg/forbruker"
	"github.com/strompris-no/strompris-api/internal/pkg/hydropower"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"github.com/strompris-no/strompris-api/internal/pkg/prices"
	"github.com/strompris-no/strompris-api/internal/pkg/reservoir"
	"github.com/strompris-no/strompris-api/internal/pkg/spot"
	"github.com/strompris-no/strompris-api/internal/pkg/wizard"
	"go.uber.org/zap"
)

type priceService interface {
	Aggregate(ctx context.Context, area model.PriceArea) (prices.Summary, error)
	National(ctx context.Context) model.Sourced[prices.NationalAverage]
}

type hourlyService interface {
	FetchDay(ctx context.Context, area model.PriceArea, day time.Time) ([]model.PriceObservation, error)
}

type dealsService interface {
	FetchFeed(ctx context.Context) (*forbruker.Feed, json.RawMessage, error)
}

type reservoirService interface {
	Aggregate(ctx context.Context) model.Sourced[reservoir.Overview]
}

type hydropowerService interface {
	Aggregate(ctx context.Context) hydropower.Report
}

type gridService interface {
	Grids(ctx context.Context) ([]model.LocalGrid, error)
}

type comparer interface {
	Compare(ctx context.Context, session *wizard.Session) (wizard.Comparison, error)
}

type spotSimulator interface {
	Next() spot.Quote
}

// Deps collects the services behind the API routes.
type Deps struct {
	Prices     priceService
	Hourly     hourlyService
	Deals      dealsService
	Reservoirs reservoirService
	Hydropower hydropowerService
	Grids      gridService
	Comparer   comparer
	Spot       spotSimulator
	Providers  []model.Provider
}

// Server is the HTTP surface of the comparison site backend.
type Server struct {
	deps   Deps
	logger *zap.Logger
}

func New(deps Deps) *Server {
	return &Server{deps: deps, logger: zap.L()}
}

// Handler wires the route table with the middleware stack.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	apiRoutes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"GET /api/average-electricity-price", s.handleAveragePrice},
		{"GET /api/hourly-prices", s.handleHourlyPrices},
		{"GET /api/electricity-deals", s.handleElectricityDeals},
		{"GET /api/hydropower", s.handleHydropower},
		{"GET /api/reservoirs", s.handleReservoirs},
		{"GET /api/kingAverage", s.handleKingAverage},
		{"GET /api/local-grids", s.handleLocalGrids},
		{"GET /api/providers", s.handleProviders},
		{"GET /api/spot-price", s.handleSpotPrice},
		{"GET /api/stromtest-local-grids", s.handleStromtestGrids},
		{"GET /api/stromtest", s.handleStromtest},
	}

	known := map[string]bool{"/metrics": true}
	for _, route := range apiRoutes {
		mux.HandleFunc(route.pattern, route.handler)
		known[strings.TrimPrefix(route.pattern, "GET ")] = true
	}
	mux.Handle("GET /metrics", promhttp.Handler())

	return RequestIDMiddleware(LoggingMiddleware(RecoveryMiddleware(mux), known))
}
