package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/strompris-no/strompris-api/internal/pkg/forbruker"
	"github.com/strompris-no/strompris-api/internal/pkg/grid"
	"github.com/strompris-no/strompris-api/internal/pkg/hydropower"
	"github.com/strompris-no/strompris-api/internal/pkg/metrics"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"github.com/strompris-no/strompris-api/internal/pkg/prices"
	"github.com/strompris-no/strompris-api/internal/pkg/wizard"
	"go.uber.org/zap"
)

func (s *Server) handleAveragePrice(w http.ResponseWriter, r *http.Request) {
	areaCode := r.URL.Query().Get("areaCode")
	if areaCode == "" {
		areaCode = model.NO1.String()
	}
	if !model.ValidArea(areaCode) {
		s.fail(w, http.StatusBadRequest, "areaCode must be one of NO1..NO5", nil)
		return
	}

	summary, err := s.deps.Prices.Aggregate(r.Context(), model.PriceArea(areaCode))
	if errors.Is(err, prices.ErrNoObservations) {
		s.fail(w, http.StatusNotFound, "no price observations for "+areaCode, err)
		return
	}
	if err != nil {
		metrics.CountUpstreamError("hvakosterstrommen")
		s.fail(w, http.StatusInternalServerError, "failed to aggregate prices", err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Data    prices.Summary `json:"data"`
	}{Success: true, Data: summary})
}

func (s *Server) handleHourlyPrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dateParam := q.Get("date")
	areaCode := q.Get("areaCode")
	if dateParam == "" || areaCode == "" {
		s.fail(w, http.StatusBadRequest, "date and areaCode are required", nil)
		return
	}
	day, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		s.fail(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
		return
	}
	if !model.ValidArea(areaCode) {
		s.fail(w, http.StatusBadRequest, "areaCode must be one of NO1..NO5", nil)
		return
	}

	observations, err := s.deps.Hourly.FetchDay(r.Context(), model.PriceArea(areaCode), day)
	if err != nil {
		metrics.CountUpstreamError("hvakosterstrommen")
		s.fail(w, http.StatusInternalServerError, "failed to fetch hourly prices", err)
		return
	}
	if observations == nil {
		observations = []model.PriceObservation{}
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool                     `json:"success"`
		Data    []model.PriceObservation `json:"data"`
	}{Success: true, Data: observations})
}

func (s *Server) handleElectricityDeals(w http.ResponseWriter, r *http.Request) {
	feed, raw, err := s.deps.Deals.FetchFeed(r.Context())
	if err != nil {
		metrics.CountUpstreamError("forbrukerradet")
		s.fail(w, http.StatusInternalServerError, "failed to fetch deals feed", err)
		return
	}

	products := forbruker.Normalize(feed)
	writeJSON(w, http.StatusOK, struct {
		Success           bool                        `json:"success"`
		Data              dealsPayload                `json:"data"`
		StructureAnalysis forbruker.StructureAnalysis `json:"structureAnalysis"`
	}{
		Success: true,
		Data: dealsPayload{
			Date:     feed.Date,
			Products: products,
			RawData:  raw,
		},
		StructureAnalysis: forbruker.Analyze(feed, products),
	})
}

type dealsPayload struct {
	Date     string          `json:"date"`
	Products []model.Product `json:"products"`
	RawData  json.RawMessage `json:"rawData"`
}

func (s *Server) handleHydropower(w http.ResponseWriter, r *http.Request) {
	report := s.deps.Hydropower.Aggregate(r.Context())
	writeJSON(w, http.StatusOK, struct {
		Success   bool              `json:"success"`
		Data      hydropower.Report `json:"data"`
		Timestamp time.Time         `json:"timestamp"`
	}{Success: true, Data: report, Timestamp: time.Now()})
}

func (s *Server) handleReservoirs(w http.ResponseWriter, r *http.Request) {
	overview := s.deps.Reservoirs.Aggregate(r.Context())

	resp := map[string]any{
		"success":   true,
		"data":      overview.Value,
		"timestamp": time.Now(),
	}
	if overview.IsFallback() {
		metrics.CountFallback("/api/reservoirs")
		resp["error"] = overview.Reason
		s.logger.Warn("serving reservoir fallback", zap.String("reason", overview.Reason))
	}
	// availability over strictness: this route is always 200
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleKingAverage(w http.ResponseWriter, r *http.Request) {
	result := s.deps.Prices.National(r.Context())
	na := result.Value

	data := map[string]any{
		"national":     na.National,
		"source":       "hvakosterstrommen.no",
		"calculatedAt": na.CalculatedAt,
		"debug": map[string]any{
			"areasIncluded": na.AreasIncluded,
			"areasFailed":   na.AreasFailed,
		},
	}
	for area, avg := range na.Areas {
		data[area.String()] = avg
	}
	if result.IsFallback() {
		metrics.CountFallback("/api/kingAverage")
		data["source"] = string(model.SourceFallback)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func (s *Server) handleLocalGrids(w http.ResponseWriter, r *http.Request) {
	grids, err := s.deps.Grids.Grids(r.Context())
	if err != nil {
		metrics.CountUpstreamError("grids")
		s.fail(w, http.StatusInternalServerError, "failed to fetch local grids", err)
		return
	}
	grids = grid.FilterByName(grids, r.URL.Query().Get("name"))

	writeJSON(w, http.StatusOK, struct {
		Success bool              `json:"success"`
		Data    []model.LocalGrid `json:"data"`
	}{Success: true, Data: grids})
}

// handleProviders serves the static registry extended with providers
// discovered in today's feed. A feed failure is not an error here; the
// static list is served alone so the route cannot fail.
func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	providers := s.deps.Providers
	if feed, _, err := s.deps.Deals.FetchFeed(r.Context()); err != nil {
		s.logger.Warn("deals feed unavailable, serving static providers only", zap.Error(err))
	} else {
		providers = forbruker.MergeProviders(providers, feed)
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool             `json:"success"`
		Data    []model.Provider `json:"data"`
	}{Success: true, Data: providers})
}

func (s *Server) handleSpotPrice(w http.ResponseWriter, r *http.Request) {
	quote := s.deps.Spot.Next()
	writeJSON(w, http.StatusOK, struct {
		Success   bool      `json:"success"`
		Price     float64   `json:"price"`
		Unit      string    `json:"unit"`
		Timestamp time.Time `json:"timestamp"`
	}{Success: true, Price: quote.Price, Unit: quote.Unit, Timestamp: quote.Timestamp})
}

// handleStromtestGrids keeps the legacy raw-array shape the stromtest page
// expects: no envelope on success, {"error": ...} on failure.
func (s *Server) handleStromtestGrids(w http.ResponseWriter, r *http.Request) {
	grids, err := s.deps.Grids.Grids(r.Context())
	if err != nil {
		metrics.CountUpstreamError("grids")
		s.logger.Error("failed to fetch local grids", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch local grids"})
		return
	}
	writeJSON(w, http.StatusOK, grids)
}

func (s *Server) handleStromtest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	productID, err := strconv.Atoi(q.Get("productId"))
	if err != nil {
		s.fail(w, http.StatusBadRequest, "productId must be an integer", err)
		return
	}
	postalCode := q.Get("postalCode")
	if postalCode == "" {
		s.fail(w, http.StatusBadRequest, "postalCode is required", nil)
		return
	}
	var annualConsumption float64
	if v := q.Get("annualConsumption"); v != "" {
		annualConsumption, err = strconv.ParseFloat(v, 64)
		if err != nil || annualConsumption < 0 {
			s.fail(w, http.StatusBadRequest, "annualConsumption must be a non-negative number", err)
			return
		}
	}

	feed, _, err := s.deps.Deals.FetchFeed(r.Context())
	if err != nil {
		metrics.CountUpstreamError("forbrukerradet")
		s.fail(w, http.StatusInternalServerError, "failed to fetch deals feed", err)
		return
	}
	products := forbruker.Normalize(feed)

	var product *model.Product
	for i := range products {
		if products[i].ID == productID {
			product = &products[i]
			break
		}
	}
	if product == nil {
		s.fail(w, http.StatusBadRequest, "unknown productId", nil)
		return
	}
	if v := q.Get("providerId"); v != "" {
		providerID, err := strconv.Atoi(v)
		if err != nil || providerID != product.ProviderID {
			s.fail(w, http.StatusBadRequest, "providerId does not match the chosen product", err)
			return
		}
	}

	session := wizard.NewSession()
	session.AnnualConsumptionKwh = annualConsumption
	if err := session.SelectProvider(product.Provider); err != nil {
		s.fail(w, http.StatusInternalServerError, "wizard transition failed", err)
		return
	}
	if err := session.SelectProduct(*product); err != nil {
		s.fail(w, http.StatusInternalServerError, "wizard transition failed", err)
		return
	}
	if err := session.EnterPostalCode(postalCode); err != nil {
		s.fail(w, http.StatusBadRequest, "postalCode must be four digits", err)
		return
	}

	comparison, err := s.deps.Comparer.Compare(r.Context(), session)
	if errors.Is(err, prices.ErrNoObservations) {
		s.fail(w, http.StatusNotFound, "no price observations for the resolved area", err)
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "comparison failed", err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool              `json:"success"`
		Data    wizard.Comparison `json:"data"`
	}{Success: true, Data: comparison})
}
