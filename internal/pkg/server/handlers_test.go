package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strompris-no/strompris-api/internal/pkg/forbruker"
	"github.com/strompris-no/strompris-api/internal/pkg/hydropower"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"github.com/strompris-no/strompris-api/internal/pkg/prices"
	"github.com/strompris-no/strompris-api/internal/pkg/reservoir"
	"github.com/strompris-no/strompris-api/internal/pkg/spot"
	"github.com/strompris-no/strompris-api/internal/pkg/wizard"
	"go.uber.org/zap"
)

type fakePrices struct {
	summary  prices.Summary
	err      error
	national model.Sourced[prices.NationalAverage]
}

func (f *fakePrices) Aggregate(context.Context, model.PriceArea) (prices.Summary, error) {
	return f.summary, f.err
}

func (f *fakePrices) National(context.Context) model.Sourced[prices.NationalAverage] {
	return f.national
}

type fakeHourly struct {
	observations []model.PriceObservation
	err          error
}

func (f *fakeHourly) FetchDay(context.Context, model.PriceArea, time.Time) ([]model.PriceObservation, error) {
	return f.observations, f.err
}

type fakeDeals struct {
	feed *forbruker.Feed
	raw  json.RawMessage
	err  error
}

func (f *fakeDeals) FetchFeed(context.Context) (*forbruker.Feed, json.RawMessage, error) {
	return f.feed, f.raw, f.err
}

type fakeReservoirs struct {
	result model.Sourced[reservoir.Overview]
}

func (f *fakeReservoirs) Aggregate(context.Context) model.Sourced[reservoir.Overview] {
	return f.result
}

type fakeHydro struct {
	report hydropower.Report
}

func (f *fakeHydro) Aggregate(context.Context) hydropower.Report {
	return f.report
}

type fakeGrids struct {
	grids []model.LocalGrid
	err   error
}

func (f *fakeGrids) Grids(context.Context) ([]model.LocalGrid, error) {
	return f.grids, f.err
}

type fakeComparer struct {
	comparison wizard.Comparison
	err        error
}

func (f *fakeComparer) Compare(context.Context, *wizard.Session) (wizard.Comparison, error) {
	return f.comparison, f.err
}

func testServer(deps Deps) *Server {
	if deps.Spot == nil {
		deps.Spot = spot.NewSimulator(95)
	}
	return &Server{deps: deps, logger: zap.NewNop()}
}

func doGet(t *testing.T, s *Server, target string) (*http.Response, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestAveragePriceDefaultsToNO1(t *testing.T) {
	srv := testServer(Deps{Prices: &fakePrices{
		summary: prices.Summary{CurrentPrice: 92.1, AveragePrice: 85.4, AreaCode: model.NO1, DaysIncluded: 10, TotalHoursIncluded: 240},
	}})

	resp, body := doGet(t, srv, "/api/average-electricity-price")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "NO1", data["areaCode"])
	assert.Equal(t, 10.0, data["daysIncluded"])
	assert.Equal(t, 240.0, data["totalHoursIncluded"])
}

func TestAveragePriceNoObservationsIs404(t *testing.T) {
	srv := testServer(Deps{Prices: &fakePrices{err: prices.ErrNoObservations}})

	resp, body := doGet(t, srv, "/api/average-electricity-price?areaCode=NO4")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestAveragePriceRejectsUnknownArea(t *testing.T) {
	srv := testServer(Deps{Prices: &fakePrices{}})

	resp, body := doGet(t, srv, "/api/average-electricity-price?areaCode=SE3")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestHourlyPricesValidatesParams(t *testing.T) {
	srv := testServer(Deps{Hourly: &fakeHourly{}})

	resp, _ := doGet(t, srv, "/api/hourly-prices")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doGet(t, srv, "/api/hourly-prices?date=28-08-2026&areaCode=NO1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doGet(t, srv, "/api/hourly-prices?date=2026-08-28&areaCode=NO9")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHourlyPricesEmptyDayIsEmptyArray(t *testing.T) {
	srv := testServer(Deps{Hourly: &fakeHourly{}})

	resp, body := doGet(t, srv, "/api/hourly-prices?date=2026-08-28&areaCode=NO1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, ok := body["data"].([]any)
	require.True(t, ok, "data must be an array, not null")
	assert.Empty(t, data)
}

func TestReservoirsFallbackStays200WithErrorField(t *testing.T) {
	srv := testServer(Deps{Reservoirs: &fakeReservoirs{
		result: model.Fallback(reservoir.Overview{
			National: reservoir.NationalSummary{FillPercent: 81.2},
		}, "NVE magasinstatistikk returned no rows"),
	}})

	resp, body := doGet(t, srv, "/api/reservoirs")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "NVE magasinstatistikk returned no rows", body["error"])
	assert.NotNil(t, body["data"])
	assert.NotNil(t, body["timestamp"])
}

func TestKingAverageMarksFallbackSource(t *testing.T) {
	areas := map[model.PriceArea]float64{}
	for _, area := range model.PriceAreas {
		areas[area] = 85
	}
	srv := testServer(Deps{Prices: &fakePrices{
		national: model.Fallback(prices.NationalAverage{Areas: areas, National: 85, CalculatedAt: time.Now()}, "all areas failed"),
	}})

	resp, body := doGet(t, srv, "/api/kingAverage")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, "fallback", data["source"])
	for _, area := range model.PriceAreas {
		assert.Equal(t, 85.0, data[area.String()])
	}
}

func TestElectricityDealsUpstreamFailureIs500(t *testing.T) {
	srv := testServer(Deps{Deals: &fakeDeals{err: errors.New("token exchange: status 401")}})

	resp, body := doGet(t, srv, "/api/electricity-deals")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestProvidersMergesFeedDiscoveries(t *testing.T) {
	srv := testServer(Deps{
		Providers: []model.Provider{
			{Name: "Tibber", OrganizationNumber: "917245975", Slug: "tibber"},
		},
		Deals: &fakeDeals{feed: &forbruker.Feed{Providers: []forbruker.FeedProvider{
			{ID: 7, Name: "Tibber", OrganizationNumber: "917245975"},
			{ID: 8, Name: "Helt Ny Kraft AS", OrganizationNumber: "999999999"},
		}}},
	})

	resp, body := doGet(t, srv, "/api/providers")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].([]any)
	require.Len(t, data, 2)
	added := data[1].(map[string]any)
	assert.Equal(t, "999999999", added["organizationNumber"])
	assert.Equal(t, "helt-ny-kraft-as", added["slug"])
}

func TestProvidersFeedFailureServesStaticRegistry(t *testing.T) {
	srv := testServer(Deps{
		Providers: []model.Provider{
			{Name: "Tibber", OrganizationNumber: "917245975", Slug: "tibber"},
		},
		Deals: &fakeDeals{err: errors.New("token exchange: status 503")},
	})

	resp, body := doGet(t, srv, "/api/providers")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	data := body["data"].([]any)
	require.Len(t, data, 1)
}

func TestSpotPriceIsTopLevelEnvelope(t *testing.T) {
	srv := testServer(Deps{})

	resp, body := doGet(t, srv, "/api/spot-price")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "øre/kWh", body["unit"])
	assert.NotZero(t, body["price"])
}

func TestStromtestLocalGridsKeepsRawShape(t *testing.T) {
	srv := testServer(Deps{Grids: &fakeGrids{grids: []model.LocalGrid{
		{ID: 1, Name: "Elvia", MunicipalityNumber: 301, AreaCode: model.NO1},
	}}})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stromtest-local-grids", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var grids []model.LocalGrid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grids))
	require.Len(t, grids, 1)
	assert.Equal(t, "Elvia", grids[0].Name)
}

func TestLocalGridsNameFilter(t *testing.T) {
	srv := testServer(Deps{Grids: &fakeGrids{grids: []model.LocalGrid{
		{ID: 1, Name: "Elvia", AreaCode: model.NO1},
		{ID: 2, Name: "Tensio TS", AreaCode: model.NO3},
	}}})

	_, body := doGet(t, srv, "/api/local-grids?name=tensio")
	data := body["data"].([]any)
	require.Len(t, data, 1)
}

func TestStromtestRunsTheWizard(t *testing.T) {
	feedProducts, _ := json.Marshal([]model.Deal{
		{ID: 42, Name: "Spotpris", ProviderID: 7, ProductType: model.ProductSpot},
	})
	srv := testServer(Deps{
		Deals: &fakeDeals{feed: &forbruker.Feed{
			Date: "2026-08-28",
			Providers: []forbruker.FeedProvider{
				{ID: 7, Name: "Tibber", OrganizationNumber: "917245975", Products: feedProducts},
			},
		}},
		Comparer: &fakeComparer{comparison: wizard.Comparison{
			AreaCode: model.NO1, EstimatedPerKwh: 84.4, Overpaying: true,
		}},
	})

	resp, body := doGet(t, srv, "/api/stromtest?productId=42&postalCode=0150")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, "NO1", data["areaCode"])
	assert.Equal(t, true, data["overpaying"])
}

func TestUnmatchedPathsShareOneMetricLabel(t *testing.T) {
	srv := testServer(Deps{})
	h := srv.Handler()

	for _, path := range []string{"/api/zzz-scan-1", "/api/zzz-scan-2", "/favicon.ico"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	exposition := rec.Body.String()
	assert.NotContains(t, exposition, "zzz-scan")
	assert.Contains(t, exposition, `route="unmatched"`)
}

func TestStromtestValidatesParams(t *testing.T) {
	srv := testServer(Deps{Deals: &fakeDeals{feed: &forbruker.Feed{}}})

	resp, _ := doGet(t, srv, "/api/stromtest")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doGet(t, srv, "/api/stromtest?productId=42")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doGet(t, srv, "/api/stromtest?productId=42&postalCode=015")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
