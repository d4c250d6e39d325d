package hvakoster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
)

func TestDateKey(t *testing.T) {
	day := time.Date(2026, 8, 3, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026/08-03", DateKey(day))
}

func TestFetchDayDecodesObservations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prices/2026/08-28_NO1.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"NOK_per_kWh":0.7512,"EUR_per_kWh":0.0651,"EXR":11.54,
			 "time_start":"2026-08-28T00:00:00+02:00","time_end":"2026-08-28T01:00:00+02:00"}
		]`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	day := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	observations, err := client.FetchDay(context.Background(), model.NO1, day)
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.InDelta(t, 0.7512, observations[0].NOKPerKwh, 1e-9)
	assert.Equal(t, 28, observations[0].TimeStart.Day())
}

func TestFetchDayNotFoundIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	observations, err := New(srv.URL).FetchDay(context.Background(), model.NO2, time.Now())
	assert.NoError(t, err)
	assert.Empty(t, observations)
}

func TestFetchDayUpstreamErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchDay(context.Background(), model.NO3, time.Now())
	assert.ErrorContains(t, err, "status 502")
}
