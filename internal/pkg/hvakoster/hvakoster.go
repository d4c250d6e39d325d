package hvakoster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"go.uber.org/zap"
)

// Client fetches hourly spot prices from hvakosterstrommen.no. Price files
// are published per day and area as {base}/prices/YYYY/MM-DD_AREA.json.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  *zap.Logger
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 10 * time.Second},
		logger:  zap.L(),
	}
}

// DateKey renders t in the YYYY/MM-DD form used by the upstream file layout.
func DateKey(t time.Time) string {
	return t.Format("2006/01-02")
}

// FetchDay returns the hourly observations for one area and day. A 404 means
// the file does not exist yet (future or unpublished day) and yields an
// empty slice, not an error.
func (c *Client) FetchDay(ctx context.Context, area model.PriceArea, day time.Time) ([]model.PriceObservation, error) {
	url := fmt.Sprintf("%s/prices/%s_%s.json", c.baseURL, DateKey(day), area)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Debug("price file not published", zap.String("url", url))
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	var observations []model.PriceObservation
	if err := json.Unmarshal(body, &observations); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", url, err)
	}
	return observations, nil
}
