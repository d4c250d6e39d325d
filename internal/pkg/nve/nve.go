package nve

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

// Client fetches NVE magasinstatistikk datasets. Rows cover the whole
// country ("NO"), elspot areas ("EL") and watercourse areas; consumers
// filter on omrType.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  *zap.Logger
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 15 * time.Second},
		logger:  zap.L(),
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("reading %s: %w", url, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

// Latest returns the most recent week's fill statistics for every area.
func (c *Client) Latest(ctx context.Context) ([]model.ReservoirStatistic, error) {
	var rows []model.ReservoirStatistic
	if err := c.get(ctx, "/HentOffentligDataSisteUke", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MinMaxMedian returns the historical spread per area and ISO week.
func (c *Client) MinMaxMedian(ctx context.Context) ([]model.ReservoirHistory, error) {
	var rows []model.ReservoirHistory
	if err := c.get(ctx, "/HentOffentligDataMinMaxMedian", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
