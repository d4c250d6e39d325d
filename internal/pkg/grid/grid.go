package grid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/strompris-no/strompris-api/internal/pkg/model"
	"go.uber.org/zap"
)

// Client fetches the local-grid register. Grids carry the authoritative
// price area where it differs from a municipality's nominal one.
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

// Grids returns the full local-grid list.
func (c *Client) Grids(ctx context.Context) ([]model.LocalGrid, error) {
	url := c.baseURL + "/grids"
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

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	var grids []model.LocalGrid
	if err := json.Unmarshal(body, &grids); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", url, err)
	}
	return grids, nil
}

// FilterByName narrows grids on a case-insensitive substring match.
func FilterByName(grids []model.LocalGrid, name string) []model.LocalGrid {
	if name == "" {
		return grids
	}
	needle := strings.ToLower(name)
	return lo.Filter(grids, func(g model.LocalGrid, _ int) bool {
		return strings.Contains(strings.ToLower(g.Name), needle)
	})
}
