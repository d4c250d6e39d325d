package forbruker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/strompris-no/strompris-api/internal/pkg/config"
	"go.uber.org/zap"
)

// Client talks to the Forbrukerrådet strømpris-API. The feed requires a
// client-credentials token exchange before each fetch; the token is reused
// until it expires.
type Client struct {
	cfg    config.ForbrukerConfig
	hc     *http.Client
	logger *zap.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func New(cfg config.ForbrukerConfig) *Client {
	return &Client{
		cfg:    cfg,
		hc:     &http.Client{Timeout: 15 * time.Second},
		logger: zap.L(),
	}
}

type tokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// token returns a valid access token, exchanging credentials only when the
// cached one has expired.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	body, err := json.Marshal(tokenRequest{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/auth/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("token exchange rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return "", fmt.Errorf("token exchange: status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", fmt.Errorf("token exchange: decoding response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token exchange: empty access token")
	}

	c.accessToken = tr.AccessToken
	c.expiresAt = tokenExpiry(tr.AccessToken)
	return c.accessToken, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// token is opaque to us and verification is the upstream's job. A token we
// cannot parse is treated as already expired so the next call re-exchanges.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	// renew a minute early to avoid racing the upstream clock
	return exp.Time.Add(-time.Minute)
}

// Feed is the providers-with-nested-products payload from feed/today.
type Feed struct {
	Date      string         `json:"date"`
	Providers []FeedProvider `json:"providers"`
}

type FeedProvider struct {
	ID                 int             `json:"id"`
	Name               string          `json:"name"`
	OrganizationNumber string          `json:"organizationNumber"`
	URL                string          `json:"url"`
	PricelistURL       string          `json:"pricelistUrl"`
	Products           json.RawMessage `json:"products"`
}

// FetchFeed performs the auth handshake and downloads today's feed. Both the
// raw bytes and the decoded structure are returned so the route can expose
// the payload for debugging alongside the normalized products.
func (c *Client) FetchFeed(ctx context.Context) (*Feed, json.RawMessage, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/feed/today", nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, nil, fmt.Errorf("reading feed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("feed fetch failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, nil, fmt.Errorf("fetching feed: status %d", resp.StatusCode)
	}

	var feed Feed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, nil, fmt.Errorf("decoding feed: %w", err)
	}
	return &feed, body, nil
}
