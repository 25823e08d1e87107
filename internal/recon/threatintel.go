package recon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// IntelConfig holds threat-intel client settings.
type IntelConfig struct {
	// FeedURL is the intel feed endpoint; empty disables the client
	FeedURL string `mapstructure:"feed_url"`

	// APIKey is sent as a bearer token when set
	APIKey string `mapstructure:"api_key"`

	// Timeout bounds each feed request
	Timeout time.Duration `mapstructure:"timeout"`
}

// IntelClient implements IntelService against an HTTP feed that
// returns free-text findings for a target indicator.
type IntelClient struct {
	config IntelConfig
	client *http.Client
	logger *slog.Logger
}

// NewIntelClient creates a threat-intel client.
func NewIntelClient(cfg IntelConfig, logger *slog.Logger) *IntelClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &IntelClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// RecentFindings queries the feed for recent activity on the target.
func (c *IntelClient) RecentFindings(ctx context.Context, target string) (string, error) {
	if c.config.FeedURL == "" {
		return "", fmt.Errorf("threat intel feed not configured")
	}

	endpoint := fmt.Sprintf("%s?indicator=%s", c.config.FeedURL, url.QueryEscape(target))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build intel request: %w", err)
	}
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("intel feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("intel feed returned %d", resp.StatusCode)
	}

	// Feeds can be chatty; cap what we fold into prompts.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("failed to read intel response: %w", err)
	}

	return string(body), nil
}
