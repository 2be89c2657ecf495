// Package sources wraps each external market-data provider behind the
// uniform SourceAdapter contract. Adapters are self-contained: each one owns
// its credential, its provider's rate-limit pacing, and its payload shape.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"brandintel/domain/market"
	"brandintel/internal/config"
	"brandintel/ports"
)

// New builds the full adapter roster from provider credentials. Adapters
// missing credentials are still returned; they report IsConfigured false and
// the orchestrator excludes them from execution.
func New(cfg config.SourcesConfig, pace time.Duration) []ports.SourceAdapter {
	client := newProviderClient(pace)
	return []ports.SourceAdapter{
		NewNewsAdapter(cfg.NewsAPIKey, client),
		NewSerpAdapter(cfg.SerperKey, client),
		NewRedditAdapter(cfg.RedditToken, client),
		NewTrendsAdapter(cfg.SerpAPIKey, client),
		NewJobsAdapter(cfg.AdzunaAppID, cfg.AdzunaAppKey, client),
	}
}

// providerClient is the shared HTTP plumbing for all adapters: JSON
// requests plus fixed inter-request pacing for rate-limited providers.
type providerClient struct {
	http *http.Client
	pace time.Duration
}

func newProviderClient(pace time.Duration) *providerClient {
	return &providerClient{
		http: &http.Client{Timeout: 20 * time.Second},
		pace: pace,
	}
}

// wait blocks for the fixed pacing interval before the next sub-query. It
// returns early with the context error when the run is cancelled.
func (c *providerClient) wait(ctx context.Context) error {
	if c.pace <= 0 {
		return nil
	}
	select {
	case <-time.After(c.pace):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *providerClient) getJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req, out)
}

func (c *providerClient) postJSON(ctx context.Context, url string, headers map[string]string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(raw)))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req, out)
}

func (c *providerClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("rate limited (http 429)")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http %d: %s", resp.StatusCode, truncateBody(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncateBody(raw []byte) string {
	const max = 200
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}

// recoverResult converts a panic inside an adapter into a failed
// CollectionResult, honoring the never-raise contract.
func recoverResult(res *market.CollectionResult) {
	if r := recover(); r != nil {
		*res = market.CollectionResult{
			Success: false,
			Error:   fmt.Sprintf("adapter panic: %v", r),
		}
	}
}

// buildResult folds a payload and accumulated sub-query errors into the
// uniform result shape. Partial results are kept: some sub-queries failing
// does not discard what the rest returned.
func buildResult(payload *market.SourcePayload, errs []string) market.CollectionResult {
	points := payload.DataPoints()
	if len(errs) == 0 {
		return market.CollectionResult{
			Success:        true,
			Data:           payload,
			DataPointCount: points,
		}
	}
	res := market.CollectionResult{
		Success:        false,
		DataPointCount: points,
		Error:          strings.Join(errs, "; "),
	}
	if points > 0 {
		res.Data = payload
	}
	return res
}
