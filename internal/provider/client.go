package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"newshub/internal/core"
	"newshub/pkg/logger"

	"go.uber.org/zap"
)

const (
	requestTimeout = 30 * time.Second
	maxAttempts    = 3
	retryBackoff   = 100 * time.Millisecond
)

// baseClient carries what every provider client shares: credential,
// endpoint root, mapper, and the retrying HTTP core. Provider-specific
// query building stays in each client.
type baseClient struct {
	name    string
	apiKey  string
	baseURL string
	mapper  core.Mapper
	client  *http.Client
}

func newBaseClient(name, apiKey, baseURL string, mapper core.Mapper) baseClient {
	return baseClient{
		name:    name,
		apiKey:  apiKey,
		baseURL: baseURL,
		mapper:  mapper,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

func (c *baseClient) Name() string {
	return c.name
}

// Enabled reports whether a credential is configured. A disabled provider
// fetches nothing and makes no network call.
func (c *baseClient) Enabled() bool {
	return c.apiKey != ""
}

// fetch runs the shared soft-failure pipeline: request, retry, map. Any
// failure yields an empty result and a log line, never an error — one
// provider's outage must not look like an ingestion error upstream.
func (c *baseClient) fetch(ctx context.Context, endpoint string, params url.Values) []core.ArticleRecord {
	if !c.Enabled() {
		logger.Info("provider disabled, skipping fetch", zap.String("provider", c.name))
		return nil
	}

	body, err := c.httpGet(ctx, endpoint, params)
	if err != nil {
		logger.Error("provider fetch failed",
			zap.String("provider", c.name),
			zap.Error(err),
		)
		return nil
	}

	return c.mapper.Map(body)
}

// httpGet issues a GET with a bounded number of attempts and fixed
// backoff. Retries cover transport errors and 5xx responses only; a
// well-formed 4xx from the provider is returned immediately.
func (c *baseClient) httpGet(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	target := c.baseURL + endpoint + "?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d from %s", resp.StatusCode, c.name)
			continue
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status %d from %s: %s", resp.StatusCode, c.name, truncateBody(body))
		}

		return body, nil
	}

	return nil, fmt.Errorf("%s: %d attempts exhausted: %w", c.name, maxAttempts, lastErr)
}

func truncateBody(body []byte) string {
	const sample = 200
	if len(body) > sample {
		return string(body[:sample])
	}
	return string(body)
}
