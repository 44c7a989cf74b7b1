package provider

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"newshub/internal/conf"
	"newshub/internal/core"
	"newshub/internal/mapper"
)

const ProviderGuardian = "guardian"

func init() {
	Register(ProviderGuardian, func(cfg *conf.ProviderConfig) core.Provider {
		return NewGuardianClient(cfg.Guardian.Key, cfg.Guardian.BaseURL)
	})
}

// GuardianClient talks to the Guardian Open Platform
// (https://open-platform.theguardian.com/documentation/).
type GuardianClient struct {
	baseClient
}

var _ core.Provider = (*GuardianClient)(nil)

func NewGuardianClient(apiKey, baseURL string) *GuardianClient {
	return &GuardianClient{
		baseClient: newBaseClient(ProviderGuardian, apiKey, baseURL, mapper.NewGuardianMapper()),
	}
}

func (c *GuardianClient) Fetch(ctx context.Context, filters core.Filters) []core.ArticleRecord {
	return c.fetch(ctx, "/search", c.buildQuery(filters))
}

func (c *GuardianClient) buildQuery(filters core.Filters) url.Values {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("page-size", strconv.Itoa(limit))
	params.Set("show-fields", "headline,trailText,body,byline,thumbnail")
	params.Set("order-by", "newest")

	if filters.Query != "" {
		params.Set("q", filters.Query)
	}
	if filters.Category != "" {
		params.Set("section", strings.ToLower(filters.Category))
	}
	if filters.From != "" {
		params.Set("from-date", filters.From)
	}
	if filters.To != "" {
		params.Set("to-date", filters.To)
	}

	return params
}
