package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newshub/internal/conf"
	"newshub/internal/core"
	"newshub/internal/mapper"
)

const ProviderNYTimes = "nytimes"

func init() {
	Register(ProviderNYTimes, func(cfg *conf.ProviderConfig) core.Provider {
		return NewNYTimesClient(cfg.NYTimes.Key, cfg.NYTimes.BaseURL)
	})
}

// NYTimesClient talks to the NYT Article Search API
// (https://developer.nytimes.com/docs/articlesearch-product/1/overview).
type NYTimesClient struct {
	baseClient
}

var _ core.Provider = (*NYTimesClient)(nil)

func NewNYTimesClient(apiKey, baseURL string) *NYTimesClient {
	return &NYTimesClient{
		baseClient: newBaseClient(ProviderNYTimes, apiKey, baseURL, mapper.NewNYTimesMapper()),
	}
}

func (c *NYTimesClient) Fetch(ctx context.Context, filters core.Filters) []core.ArticleRecord {
	return c.fetch(ctx, "/articlesearch.json", c.buildQuery(filters))
}

func (c *NYTimesClient) buildQuery(filters core.Filters) url.Values {
	params := url.Values{}
	params.Set("api-key", c.apiKey)

	// The search endpoint requires at least one query term.
	if filters.Query != "" {
		params.Set("q", filters.Query)
	} else {
		params.Set("q", "*")
	}

	if filters.Category != "" {
		params.Set("fq", fmt.Sprintf(`section_name:(%q)`, filters.Category))
	}
	if filters.From != "" {
		params.Set("begin_date", compactDate(filters.From))
	}
	if filters.To != "" {
		params.Set("end_date", compactDate(filters.To))
	}

	params.Set("sort", "newest")
	params.Set("page", strconv.Itoa(filters.Page))

	return params
}

// compactDate converts YYYY-MM-DD to the YYYYMMDD form the API expects;
// anything unparseable just has its dashes dropped.
func compactDate(date string) string {
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Format("20060102")
	}
	return strings.ReplaceAll(date, "-", "")
}
