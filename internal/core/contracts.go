package core

import "context"

// Provider 新闻上游接口
// Fetch never returns an error: transport failures, non-success statuses
// and disabled credentials all collapse to an empty result so that one
// provider's outage is invisible to the aggregation loop.
type Provider interface {
	// Fetch builds a provider-specific request from the generic filters,
	// issues it, and returns the mapped records in provider order.
	Fetch(ctx context.Context, filters Filters) []ArticleRecord

	// Name returns the stable provider key, e.g. "newsapi".
	Name() string

	// Enabled reports whether a credential is configured.
	Enabled() bool
}

// Mapper translates one provider's raw response into canonical records.
type Mapper interface {
	// Map extracts the provider's item list and maps each entry,
	// discarding items that fail validation.
	Map(raw []byte) []ArticleRecord

	// MapOne maps a single raw item. ok is false when the item is missing
	// a required field or matches the provider's removed-article sentinel.
	MapOne(item map[string]any) (rec ArticleRecord, ok bool)
}
