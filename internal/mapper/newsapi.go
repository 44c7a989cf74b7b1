package mapper

import (
	"encoding/json"

	"newshub/internal/core"
	"newshub/pkg/logger"

	"go.uber.org/zap"
)

// removedSentinel is NewsAPI's placeholder title for articles the
// publisher has taken down. Such items are skipped, not errors.
const removedSentinel = "[Removed]"

// NewsAPIMapper maps NewsAPI.org responses:
//
//	{"status": "ok", "totalResults": N, "articles": [{"source": {...},
//	 "author": ..., "title": ..., "description": ..., "url": ...,
//	 "urlToImage": ..., "publishedAt": ..., "content": ...}]}
type NewsAPIMapper struct{}

var _ core.Mapper = (*NewsAPIMapper)(nil)

func NewNewsAPIMapper() *NewsAPIMapper {
	return &NewsAPIMapper{}
}

func (m *NewsAPIMapper) Map(raw []byte) []core.ArticleRecord {
	var envelope struct {
		Articles []map[string]any `json:"articles"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		logger.Warn("newsapi: undecodable response", zap.Error(err))
		return nil
	}

	records := make([]core.ArticleRecord, 0, len(envelope.Articles))
	for _, item := range envelope.Articles {
		if rec, ok := m.MapOne(item); ok {
			records = append(records, rec)
		}
	}
	return records
}

func (m *NewsAPIMapper) MapOne(item map[string]any) (core.ArticleRecord, bool) {
	title := str(item, "title")
	url := str(item, "url")
	if title == "" || url == "" || title == removedSentinel {
		return core.ArticleRecord{}, false
	}

	return core.ArticleRecord{
		// NewsAPI assigns no item ids, so identity is derived from the URL.
		ExternalID:  hashURL(url),
		Title:       truncate(title, maxTitleLen),
		Description: truncate(str(item, "description"), maxDescriptionLen),
		Content:     truncate(str(item, "content"), maxContentLen),
		Author:      truncate(str(item, "author"), maxAuthorLen),
		URL:         url,
		ImageURL:    str(item, "urlToImage"),
		Category:    str(item, "category"),
		PublishedAt: parseDate(str(item, "publishedAt")),
	}, true
}
