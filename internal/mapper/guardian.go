package mapper

import (
	"encoding/json"

	"newshub/internal/core"
	"newshub/pkg/logger"

	"go.uber.org/zap"
)

// GuardianMapper maps Guardian Open Platform responses:
//
//	{"response": {"status": "ok", "total": N, "results": [{"id": ...,
//	 "sectionId": ..., "sectionName": ..., "webPublicationDate": ...,
//	 "webTitle": ..., "webUrl": ..., "fields": {"trailText": ...,
//	 "body": ..., "byline": ..., "thumbnail": ...}}]}}
type GuardianMapper struct{}

var _ core.Mapper = (*GuardianMapper)(nil)

func NewGuardianMapper() *GuardianMapper {
	return &GuardianMapper{}
}

func (m *GuardianMapper) Map(raw []byte) []core.ArticleRecord {
	var envelope struct {
		Response struct {
			Results []map[string]any `json:"results"`
		} `json:"response"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		logger.Warn("guardian: undecodable response", zap.Error(err))
		return nil
	}

	records := make([]core.ArticleRecord, 0, len(envelope.Response.Results))
	for _, item := range envelope.Response.Results {
		if rec, ok := m.MapOne(item); ok {
			records = append(records, rec)
		}
	}
	return records
}

func (m *GuardianMapper) MapOne(item map[string]any) (core.ArticleRecord, bool) {
	title := str(item, "webTitle")
	url := str(item, "webUrl")
	if title == "" || url == "" {
		return core.ArticleRecord{}, false
	}

	externalID := str(item, "id")
	if externalID == "" {
		externalID = hashURL(url)
	}

	category := str(item, "sectionName")
	if category == "" {
		category = str(item, "sectionId")
	}

	fields := obj(item, "fields")

	return core.ArticleRecord{
		ExternalID:  externalID,
		Title:       truncate(title, maxTitleLen),
		Description: truncate(str(fields, "trailText"), maxDescriptionLen),
		// The body field carries markup; strip before truncation so the cap
		// applies to visible text.
		Content:     truncate(stripHTML(str(fields, "body")), maxContentLen),
		Author:      truncate(str(fields, "byline"), maxAuthorLen),
		URL:         url,
		ImageURL:    str(fields, "thumbnail"),
		Category:    category,
		PublishedAt: parseDate(str(item, "webPublicationDate")),
	}, true
}
