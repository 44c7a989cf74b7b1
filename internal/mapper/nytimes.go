package mapper

import (
	"encoding/json"
	"regexp"
	"strings"

	"newshub/internal/core"
	"newshub/pkg/logger"

	"go.uber.org/zap"
)

// Multimedia entries carry site-relative paths.
const nytImageBaseURL = "https://static01.nyt.com/"

// Larger variants first; the mapper falls back to the first entry when
// none of the preferred subtypes is present.
var nytImagePriority = []string{"xlarge", "large", "mediumThreeByTwo440", "mediumThreeByTwo210"}

var bylinePrefix = regexp.MustCompile(`(?i)^By\s+`)

// NYTimesMapper maps Article Search API responses:
//
//	{"status": "OK", "response": {"docs": [{"_id": ..., "web_url": ...,
//	 "snippet": ..., "lead_paragraph": ..., "abstract": ...,
//	 "headline": {"main": ...}, "byline": {"original": ..., "person": [...]},
//	 "multimedia": [{"subtype": ..., "url": ...}], "pub_date": ...,
//	 "section_name": ..., "news_desk": ...}]}}
type NYTimesMapper struct{}

var _ core.Mapper = (*NYTimesMapper)(nil)

func NewNYTimesMapper() *NYTimesMapper {
	return &NYTimesMapper{}
}

func (m *NYTimesMapper) Map(raw []byte) []core.ArticleRecord {
	var envelope struct {
		Response struct {
			Docs []map[string]any `json:"docs"`
		} `json:"response"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		logger.Warn("nytimes: undecodable response", zap.Error(err))
		return nil
	}

	records := make([]core.ArticleRecord, 0, len(envelope.Response.Docs))
	for _, item := range envelope.Response.Docs {
		if rec, ok := m.MapOne(item); ok {
			records = append(records, rec)
		}
	}
	return records
}

func (m *NYTimesMapper) MapOne(item map[string]any) (core.ArticleRecord, bool) {
	title := str(obj(item, "headline"), "main")
	url := str(item, "web_url")
	if title == "" || url == "" {
		return core.ArticleRecord{}, false
	}

	externalID := str(item, "_id")
	if externalID == "" {
		externalID = hashURL(url)
	}

	description := str(item, "abstract")
	if description == "" {
		description = str(item, "snippet")
	}

	category := str(item, "section_name")
	if category == "" {
		category = str(item, "news_desk")
	}

	return core.ArticleRecord{
		ExternalID:  externalID,
		Title:       truncate(title, maxTitleLen),
		Description: truncate(description, maxDescriptionLen),
		Content:     truncate(str(item, "lead_paragraph"), maxContentLen),
		Author:      truncate(extractAuthor(item), maxAuthorLen),
		URL:         url,
		ImageURL:    extractImageURL(item),
		Category:    category,
		PublishedAt: parseDate(str(item, "pub_date")),
	}, true
}

// extractAuthor prefers the preformatted byline, stripping its "By "
// prefix; otherwise it joins the listed person name parts.
func extractAuthor(item map[string]any) string {
	byline := obj(item, "byline")
	if byline == nil {
		return ""
	}

	if original := str(byline, "original"); original != "" {
		return bylinePrefix.ReplaceAllString(original, "")
	}

	var names []string
	for _, entry := range list(byline, "person") {
		person, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := strings.TrimSpace(strings.TrimSpace(str(person, "firstname")) + " " + strings.TrimSpace(str(person, "lastname")))
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func extractImageURL(item map[string]any) string {
	multimedia := list(item, "multimedia")
	if len(multimedia) == 0 {
		return ""
	}

	for _, subtype := range nytImagePriority {
		for _, entry := range multimedia {
			media, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if str(media, "subtype") == subtype && str(media, "url") != "" {
				return nytImageBaseURL + str(media, "url")
			}
		}
	}

	if first, ok := multimedia[0].(map[string]any); ok {
		if url := str(first, "url"); url != "" {
			return nytImageBaseURL + url
		}
	}
	return ""
}
