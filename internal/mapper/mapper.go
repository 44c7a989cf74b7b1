package mapper

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// Storage-driven field caps. Truncation, never rejection, is the overflow
// policy for every text field.
const (
	maxTitleLen       = 255
	maxAuthorLen      = 255
	maxDescriptionLen = 65535
	maxContentLen     = 65535
)

// hashURL derives a deterministic external id for providers that do not
// assign stable item ids. Re-fetching the same URL always yields the same id.
func hashURL(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// truncate caps text at max code points.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// stripHTML reduces markup to its text content. A payload goquery cannot
// parse is returned as-is rather than dropped.
func stripHTML(html string) string {
	if html == "" || !strings.Contains(html, "<") {
		return html
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return doc.Text()
}

// parseDate fails soft: anything unparseable becomes a nil timestamp,
// never an ingestion error.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// Raw-item accessors. Provider payloads arrive as map[string]any and
// frequently omit or null fields, so every read is defensive.

func str(item map[string]any, key string) string {
	if v, ok := item[key].(string); ok {
		return v
	}
	return ""
}

func obj(item map[string]any, key string) map[string]any {
	if v, ok := item[key].(map[string]any); ok {
		return v
	}
	return nil
}

func list(item map[string]any, key string) []any {
	if v, ok := item[key].([]any); ok {
		return v
	}
	return nil
}
