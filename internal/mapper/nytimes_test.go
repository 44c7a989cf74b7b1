package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNYTimesMapValidArticle(t *testing.T) {
	raw := []byte(`{
		"status": "OK",
		"response": {
			"docs": [
				{
					"_id": "nyt://article/abc-123",
					"web_url": "https://nytimes.com/article",
					"abstract": "Article abstract",
					"snippet": "Article snippet",
					"lead_paragraph": "Lead paragraph text",
					"headline": {"main": "NYT Headline"},
					"byline": {"original": "By Jane Smith"},
					"multimedia": [
						{"subtype": "thumbnail", "url": "images/thumb.jpg"},
						{"subtype": "xlarge", "url": "images/xlarge.jpg"}
					],
					"pub_date": "2026-01-12T10:00:00+0000",
					"section_name": "World"
				}
			]
		}
	}`)

	records := NewNYTimesMapper().Map(raw)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "nyt://article/abc-123", rec.ExternalID)
	assert.Equal(t, "NYT Headline", rec.Title)
	assert.Equal(t, "Article abstract", rec.Description)
	assert.Equal(t, "Lead paragraph text", rec.Content)
	assert.Equal(t, "Jane Smith", rec.Author)
	assert.Equal(t, "https://static01.nyt.com/images/xlarge.jpg", rec.ImageURL)
	assert.Equal(t, "World", rec.Category)
	require.NotNil(t, rec.PublishedAt)
}

func TestNYTimesStripsBylinePrefix(t *testing.T) {
	rec, ok := NewNYTimesMapper().MapOne(map[string]any{
		"headline": map[string]any{"main": "Headline"},
		"web_url":  "https://nytimes.com/a",
		"byline":   map[string]any{"original": "By Jane Smith"},
	})

	require.True(t, ok)
	assert.Equal(t, "Jane Smith", rec.Author)
}

func TestNYTimesJoinsPersonNames(t *testing.T) {
	rec, ok := NewNYTimesMapper().MapOne(map[string]any{
		"headline": map[string]any{"main": "Headline"},
		"web_url":  "https://nytimes.com/a",
		"byline": map[string]any{
			"person": []any{
				map[string]any{"firstname": "Jane", "lastname": "Smith"},
				map[string]any{"firstname": "John", "lastname": "Doe"},
			},
		},
	})

	require.True(t, ok)
	assert.Equal(t, "Jane Smith, John Doe", rec.Author)
}

func TestNYTimesImageFallsBackToFirstEntry(t *testing.T) {
	rec, ok := NewNYTimesMapper().MapOne(map[string]any{
		"headline": map[string]any{"main": "Headline"},
		"web_url":  "https://nytimes.com/a",
		"multimedia": []any{
			map[string]any{"subtype": "thumbnail", "url": "images/thumb.jpg"},
		},
	})

	require.True(t, ok)
	assert.Equal(t, "https://static01.nyt.com/images/thumb.jpg", rec.ImageURL)
}

func TestNYTimesNoImageStaysEmpty(t *testing.T) {
	rec, ok := NewNYTimesMapper().MapOne(map[string]any{
		"headline": map[string]any{"main": "Headline"},
		"web_url":  "https://nytimes.com/a",
	})

	require.True(t, ok)
	assert.Empty(t, rec.ImageURL)
}

func TestNYTimesSkipsMissingHeadline(t *testing.T) {
	records := NewNYTimesMapper().Map([]byte(`{
		"response": {"docs": [{"web_url": "https://nytimes.com/a"}]}
	}`))
	assert.Empty(t, records)
}

func TestNYTimesDescriptionFallsBackToSnippet(t *testing.T) {
	rec, ok := NewNYTimesMapper().MapOne(map[string]any{
		"headline": map[string]any{"main": "Headline"},
		"web_url":  "https://nytimes.com/a",
		"snippet":  "Only a snippet",
	})

	require.True(t, ok)
	assert.Equal(t, "Only a snippet", rec.Description)
}
