package aggregator

import (
	"context"
	"fmt"
	"testing"

	"newshub/internal/core"
	"newshub/internal/repo"
	"newshub/pkg/db/objects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:agg_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&objects.Source{}, &objects.Article{}))
	return db
}

func seedSource(t *testing.T, db *gorm.DB, apiName string, active bool) *objects.Source {
	t.Helper()
	source := &objects.Source{Name: apiName, Slug: apiName, APIName: apiName, IsActive: active}
	require.NoError(t, db.Create(source).Error)
	return source
}

// stubProvider records how often it was asked for articles.
type stubProvider struct {
	name    string
	records []core.ArticleRecord
	calls   int
}

func (p *stubProvider) Fetch(context.Context, core.Filters) []core.ArticleRecord {
	p.calls++
	return p.records
}

func (p *stubProvider) Name() string  { return p.name }
func (p *stubProvider) Enabled() bool { return true }

func stubRecord(externalID, title string) core.ArticleRecord {
	return core.ArticleRecord{
		ExternalID: externalID,
		Title:      title,
		URL:        "https://example.com/" + externalID,
	}
}

func newAggregator(db *gorm.DB, providers ...core.Provider) *Aggregator {
	return New(Deps{
		Articles:  repo.NewArticleRepo(db, nil),
		Sources:   repo.NewSourceRepo(db),
		Providers: providers,
	})
}

func TestAggregateFromStoresFetchedArticles(t *testing.T) {
	db := setupDB(t)
	seedSource(t, db, "newsapi", true)
	provider := &stubProvider{name: "newsapi", records: []core.ArticleRecord{
		stubRecord("a1", "First"),
		stubRecord("a2", "Second"),
	}}

	outcome, err := newAggregator(db, provider).AggregateFrom(context.Background(), provider, core.Filters{})
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, 2, outcome.Fetched)
	assert.Equal(t, 2, outcome.Stored)

	var n int64
	require.NoError(t, db.Model(&objects.Article{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestAggregateFromInactiveSourceSkipsNetwork(t *testing.T) {
	db := setupDB(t)
	seedSource(t, db, "newsapi", false)
	provider := &stubProvider{name: "newsapi", records: []core.ArticleRecord{stubRecord("a1", "First")}}

	outcome, err := newAggregator(db, provider).AggregateFrom(context.Background(), provider, core.Filters{})
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Zero(t, outcome.Fetched)
	assert.Zero(t, outcome.Stored)
	assert.Equal(t, "source is inactive", outcome.Message)
	assert.Zero(t, provider.calls, "inactive source must not trigger a fetch")
}

func TestAggregateFromUnregisteredSource(t *testing.T) {
	db := setupDB(t)
	provider := &stubProvider{name: "newsapi"}

	_, err := newAggregator(db, provider).AggregateFrom(context.Background(), provider, core.Filters{})
	assert.ErrorIs(t, err, repo.ErrSourceNotFound)
}

func TestAggregateFromDropsInvalidRecords(t *testing.T) {
	db := setupDB(t)
	seedSource(t, db, "newsapi", true)
	provider := &stubProvider{name: "newsapi", records: []core.ArticleRecord{
		stubRecord("ok", "Valid"),
		{ExternalID: "no-title", URL: "https://example.com/no-title"},
	}}

	outcome, err := newAggregator(db, provider).AggregateFrom(context.Background(), provider, core.Filters{})
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Fetched)
	assert.Equal(t, 1, outcome.Stored)
}

func TestAggregateAllIsolatesFailures(t *testing.T) {
	db := setupDB(t)
	seedSource(t, db, "guardian", true)
	seedSource(t, db, "nytimes", true)

	// newsapi has no source row, so it fails; the other two still run.
	failing := &stubProvider{name: "newsapi"}
	guardian := &stubProvider{name: "guardian", records: []core.ArticleRecord{stubRecord("g1", "Guardian story")}}
	nytimes := &stubProvider{name: "nytimes", records: []core.ArticleRecord{stubRecord("n1", "Times story")}}

	results := newAggregator(db, failing, guardian, nytimes).AggregateAll(context.Background(), core.Filters{})

	require.Len(t, results, 3)
	assert.False(t, results["newsapi"].Success)
	assert.Contains(t, results["newsapi"].Error, "source not found")
	assert.True(t, results["guardian"].Success)
	assert.Equal(t, 1, results["guardian"].Stored)
	assert.True(t, results["nytimes"].Success)
	assert.Equal(t, 1, results["nytimes"].Stored)
}

func TestAggregateByName(t *testing.T) {
	db := setupDB(t)
	seedSource(t, db, "guardian", true)
	guardian := &stubProvider{name: "guardian", records: []core.ArticleRecord{stubRecord("g1", "Guardian story")}}
	agg := newAggregator(db, guardian)

	outcome, err := agg.AggregateByName(context.Background(), "guardian", core.Filters{})
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, 1, outcome.Stored)

	_, err = agg.AggregateByName(context.Background(), "does-not-exist", core.Filters{})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
