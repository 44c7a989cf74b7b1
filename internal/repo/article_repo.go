package repo

import (
	"context"
	"strconv"
	"strings"

	"newshub/internal/core"
	"newshub/pkg/db/objects"
	"newshub/pkg/transaction"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Page size bounds for the read query.
const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// ArticleFilters is the read-path filter vocabulary consumed by the
// presentation layer.
type ArticleFilters struct {
	Query    string
	Source   string // slug or numeric id
	Category string
	Author   string
	From     string // YYYY-MM-DD, inclusive
	To       string // YYYY-MM-DD, inclusive
}

// ArticleRepo owns all write access to persisted articles. Upsert keyed
// on (source_id, external_id) is the sole dedup mechanism.
type ArticleRepo struct {
	db       *gorm.DB
	txm      *transaction.Manager
	observer Observer
}

func NewArticleRepo(db *gorm.DB, observer Observer) *ArticleRepo {
	if observer == nil {
		observer = NopObserver{}
	}
	return &ArticleRepo{
		db:       db,
		txm:      transaction.NewManager(db),
		observer: observer,
	}
}

// Upsert writes one record: insert, or overwrite every mutable column of
// the existing (source_id, external_id) row. The database's composite
// unique index makes this atomic under concurrent runs.
func (r *ArticleRepo) Upsert(ctx context.Context, rec core.ArticleRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	r.observer.OnUpsert(rec)

	row := toRow(rec)
	conn := transaction.GetTransactionOrDB(ctx, r.db)
	return conn.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "content", "author",
			"url", "image_url", "category", "published_at", "updated_at",
		}),
	}).Create(&row).Error
}

// UpsertMany applies Upsert to each record inside one transaction: a
// mid-batch failure rolls back the whole batch. Returns the number of
// records processed.
func (r *ArticleRepo) UpsertMany(ctx context.Context, recs []core.ArticleRecord) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	processed := 0
	err := r.txm.Execute(ctx, nil, func(ctx context.Context) error {
		for _, rec := range recs {
			if err := r.Upsert(ctx, rec); err != nil {
				return err
			}
			processed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return processed, nil
}

// FindWithFilters is the read path behind the articles API: keyword
// search over title/description/content, source by slug or id, substring
// category/author match, inclusive published-at range, newest first.
func (r *ArticleRepo) FindWithFilters(ctx context.Context, filters ArticleFilters, page, perPage int) ([]objects.Article, int64, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page <= 0 {
		page = 1
	}

	query := r.db.WithContext(ctx).Model(&objects.Article{})

	if filters.Query != "" {
		term := "%" + filters.Query + "%"
		query = query.Where(
			"title LIKE ? OR description LIKE ? OR content LIKE ?",
			term, term, term,
		)
	}

	if filters.Source != "" {
		if id, err := strconv.ParseUint(filters.Source, 10, 64); err == nil {
			query = query.Where("source_id = ?", id)
		} else {
			query = query.Joins("JOIN sources ON sources.id = articles.source_id").
				Where("sources.slug = ?", strings.ToLower(filters.Source))
		}
	}

	if filters.Category != "" {
		query = query.Where("category LIKE ?", "%"+filters.Category+"%")
	}
	if filters.Author != "" {
		query = query.Where("author LIKE ?", "%"+filters.Author+"%")
	}
	if filters.From != "" {
		query = query.Where("published_at >= ?", filters.From)
	}
	if filters.To != "" {
		query = query.Where("published_at <= ?", filters.To+" 23:59:59")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []objects.Article
	err := query.
		Preload("Source").
		Order("published_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

// FindByID loads one article with its source.
func (r *ArticleRepo) FindByID(ctx context.Context, id uint64) (*objects.Article, error) {
	var article objects.Article
	err := r.db.WithContext(ctx).Preload("Source").First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func toRow(rec core.ArticleRecord) objects.Article {
	return objects.Article{
		SourceID:    rec.SourceID,
		ExternalID:  rec.ExternalID,
		Title:       rec.Title,
		Description: rec.Description,
		Content:     rec.Content,
		Author:      rec.Author,
		URL:         rec.URL,
		ImageURL:    rec.ImageURL,
		Category:    rec.Category,
		PublishedAt: rec.PublishedAt,
	}
}
