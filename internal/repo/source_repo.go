package repo

import (
	"context"
	"errors"
	"fmt"

	"newshub/pkg/db/objects"

	"gorm.io/gorm"
)

var ErrSourceNotFound = errors.New("source not found")

// SourceRepo reads the source registry. The pipeline never creates or
// mutates sources; rows come from seeding and operator toggles.
type SourceRepo struct {
	db *gorm.DB
}

func NewSourceRepo(db *gorm.DB) *SourceRepo {
	return &SourceRepo{db: db}
}

// FindByAPIName resolves a provider key to its persisted source identity.
func (r *SourceRepo) FindByAPIName(ctx context.Context, apiName string) (*objects.Source, error) {
	var source objects.Source
	err := r.db.WithContext(ctx).Where("api_name = ?", apiName).First(&source).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, apiName)
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// Active lists sources whose ingestion is enabled.
func (r *SourceRepo) Active(ctx context.Context) ([]objects.Source, error) {
	var sources []objects.Source
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&sources).Error
	return sources, err
}

// FindByID loads a single source.
func (r *SourceRepo) FindByID(ctx context.Context, id uint64) (*objects.Source, error) {
	var source objects.Source
	err := r.db.WithContext(ctx).First(&source, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id=%d", ErrSourceNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// Seed inserts the known provider registrations when missing. Existing
// rows are left untouched so operator toggles survive restarts.
func (r *SourceRepo) Seed(ctx context.Context) error {
	seeds := []objects.Source{
		{Name: "NewsAPI", Slug: "newsapi", APIName: "newsapi", IsActive: true},
		{Name: "The Guardian", Slug: "the-guardian", APIName: "guardian", IsActive: true},
		{Name: "New York Times", Slug: "new-york-times", APIName: "nytimes", IsActive: true},
	}

	for _, seed := range seeds {
		var row objects.Source
		err := r.db.WithContext(ctx).
			Where(objects.Source{APIName: seed.APIName}).
			Attrs(seed).
			FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("seed source %s: %w", seed.APIName, err)
		}
	}
	return nil
}
