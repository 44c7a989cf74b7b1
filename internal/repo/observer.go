package repo

import (
	"newshub/internal/core"
	"newshub/pkg/logger"

	"go.uber.org/zap"
)

// Observer is called before every article write. Diagnostics live here
// instead of inline in the persistence path.
type Observer interface {
	OnUpsert(rec core.ArticleRecord)
}

type NopObserver struct{}

func (NopObserver) OnUpsert(core.ArticleRecord) {}

// WidthObserver warns when a field is wider than its storage column.
// The column width is configuration, not a constant buried in the write
// path, so schema changes only need a config update.
type WidthObserver struct {
	ImageURLWidth int
}

func (o WidthObserver) OnUpsert(rec core.ArticleRecord) {
	if o.ImageURLWidth > 0 && len(rec.ImageURL) > o.ImageURLWidth {
		logger.Warn("image_url exceeds column width, value will be truncated by the database",
			zap.Uint64("source_id", rec.SourceID),
			zap.String("external_id", rec.ExternalID),
			zap.Int("length_bytes", len(rec.ImageURL)),
			zap.Int("column_width", o.ImageURLWidth),
		)
	}
}
