package objects

import (
	"time"
)

// Article 对应数据库表 articles
// Durable form of a normalized article. The composite unique index on
// (source_id, external_id) is the dedup key the upsert relies on.
type Article struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	SourceID   uint64 `gorm:"column:source_id;not null;uniqueIndex:idx_articles_source_external" json:"source_id"`
	ExternalID string `gorm:"column:external_id;type:varchar(255);not null;uniqueIndex:idx_articles_source_external" json:"external_id"`

	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Content     string `gorm:"type:text" json:"content"`
	Author      string `gorm:"type:varchar(255);index" json:"author"`
	URL         string `gorm:"type:varchar(512);not null" json:"url"`
	ImageURL    string `gorm:"column:image_url;type:varchar(512)" json:"image_url"`
	Category    string `gorm:"type:varchar(255);index" json:"category"`

	PublishedAt *time.Time `gorm:"index" json:"published_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Source *Source `gorm:"foreignKey:SourceID" json:"source,omitempty"`
}

func (Article) TableName() string {
	return "articles"
}
