package objects

import (
	"time"
)

// Source 对应数据库表 sources
// One row per configured upstream provider. Rows are created by seeding,
// toggled by operators, and only ever read by the ingestion pipeline.
type Source struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// Display name, e.g. "The Guardian"
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	// URL-safe identity used by the read API's source filter
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex:idx_sources_slug" json:"slug"`

	// Stable provider key the aggregator resolves against, e.g. "newsapi"
	APIName string `gorm:"column:api_name;type:varchar(64);not null;uniqueIndex:idx_sources_api_name" json:"api_name"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Source) TableName() string {
	return "sources"
}
