package core

import (
	"errors"
	"time"
)

// ArticleRecord is the normalized article shape every mapper produces,
// regardless of which provider the raw payload came from.
type ArticleRecord struct {
	SourceID    uint64
	ExternalID  string
	Title       string
	Description string
	Content     string
	Author      string
	URL         string
	ImageURL    string
	Category    string
	PublishedAt *time.Time
}

var ErrInvalidRecord = errors.New("article record missing required field")

// Validate checks the required-field contract. SourceID is stamped by the
// aggregator after mapping, so it is part of the check here and not in the
// mapper stage.
func (r *ArticleRecord) Validate() error {
	if r.SourceID == 0 || r.ExternalID == "" || r.Title == "" || r.URL == "" {
		return ErrInvalidRecord
	}
	return nil
}

// Filters is the provider-agnostic fetch vocabulary. Each provider client
// translates these into its own query parameter names.
type Filters struct {
	Query    string
	Category string
	From     string // YYYY-MM-DD
	To       string // YYYY-MM-DD
	Limit    int
	Page     int
	Sources  []string
}

// Outcome summarizes one provider's aggregation run.
type Outcome struct {
	Success bool   `json:"success"`
	Fetched int    `json:"fetched"`
	Stored  int    `json:"stored"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
