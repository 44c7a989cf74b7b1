package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"newshub/internal/aggregator"
	"newshub/internal/core"
	"newshub/internal/repo"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// articleQuery is the validated listing query. Dates are kept as strings
// after validation because the repository compares them lexically.
type articleQuery struct {
	Q        string
	Source   string
	Category string
	Author   string
	From     string
	To       string
	Page     int
	PerPage  int
}

func parseArticleQuery(c *gin.Context) (articleQuery, error) {
	q := articleQuery{
		Q:        c.Query("q"),
		Source:   c.Query("source"),
		Category: c.Query("category"),
		Author:   c.Query("author"),
		From:     c.Query("from"),
		To:       c.Query("to"),
		Page:     1,
		PerPage:  repo.DefaultPerPage,
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, fmt.Errorf("page must be a positive integer")
		}
		q.Page = page
	}

	if raw := c.Query("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return q, fmt.Errorf("per_page must be a positive integer")
		}
		if perPage > repo.MaxPerPage {
			perPage = repo.MaxPerPage
		}
		q.PerPage = perPage
	}

	var from, to time.Time
	if q.From != "" {
		parsed, err := time.Parse(dateLayout, q.From)
		if err != nil {
			return q, fmt.Errorf("from must be a YYYY-MM-DD date")
		}
		from = parsed
	}
	if q.To != "" {
		parsed, err := time.Parse(dateLayout, q.To)
		if err != nil {
			return q, fmt.Errorf("to must be a YYYY-MM-DD date")
		}
		to = parsed
	}
	if q.From != "" && q.To != "" && from.After(to) {
		return q, fmt.Errorf("from must be before or equal to to")
	}

	return q, nil
}

// cacheKey is stable across requests that differ only in parameter order.
func (q articleQuery) cacheKey() string {
	return fmt.Sprintf("articles:q=%s&source=%s&category=%s&author=%s&from=%s&to=%s&page=%d&per_page=%d",
		q.Q, q.Source, q.Category, q.Author, q.From, q.To, q.Page, q.PerPage)
}

type pageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
	LastPage    int   `json:"last_page"`
}

type pageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

func (s *Server) pageURL(q articleQuery, page int) string {
	u := fmt.Sprintf("/api/v1/articles?page=%d&per_page=%d", page, q.PerPage)
	if q.Q != "" {
		u += "&q=" + q.Q
	}
	if q.Source != "" {
		u += "&source=" + q.Source
	}
	if q.Category != "" {
		u += "&category=" + q.Category
	}
	if q.Author != "" {
		u += "&author=" + q.Author
	}
	if q.From != "" {
		u += "&from=" + q.From
	}
	if q.To != "" {
		u += "&to=" + q.To
	}
	return u
}

func (s *Server) listArticles(c *gin.Context) {
	q, err := parseArticleQuery(c)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	key := q.cacheKey()
	if payload, ok := s.cache.Get(c.Request.Context(), key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	filters := repo.ArticleFilters{
		Query:    q.Q,
		Source:   q.Source,
		Category: q.Category,
		Author:   q.Author,
		From:     q.From,
		To:       q.To,
	}
	items, total, err := s.articles.FindWithFilters(c.Request.Context(), filters, q.Page, q.PerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load articles"})
		return
	}

	lastPage := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}

	meta := pageMeta{
		CurrentPage: q.Page,
		PerPage:     q.PerPage,
		Total:       total,
		LastPage:    lastPage,
	}
	if len(items) > 0 {
		from := (q.Page-1)*q.PerPage + 1
		to := from + len(items) - 1
		meta.From = &from
		meta.To = &to
	}

	links := pageLinks{
		First: s.pageURL(q, 1),
		Last:  s.pageURL(q, lastPage),
	}
	if q.Page > 1 {
		prev := s.pageURL(q, q.Page-1)
		links.Prev = &prev
	}
	if q.Page < lastPage {
		next := s.pageURL(q, q.Page+1)
		links.Next = &next
	}

	payload, err := json.Marshal(gin.H{"data": items, "meta": meta, "links": links})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode articles"})
		return
	}

	s.cache.Set(c.Request.Context(), key, payload)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (s *Server) getArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "id must be a positive integer"})
		return
	}

	article, err := s.articles.FindByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": article})
}

func (s *Server) listSources(c *gin.Context) {
	sources, err := s.sources.Active(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sources"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sources})
}

func (s *Server) fetchAll(c *gin.Context) {
	results := s.agg.AggregateAll(c.Request.Context(), core.Filters{})
	c.JSON(http.StatusOK, gin.H{"data": results})
}

func (s *Server) fetchOne(c *gin.Context) {
	name := c.Param("provider")

	outcome, err := s.agg.AggregateByName(c.Request.Context(), name, core.Filters{})
	if errors.Is(err, aggregator.ErrUnknownProvider) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": outcome})
}
