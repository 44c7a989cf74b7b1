package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"newshub/internal/aggregator"
	"newshub/internal/conf"
	"newshub/internal/core"
	"newshub/internal/engine"
	"newshub/internal/repo"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Deps collects everything the HTTP surface needs. The server owns no
// state of its own: it fronts the repositories, the aggregator and the
// scheduler.
type Deps struct {
	Config     *conf.Config
	Articles   *repo.ArticleRepo
	Sources    *repo.SourceRepo
	Aggregator *aggregator.Aggregator
	Scheduler  *engine.Scheduler
	Redis      *redis.Client // nil disables the listing cache
}

type Server struct {
	engine    *gin.Engine
	scheduler *engine.Scheduler
	articles  *repo.ArticleRepo
	sources   *repo.SourceRepo
	agg       *aggregator.Aggregator
	cache     *pageCache
}

func NewServer(deps Deps) *Server {
	s := &Server{
		scheduler: deps.Scheduler,
		articles:  deps.Articles,
		sources:   deps.Sources,
		agg:       deps.Aggregator,
		cache:     newPageCache(deps.Redis, deps.Config.Redis.CacheTTLSeconds),
	}

	// 注册所有配置型任务
	for _, job := range deps.Config.Jobs {
		if !job.Enable {
			continue
		}
		err := s.scheduler.AddJob(job.Cron, job.Name, job.Provider, "YAML", fetchFuncFor(deps.Aggregator, job.Provider))
		if err != nil {
			log.Printf("⚠️ Failed to schedule %s: %v", job.Name, err)
		} else {
			log.Printf("✅ Job scheduled: %s [%s]", job.Name, job.Cron)
		}
	}

	router := gin.Default()

	api := router.Group("/api/v1")
	{
		api.GET("/articles", s.listArticles)
		api.GET("/articles/:id", s.getArticle)
		api.GET("/sources", s.listSources)

		api.POST("/fetch", s.fetchAll)
		api.POST("/fetch/:provider", s.fetchOne)

		api.GET("/jobs", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"data": s.scheduler.Stats.GetAll()})
		})
		api.POST("/jobs/:name/run", func(c *gin.Context) {
			if err := s.scheduler.ManualRun(c.Param("name")); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Triggered"})
		})
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	s.engine = router
	return s
}

// fetchFuncFor adapts an aggregation run to the scheduler's contract. A
// job with no provider runs every provider and reports an error when any
// of them failed, so the scheduler's retry covers partial runs too.
func fetchFuncFor(agg *aggregator.Aggregator, providerName string) engine.FetchFunc {
	if providerName != "" {
		return func(ctx context.Context) (core.Outcome, error) {
			return agg.AggregateByName(ctx, providerName, core.Filters{})
		}
	}

	return func(ctx context.Context) (core.Outcome, error) {
		results := agg.AggregateAll(ctx, core.Filters{})

		var combined core.Outcome
		combined.Success = true
		var failed []string
		for name, outcome := range results {
			combined.Fetched += outcome.Fetched
			combined.Stored += outcome.Stored
			if !outcome.Success {
				failed = append(failed, name)
			}
		}
		if len(failed) > 0 {
			sort.Strings(failed)
			return combined, fmt.Errorf("providers failed: %s", strings.Join(failed, ", "))
		}
		return combined, nil
	}
}

func (s *Server) Run(addr string) error {
	// 启动任务调度器
	s.scheduler.Start()

	// 启动 web server
	return s.engine.Run(addr)
}
