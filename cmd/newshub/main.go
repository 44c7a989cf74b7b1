package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"newshub/internal/aggregator"
	"newshub/internal/conf"
	"newshub/internal/core"
	"newshub/internal/engine"
	"newshub/internal/provider"
	"newshub/internal/repo"
	"newshub/internal/server"
	"newshub/pkg/db"
	"newshub/pkg/db/objects"
	"newshub/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	fetchOnce := flag.Bool("fetch", false, "run one aggregation synchronously and exit")
	providerName := flag.String("provider", "", "limit -fetch to a single provider")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded", zap.Error(err))
	}

	cfg, err := conf.LoadConfig("configs/config.yaml")
	if err != nil {
		logger.Fatal("❌ LoadConfig error", zap.Error(err))
	}

	conn, err := db.GetConn(&cfg.Database)
	if err != nil {
		logger.Fatal("❌ Database error", zap.Error(err))
	}
	if err := conn.AutoMigrate(&objects.Source{}, &objects.Article{}); err != nil {
		logger.Fatal("❌ Migration error", zap.Error(err))
	}

	ctx := context.Background()

	sources := repo.NewSourceRepo(conn)
	if err := sources.Seed(ctx); err != nil {
		logger.Fatal("❌ Seed error", zap.Error(err))
	}

	articles := repo.NewArticleRepo(conn, repo.WidthObserver{
		ImageURLWidth: cfg.Storage.ImageURLWidth,
	})

	agg := aggregator.New(aggregator.Deps{
		Articles:  articles,
		Sources:   sources,
		Providers: provider.BuildAll(&cfg.Providers),
	})

	if *fetchOnce {
		os.Exit(runOnce(ctx, agg, *providerName))
	}

	srv := server.NewServer(server.Deps{
		Config:     cfg,
		Articles:   articles,
		Sources:    sources,
		Aggregator: agg,
		Scheduler:  engine.NewScheduler(),
		Redis:      db.GetRedisConn(&cfg.Redis),
	})

	port := cfg.Server.Port
	if port == "" {
		port = ":8080"
	}

	log.Printf("🌐 News API running at http://localhost%s", port)
	if err := srv.Run(port); err != nil {
		logger.Fatal("❌ Server error", zap.Error(err))
	}
}

// runOnce executes a synchronous aggregation for cron-less deployments
// and ad-hoc backfills. Returns the process exit code.
func runOnce(ctx context.Context, agg *aggregator.Aggregator, providerName string) int {
	if providerName != "" {
		outcome, err := agg.AggregateByName(ctx, providerName, core.Filters{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s] Failed: %v\n", providerName, err)
			return 1
		}
		printOutcome(providerName, outcome)
		return 0
	}

	results := agg.AggregateAll(ctx, core.Filters{})
	code := 0
	for _, name := range agg.ProviderNames() {
		outcome := results[name]
		printOutcome(name, outcome)
		if !outcome.Success {
			code = 1
		}
	}
	return code
}

func printOutcome(name string, outcome core.Outcome) {
	switch {
	case !outcome.Success:
		fmt.Printf("[%s] Failed: %s\n", name, outcome.Error)
	case outcome.Message != "":
		fmt.Printf("[%s] Fetched: %d, Stored: %d (%s)\n", name, outcome.Fetched, outcome.Stored, outcome.Message)
	default:
		fmt.Printf("[%s] Fetched: %d, Stored: %d\n", name, outcome.Fetched, outcome.Stored)
	}
}
