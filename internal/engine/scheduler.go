package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"newshub/internal/core"

	"github.com/robfig/cron/v3"
)

const (
	// 单次任务的总时限，包含所有重试和退避
	jobTimeout  = 10 * time.Minute
	maxAttempts = 3
)

// FetchFunc 是一次聚合执行；调度器不关心跑的是单个 provider 还是全部
type FetchFunc func(ctx context.Context) (core.Outcome, error)

type Scheduler struct {
	cron       *cron.Cron
	Stats      *StatManager
	registered map[string]FetchFunc
	retryDelay time.Duration
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		Stats:      NewStatManager(),
		registered: make(map[string]FetchFunc),
		retryDelay: 60 * time.Second,
	}
}

// AddJob 添加任务
func (s *Scheduler) AddJob(cronExpr, name, provider, source string, fetch FetchFunc) error {
	// 1. 初始化状态
	s.Stats.Set(name, &JobStats{
		Name:       name,
		CronExpr:   cronExpr,
		Provider:   provider,
		Status:     "Idle",
		LastResult: "Pending",
		Source:     source,
	})

	// 保存引用以便手动触发
	s.registered[name] = fetch

	// 2. 包装执行逻辑
	wrapper := func() {
		s.runJobWithStats(name, fetch)
	}

	// 3. 加入 Cron
	entryID, err := s.cron.AddFunc(cronExpr, wrapper)
	if err == nil {
		stat := s.Stats.Get(name)
		stat.rawNext = s.cron.Entry(entryID).Next
		stat.NextRunTime = stat.rawNext.Format("2006-01-02 15:04:05")
	}
	return err
}

// runJobWithStats 执行并记录状态
func (s *Scheduler) runJobWithStats(name string, fetch FetchFunc) {
	stat := s.Stats.Get(name)

	// 更新开始状态
	stat.Status = "Running"
	stat.LastRunTime = time.Now().Format("2006-01-02 15:04:05")
	stat.RunCount++

	log.Printf("🚀 [Schedule] Starting job: %s", name)

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	outcome, err := s.runWithRetry(ctx, name, fetch)

	// 更新结束状态
	if err != nil {
		stat.LastResult = fmt.Sprintf("Error: %v", err)
		stat.Status = "Error"
		log.Printf("❌ [Schedule] Job failed: %s, err: %v", name, err)
	} else {
		stat.LastResult = fmt.Sprintf("Success (fetched=%d, stored=%d)", outcome.Fetched, outcome.Stored)
		stat.Status = "Idle"
		log.Printf("✅ [Schedule] Job finished: %s, fetched=%d, stored=%d", name, outcome.Fetched, outcome.Stored)
	}
}

// runWithRetry 固定间隔重试，重试耗尽后返回最后一次错误
func (s *Scheduler) runWithRetry(ctx context.Context, name string, fetch FetchFunc) (core.Outcome, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		outcome, err := fetch(ctx)
		if err == nil {
			return outcome, nil
		}
		lastErr = err

		if attempt < maxAttempts {
			log.Printf("⚠️ [Schedule] Job %s attempt %d/%d failed: %v, retrying in %s", name, attempt, maxAttempts, err, s.retryDelay)
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return core.Outcome{}, ctx.Err()
			}
		}
	}
	return core.Outcome{}, lastErr
}

// ManualRun 手动触发
func (s *Scheduler) ManualRun(name string) error {
	fetch, ok := s.registered[name]
	if !ok {
		return fmt.Errorf("job not found")
	}
	go s.runJobWithStats(name, fetch)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
