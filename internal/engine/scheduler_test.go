package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"newshub/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScheduler() *Scheduler {
	s := NewScheduler()
	s.retryDelay = time.Millisecond
	return s
}

func TestAddJobRejectsBadCronExpr(t *testing.T) {
	s := testScheduler()
	err := s.AddJob("not a cron expr", "broken", "", "YAML", func(context.Context) (core.Outcome, error) {
		return core.Outcome{}, nil
	})
	assert.Error(t, err)
}

func TestManualRunUnknownJob(t *testing.T) {
	s := testScheduler()
	assert.Error(t, s.ManualRun("missing"))
}

func TestRunRecoversAfterFailedAttempts(t *testing.T) {
	s := testScheduler()

	calls := 0
	fetch := func(context.Context) (core.Outcome, error) {
		calls++
		if calls < 3 {
			return core.Outcome{}, errors.New("upstream down")
		}
		return core.Outcome{Success: true, Fetched: 5, Stored: 4}, nil
	}
	require.NoError(t, s.AddJob("0 0 * * * *", "flaky", "newsapi", "YAML", fetch))

	s.runJobWithStats("flaky", fetch)

	assert.Equal(t, 3, calls)
	stat := s.Stats.Get("flaky")
	assert.Equal(t, "Idle", stat.Status)
	assert.Equal(t, "Success (fetched=5, stored=4)", stat.LastResult)
	assert.Equal(t, int64(1), stat.RunCount)
}

func TestRunRecordsPermanentFailure(t *testing.T) {
	s := testScheduler()

	calls := 0
	fetch := func(context.Context) (core.Outcome, error) {
		calls++
		return core.Outcome{}, errors.New("boom")
	}
	require.NoError(t, s.AddJob("0 0 * * * *", "doomed", "", "YAML", fetch))

	s.runJobWithStats("doomed", fetch)

	assert.Equal(t, maxAttempts, calls)
	stat := s.Stats.Get("doomed")
	assert.Equal(t, "Error", stat.Status)
	assert.Contains(t, stat.LastResult, "boom")

	// 一次失败不影响下一次执行
	s.runJobWithStats("doomed", fetch)
	assert.Equal(t, int64(2), s.Stats.Get("doomed").RunCount)
}

func TestStatsSortedByName(t *testing.T) {
	m := NewStatManager()
	m.Set("zeta", &JobStats{Name: "zeta"})
	m.Set("alpha", &JobStats{Name: "alpha"})

	all := m.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name)
	assert.Equal(t, "zeta", all[1].Name)
}
