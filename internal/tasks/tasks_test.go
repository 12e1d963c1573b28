package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vikasavnish/carecoord/internal/logging"
	"github.com/vikasavnish/carecoord/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeReports struct {
	mu        sync.Mutex
	refreshes int
	err       error
}

func (f *fakeReports) Summary(ctx context.Context) (models.DashboardSummary, error) {
	return f.Refresh(ctx)
}

func (f *fakeReports) Refresh(context.Context) (models.DashboardSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	if f.err != nil {
		return models.DashboardSummary{}, f.err
	}
	return models.DashboardSummary{Users: int64(f.refreshes)}, nil
}

func (f *fakeReports) Invalidate(context.Context) {}

func (f *fakeReports) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

type fakeHub struct {
	mu       sync.Mutex
	messages []models.Message
}

func (h *fakeHub) Broadcast(msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

func (h *fakeHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, m := range h.messages {
		out = append(out, m.Type)
	}
	return out
}

func TestReportRefreshTaskRunsOnSchedule(t *testing.T) {
	reports := &fakeReports{}
	hub := &fakeHub{}
	task := NewReportRefreshTask(reports, hub, 10*time.Millisecond, logging.Discard())

	task.Start()
	task.Start()
	require.Eventually(t, func() bool { return reports.count() >= 3 }, time.Second, 5*time.Millisecond)
	task.Stop()
	task.Stop()

	stopped := reports.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, reports.count())
	for _, typ := range hub.types() {
		assert.Equal(t, "report_refreshed", typ)
	}
}

func TestReportRefreshFailureIsNotBroadcast(t *testing.T) {
	reports := &fakeReports{err: errors.New("db down")}
	hub := &fakeHub{}
	task := NewReportRefreshTask(reports, hub, time.Hour, logging.Discard())

	task.Start()
	require.Eventually(t, func() bool { return reports.count() == 1 }, time.Second, 5*time.Millisecond)
	task.Stop()

	assert.Empty(t, hub.types())
}

func TestManagerRunStopsTasksOnCancel(t *testing.T) {
	reports := &fakeReports{}
	manager := NewManager(logging.Discard())
	manager.RegisterTask(NewReportRefreshTask(reports, nil, time.Hour, logging.Discard()))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- manager.Run(ctx) }()
	require.Eventually(t, func() bool { return reports.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	require.NoError(t, <-done)
}
