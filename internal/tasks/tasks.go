package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

// Manager handles the execution of scheduled tasks
type Manager struct {
	mu     sync.Mutex
	tasks  []Task
	logger *slog.Logger
}

// Task represents a scheduled task that needs to be executed
type Task interface {
	Start()
	Stop()
}

// NewManager creates a new task manager
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		tasks:  make([]Task, 0),
		logger: logger,
	}
}

// RegisterTask registers a task with the manager
func (m *Manager) RegisterTask(task Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

// StartScheduledTasks starts all registered tasks
func (m *Manager) StartScheduledTasks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, task := range m.tasks {
		task.Start()
	}
	m.logger.Info("Started all scheduled tasks", "count", len(m.tasks))
}

// StopAllTasks stops all running tasks
func (m *Manager) StopAllTasks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, task := range m.tasks {
		task.Stop()
	}
	m.logger.Info("Stopped all scheduled tasks")
}

// Run starts the tasks and stops them once ctx is done
func (m *Manager) Run(ctx context.Context) error {
	m.StartScheduledTasks()
	<-ctx.Done()
	m.StopAllTasks()
	return nil
}

// ReportRefreshTask recomputes the dashboard summary on a schedule and
// tells connected clients about it
type ReportRefreshTask struct {
	reports  services.ReportService
	hub      websocket.Broadcaster
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

// NewReportRefreshTask creates a new report refresh task
func NewReportRefreshTask(reports services.ReportService, hub websocket.Broadcaster, interval time.Duration, logger *slog.Logger) *ReportRefreshTask {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportRefreshTask{
		reports:  reports,
		hub:      hub,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the refresh loop. Calling Start on a running task is a no-op.
func (t *ReportRefreshTask) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopChan != nil {
		return
	}
	t.stopChan = make(chan struct{})
	t.done = make(chan struct{})

	go t.loop(t.stopChan, t.done)
	t.logger.Info("Report refresh task started", "interval", t.interval)
}

// Stop terminates the loop and waits for an in-flight refresh
func (t *ReportRefreshTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopChan == nil {
		return
	}
	close(t.stopChan)
	<-t.done
	t.stopChan, t.done = nil, nil
	t.logger.Info("Report refresh task stopped")
}

func (t *ReportRefreshTask) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Run immediately on start
	t.refresh(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.refresh(ctx)
		case <-stop:
			return
		}
	}
}

func (t *ReportRefreshTask) refresh(ctx context.Context) {
	summary, err := t.reports.Refresh(ctx)
	if err != nil {
		if ctx.Err() == nil {
			t.logger.Error("Report refresh failed", "error", err)
		}
		return
	}
	t.logger.Debug("Report refreshed", "users", summary.Users, "payments", summary.Payments)
	if t.hub != nil {
		t.hub.Broadcast(models.Message{Type: "report_refreshed", Content: summary})
	}
}
