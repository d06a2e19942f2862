// Package jobs は延滞貸出の定期スキャンを提供します。
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/yourusername/library-catalog/internal/checkout"
	"github.com/yourusername/library-catalog/internal/config"
)

const (
	taskTypeOverdueScan = "checkout:overdue_scan"
	queueName           = "maintenance"
)

// OverdueLister は延滞貸出の一覧取得を提供するサービスが実装します。
type OverdueLister interface {
	ListOverdue(ctx context.Context, asOf time.Time) ([]checkout.Checkout, error)
}

// Manager は延滞スキャンのスケジュールと実行を担います。
type Manager struct {
	cfg       *config.Config
	client    *asynq.Client
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	store     *Store
	checkouts OverdueLister
	logger    *log.Logger
}

// NewManager は Manager を初期化します。
func NewManager(cfg *config.Config, checkouts OverdueLister, store *Store, logger *log.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if checkouts == nil {
		return nil, errors.New("checkouts is nil")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	opt, err := asynq.ParseRedisURI(cfg.QueueRedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := asynq.NewClient(opt)
	server := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				queueName: 1,
			},
		},
	)
	scheduler := asynq.NewScheduler(opt, nil)

	mux := asynq.NewServeMux()
	manager := &Manager{
		cfg:       cfg,
		client:    client,
		server:    server,
		scheduler: scheduler,
		mux:       mux,
		store:     store,
		checkouts: checkouts,
		logger:    logger,
	}
	mux.HandleFunc(taskTypeOverdueScan, manager.handleOverdueScan)
	return manager, nil
}

// Start はスキャンタスクを登録し、ワーカーとスケジューラーを
// バックグラウンドで起動します。
func (m *Manager) Start() error {
	task := asynq.NewTask(taskTypeOverdueScan, nil, asynq.Queue(queueName))
	if _, err := m.scheduler.Register(m.cfg.OverdueScanSpec, task); err != nil {
		return fmt.Errorf("failed to register overdue scan: %w", err)
	}

	go func() {
		if err := m.server.Run(m.mux); err != nil && err != asynq.ErrServerClosed {
			m.logger.Printf("asynq server stopped with error: %v", err)
		}
	}()
	go func() {
		if err := m.scheduler.Run(); err != nil {
			m.logger.Printf("asynq scheduler stopped with error: %v", err)
		}
	}()
	return nil
}

// Shutdown はスケジューラー・サーバー・クライアントを閉じます。
func (m *Manager) Shutdown(ctx context.Context) error {
	m.scheduler.Shutdown()
	m.server.Shutdown()
	return m.client.Close()
}

// Enqueue はスキャンを即時実行のためにキューへ投入します。
func (m *Manager) Enqueue(ctx context.Context) error {
	task := asynq.NewTask(taskTypeOverdueScan, nil, asynq.Queue(queueName))
	_, err := m.client.EnqueueContext(ctx, task, asynq.MaxRetry(1))
	return err
}

// LatestSweep は直近のスキャン結果を返します。
func (m *Manager) LatestSweep(ctx context.Context) (*SweepRecord, error) {
	return m.store.Latest(ctx)
}

func (m *Manager) handleOverdueScan(ctx context.Context, task *asynq.Task) error {
	record := &SweepRecord{
		RunID:     uuid.NewString(),
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}

	overdue, err := m.checkouts.ListOverdue(ctx, time.Now().UTC())
	record.FinishedAt = time.Now().UTC()
	if err != nil {
		record.Status = StatusFailed
		record.Error = err.Error()
		if saveErr := m.store.Save(ctx, record); saveErr != nil {
			m.logger.Printf("failed to save sweep record run=%s: %v", record.RunID, saveErr)
		}
		return err
	}

	record.Status = StatusSucceeded
	record.OverdueCount = len(overdue)
	for _, co := range overdue {
		record.Entries = append(record.Entries, OverdueEntry{
			CheckoutID: co.ID,
			UserID:     co.UserID,
			BookID:     co.BookID,
			DueDate:    co.DueDate,
		})
		m.logger.Printf("overdue checkout id=%d user=%d book=%d due=%s",
			co.ID, co.UserID, co.BookID, co.DueDate.Format(time.RFC3339))
	}

	if err := m.store.Save(ctx, record); err != nil {
		m.logger.Printf("failed to save sweep record run=%s: %v", record.RunID, err)
		return err
	}
	return nil
}
