package file

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepBatch = 500

// Sweeper 定时清理签发后一直未确认的附件
type Sweeper struct {
	repo    FileRepository
	storage ObjectStorage
	ttl     time.Duration
	cron    *cron.Cron
	log     *zap.Logger
	swept   prometheus.Counter
	now     func() time.Time
}

// NewSweeper 超过 ttl 仍未确认的附件视为放弃上传
func NewSweeper(repo FileRepository, storage ObjectStorage, ttl time.Duration, log *zap.Logger, reg prometheus.Registerer) *Sweeper {
	swept := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blog_stale_files_swept_total",
		Help: "Number of unconfirmed file records removed by the sweeper.",
	})
	if reg != nil {
		reg.MustRegister(swept)
	}
	return &Sweeper{
		repo:    repo,
		storage: storage,
		ttl:     ttl,
		cron:    cron.New(),
		log:     log,
		swept:   swept,
		now:     time.Now,
	}
}

// Start 按 schedule 运行，schedule 为 cron 表达式或 @every 形式
func (s *Sweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.log.Error("sweep stale files", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweeper %q: %w", schedule, err)
	}
	s.cron.Start()
	s.log.Info("file sweeper started", zap.String("schedule", schedule), zap.Duration("ttl", s.ttl))
	return nil
}

// Stop 等待正在运行的任务结束
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep 执行一次清理，返回删除的记录数
// 对象删除失败只记录日志，记录仍会删除
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	stale, err := s.repo.ListStale(ctx, s.now().Add(-s.ttl), sweepBatch)
	if err != nil {
		return 0, fmt.Errorf("list stale files: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(stale))
	for _, f := range stale {
		if err := s.storage.Remove(ctx, f.ArticleID, f.ID); err != nil {
			s.log.Warn("remove stale object", zap.String("file_id", f.ID.String()), zap.Error(err))
		}
		ids = append(ids, f.ID)
	}
	if err := s.repo.Delete(ctx, ids...); err != nil {
		return 0, fmt.Errorf("delete stale files: %w", err)
	}

	s.swept.Add(float64(len(ids)))
	s.log.Info("stale files swept", zap.Int("count", len(ids)))
	return len(ids), nil
}
