package article

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ViewPrefix 浏览去重 Redis key 前缀
const ViewPrefix = "blog:article_view:"

// ViewCounter 文章浏览计数
type ViewCounter interface {
	Hit(ctx context.Context, articleID, viewerID uuid.UUID) error
}

type viewCounter struct {
	writer Writer
	redis  redis.Cmdable
	window time.Duration
}

// NewViewCounter rdb 为 nil 时每次查看都计数
// 访客没有稳定身份，不参与去重
func NewViewCounter(writer Writer, rdb redis.Cmdable, window time.Duration) ViewCounter {
	return &viewCounter{writer: writer, redis: rdb, window: window}
}

// Hit 同一登录用户在 window 内重复查看只计一次
func (v *viewCounter) Hit(ctx context.Context, articleID, viewerID uuid.UUID) error {
	if v.redis != nil && viewerID != uuid.Nil && v.window > 0 {
		first, err := v.redis.SetNX(ctx, ViewPrefix+articleID.String()+":"+viewerID.String(), 1, v.window).Result()
		switch {
		case err != nil:
			// Redis 不可用时退化为直接计数
			zap.L().Warn("view dedupe unavailable", zap.Error(err))
		case !first:
			return nil
		}
	}
	return v.writer.IncrementViews(ctx, articleID)
}
