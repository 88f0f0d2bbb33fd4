package tag

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
	MaxPage        = 1000000
)

// OrderBy 排序字段
type OrderBy string

const (
	OrderByArticleCount OrderBy = "article_count"
	OrderByCreatedAt    OrderBy = "created_at"
)

// FindRequest 标签查询条件
type FindRequest struct {
	Query   string  `json:"query" validate:"max=64"`
	OrderBy OrderBy `json:"order_by" validate:"omitempty,oneof=article_count created_at"`
	Desc    bool    `json:"desc"`
	Page    int     `json:"page" validate:"gte=1,lte=1000000"`
	PerPage int     `json:"per_page" validate:"gte=1,lte=100"`
}

// Offset 分页偏移
func (r *FindRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// TagResponse 标签及关联文章数
type TagResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	ArticleCount int64     `json:"article_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// FindResponse 标签列表
type FindResponse struct {
	Items   []TagResponse `json:"items"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}
