package article

import (
	"time"

	"github.com/google/uuid"

	articleModel "terminal-terrace/blog-service/internal/model/article"
	"terminal-terrace/blog-service/internal/model/rate"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
	MaxPage        = 1000000
)

// OrderBy 排序字段
type OrderBy string

const (
	OrderByCreatedAt OrderBy = "created_at"
	OrderByViews     OrderBy = "views"
	OrderByRating    OrderBy = "rating"
)

// CreateRequest 创建文章请求
type CreateRequest struct {
	Title   string             `json:"title" validate:"min=1,max=255"`
	Content string             `json:"content" validate:"min=1,max=65535"`
	State   articleModel.State `json:"state" validate:"required,oneof=Draft Published Archived"`
	Tags    []string           `json:"tags" validate:"min=1,dive,min=1,max=64"`
}

// CreateResponse 创建文章响应
type CreateResponse struct {
	ID uuid.UUID `json:"id"`
}

// UpdateRequest 更新文章请求，整体替换
type UpdateRequest struct {
	Title   string             `json:"title" validate:"min=1,max=255"`
	Content string             `json:"content" validate:"min=1,max=65535"`
	State   articleModel.State `json:"state" validate:"required,oneof=Draft Published Archived"`
	Poster  *uuid.UUID         `json:"poster"`
	Tags    []string           `json:"tags" validate:"min=1,dive,min=1,max=64"`
}

// FindRequest 文章查询条件
type FindRequest struct {
	Query    string             `json:"query" validate:"max=255"`
	Tags     []string           `json:"tags" validate:"dive,min=1,max=64"`
	AuthorID *uuid.UUID         `json:"author_id"`
	State    articleModel.State `json:"state" validate:"omitempty,oneof=Draft Published Archived"`
	OrderBy  OrderBy            `json:"order_by" validate:"omitempty,oneof=created_at views rating"`
	Desc     bool               `json:"desc"`
	Page     int                `json:"page" validate:"gte=1,lte=1000000"`
	PerPage  int                `json:"per_page" validate:"gte=1,lte=100"`
}

// Offset 分页偏移
func (r *FindRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// RateRequest 评价请求
type RateRequest struct {
	State rate.State `json:"state" validate:"required,oneof=up neutral down"`
}

// FileResponse 文章附件
type FileResponse struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	URL         string    `json:"url"`
}

// ArticleResponse 文章详情
type ArticleResponse struct {
	ID        uuid.UUID          `json:"id"`
	Title     string             `json:"title"`
	Poster    *uuid.UUID         `json:"poster,omitempty"`
	PosterURL *string            `json:"poster_url,omitempty"`
	Content   string             `json:"content"`
	State     articleModel.State `json:"state"`
	Views     uint64             `json:"views"`
	Rating    int64              `json:"rating"`
	AuthorID  uuid.UUID          `json:"author_id"`
	Tags      []string           `json:"tags"`
	SelfRate  rate.State         `json:"self_rate"`
	Files     []FileResponse     `json:"files,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

// FindResponse 文章列表
type FindResponse struct {
	Items   []ArticleResponse `json:"items"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}
