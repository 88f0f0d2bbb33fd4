package comment

import (
	"time"

	"github.com/google/uuid"

	commentModel "terminal-terrace/blog-service/internal/model/comment"
	"terminal-terrace/blog-service/internal/model/rate"
)

// CreateRequest 发表评论请求，ParentID 为空表示顶级评论
type CreateRequest struct {
	ArticleID uuid.UUID  `json:"article_id"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Content   string     `json:"content" validate:"min=1,max=1000"`
}

// CreateResponse 发表评论响应
type CreateResponse struct {
	ID uuid.UUID `json:"id"`
}

// UpdateRequest 编辑评论请求
type UpdateRequest struct {
	Content string `json:"content" validate:"min=1,max=1000"`
}

// RateRequest 评价请求
type RateRequest struct {
	State rate.State `json:"state" validate:"required,oneof=up neutral down"`
}

// CommentResponse 单条评论
type CommentResponse struct {
	ID        uuid.UUID          `json:"id"`
	Content   string             `json:"content"`
	AuthorID  uuid.UUID          `json:"author_id"`
	ArticleID uuid.UUID          `json:"article_id"`
	ParentID  *uuid.UUID         `json:"parent_id"`
	Rating    int64              `json:"rating"`
	State     commentModel.State `json:"state"`
	SelfRate  rate.State         `json:"self_rate"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

// TreeResponse 文章评论树
type TreeResponse struct {
	Comments []*TreeNode `json:"comments"`
	Total    int         `json:"total"`
}
