// Package comment 评论模型
// 评论树通过 parent_id 组织，comment_tree 为祖先闭包表，用于层级查询
package comment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"terminal-terrace/blog-service/internal/model/rate"
)

const ContentMax = 1000

// State 评论状态，Deleted 为软删除
type State string

const (
	StatePublished State = "Published"
	StateDeleted   State = "Deleted"
)

// ParseState 解析评论状态
func ParseState(s string) (State, error) {
	switch State(s) {
	case StatePublished, StateDeleted:
		return State(s), nil
	}
	return "", fmt.Errorf("unknown comment state %q", s)
}

// Comment 评论表
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	ArticleID uuid.UUID  `gorm:"type:uuid;not null;index" json:"article_id"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index;comment:NULL表示顶级评论" json:"parent_id,omitempty"`
	Rating    int64      `gorm:"->;-:migration" json:"rating"`
	State     State      `gorm:"type:varchar(16);not null" json:"state"`
	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// TreePath 评论闭包表
// 每条评论有一条 ancestor_id = descendant_id 的自身记录，level 为该评论的深度
type TreePath struct {
	AncestorID      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DescendantID    uuid.UUID  `gorm:"type:uuid;primaryKey;index"`
	NearestParentID *uuid.UUID `gorm:"type:uuid"`
	ArticleID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Level           int        `gorm:"not null"`
}

func (TreePath) TableName() string {
	return "comment_tree"
}

// Rate 用户对评论的评价
type Rate struct {
	CommentID uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	State     rate.State `gorm:"type:varchar(8);not null"`
	CreatedAt time.Time
}

func (Rate) TableName() string {
	return "comment_rates"
}

// SelectColumns 带 rating 的查询列
func SelectColumns() string {
	return "comments.*, " + rate.RatingExpr("comment_rates", "comment_id", "comments.id")
}
