// Package article 文章相关模型
package article

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"terminal-terrace/blog-service/internal/model/rate"
	"terminal-terrace/blog-service/internal/model/tag"
)

const (
	TitleMin   = 1
	TitleMax   = 255
	ContentMax = 65535
)

// State 文章状态
type State string

const (
	StateDraft     State = "Draft"
	StatePublished State = "Published"
	StateArchived  State = "Archived"
)

// ParseState 解析文章状态
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateDraft, StatePublished, StateArchived:
		return State(s), nil
	}
	return "", fmt.Errorf("unknown article state %q", s)
}

// Article 文章表
// rating 不落库，由 article_rates 实时汇总
type Article struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`
	Poster    *uuid.UUID `gorm:"type:uuid" json:"poster,omitempty"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	State     State      `gorm:"type:varchar(16);not null;index" json:"state"`
	Views     uint64     `gorm:"not null;default:0" json:"views"`
	Rating    int64      `gorm:"->;-:migration" json:"rating"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Tags      []tag.Tag  `gorm:"many2many:articles_tags;constraint:OnDelete:CASCADE" json:"tags"`
	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

func (Article) TableName() string {
	return "articles"
}

// Rate 用户对文章的评价，(article_id, user_id) 唯一
type Rate struct {
	ArticleID uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	State     rate.State `gorm:"type:varchar(8);not null"`
	CreatedAt time.Time
}

func (Rate) TableName() string {
	return "article_rates"
}

// SelectColumns 带 rating 的查询列
func SelectColumns() string {
	return "articles.*, " + rate.RatingExpr("article_rates", "article_id", "articles.id")
}
