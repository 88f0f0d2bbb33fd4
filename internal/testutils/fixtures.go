package testutils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"terminal-terrace/blog-service/internal/model/article"
	"terminal-terrace/blog-service/internal/model/comment"
	"terminal-terrace/blog-service/internal/model/file"
	"terminal-terrace/blog-service/internal/model/tag"
)

// CreateTestArticle 创建已发布的测试文章
func CreateTestArticle(db *gorm.DB, authorID uuid.UUID, opts ...ArticleOption) *article.Article {
	a := &article.Article{
		ID:        uuid.New(),
		Title:     fmt.Sprintf("test article %s", uuid.NewString()[:8]),
		Content:   "test content",
		State:     article.StatePublished,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(a)
	}

	// 同名标签复用已有记录
	for i := range a.Tags {
		t := &a.Tags[i]
		err := db.Where(tag.Tag{Title: t.Title}).
			Attrs(tag.Tag{ID: uuid.New(), CreatedAt: time.Now().UTC()}).
			FirstOrCreate(t).Error
		if err != nil {
			panic(fmt.Sprintf("Failed to create test tag: %v", err))
		}
	}

	if err := db.Create(a).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test article: %v", err))
	}
	return a
}

// ArticleOption configures test article
type ArticleOption func(*article.Article)

func WithArticleState(state article.State) ArticleOption {
	return func(a *article.Article) {
		a.State = state
	}
}

func WithArticleTitle(title string) ArticleOption {
	return func(a *article.Article) {
		a.Title = title
	}
}

func WithArticleContent(content string) ArticleOption {
	return func(a *article.Article) {
		a.Content = content
	}
}

func WithArticleViews(views uint64) ArticleOption {
	return func(a *article.Article) {
		a.Views = views
	}
}

func WithArticleCreatedAt(at time.Time) ArticleOption {
	return func(a *article.Article) {
		a.CreatedAt = at
	}
}

func WithArticleTags(titles ...string) ArticleOption {
	return func(a *article.Article) {
		for _, title := range titles {
			a.Tags = append(a.Tags, tag.Tag{Title: title})
		}
	}
}

// CreateTestComment 创建顶级评论及其闭包表自身记录
func CreateTestComment(db *gorm.DB, articleID, authorID uuid.UUID, opts ...CommentOption) *comment.Comment {
	c := &comment.Comment{
		ID:        uuid.New(),
		Content:   "test comment",
		AuthorID:  authorID,
		ArticleID: articleID,
		State:     comment.StatePublished,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(c)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(&comment.TreePath{
			AncestorID:   c.ID,
			DescendantID: c.ID,
			ArticleID:    articleID,
			Level:        0,
		}).Error
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create test comment: %v", err))
	}
	return c
}

// CommentOption configures test comment
type CommentOption func(*comment.Comment)

func WithCommentState(state comment.State) CommentOption {
	return func(c *comment.Comment) {
		c.State = state
	}
}

func WithCommentContent(content string) CommentOption {
	return func(c *comment.Comment) {
		c.Content = content
	}
}

// CreateTestFile 创建附件记录
func CreateTestFile(db *gorm.DB, articleID uuid.UUID, uploaded bool, createdAt time.Time) *file.File {
	f := &file.File{
		ID:          uuid.New(),
		Filename:    "poster.png",
		ContentType: "image/png",
		ArticleID:   articleID,
		IsUploaded:  uploaded,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := db.Create(f).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test file: %v", err))
	}
	return f
}
