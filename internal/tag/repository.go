package tag

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	tagModel "terminal-terrace/blog-service/internal/model/tag"
)

// TagWithCount 标签及关联文章数
type TagWithCount struct {
	tagModel.Tag `gorm:"embedded"`
	ArticleCount int64
}

// TagRepository 标签数据访问接口
type TagRepository interface {
	Find(ctx context.Context, req *FindRequest) ([]TagWithCount, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建 Repository 实例
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// Find 分页查询标签，统计每个标签关联的文章数
func (r *tagRepository) Find(ctx context.Context, req *FindRequest) ([]TagWithCount, error) {
	q := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.*, COUNT(at.tag_id) AS article_count").
		Joins("LEFT JOIN articles_tags at ON tags.id = at.tag_id").
		Group("tags.id")

	if query := strings.TrimSpace(req.Query); query != "" {
		q = q.Where("tags.title ILIKE ?", "%"+likeEscaper.Replace(query)+"%")
	}

	order := clause.Column{Table: "tags", Name: "created_at"}
	if req.OrderBy == OrderByArticleCount {
		order = clause.Column{Name: "article_count"}
	}

	var tags []TagWithCount
	err := q.Order(clause.OrderByColumn{Column: order, Desc: req.Desc}).
		Order("tags.title").
		Limit(req.PerPage).
		Offset(req.Offset()).
		Scan(&tags).Error
	return tags, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
