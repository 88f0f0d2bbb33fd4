package article

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	articleModel "terminal-terrace/blog-service/internal/model/article"
	"terminal-terrace/blog-service/internal/model/rate"
	tagModel "terminal-terrace/blog-service/internal/model/tag"
)

// Reader 文章读取
type Reader interface {
	Get(ctx context.Context, id uuid.UUID) (*articleModel.Article, error)
	GetAuthorID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	GetState(ctx context.Context, id uuid.UUID) (articleModel.State, error)
	Find(ctx context.Context, req *FindRequest) ([]articleModel.Article, error)
}

// Writer 文章写入
type Writer interface {
	Create(ctx context.Context, a *articleModel.Article, tags []string) error
	Update(ctx context.Context, a *articleModel.Article, tags []string) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// Remover 文章删除
type Remover interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// Rater 文章评价
type Rater interface {
	Rate(ctx context.Context, articleID, userID uuid.UUID, state rate.State) error
	RateState(ctx context.Context, articleID, userID uuid.UUID) (rate.State, error)
	RateStates(ctx context.Context, articleIDs []uuid.UUID, userID uuid.UUID) ([]rate.State, error)
}

// ArticleRepository 文章数据访问接口
type ArticleRepository interface {
	Reader
	Writer
	Remover
	Rater
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository 创建 Repository 实例
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// Get 根据ID查找文章，包含 rating 与标签
func (r *articleRepository) Get(ctx context.Context, id uuid.UUID) (*articleModel.Article, error) {
	var a articleModel.Article
	err := r.db.WithContext(ctx).
		Select(articleModel.SelectColumns()).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.title ASC") }).
		Where("articles.id = ?", id).
		Take(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAuthorID 只查询作者
func (r *articleRepository) GetAuthorID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var a articleModel.Article
	err := r.db.WithContext(ctx).Select("author_id").Where("id = ?", id).Take(&a).Error
	return a.AuthorID, err
}

// GetState 只查询状态
func (r *articleRepository) GetState(ctx context.Context, id uuid.UUID) (articleModel.State, error) {
	var a articleModel.Article
	err := r.db.WithContext(ctx).Select("state").Where("id = ?", id).Take(&a).Error
	return a.State, err
}

// Find 分页查询
func (r *articleRepository) Find(ctx context.Context, req *FindRequest) ([]articleModel.Article, error) {
	q := r.db.WithContext(ctx).
		Model(&articleModel.Article{}).
		Select(articleModel.SelectColumns()).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.title ASC") })

	if query := strings.TrimSpace(req.Query); query != "" {
		like := "%" + escapeLike(query) + "%"
		q = q.Where("(articles.title ILIKE ? OR articles.content ILIKE ?)", like, like)
	}
	if tags := uniqueTitles(req.Tags); len(tags) > 0 {
		q = q.Where(`articles.id IN (
			SELECT at.article_id FROM articles_tags at
			JOIN tags t ON at.tag_id = t.id
			WHERE t.title IN ?
			GROUP BY at.article_id
			HAVING COUNT(DISTINCT t.title) = ?)`, tags, len(tags))
	}
	if req.AuthorID != nil {
		q = q.Where("articles.author_id = ?", *req.AuthorID)
	}
	if req.State != "" {
		q = q.Where("articles.state = ?", req.State)
	}

	var order clause.Column
	switch req.OrderBy {
	case OrderByViews:
		order = clause.Column{Table: "articles", Name: "views"}
	case OrderByRating:
		order = clause.Column{Name: "rating"}
	default:
		order = clause.Column{Table: "articles", Name: "created_at"}
	}

	var articles []articleModel.Article
	err := q.Order(clause.OrderByColumn{Column: order, Desc: req.Desc}).
		Order("articles.id").
		Limit(req.PerPage).
		Offset(req.Offset()).
		Find(&articles).Error
	return articles, err
}

// Create 创建文章，标签按标题去重
func (r *articleRepository) Create(ctx context.Context, a *articleModel.Article, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := upsertTags(tx, tags)
		if err != nil {
			return err
		}
		a.Tags = resolved
		return tx.Omit("Tags.*").Create(a).Error
	})
}

// Update 整体替换可编辑字段与标签
func (r *articleRepository) Update(ctx context.Context, a *articleModel.Article, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := upsertTags(tx, tags)
		if err != nil {
			return err
		}

		res := tx.Model(&articleModel.Article{ID: a.ID}).
			Select("title", "content", "state", "poster", "updated_at").
			Updates(a)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		a.Tags = resolved
		return tx.Model(&articleModel.Article{ID: a.ID}).Association("Tags").Replace(resolved)
	})
}

// Delete 删除文章及其评价，标签关联由外键级联删除
func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&articleModel.Rate{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM articles_tags WHERE article_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&articleModel.Article{}).Error
	})
}

// IncrementViews 浏览量 +1
func (r *articleRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&articleModel.Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Rate Neutral 删除评价记录，其余状态写入或覆盖
func (r *articleRepository) Rate(ctx context.Context, articleID, userID uuid.UUID, state rate.State) error {
	db := r.db.WithContext(ctx)
	if state == rate.Neutral {
		return db.Where("article_id = ? AND user_id = ?", articleID, userID).
			Delete(&articleModel.Rate{}).Error
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "article_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state"}),
	}).Create(&articleModel.Rate{
		ArticleID: articleID,
		UserID:    userID,
		State:     state,
		CreatedAt: time.Now().UTC(),
	}).Error
}

// RateState 用户对文章的评价，无记录时为 Neutral
func (r *articleRepository) RateState(ctx context.Context, articleID, userID uuid.UUID) (rate.State, error) {
	states, err := r.RateStates(ctx, []uuid.UUID{articleID}, userID)
	if err != nil {
		return rate.Neutral, err
	}
	return states[0], nil
}

// RateStates 批量查询评价，结果与 articleIDs 位置对应
func (r *articleRepository) RateStates(ctx context.Context, articleIDs []uuid.UUID, userID uuid.UUID) ([]rate.State, error) {
	states := make([]rate.State, len(articleIDs))
	for i := range states {
		states[i] = rate.Neutral
	}
	if len(articleIDs) == 0 {
		return states, nil
	}

	var rows []articleModel.Rate
	err := r.db.WithContext(ctx).
		Where("article_id IN ? AND user_id = ?", articleIDs, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byArticle := make(map[uuid.UUID]rate.State, len(rows))
	for _, row := range rows {
		byArticle[row.ArticleID] = row.State
	}
	for i, id := range articleIDs {
		if s, ok := byArticle[id]; ok {
			states[i] = s
		}
	}
	return states, nil
}

// upsertTags 写入不存在的标签并按输入顺序返回
func upsertTags(tx *gorm.DB, titles []string) ([]tagModel.Tag, error) {
	titles = uniqueTitles(titles)
	if len(titles) == 0 {
		return []tagModel.Tag{}, nil
	}

	now := time.Now().UTC()
	candidates := make([]tagModel.Tag, 0, len(titles))
	for _, title := range titles {
		candidates = append(candidates, tagModel.Tag{ID: uuid.New(), Title: title, CreatedAt: now})
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}},
		DoNothing: true,
	}).Create(&candidates).Error
	if err != nil {
		return nil, err
	}

	var existing []tagModel.Tag
	if err := tx.Where("title IN ?", titles).Find(&existing).Error; err != nil {
		return nil, err
	}
	byTitle := make(map[string]tagModel.Tag, len(existing))
	for _, t := range existing {
		byTitle[t.Title] = t
	}

	tags := make([]tagModel.Tag, 0, len(titles))
	for _, title := range titles {
		if t, ok := byTitle[title]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func uniqueTitles(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
