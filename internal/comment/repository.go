package comment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	commentModel "terminal-terrace/blog-service/internal/model/comment"
	"terminal-terrace/blog-service/internal/model/rate"
)

// Reader 评论读取
type Reader interface {
	Get(ctx context.Context, id uuid.UUID) (*commentModel.Comment, error)
	GetAll(ctx context.Context, articleID uuid.UUID) ([]LeveledComment, error)
}

// Writer 评论写入
type Writer interface {
	Create(ctx context.Context, c *commentModel.Comment) error
	Update(ctx context.Context, c *commentModel.Comment) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Remover 按文章删除评论
type Remover interface {
	DeleteByArticle(ctx context.Context, articleID uuid.UUID) error
}

// Rater 评论评价
type Rater interface {
	Rate(ctx context.Context, commentID, userID uuid.UUID, state rate.State) error
	RateState(ctx context.Context, commentID, userID uuid.UUID) (rate.State, error)
	RateStates(ctx context.Context, commentIDs []uuid.UUID, userID uuid.UUID) ([]rate.State, error)
}

// CommentRepository 评论数据访问接口
type CommentRepository interface {
	Reader
	Writer
	Remover
	Rater
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建 Repository 实例
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Get 根据ID查找评论，包含 rating
func (r *commentRepository) Get(ctx context.Context, id uuid.UUID) (*commentModel.Comment, error) {
	var c commentModel.Comment
	err := r.db.WithContext(ctx).
		Select(commentModel.SelectColumns()).
		Where("comments.id = ?", id).
		Take(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type leveledRow struct {
	commentModel.Comment `gorm:"embedded"`
	Level                int
}

// GetAll 文章下全部评论（扁平列表），按创建时间升序，level 取自闭包表自身记录
func (r *commentRepository) GetAll(ctx context.Context, articleID uuid.UUID) ([]LeveledComment, error) {
	var rows []leveledRow
	err := r.db.WithContext(ctx).
		Table("comments").
		Select(commentModel.SelectColumns()+", ct.level").
		Joins("JOIN comment_tree ct ON ct.ancestor_id = comments.id AND ct.descendant_id = comments.id").
		Where("comments.article_id = ?", articleID).
		Order("comments.created_at ASC").
		Order("comments.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]LeveledComment, 0, len(rows))
	for _, row := range rows {
		out = append(out, LeveledComment{Comment: row.Comment, Level: row.Level})
	}
	return out, nil
}

// Create 写入评论并在同一事务中维护闭包表
// 新评论继承父评论的全部祖先，再加一条自身记录
func (r *commentRepository) Create(ctx context.Context, c *commentModel.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}

		level := 0
		var paths []commentModel.TreePath
		if c.ParentID != nil {
			var ancestors []commentModel.TreePath
			if err := tx.Where("descendant_id = ?", *c.ParentID).Find(&ancestors).Error; err != nil {
				return err
			}
			parentLevel := -1
			for _, a := range ancestors {
				if a.AncestorID == *c.ParentID {
					parentLevel = a.Level
				}
			}
			if parentLevel < 0 {
				return gorm.ErrRecordNotFound
			}
			level = parentLevel + 1

			for _, a := range ancestors {
				paths = append(paths, commentModel.TreePath{
					AncestorID:      a.AncestorID,
					DescendantID:    c.ID,
					NearestParentID: c.ParentID,
					ArticleID:       c.ArticleID,
					Level:           level,
				})
			}
		}
		paths = append(paths, commentModel.TreePath{
			AncestorID:      c.ID,
			DescendantID:    c.ID,
			NearestParentID: c.ParentID,
			ArticleID:       c.ArticleID,
			Level:           level,
		})
		return tx.Create(&paths).Error
	})
}

// Update 更新内容
func (r *commentRepository) Update(ctx context.Context, c *commentModel.Comment) error {
	res := r.db.WithContext(ctx).
		Model(&commentModel.Comment{ID: c.ID}).
		Select("content", "updated_at").
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete 标记为已删除，保留在树中
func (r *commentRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&commentModel.Comment{ID: id}).
		Updates(map[string]any{"state": commentModel.StateDeleted, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByArticle 删除文章下的全部评论、闭包记录与评价
func (r *commentRepository) DeleteByArticle(ctx context.Context, articleID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("comment_id IN (?)", tx.Model(&commentModel.Comment{}).Select("id").Where("article_id = ?", articleID)).
			Delete(&commentModel.Rate{}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", articleID).Delete(&commentModel.TreePath{}).Error; err != nil {
			return err
		}
		return tx.Where("article_id = ?", articleID).Delete(&commentModel.Comment{}).Error
	})
}

// Rate Neutral 删除评价记录，其余状态写入或覆盖
func (r *commentRepository) Rate(ctx context.Context, commentID, userID uuid.UUID, state rate.State) error {
	db := r.db.WithContext(ctx)
	if state == rate.Neutral {
		return db.Where("comment_id = ? AND user_id = ?", commentID, userID).
			Delete(&commentModel.Rate{}).Error
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state"}),
	}).Create(&commentModel.Rate{
		CommentID: commentID,
		UserID:    userID,
		State:     state,
		CreatedAt: time.Now().UTC(),
	}).Error
}

// RateState 用户对评论的评价
func (r *commentRepository) RateState(ctx context.Context, commentID, userID uuid.UUID) (rate.State, error) {
	states, err := r.RateStates(ctx, []uuid.UUID{commentID}, userID)
	if err != nil {
		return rate.Neutral, err
	}
	return states[0], nil
}

// RateStates 批量查询评价，结果与 commentIDs 位置对应
func (r *commentRepository) RateStates(ctx context.Context, commentIDs []uuid.UUID, userID uuid.UUID) ([]rate.State, error) {
	states := make([]rate.State, len(commentIDs))
	for i := range states {
		states[i] = rate.Neutral
	}
	if len(commentIDs) == 0 {
		return states, nil
	}

	var rows []commentModel.Rate
	err := r.db.WithContext(ctx).
		Where("comment_id IN ? AND user_id = ?", commentIDs, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byComment := make(map[uuid.UUID]rate.State, len(rows))
	for _, row := range rows {
		byComment[row.CommentID] = row.State
	}
	for i, id := range commentIDs {
		if s, ok := byComment[id]; ok {
			states[i] = s
		}
	}
	return states, nil
}
