package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	articleModel "terminal-terrace/blog-service/internal/model/article"
	commentModel "terminal-terrace/blog-service/internal/model/comment"
	"terminal-terrace/blog-service/internal/model/rate"
	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/internal/validation"
	"terminal-terrace/blog-service/pkg/response"
)

// ArticleStateReader 读取评论所属文章的状态
type ArticleStateReader interface {
	GetState(ctx context.Context, id uuid.UUID) (articleModel.State, error)
}

// CommentService 评论服务接口
type CommentService interface {
	Create(ctx context.Context, actor *permission.Actor, req *CreateRequest) (*CreateResponse, *response.BusinessError)
	Get(ctx context.Context, actor *permission.Actor, id uuid.UUID) (*CommentResponse, *response.BusinessError)
	GetTree(ctx context.Context, actor *permission.Actor, articleID uuid.UUID) (*TreeResponse, *response.BusinessError)
	Update(ctx context.Context, actor *permission.Actor, id uuid.UUID, req *UpdateRequest) *response.BusinessError
	Delete(ctx context.Context, actor *permission.Actor, id uuid.UUID) *response.BusinessError
	Rate(ctx context.Context, actor *permission.Actor, id uuid.UUID, req *RateRequest) *response.BusinessError
}

type commentService struct {
	repo     CommentRepository
	articles ArticleStateReader
}

// NewCommentService 创建服务实例
func NewCommentService(repo CommentRepository, articles ArticleStateReader) CommentService {
	return &commentService{repo: repo, articles: articles}
}

// Create 发表评论或回复
func (s *commentService) Create(ctx context.Context, actor *permission.Actor, req *CreateRequest) (*CreateResponse, *response.BusinessError) {
	articleState, err := s.articles.GetState(ctx, req.ArticleID)
	if err != nil {
		return nil, notFoundOrCritical(err, "article_id")
	}
	if err := actor.CanCreateComment(articleState); err != nil {
		return nil, response.AccessDenied()
	}
	if bizErr := validation.Check(req); bizErr != nil {
		return nil, bizErr
	}

	if req.ParentID != nil {
		parent, err := s.repo.Get(ctx, *req.ParentID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.Critical(fmt.Errorf("load parent comment: %w", err))
		}
		if err != nil || parent.ArticleID != req.ArticleID || parent.State == commentModel.StateDeleted {
			return nil, response.NotFoundField("parent_id")
		}
	}

	c := &commentModel.Comment{
		ID:        uuid.New(),
		Content:   req.Content,
		AuthorID:  actor.UserID,
		ArticleID: req.ArticleID,
		ParentID:  req.ParentID,
		State:     commentModel.StatePublished,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, response.Critical(fmt.Errorf("create comment: %w", err))
	}
	return &CreateResponse{ID: c.ID}, nil
}

// Get 获取单条评论
func (s *commentService) Get(ctx context.Context, actor *permission.Actor, id uuid.UUID) (*CommentResponse, *response.BusinessError) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOrCritical(err, "id")
	}
	articleState, err := s.articles.GetState(ctx, c.ArticleID)
	if err != nil {
		return nil, notFoundOrCritical(err, "id")
	}
	if err := actor.CanGetComment(c.State, articleState); err != nil {
		return nil, response.AccessDenied()
	}

	selfRate := rate.Neutral
	if !actor.IsGuest() {
		selfRate, err = s.repo.RateState(ctx, id, actor.UserID)
		if err != nil {
			return nil, response.Critical(fmt.Errorf("load rate state: %w", err))
		}
	}

	return &CommentResponse{
		ID:        c.ID,
		Content:   DisplayContent(c, actor.Permissions.Has(permission.GetAnyComment)),
		AuthorID:  c.AuthorID,
		ArticleID: c.ArticleID,
		ParentID:  c.ParentID,
		Rating:    c.Rating,
		State:     c.State,
		SelfRate:  selfRate,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

// GetTree 获取文章的评论树
func (s *commentService) GetTree(ctx context.Context, actor *permission.Actor, articleID uuid.UUID) (*TreeResponse, *response.BusinessError) {
	articleState, err := s.articles.GetState(ctx, articleID)
	if err != nil {
		return nil, notFoundOrCritical(err, "article_id")
	}
	if err := actor.CanGetComments(articleState); err != nil {
		return nil, response.AccessDenied()
	}

	rows, err := s.repo.GetAll(ctx, articleID)
	if err != nil {
		return nil, response.Critical(fmt.Errorf("load comments: %w", err))
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].Comment.ID
	}
	var rates []rate.State
	if actor.IsGuest() {
		rates = make([]rate.State, len(rows))
		for i := range rates {
			rates[i] = rate.Neutral
		}
	} else {
		rates, err = s.repo.RateStates(ctx, ids, actor.UserID)
		if err != nil {
			return nil, response.Critical(fmt.Errorf("load rate states: %w", err))
		}
	}

	forest, err := BuildTree(rows, rates, actor.Permissions.Has(permission.GetAnyComment))
	if err != nil {
		return nil, response.Critical(fmt.Errorf("build comment tree for %s: %w", articleID, err))
	}
	return &TreeResponse{Comments: forest, Total: len(rows)}, nil
}

// Update 编辑评论
func (s *commentService) Update(ctx context.Context, actor *permission.Actor, id uuid.UUID, req *UpdateRequest) *response.BusinessError {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return notFoundOrCritical(err, "id")
	}
	if err := actor.CanUpdateComment(c.AuthorID, c.State); err != nil {
		return response.AccessDenied()
	}
	if bizErr := validation.Check(req); bizErr != nil {
		return bizErr
	}

	now := time.Now().UTC()
	c.Content = req.Content
	c.UpdatedAt = &now
	if err := s.repo.Update(ctx, c); err != nil {
		return notFoundOrCritical(err, "id")
	}
	return nil
}

// Delete 软删除评论
func (s *commentService) Delete(ctx context.Context, actor *permission.Actor, id uuid.UUID) *response.BusinessError {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return notFoundOrCritical(err, "id")
	}
	if err := actor.CanDeleteComment(c.AuthorID, c.State); err != nil {
		return response.AccessDenied()
	}

	if err := s.repo.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		return notFoundOrCritical(err, "id")
	}
	return nil
}

// Rate 评价评论
func (s *commentService) Rate(ctx context.Context, actor *permission.Actor, id uuid.UUID, req *RateRequest) *response.BusinessError {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return notFoundOrCritical(err, "id")
	}
	if err := actor.CanRateComment(c.State); err != nil {
		return response.AccessDenied()
	}
	if bizErr := validation.Check(req); bizErr != nil {
		return bizErr
	}

	if err := s.repo.Rate(ctx, id, actor.UserID, req.State); err != nil {
		return response.Critical(fmt.Errorf("rate comment: %w", err))
	}
	return nil
}

func notFoundOrCritical(err error, field string) *response.BusinessError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFoundField(field)
	}
	return response.Critical(err)
}
