package article

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	articleModel "terminal-terrace/blog-service/internal/model/article"
	fileModel "terminal-terrace/blog-service/internal/model/file"
	"terminal-terrace/blog-service/internal/model/rate"
	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/internal/validation"
	"terminal-terrace/blog-service/pkg/response"
)

// CommentRemover 删除文章下的全部评论
type CommentRemover interface {
	DeleteByArticle(ctx context.Context, articleID uuid.UUID) error
}

// FileReader 文章附件查询
type FileReader interface {
	Get(ctx context.Context, id uuid.UUID) (*fileModel.File, error)
	ListUploaded(ctx context.Context, articleID uuid.UUID) ([]fileModel.File, error)
}

// Linker 附件下载地址
type Linker interface {
	DownloadLink(articleID, fileID uuid.UUID) string
}

// ArticleService 文章服务接口
type ArticleService interface {
	Create(ctx context.Context, actor *permission.Actor, req *CreateRequest) (*CreateResponse, *response.BusinessError)
	Update(ctx context.Context, actor *permission.Actor, id uuid.UUID, req *UpdateRequest) *response.BusinessError
	Delete(ctx context.Context, actor *permission.Actor, id uuid.UUID) *response.BusinessError
	Get(ctx context.Context, actor *permission.Actor, id uuid.UUID) (*ArticleResponse, *response.BusinessError)
	Find(ctx context.Context, actor *permission.Actor, req *FindRequest) (*FindResponse, *response.BusinessError)
	Rate(ctx context.Context, actor *permission.Actor, id uuid.UUID, req *RateRequest) *response.BusinessError
}

type articleService struct {
	repo     ArticleRepository
	comments CommentRemover
	files    FileReader
	links    Linker
	views    ViewCounter
}

// NewArticleService 创建服务实例
func NewArticleService(repo ArticleRepository, comments CommentRemover, files FileReader, links Linker, views ViewCounter) ArticleService {
	return &articleService{
		repo:     repo,
		comments: comments,
		files:    files,
		links:    links,
		views:    views,
	}
}

// Create 创建文章
func (s *articleService) Create(ctx context.Context, actor *permission.Actor, req *CreateRequest) (*CreateResponse, *response.BusinessError) {
	if err := actor.CanCreateArticle(); err != nil {
		return nil, response.AccessDenied()
	}
	if bizErr := validation.Check(req); bizErr != nil {
		return nil, bizErr
	}

	a := &articleModel.Article{
		ID:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		State:     req.State,
		Views:     0,
		AuthorID:  actor.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, a, req.Tags); err != nil {
		return nil, response.Critical(fmt.Errorf("create article: %w", err))
	}
	return &CreateResponse{ID: a.ID}, nil
}

// Update 更新文章
func (s *articleService) Update(ctx context.Context, actor *permission.Actor, id uuid.UUID, req *UpdateRequest) *response.BusinessError {
	authorID, err := s.repo.GetAuthorID(ctx, id)
	if err != nil {
		return notFoundOrCritical(err, "id")
	}
	if err := actor.CanUpdateArticle(authorID); err != nil {
		return response.AccessDenied()
	}
	if bizErr := validation.Check(req); bizErr != nil {
		return bizErr
	}

	if req.Poster != nil {
		poster, err := s.files.Get(ctx, *req.Poster)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Critical(fmt.Errorf("load poster: %w", err))
		}
		if err != nil || poster.ArticleID != id || !poster.IsUploaded {
			return response.NotFoundField("poster")
		}
	}

	now := time.Now().UTC()
	a := &articleModel.Article{
		ID:        id,
		Title:     req.Title,
		Content:   req.Content,
		State:     req.State,
		Poster:    req.Poster,
		UpdatedAt: &now,
	}
	if err := s.repo.Update(ctx, a, req.Tags); err != nil {
		return notFoundOrCritical(err, "id")
	}
	return nil
}

// Delete 删除文章，文章与评论并发删除
func (s *articleService) Delete(ctx context.Context, actor *permission.Actor, id uuid.UUID) *response.BusinessError {
	authorID, err := s.repo.GetAuthorID(ctx, id)
	if err != nil {
		return notFoundOrCritical(err, "id")
	}
	if err := actor.CanDeleteArticle(authorID); err != nil {
		return response.AccessDenied()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.repo.Delete(gctx, id); err != nil {
			return fmt.Errorf("delete article: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.comments.DeleteByArticle(gctx, id); err != nil {
			return fmt.Errorf("delete article comments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return response.Critical(err)
	}
	return nil
}

// Get 获取文章详情，同时计数浏览并读取评价与附件
func (s *articleService) Get(ctx context.Context, actor *permission.Actor, id uuid.UUID) (*ArticleResponse, *response.BusinessError) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOrCritical(err, "id")
	}
	if err := actor.CanGetArticle(a.AuthorID, a.State); err != nil {
		return nil, response.AccessDenied()
	}

	var (
		selfRate = rate.Neutral
		files    []fileModel.File
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.views.Hit(gctx, id, actor.UserID); err != nil {
			return fmt.Errorf("increment views: %w", err)
		}
		return nil
	})
	if !actor.IsGuest() {
		g.Go(func() error {
			state, err := s.repo.RateState(gctx, id, actor.UserID)
			if err != nil {
				return fmt.Errorf("load rate state: %w", err)
			}
			selfRate = state
			return nil
		})
	}
	g.Go(func() error {
		list, err := s.files.ListUploaded(gctx, id)
		if err != nil {
			return fmt.Errorf("list files: %w", err)
		}
		files = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, response.Critical(err)
	}

	resp := s.shape(a, selfRate)
	resp.Files = make([]FileResponse, 0, len(files))
	for _, f := range files {
		resp.Files = append(resp.Files, FileResponse{
			ID:          f.ID,
			Filename:    f.Filename,
			ContentType: f.ContentType,
			URL:         s.links.DownloadLink(f.ArticleID, f.ID),
		})
	}
	return resp, nil
}

// Find 分页查询文章
func (s *articleService) Find(ctx context.Context, actor *permission.Actor, req *FindRequest) (*FindResponse, *response.BusinessError) {
	if err := actor.CanFindArticles(req.State, req.AuthorID); err != nil {
		return nil, response.AccessDenied()
	}
	if bizErr := validation.Check(req); bizErr != nil {
		return nil, bizErr
	}

	articles, err := s.repo.Find(ctx, req)
	if err != nil {
		return nil, response.Critical(fmt.Errorf("find articles: %w", err))
	}

	states := make([]rate.State, len(articles))
	for i := range states {
		states[i] = rate.Neutral
	}
	if !actor.IsGuest() && len(articles) > 0 {
		ids := make([]uuid.UUID, len(articles))
		for i := range articles {
			ids[i] = articles[i].ID
		}
		states, err = s.repo.RateStates(ctx, ids, actor.UserID)
		if err != nil {
			return nil, response.Critical(fmt.Errorf("load rate states: %w", err))
		}
		if len(states) != len(articles) {
			return nil, response.Critical(fmt.Errorf("rate states: got %d for %d articles", len(states), len(articles)))
		}
	}

	items := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, *s.shape(&articles[i], states[i]))
	}
	return &FindResponse{Items: items, Page: req.Page, PerPage: req.PerPage}, nil
}

// Rate 评价文章，重复评价结果相同
func (s *articleService) Rate(ctx context.Context, actor *permission.Actor, id uuid.UUID, req *RateRequest) *response.BusinessError {
	state, err := s.repo.GetState(ctx, id)
	if err != nil {
		return notFoundOrCritical(err, "id")
	}
	if err := actor.CanRateArticle(state); err != nil {
		return response.AccessDenied()
	}
	if bizErr := validation.Check(req); bizErr != nil {
		return bizErr
	}

	if err := s.repo.Rate(ctx, id, actor.UserID, req.State); err != nil {
		return response.Critical(fmt.Errorf("rate article: %w", err))
	}
	return nil
}

func (s *articleService) shape(a *articleModel.Article, selfRate rate.State) *ArticleResponse {
	tags := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, t.Title)
	}

	resp := &ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Poster:    a.Poster,
		Content:   a.Content,
		State:     a.State,
		Views:     a.Views,
		Rating:    a.Rating,
		AuthorID:  a.AuthorID,
		Tags:      tags,
		SelfRate:  selfRate,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Poster != nil {
		url := s.links.DownloadLink(a.ID, *a.Poster)
		resp.PosterURL = &url
	}
	return resp
}

func notFoundOrCritical(err error, field string) *response.BusinessError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFoundField(field)
	}
	return response.Critical(err)
}
