package file

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
	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/internal/storage"
	"terminal-terrace/blog-service/internal/validation"
	"terminal-terrace/blog-service/pkg/response"
)

// ArticleReader 附件权限依赖文章的作者与状态
type ArticleReader interface {
	GetAuthorID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	GetState(ctx context.Context, id uuid.UUID) (articleModel.State, error)
}

// ObjectStorage 对象存储
type ObjectStorage interface {
	UploadLink(ctx context.Context, articleID, fileID uuid.UUID, contentType string) (*storage.UploadLink, error)
	DownloadLink(articleID, fileID uuid.UUID) string
	Exists(ctx context.Context, articleID, fileID uuid.UUID) (bool, error)
	Remove(ctx context.Context, articleID, fileID uuid.UUID) error
}

// FileService 附件服务接口
type FileService interface {
	Create(ctx context.Context, actor *permission.Actor, articleID uuid.UUID, req *CreateRequest) (*CreateResponse, *response.BusinessError)
	Confirm(ctx context.Context, actor *permission.Actor, id uuid.UUID) *response.BusinessError
	Delete(ctx context.Context, actor *permission.Actor, id uuid.UUID) *response.BusinessError
	List(ctx context.Context, actor *permission.Actor, articleID uuid.UUID) ([]FileResponse, *response.BusinessError)
}

type fileService struct {
	repo     FileRepository
	articles ArticleReader
	storage  ObjectStorage
}

// NewFileService 创建服务实例
func NewFileService(repo FileRepository, articles ArticleReader, storage ObjectStorage) FileService {
	return &fileService{repo: repo, articles: articles, storage: storage}
}

// Create 创建未上传的附件记录并签发上传表单
func (s *fileService) Create(ctx context.Context, actor *permission.Actor, articleID uuid.UUID, req *CreateRequest) (*CreateResponse, *response.BusinessError) {
	authorID, err := s.articles.GetAuthorID(ctx, articleID)
	if err != nil {
		return nil, notFoundOrCritical(err, "article_id")
	}
	if err := actor.CanUpdateArticle(authorID); err != nil {
		return nil, response.AccessDenied()
	}
	if bizErr := validation.Check(req); bizErr != nil {
		return nil, bizErr
	}

	now := time.Now().UTC()
	f := &fileModel.File{
		ID:          uuid.New(),
		Filename:    req.Filename,
		ContentType: req.ContentType,
		ArticleID:   articleID,
		IsUploaded:  false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var link *storage.UploadLink
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.repo.Create(gctx, f); err != nil {
			return fmt.Errorf("save file: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		link, err = s.storage.UploadLink(gctx, articleID, f.ID, f.ContentType)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, response.Critical(err)
	}

	return &CreateResponse{ID: f.ID, URL: link.URL, Fields: link.Fields}, nil
}

// Confirm 客户端上传完成后确认，对象不存在时视为未找到
func (s *fileService) Confirm(ctx context.Context, actor *permission.Actor, id uuid.UUID) *response.BusinessError {
	f, bizErr := s.authorize(ctx, actor, id)
	if bizErr != nil {
		return bizErr
	}
	if f.IsUploaded {
		return nil
	}

	exists, err := s.storage.Exists(ctx, f.ArticleID, f.ID)
	if err != nil {
		return response.Critical(fmt.Errorf("check object: %w", err))
	}
	if !exists {
		return response.NotFoundField("id")
	}

	if err := s.repo.MarkUploaded(ctx, f.ID, time.Now().UTC()); err != nil {
		return notFoundOrCritical(err, "id")
	}
	return nil
}

// Delete 删除附件记录，已上传时同时删除对象
func (s *fileService) Delete(ctx context.Context, actor *permission.Actor, id uuid.UUID) *response.BusinessError {
	f, bizErr := s.authorize(ctx, actor, id)
	if bizErr != nil {
		return bizErr
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.repo.Delete(gctx, f.ID); err != nil {
			return fmt.Errorf("delete file row: %w", err)
		}
		return nil
	})
	if f.IsUploaded {
		g.Go(func() error {
			return s.storage.Remove(gctx, f.ArticleID, f.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return response.Critical(err)
	}
	return nil
}

// List 文章下已上传的附件
func (s *fileService) List(ctx context.Context, actor *permission.Actor, articleID uuid.UUID) ([]FileResponse, *response.BusinessError) {
	var (
		authorID uuid.UUID
		state    articleModel.State
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		authorID, err = s.articles.GetAuthorID(gctx, articleID)
		return err
	})
	g.Go(func() (err error) {
		state, err = s.articles.GetState(gctx, articleID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, notFoundOrCritical(err, "article_id")
	}
	if err := actor.CanGetArticle(authorID, state); err != nil {
		return nil, response.AccessDenied()
	}

	files, err := s.repo.ListUploaded(ctx, articleID)
	if err != nil {
		return nil, response.Critical(fmt.Errorf("list files: %w", err))
	}
	out := make([]FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, FileResponse{
			ID:          f.ID,
			Filename:    f.Filename,
			ContentType: f.ContentType,
			URL:         s.storage.DownloadLink(f.ArticleID, f.ID),
		})
	}
	return out, nil
}

// authorize 附件操作要求对所属文章有更新权限
func (s *fileService) authorize(ctx context.Context, actor *permission.Actor, id uuid.UUID) (*fileModel.File, *response.BusinessError) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOrCritical(err, "id")
	}
	authorID, err := s.articles.GetAuthorID(ctx, f.ArticleID)
	if err != nil {
		return nil, notFoundOrCritical(err, "id")
	}
	if err := actor.CanUpdateArticle(authorID); err != nil {
		return nil, response.AccessDenied()
	}
	return f, nil
}

func notFoundOrCritical(err error, field string) *response.BusinessError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFoundField(field)
	}
	return response.Critical(err)
}
