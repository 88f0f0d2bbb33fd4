package tag

import (
	"context"
	"fmt"

	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/internal/validation"
	"terminal-terrace/blog-service/pkg/response"
)

// TagService 标签服务接口
type TagService interface {
	Find(ctx context.Context, actor *permission.Actor, req *FindRequest) (*FindResponse, *response.BusinessError)
}

type tagService struct {
	repo TagRepository
}

// NewTagService 创建服务实例
func NewTagService(repo TagRepository) TagService {
	return &tagService{repo: repo}
}

// Find 查询标签
func (s *tagService) Find(ctx context.Context, actor *permission.Actor, req *FindRequest) (*FindResponse, *response.BusinessError) {
	if err := actor.CanFindTags(); err != nil {
		return nil, response.AccessDenied()
	}
	if bizErr := validation.Check(req); bizErr != nil {
		return nil, bizErr
	}

	tags, err := s.repo.Find(ctx, req)
	if err != nil {
		return nil, response.Critical(fmt.Errorf("find tags: %w", err))
	}

	items := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		items = append(items, TagResponse{
			ID:           t.ID,
			Title:        t.Title,
			ArticleCount: t.ArticleCount,
			CreatedAt:    t.CreatedAt,
		})
	}
	return &FindResponse{Items: items, Page: req.Page, PerPage: req.PerPage}, nil
}
