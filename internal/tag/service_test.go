package tag

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/blog-service/internal/middleware"
	tagModel "terminal-terrace/blog-service/internal/model/tag"
	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/pkg/response"
)

type fakeRepo struct {
	tags []TagWithCount
	last *FindRequest
	err  error
}

func (f *fakeRepo) Find(_ context.Context, req *FindRequest) ([]TagWithCount, error) {
	f.last = req
	return f.tags, f.err
}

func TestFind(t *testing.T) {
	repo := &fakeRepo{tags: []TagWithCount{
		{Tag: tagModel.Tag{ID: uuid.New(), Title: "go", CreatedAt: time.Now()}, ArticleCount: 3},
	}}
	service := NewTagService(repo)
	finder := permission.Guest(permission.NewSet(permission.FindTag))

	tests := []struct {
		name     string
		actor    *permission.Actor
		req      *FindRequest
		wantCode response.ResponseCode
		wantErr  bool
	}{
		{"allowed", finder, &FindRequest{Page: 1, PerPage: 20}, 0, false},
		{"missing FindTag", permission.Guest(permission.NewSet()), &FindRequest{Page: 1, PerPage: 20}, response.Forbidden, true},
		{"banned", &permission.Actor{UserID: uuid.New(), State: permission.Banned, Permissions: permission.NewSet(permission.FindTag)}, &FindRequest{Page: 1, PerPage: 20}, response.Forbidden, true},
		{"bad order", finder, &FindRequest{OrderBy: "title", Page: 1, PerPage: 20}, response.InvalidParameter, true},
		{"page beyond limit", finder, &FindRequest{Page: MaxPage + 1, PerPage: 20}, response.InvalidParameter, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, bizErr := service.Find(context.Background(), tt.actor, tt.req)
			if tt.wantErr {
				require.NotNil(t, bizErr)
				assert.Equal(t, tt.wantCode, bizErr.Code)
				return
			}
			require.Nil(t, bizErr)
			require.Len(t, result.Items, 1)
			assert.Equal(t, int64(3), result.Items[0].ArticleCount)
		})
	}
}

func TestFindStoreFailure(t *testing.T) {
	service := NewTagService(&fakeRepo{err: errors.New("boom")})

	_, bizErr := service.Find(context.Background(), permission.Guest(permission.NewSet(permission.FindTag)), &FindRequest{Page: 1, PerPage: 1})
	require.NotNil(t, bizErr)
	assert.True(t, bizErr.IsCritical())
}

type staticResolver struct{ actor *permission.Actor }

func (s staticResolver) Resolve(string) (*permission.Actor, error) { return s.actor, nil }

func TestHandlerQueryParsing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeRepo{}
	r := gin.New()
	r.Use(middleware.Identity(staticResolver{permission.Guest(permission.NewSet(permission.FindTag))}))
	SetupTagRoutes(r.Group("/api/v1"), NewTagService(repo))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tags?query=go&order_by=article_count&desc=true&page=3&per_page=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, &FindRequest{Query: "go", OrderBy: OrderByArticleCount, Desc: true, Page: 3, PerPage: 5}, repo.last)
	assert.Equal(t, 10, repo.last.Offset())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tags?page=x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
