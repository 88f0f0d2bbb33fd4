package article

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	articleModel "terminal-terrace/blog-service/internal/model/article"
	fileModel "terminal-terrace/blog-service/internal/model/file"
	"terminal-terrace/blog-service/internal/model/rate"
	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/pkg/response"
)

type fixture struct {
	service  ArticleService
	repo     *fakeRepo
	comments *fakeComments
	files    *fakeFiles
}

func setupArticleService() *fixture {
	repo := newFakeRepo()
	comments := &fakeComments{}
	files := &fakeFiles{files: map[uuid.UUID]*fileModel.File{}}
	return &fixture{
		service:  NewArticleService(repo, comments, files, fakeLinks{}, NewViewCounter(repo, nil, 0)),
		repo:     repo,
		comments: comments,
		files:    files,
	}
}

func user(perms ...permission.Permission) *permission.Actor {
	return &permission.Actor{UserID: uuid.New(), State: permission.Active, Permissions: permission.NewSet(perms...)}
}

func seedArticle(repo *fakeRepo, authorID uuid.UUID, state articleModel.State) *articleModel.Article {
	a := &articleModel.Article{
		ID:        uuid.New(),
		Title:     "seed",
		Content:   "seed content",
		State:     state,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	repo.put(a)
	return a
}

func TestCreate(t *testing.T) {
	f := setupArticleService()
	actor := user(permission.CreateArticle)

	result, bizErr := f.service.Create(context.Background(), actor, &CreateRequest{
		Title:   "T",
		Content: "C",
		State:   articleModel.StateDraft,
		Tags:    []string{"x"},
	})
	require.Nil(t, bizErr)
	require.NotEqual(t, uuid.Nil, result.ID)

	stored, err := f.repo.Get(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stored.Views)
	assert.Equal(t, int64(0), stored.Rating)
	assert.Equal(t, articleModel.StateDraft, stored.State)
	assert.Equal(t, actor.UserID, stored.AuthorID)
	require.Len(t, stored.Tags, 1)
	assert.Equal(t, "x", stored.Tags[0].Title)
}

func TestCreateValidation(t *testing.T) {
	f := setupArticleService()

	tests := []struct {
		name string
		req  *CreateRequest
		want map[string]string
	}{
		{
			name: "empty title and content reported together",
			req:  &CreateRequest{State: articleModel.StateDraft, Tags: []string{"x"}},
			want: map[string]string{"title": response.ReasonEmpty, "content": response.ReasonEmpty},
		},
		{
			name: "long title and bad tag",
			req: &CreateRequest{
				Title:   strings.Repeat("t", articleModel.TitleMax+1),
				Content: "c",
				State:   articleModel.StatePublished,
				Tags:    []string{"ok", strings.Repeat("g", 65)},
			},
			want: map[string]string{"title": response.ReasonOutOfRange, "tags[1]": response.ReasonOutOfRange},
		},
		{
			name: "no tags and unknown state",
			req:  &CreateRequest{Title: "t", Content: "c", State: "Secret"},
			want: map[string]string{"tags": response.ReasonEmpty, "state": response.ReasonPattern},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bizErr := f.service.Create(context.Background(), user(permission.CreateArticle), tt.req)
			require.NotNil(t, bizErr)
			assert.Equal(t, response.InvalidParameter, bizErr.Code)
			assert.Equal(t, tt.want, bizErr.Fields)
		})
	}
}

func TestCreateDeniedBeforeValidation(t *testing.T) {
	f := setupArticleService()

	_, bizErr := f.service.Create(context.Background(), user(), &CreateRequest{})
	require.NotNil(t, bizErr)
	assert.Equal(t, response.Forbidden, bizErr.Code)
	assert.Nil(t, bizErr.Fields)
	assert.Empty(t, f.repo.articles)
}

func TestDelete(t *testing.T) {
	owner := user(permission.DeleteSelfArticle)

	t.Run("stranger is denied and article remains", func(t *testing.T) {
		f := setupArticleService()
		a := seedArticle(f.repo, owner.UserID, articleModel.StatePublished)

		bizErr := f.service.Delete(context.Background(), user(permission.DeleteSelfArticle), a.ID)
		require.NotNil(t, bizErr)
		assert.Equal(t, response.Forbidden, bizErr.Code)
		assert.Contains(t, f.repo.articles, a.ID)
		assert.Empty(t, f.comments.deleted)
	})

	t.Run("owner deletes article and comments", func(t *testing.T) {
		f := setupArticleService()
		a := seedArticle(f.repo, owner.UserID, articleModel.StatePublished)

		require.Nil(t, f.service.Delete(context.Background(), owner, a.ID))
		assert.NotContains(t, f.repo.articles, a.ID)
		assert.Equal(t, []uuid.UUID{a.ID}, f.comments.deleted)
	})

	t.Run("comment removal failure surfaces", func(t *testing.T) {
		f := setupArticleService()
		a := seedArticle(f.repo, owner.UserID, articleModel.StatePublished)
		f.comments.err = errStore

		bizErr := f.service.Delete(context.Background(), owner, a.ID)
		require.NotNil(t, bizErr)
		assert.True(t, bizErr.IsCritical())
	})

	t.Run("missing article", func(t *testing.T) {
		f := setupArticleService()
		bizErr := f.service.Delete(context.Background(), owner, uuid.New())
		require.NotNil(t, bizErr)
		assert.Equal(t, response.NotFound, bizErr.Code)
		assert.Equal(t, "id", bizErr.Msg)
	})
}

func TestGet(t *testing.T) {
	f := setupArticleService()
	author := uuid.New()
	a := seedArticle(f.repo, author, articleModel.StatePublished)
	poster := &fileModel.File{ID: uuid.New(), ArticleID: a.ID, Filename: "p.png", ContentType: "image/png", IsUploaded: true}
	f.files.files[poster.ID] = poster
	f.files.files[uuid.New()] = &fileModel.File{ID: uuid.New(), ArticleID: a.ID, IsUploaded: false}
	a.Poster = &poster.ID

	viewer := user(permission.GetPubArticle)
	require.NoError(t, f.repo.Rate(context.Background(), a.ID, viewer.UserID, rate.Up))

	got, bizErr := f.service.Get(context.Background(), viewer, a.ID)
	require.Nil(t, bizErr)
	assert.Equal(t, rate.Up, got.SelfRate)
	assert.Equal(t, int64(1), got.Rating)
	require.NotNil(t, got.PosterURL)
	assert.Equal(t, fakeLinks{}.DownloadLink(a.ID, poster.ID), *got.PosterURL)
	require.Len(t, got.Files, 1)
	assert.Equal(t, poster.ID, got.Files[0].ID)
	assert.Equal(t, uint64(1), f.repo.articles[a.ID].Views)
}

func TestGetDraftVisibility(t *testing.T) {
	f := setupArticleService()
	author := user(permission.GetSelfArticle)
	a := seedArticle(f.repo, author.UserID, articleModel.StateDraft)

	_, bizErr := f.service.Get(context.Background(), user(permission.GetPubArticle, permission.GetSelfArticle), a.ID)
	require.NotNil(t, bizErr)
	assert.Equal(t, response.Forbidden, bizErr.Code)
	assert.Equal(t, uint64(0), f.repo.articles[a.ID].Views)

	_, bizErr = f.service.Get(context.Background(), author, a.ID)
	assert.Nil(t, bizErr)
}

func TestFind(t *testing.T) {
	f := setupArticleService()
	reader := user(permission.FindPubArticle)
	a1 := seedArticle(f.repo, uuid.New(), articleModel.StatePublished)
	a2 := seedArticle(f.repo, uuid.New(), articleModel.StatePublished)
	f.repo.found = []articleModel.Article{*a1, *a2}
	require.NoError(t, f.repo.Rate(context.Background(), a2.ID, reader.UserID, rate.Down))

	t.Run("published filter", func(t *testing.T) {
		result, bizErr := f.service.Find(context.Background(), reader, &FindRequest{
			State: articleModel.StatePublished, Page: 2, PerPage: 10,
		})
		require.Nil(t, bizErr)
		require.Len(t, result.Items, 2)
		assert.Equal(t, rate.Neutral, result.Items[0].SelfRate)
		assert.Equal(t, rate.Down, result.Items[1].SelfRate)
		assert.Equal(t, 10, f.repo.lastFind.Offset())
	})

	t.Run("unfiltered state denied", func(t *testing.T) {
		_, bizErr := f.service.Find(context.Background(), reader, &FindRequest{Page: 1, PerPage: 10})
		require.NotNil(t, bizErr)
		assert.Equal(t, response.Forbidden, bizErr.Code)
	})

	t.Run("own articles with FindSelf", func(t *testing.T) {
		self := user(permission.FindSelfArticle)
		_, bizErr := f.service.Find(context.Background(), self, &FindRequest{AuthorID: &self.UserID, Page: 1, PerPage: 10})
		assert.Nil(t, bizErr)
	})

	t.Run("paging validated after access", func(t *testing.T) {
		_, bizErr := f.service.Find(context.Background(), reader, &FindRequest{State: articleModel.StatePublished, Page: 0, PerPage: 500})
		require.NotNil(t, bizErr)
		assert.Equal(t, map[string]string{"page": response.ReasonOutOfRange, "per_page": response.ReasonOutOfRange}, bizErr.Fields)
	})

	t.Run("page beyond limit rejected", func(t *testing.T) {
		_, bizErr := f.service.Find(context.Background(), reader, &FindRequest{State: articleModel.StatePublished, Page: 1 << 62, PerPage: 100})
		require.NotNil(t, bizErr)
		assert.Equal(t, map[string]string{"page": response.ReasonOutOfRange}, bizErr.Fields)
	})
}

func TestFindRequestOffset(t *testing.T) {
	req := &FindRequest{Page: MaxPage, PerPage: MaxPerPage}
	assert.Equal(t, (MaxPage-1)*MaxPerPage, req.Offset())
	assert.Positive(t, req.Offset())
}

func TestUpdate(t *testing.T) {
	owner := user(permission.UpdateSelfArticle)

	t.Run("poster must be uploaded file of the article", func(t *testing.T) {
		f := setupArticleService()
		a := seedArticle(f.repo, owner.UserID, articleModel.StateDraft)
		pending := &fileModel.File{ID: uuid.New(), ArticleID: a.ID, IsUploaded: false}
		foreign := &fileModel.File{ID: uuid.New(), ArticleID: uuid.New(), IsUploaded: true}
		f.files.files[pending.ID] = pending
		f.files.files[foreign.ID] = foreign

		for _, poster := range []uuid.UUID{pending.ID, foreign.ID, uuid.New()} {
			bizErr := f.service.Update(context.Background(), owner, a.ID, &UpdateRequest{
				Title: "t", Content: "c", State: articleModel.StatePublished, Poster: &poster, Tags: []string{"x"},
			})
			require.NotNil(t, bizErr)
			assert.Equal(t, response.NotFound, bizErr.Code)
			assert.Equal(t, "poster", bizErr.Msg)
		}
	})

	t.Run("full replace", func(t *testing.T) {
		f := setupArticleService()
		a := seedArticle(f.repo, owner.UserID, articleModel.StateDraft)
		poster := &fileModel.File{ID: uuid.New(), ArticleID: a.ID, IsUploaded: true}
		f.files.files[poster.ID] = poster

		bizErr := f.service.Update(context.Background(), owner, a.ID, &UpdateRequest{
			Title: "new", Content: "body", State: articleModel.StatePublished, Poster: &poster.ID, Tags: []string{"go", "go", "db"},
		})
		require.Nil(t, bizErr)

		stored := f.repo.articles[a.ID]
		assert.Equal(t, "new", stored.Title)
		assert.Equal(t, articleModel.StatePublished, stored.State)
		assert.Equal(t, poster.ID, *stored.Poster)
		assert.NotNil(t, stored.UpdatedAt)
		assert.Len(t, stored.Tags, 2)
	})

	t.Run("UpdateAny on foreign article", func(t *testing.T) {
		f := setupArticleService()
		a := seedArticle(f.repo, uuid.New(), articleModel.StateDraft)

		assert.NotNil(t, f.service.Update(context.Background(), owner, a.ID, &UpdateRequest{}))
		assert.Nil(t, f.service.Update(context.Background(), user(permission.UpdateAnyArticle), a.ID, &UpdateRequest{
			Title: "t", Content: "c", State: articleModel.StateArchived, Tags: []string{"x"},
		}))
	})
}

func TestRateIdempotent(t *testing.T) {
	f := setupArticleService()
	a := seedArticle(f.repo, uuid.New(), articleModel.StatePublished)
	rater := user(permission.RateArticle)
	ctx := context.Background()

	require.Nil(t, f.service.Rate(ctx, rater, a.ID, &RateRequest{State: rate.Up}))
	require.Nil(t, f.service.Rate(ctx, rater, a.ID, &RateRequest{State: rate.Up}))
	assert.Len(t, f.repo.rates, 1)
	got, _ := f.repo.Get(ctx, a.ID)
	assert.Equal(t, int64(1), got.Rating)

	require.Nil(t, f.service.Rate(ctx, rater, a.ID, &RateRequest{State: rate.Neutral}))
	assert.Empty(t, f.repo.rates)
}

func TestRateDraftDenied(t *testing.T) {
	f := setupArticleService()
	a := seedArticle(f.repo, uuid.New(), articleModel.StateDraft)

	bizErr := f.service.Rate(context.Background(), user(permission.RateArticle), a.ID, &RateRequest{State: rate.Up})
	require.NotNil(t, bizErr)
	assert.Equal(t, response.Forbidden, bizErr.Code)
}

func TestStoreFailureIsCritical(t *testing.T) {
	f := setupArticleService()
	f.repo.err = errStore

	_, bizErr := f.service.Get(context.Background(), user(permission.GetAnyArticle), uuid.New())
	require.NotNil(t, bizErr)
	assert.True(t, bizErr.IsCritical())
	assert.ErrorIs(t, bizErr, errStore)
}
