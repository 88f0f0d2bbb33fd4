package article

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	articleModel "terminal-terrace/blog-service/internal/model/article"
	"terminal-terrace/blog-service/internal/model/rate"
	tagModel "terminal-terrace/blog-service/internal/model/tag"
	"terminal-terrace/blog-service/internal/testutils"
)

func TestRepositoryCreateDedupesTags(t *testing.T) {
	db := testutils.SetupTestDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	first := &articleModel.Article{ID: uuid.New(), Title: "a", Content: "a", State: articleModel.StatePublished, AuthorID: uuid.New(), CreatedAt: time.Now().UTC()}
	second := &articleModel.Article{ID: uuid.New(), Title: "b", Content: "b", State: articleModel.StatePublished, AuthorID: uuid.New(), CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, first, []string{"go", "db", "go"}))
	require.NoError(t, repo.Create(ctx, second, []string{"go"}))

	var count int64
	require.NoError(t, db.Model(&tagModel.Tag{}).Where("title = ?", "go").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "db", got.Tags[0].Title)
	assert.Equal(t, "go", got.Tags[1].Title)
}

func TestRepositoryRating(t *testing.T) {
	db := testutils.SetupTestDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()
	a := testutils.CreateTestArticle(db, uuid.New())
	u1, u2 := uuid.New(), uuid.New()

	require.NoError(t, repo.Rate(ctx, a.ID, u1, rate.Up))
	require.NoError(t, repo.Rate(ctx, a.ID, u1, rate.Up))
	require.NoError(t, repo.Rate(ctx, a.ID, u2, rate.Down))
	require.NoError(t, repo.Rate(ctx, a.ID, u2, rate.Up))

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Rating)

	require.NoError(t, repo.Rate(ctx, a.ID, u2, rate.Neutral))
	states, err := repo.RateStates(ctx, []uuid.UUID{a.ID, uuid.New()}, u1)
	require.NoError(t, err)
	assert.Equal(t, []rate.State{rate.Up, rate.Neutral}, states)

	state, err := repo.RateState(ctx, a.ID, u2)
	require.NoError(t, err)
	assert.Equal(t, rate.Neutral, state)
}

func TestRepositoryFind(t *testing.T) {
	db := testutils.SetupTestDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()
	author := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	oldest := testutils.CreateTestArticle(db, author,
		testutils.WithArticleTitle("Gopher notes"),
		testutils.WithArticleCreatedAt(base),
		testutils.WithArticleViews(50),
		testutils.WithArticleTags("find-go", "find-db"))
	middle := testutils.CreateTestArticle(db, author,
		testutils.WithArticleContent("all about gophers"),
		testutils.WithArticleCreatedAt(base.Add(time.Minute)),
		testutils.WithArticleViews(5),
		testutils.WithArticleTags("find-go"))
	testutils.CreateTestArticle(db, author,
		testutils.WithArticleState(articleModel.StateDraft),
		testutils.WithArticleCreatedAt(base.Add(2*time.Minute)))

	tests := []struct {
		name string
		req  FindRequest
		want []uuid.UUID
	}{
		{
			name: "text query matches title or content",
			req:  FindRequest{Query: "gopher", AuthorID: &author, Page: 1, PerPage: 10},
			want: []uuid.UUID{oldest.ID, middle.ID},
		},
		{
			name: "all tags required",
			req:  FindRequest{Tags: []string{"find-go", "find-db"}, AuthorID: &author, Page: 1, PerPage: 10},
			want: []uuid.UUID{oldest.ID},
		},
		{
			name: "views descending",
			req:  FindRequest{AuthorID: &author, State: articleModel.StatePublished, OrderBy: OrderByViews, Desc: true, Page: 1, PerPage: 10},
			want: []uuid.UUID{oldest.ID, middle.ID},
		},
		{
			name: "second page",
			req:  FindRequest{AuthorID: &author, State: articleModel.StatePublished, Page: 2, PerPage: 1},
			want: []uuid.UUID{middle.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.Find(ctx, &tt.req)
			require.NoError(t, err)
			ids := make([]uuid.UUID, 0, len(found))
			for _, a := range found {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	db := testutils.SetupTestDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()
	a := testutils.CreateTestArticle(db, uuid.New(), testutils.WithArticleTags("upd-old"), testutils.WithArticleViews(7))

	now := time.Now().UTC()
	require.NoError(t, repo.Update(ctx, &articleModel.Article{
		ID: a.ID, Title: "renamed", Content: "x", State: articleModel.StateArchived, UpdatedAt: &now,
	}, []string{"upd-new"}))

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, uint64(7), got.Views)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "upd-new", got.Tags[0].Title)

	require.NoError(t, repo.IncrementViews(ctx, a.ID))
	got, err = repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), got.Views)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.GetAuthorID(ctx, a.ID)
	assert.Error(t, err)
}
