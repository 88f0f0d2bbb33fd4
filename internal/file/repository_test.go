package file

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/blog-service/internal/testutils"
)

func TestRepositoryLifecycle(t *testing.T) {
	db := testutils.SetupTestDB(t)
	repo := NewFileRepository(db)
	ctx := context.Background()
	article := testutils.CreateTestArticle(db, uuid.New())
	now := time.Now().UTC()

	old := testutils.CreateTestFile(db, article.ID, false, now.Add(-time.Hour))
	recent := testutils.CreateTestFile(db, article.ID, false, now)
	done := testutils.CreateTestFile(db, article.ID, true, now.Add(-time.Hour))

	stale, err := repo.ListStale(ctx, now.Add(-10*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, old.ID, stale[0].ID)

	require.NoError(t, repo.MarkUploaded(ctx, recent.ID, now))
	uploaded, err := repo.ListUploaded(ctx, article.ID)
	require.NoError(t, err)
	assert.Len(t, uploaded, 2)

	require.NoError(t, repo.Delete(ctx, old.ID, done.ID))
	_, err = repo.Get(ctx, done.ID)
	assert.Error(t, err)
	assert.Error(t, repo.MarkUploaded(ctx, old.ID, now))
}
