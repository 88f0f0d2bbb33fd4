package article

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	articleModel "terminal-terrace/blog-service/internal/model/article"
	fileModel "terminal-terrace/blog-service/internal/model/file"
	"terminal-terrace/blog-service/internal/model/rate"
	tagModel "terminal-terrace/blog-service/internal/model/tag"
)

type rateKey struct {
	article uuid.UUID
	user    uuid.UUID
}

// fakeRepo 内存实现，供服务层测试使用
type fakeRepo struct {
	mu       sync.Mutex
	articles map[uuid.UUID]*articleModel.Article
	rates    map[rateKey]rate.State
	found    []articleModel.Article
	lastFind *FindRequest
	err      error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		articles: map[uuid.UUID]*articleModel.Article{},
		rates:    map[rateKey]rate.State{},
	}
}

func (f *fakeRepo) put(a *articleModel.Article) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.articles[a.ID] = a
}

func (f *fakeRepo) lookup(id uuid.UUID) (*articleModel.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.articles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeRepo) Get(_ context.Context, id uuid.UUID) (*articleModel.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	cp := *a
	var rating int64
	for k, s := range f.rates {
		if k.article == id {
			rating += s.Weight()
		}
	}
	cp.Rating = rating
	return &cp, nil
}

func (f *fakeRepo) GetAuthorID(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, err := f.lookup(id)
	if err != nil {
		return uuid.Nil, err
	}
	return a.AuthorID, nil
}

func (f *fakeRepo) GetState(_ context.Context, id uuid.UUID) (articleModel.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, err := f.lookup(id)
	if err != nil {
		return "", err
	}
	return a.State, nil
}

func (f *fakeRepo) Find(_ context.Context, req *FindRequest) ([]articleModel.Article, error) {
	f.lastFind = req
	return f.found, f.err
}

func (f *fakeRepo) Create(_ context.Context, a *articleModel.Article, tags []string) error {
	if f.err != nil {
		return f.err
	}
	for _, t := range uniqueTitles(tags) {
		a.Tags = append(a.Tags, tagModel.Tag{ID: uuid.New(), Title: t})
	}
	f.put(a)
	return nil
}

func (f *fakeRepo) Update(_ context.Context, a *articleModel.Article, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, err := f.lookup(a.ID)
	if err != nil {
		return err
	}
	old.Title, old.Content, old.State, old.Poster, old.UpdatedAt = a.Title, a.Content, a.State, a.Poster, a.UpdatedAt
	old.Tags = nil
	for _, t := range uniqueTitles(tags) {
		old.Tags = append(old.Tags, tagModel.Tag{ID: uuid.New(), Title: t})
	}
	return nil
}

func (f *fakeRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, err := f.lookup(id)
	if err != nil {
		return err
	}
	a.Views++
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.articles, id)
	return nil
}

func (f *fakeRepo) Rate(_ context.Context, articleID, userID uuid.UUID, state rate.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := rateKey{articleID, userID}
	if state == rate.Neutral {
		delete(f.rates, key)
		return nil
	}
	f.rates[key] = state
	return nil
}

func (f *fakeRepo) RateState(_ context.Context, articleID, userID uuid.UUID) (rate.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.rates[rateKey{articleID, userID}]; ok {
		return s, nil
	}
	return rate.Neutral, nil
}

func (f *fakeRepo) RateStates(ctx context.Context, articleIDs []uuid.UUID, userID uuid.UUID) ([]rate.State, error) {
	out := make([]rate.State, 0, len(articleIDs))
	for _, id := range articleIDs {
		s, _ := f.RateState(ctx, id, userID)
		out = append(out, s)
	}
	return out, nil
}

type fakeComments struct {
	mu      sync.Mutex
	deleted []uuid.UUID
	err     error
}

func (f *fakeComments) DeleteByArticle(_ context.Context, articleID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, articleID)
	return nil
}

type fakeFiles struct {
	files map[uuid.UUID]*fileModel.File
}

func (f *fakeFiles) Get(_ context.Context, id uuid.UUID) (*fileModel.File, error) {
	if file, ok := f.files[id]; ok {
		return file, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFiles) ListUploaded(_ context.Context, articleID uuid.UUID) ([]fileModel.File, error) {
	var out []fileModel.File
	for _, file := range f.files {
		if file.ArticleID == articleID && file.IsUploaded {
			out = append(out, *file)
		}
	}
	return out, nil
}

type fakeLinks struct{}

func (fakeLinks) DownloadLink(articleID, fileID uuid.UUID) string {
	return "http://files.test/blog/" + articleID.String() + "/" + fileID.String()
}

var errStore = errors.New("store unavailable")
