package catalogservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"pdfcatalog/internal/models"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) CreateDocument(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) SearchDocuments(ctx context.Context, query models.SearchQuery, ownerID string) ([]*models.Document, error) {
	args := m.Called(ctx, query, ownerID)
	return args.Get(0).([]*models.Document), args.Error(1)
}

type MockSearchCache struct {
	mock.Mock
}

func (m *MockSearchCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSearchCache) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) DocumentPublished(ctx context.Context) {
	m.Called(ctx)
}

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) UsersByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) SaveFile(docID string, reader io.Reader) (string, error) {
	args := m.Called(docID, reader)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) LoadFile(location string) (io.ReadCloser, error) {
	args := m.Called(location)
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStorage) DeleteFile(location string) error {
	args := m.Called(location)
	return args.Error(0)
}

func newService(repo *MockDocumentRepository, cache *MockSearchCache, inv *MockInvalidator, users *MockUserProvider, storage *MockFileStorage) *CatalogService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, repo, cache, inv, users, storage)
}

func academy() *models.User {
	return &models.User{ID: "acad1", Email: "acad@example.com", Role: models.RoleAcademy}
}

func student() *models.User {
	return &models.User{ID: "stud1", Email: "stud@example.com", Role: models.RoleStudent}
}

func TestPublish_Success_WriteThenInvalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	written := false

	storage.On("SaveFile", mock.Anything, mock.Anything).Return("/storage/x.pdf", nil)
	repo.On("CreateDocument", ctx, mock.Anything).Run(func(args mock.Arguments) {
		written = true
	}).Return(nil)
	inv.On("DocumentPublished", ctx).Run(func(args mock.Arguments) {
		assert.True(t, written, "invalidation must follow the acknowledged store write")
	}).Return()

	doc, err := service.Publish(ctx, academy(), " Mathematics ", "10th Grade", "DPS", bytes.NewReader([]byte("%PDF")))

	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "mathematics", doc.Subject)
	assert.Equal(t, "10th grade", doc.ClassName)
	assert.Equal(t, "dps", doc.School)
	assert.Equal(t, "acad1", doc.OwnerID)
	assert.Equal(t, "/storage/x.pdf", doc.FileURL)

	repo.AssertExpectations(t)
	inv.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestPublish_Forbidden_Student(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	doc, err := service.Publish(ctx, student(), "math", "10th", "dps", bytes.NewReader([]byte("%PDF")))

	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Nil(t, doc)
	repo.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything)
	storage.AssertNotCalled(t, "SaveFile", mock.Anything, mock.Anything)
	inv.AssertNotCalled(t, "DocumentPublished", mock.Anything)
}

func TestPublish_MissingField(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	doc, err := service.Publish(ctx, academy(), "math", "   ", "dps", bytes.NewReader([]byte("%PDF")))

	assert.ErrorIs(t, err, models.ErrInvalidParams)
	assert.Nil(t, doc)
	repo.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything)
	storage.AssertNotCalled(t, "SaveFile", mock.Anything, mock.Anything)
}

func TestPublish_StoreError_FileRemoved_NoInvalidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	storage.On("SaveFile", mock.Anything, mock.Anything).Return("/storage/x.pdf", nil)
	repo.On("CreateDocument", ctx, mock.Anything).Return(errors.New("db error"))
	storage.On("DeleteFile", "/storage/x.pdf").Return(nil)

	doc, err := service.Publish(ctx, academy(), "math", "10th", "dps", bytes.NewReader([]byte("%PDF")))

	assert.ErrorIs(t, err, models.ErrInternal)
	assert.Nil(t, doc)
	inv.AssertNotCalled(t, "DocumentPublished", mock.Anything)
	storage.AssertExpectations(t)
}

func TestSearch_CacheHit_ReturnedVerbatim(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	cached := []models.SearchResult{{ID: "doc1", Subject: "math", AcademyEmail: "acad@example.com"}}
	cachedJSON, _ := json.Marshal(cached)

	cache.On("Get", ctx, "search:math:all:all").Return(string(cachedJSON), nil)

	results, source, err := service.Search(ctx, student(), " Math ", "", "", false)

	require.NoError(t, err)
	assert.Equal(t, models.SourceCache, source)
	assert.Equal(t, cached, results)
	repo.AssertNotCalled(t, "SearchDocuments", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_CacheMiss_FillsCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	docs := []*models.Document{
		{ID: "doc1", OwnerID: "acad1", Subject: "math", ClassName: "10th", School: "dps"},
	}

	cache.On("Get", ctx, "search:math:all:all").Return("", nil)
	repo.On("SearchDocuments", ctx, models.NewSearchQuery("math", "", "", false), "").Return(docs, nil)
	users.On("UsersByIDs", ctx, []string{"acad1"}).Return([]*models.User{
		{ID: "acad1", Email: "acad@example.com"},
	}, nil)
	cache.On("Set", ctx, "search:math:all:all", mock.Anything).Return(nil)

	results, source, err := service.Search(ctx, student(), "math", "", "", false)

	require.NoError(t, err)
	assert.Equal(t, models.SourceDatabase, source)
	require.Len(t, results, 1)
	assert.Equal(t, "acad@example.com", results[0].AcademyEmail)

	cache.AssertExpectations(t)
	repo.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestSearch_Personal_BypassesCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	docs := []*models.Document{
		{ID: "doc1", OwnerID: "acad1", Subject: "math"},
	}

	repo.On("SearchDocuments", ctx, models.NewSearchQuery("math", "", "", true), "acad1").Return(docs, nil)
	users.On("UsersByIDs", ctx, []string{"acad1"}).Return([]*models.User{
		{ID: "acad1", Email: "acad@example.com"},
	}, nil)

	results, source, err := service.Search(ctx, academy(), "math", "", "", true)

	require.NoError(t, err)
	assert.Equal(t, models.SourceDatabase, source)
	assert.Len(t, results, 1)

	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_PersonalFlagIgnoredForStudent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	cache.On("Get", ctx, "search:math:all:all").Return("", nil)
	repo.On("SearchDocuments", ctx, models.NewSearchQuery("math", "", "", false), "").Return([]*models.Document{}, nil)
	users.On("UsersByIDs", ctx, []string{}).Return([]*models.User{}, nil)
	cache.On("Set", ctx, "search:math:all:all", mock.Anything).Return(nil)

	_, source, err := service.Search(ctx, student(), "math", "", "", true)

	require.NoError(t, err)
	assert.Equal(t, models.SourceDatabase, source)
	repo.AssertExpectations(t)
}

func TestSearch_CacheGetError_FailsOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	cache.On("Get", ctx, "search:math:all:all").Return("", errors.New("redis down"))
	repo.On("SearchDocuments", ctx, models.NewSearchQuery("math", "", "", false), "").Return([]*models.Document{}, nil)
	users.On("UsersByIDs", ctx, []string{}).Return([]*models.User{}, nil)
	cache.On("Set", ctx, "search:math:all:all", mock.Anything).Return(errors.New("redis down"))

	results, source, err := service.Search(ctx, student(), "math", "", "", false)

	require.NoError(t, err)
	assert.Equal(t, models.SourceDatabase, source)
	assert.Empty(t, results)
}

func TestSearch_CorruptCacheEntry_FallsThroughToStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	cache.On("Get", ctx, "search:math:all:all").Return("{not json", nil)
	repo.On("SearchDocuments", ctx, models.NewSearchQuery("math", "", "", false), "").Return([]*models.Document{}, nil)
	users.On("UsersByIDs", ctx, []string{}).Return([]*models.User{}, nil)
	cache.On("Set", ctx, "search:math:all:all", mock.Anything).Return(nil)

	_, source, err := service.Search(ctx, student(), "math", "", "", false)

	require.NoError(t, err)
	assert.Equal(t, models.SourceDatabase, source)
}

func TestSearch_StoreError_Fatal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	cache.On("Get", ctx, "search:math:all:all").Return("", nil)
	repo.On("SearchDocuments", ctx, models.NewSearchQuery("math", "", "", false), "").Return([]*models.Document{}, errors.New("db down"))

	results, source, err := service.Search(ctx, student(), "math", "", "", false)

	assert.ErrorIs(t, err, models.ErrInternal)
	assert.Empty(t, source)
	assert.Nil(t, results)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_Enrichment_UnknownOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockDocumentRepository)
	cache := new(MockSearchCache)
	inv := new(MockInvalidator)
	users := new(MockUserProvider)
	storage := new(MockFileStorage)
	service := newService(repo, cache, inv, users, storage)

	docs := []*models.Document{
		{ID: "doc1", OwnerID: "acad1"},
		{ID: "doc2", OwnerID: "deleted"},
		{ID: "doc3", OwnerID: "acad1"},
	}

	cache.On("Get", ctx, "search:all:all:all").Return("", nil)
	repo.On("SearchDocuments", ctx, models.NewSearchQuery("", "", "", false), "").Return(docs, nil)
	users.On("UsersByIDs", ctx, []string{"acad1", "deleted"}).Return([]*models.User{
		{ID: "acad1", Email: "acad@example.com"},
	}, nil)
	cache.On("Set", ctx, "search:all:all:all", mock.Anything).Return(nil)

	results, _, err := service.Search(ctx, student(), "", "", "", false)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "acad@example.com", results[0].AcademyEmail)
	assert.Equal(t, models.UnknownOwnerEmail, results[1].AcademyEmail)
	assert.Equal(t, "acad@example.com", results[2].AcademyEmail)

	users.AssertExpectations(t)
}

// Stateful fakes for the publish/search round trip below.

type fakeDocRepo struct {
	mu   sync.Mutex
	docs []*models.Document
}

func (f *fakeDocRepo) CreateDocument(ctx context.Context, doc *models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *doc
	f.docs = append(f.docs, &copied)
	return nil
}

func (f *fakeDocRepo) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, doc := range f.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, models.ErrDocumentNotFound
}

func (f *fakeDocRepo) SearchDocuments(ctx context.Context, query models.SearchQuery, ownerID string) ([]*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]*models.Document, 0)
	for _, doc := range f.docs {
		if query.Subject != "" && !strings.Contains(doc.Subject, query.Subject) {
			continue
		}
		if query.ClassName != "" && !strings.Contains(doc.ClassName, query.ClassName) {
			continue
		}
		if query.School != "" && !strings.Contains(doc.School, query.School) {
			continue
		}
		if ownerID != "" && doc.OwnerID != ownerID {
			continue
		}
		matched = append(matched, doc)
	}

	// createdAt descending, as the store query orders it
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			if matched[j].CreatedAt.After(matched[i].CreatedAt) {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
	}

	return matched, nil
}

type fakeSearchCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeSearchCache() *fakeSearchCache {
	return &fakeSearchCache{entries: make(map[string]string)}
}

func (f *fakeSearchCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[key], nil
}

func (f *fakeSearchCache) Set(ctx context.Context, key string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value.(string)
	return nil
}

func (f *fakeSearchCache) InvalidateAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string]string)
	return nil
}

type fakeFileStorage struct{}

func (fakeFileStorage) SaveFile(docID string, reader io.Reader) (string, error) {
	return "/storage/" + docID + ".pdf", nil
}

func (fakeFileStorage) LoadFile(location string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("%PDF")), nil
}

func (fakeFileStorage) DeleteFile(location string) error { return nil }

type fakeUserProvider struct {
	users map[string]*models.User
}

func (f *fakeUserProvider) UsersByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	found := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			found = append(found, u)
		}
	}
	return found, nil
}

type fakeInvalidator struct {
	cache *fakeSearchCache
}

func (f *fakeInvalidator) DocumentPublished(ctx context.Context) {
	_ = f.cache.InvalidateAll(ctx)
}

// Publish A, search from the store, search again from the cache, publish B,
// and verify the next search misses the cache and returns both documents
// newest first.
func TestPublishSearch_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := &fakeDocRepo{}
	cache := newFakeSearchCache()
	inv := &fakeInvalidator{cache: cache}
	owner := academy()
	users := &fakeUserProvider{users: map[string]*models.User{owner.ID: owner}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := New(log, repo, cache, inv, users, fakeFileStorage{})

	docA, err := service.Publish(ctx, owner, "Mathematics", "10th Grade", "DPS", bytes.NewReader([]byte("%PDF")))
	require.NoError(t, err)

	results, source, err := service.Search(ctx, student(), "math", "", "", false)
	require.NoError(t, err)
	assert.Equal(t, models.SourceDatabase, source)
	require.Len(t, results, 1)
	assert.Equal(t, docA.ID, results[0].ID)

	results, source, err = service.Search(ctx, student(), "math", "", "", false)
	require.NoError(t, err)
	assert.Equal(t, models.SourceCache, source)
	require.Len(t, results, 1)

	// fake repo keeps insertion order for equal timestamps, so nudge B later
	time.Sleep(5 * time.Millisecond)

	docB, err := service.Publish(ctx, owner, "Mathematics", "12th Grade", "DPS", bytes.NewReader([]byte("%PDF")))
	require.NoError(t, err)

	results, source, err = service.Search(ctx, student(), "math", "", "", false)
	require.NoError(t, err)
	assert.Equal(t, models.SourceDatabase, source)
	require.Len(t, results, 2)
	assert.Equal(t, docB.ID, results[0].ID)
	assert.Equal(t, docA.ID, results[1].ID)
}
