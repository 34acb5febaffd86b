package catalogservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"pdfcatalog/internal/models"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "catalogService/"

type CatalogService struct {
	log          *slog.Logger
	docRepo      DocumentRepository
	searchCache  SearchCache
	invalidator  Invalidator
	userProvider UserProvider
	fileStorage  FileStorage
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	searchCache SearchCache,
	invalidator Invalidator,
	userProvider UserProvider,
	fileStorage FileStorage,
) *CatalogService {
	return &CatalogService{
		log:          log,
		docRepo:      docRepo,
		searchCache:  searchCache,
		invalidator:  invalidator,
		userProvider: userProvider,
		fileStorage:  fileStorage,
	}
}

// Publish stores the blob, writes the catalog row and then sweeps the
// search cache. Classification fields are stored lowercased and trimmed so
// search never has to normalize stored data.
func (cs *CatalogService) Publish(ctx context.Context, requester *models.User, subject, className, school string, content io.Reader) (*models.Document, error) {
	op := pkg + "Publish"

	log := cs.log.With(slog.String("op", op))

	log.Debug("attempting to publish document", slog.String("requester_id", requester.ID))

	if requester.Role != models.RoleAcademy {
		log.Warn("publish denied for non-academy requester", slog.String("requester_id", requester.ID))
		return nil, models.ErrForbidden
	}

	doc := &models.Document{
		ID:        uuid.NewV4().String(),
		OwnerID:   requester.ID,
		Subject:   strings.ToLower(strings.TrimSpace(subject)),
		ClassName: strings.ToLower(strings.TrimSpace(className)),
		School:    strings.ToLower(strings.TrimSpace(school)),
		CreatedAt: time.Now(),
	}

	if doc.Subject == "" || doc.ClassName == "" || doc.School == "" || content == nil {
		log.Warn("missing required fields")
		return nil, models.ErrInvalidParams
	}

	location, err := cs.fileStorage.SaveFile(doc.ID, content)
	if err != nil {
		log.Error("failed to save file", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	doc.FileURL = location

	if err := cs.docRepo.CreateDocument(ctx, doc); err != nil {
		log.Error("failed to save document metadata", slog.String("error", err.Error()))
		_ = cs.fileStorage.DeleteFile(location)
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	// The store write is acknowledged; only now may the sweep run.
	cs.invalidator.DocumentPublished(ctx)

	log.Debug("document published successfully", slog.String("doc_id", doc.ID))

	return doc, nil
}

// Search answers a catalog query through the read-through cache. Personal
// queries bypass the cache entirely; cache failures degrade to the store.
func (cs *CatalogService) Search(ctx context.Context, requester *models.User, subject, className, school string, personal bool) ([]models.SearchResult, string, error) {
	op := pkg + "Search"

	log := cs.log.With(slog.String("op", op))

	// Only academies get an owner-scoped view; for students the flag is
	// ignored rather than rejected.
	personal = personal && requester.Role == models.RoleAcademy

	query := models.NewSearchQuery(subject, className, school, personal)

	log.Debug("attempting to search documents",
		slog.String("requester_id", requester.ID),
		slog.String("subject", query.Subject),
		slog.String("class_name", query.ClassName),
		slog.String("school", query.School),
		slog.Bool("personal", query.Personal))

	if !query.Personal {
		if results, ok := cs.cachedResults(ctx, query.CacheKey()); ok {
			log.Debug("search served from cache", slog.Int("count", len(results)))
			return results, models.SourceCache, nil
		}
	}

	ownerID := ""
	if query.Personal {
		ownerID = requester.ID
	}

	docs, err := cs.docRepo.SearchDocuments(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to search documents", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	results := cs.enrich(ctx, docs)

	if !query.Personal {
		cs.storeResults(ctx, query.CacheKey(), results)
	}

	log.Debug("search served from store", slog.Int("count", len(results)))

	return results, models.SourceDatabase, nil
}

// DocumentFile streams back the stored blob for one catalog entry.
func (cs *CatalogService) DocumentFile(ctx context.Context, docID string) (*models.Document, io.ReadCloser, error) {
	op := pkg + "DocumentFile"

	log := cs.log.With(slog.String("op", op))

	doc, err := cs.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, nil, models.ErrInternal
	}

	file, err := cs.fileStorage.LoadFile(doc.FileURL)
	if err != nil {
		log.Error("failed to load file from storage", slog.String("error", err.Error()))
		return nil, nil, models.ErrInternal
	}

	return doc, file, nil
}

func (cs *CatalogService) cachedResults(ctx context.Context, key string) ([]models.SearchResult, bool) {
	op := pkg + "cachedResults"

	log := cs.log.With(slog.String("op", op))

	resultsJSON, err := cs.searchCache.Get(ctx, key)
	if err != nil {
		log.Warn("failed to get search results from cache", slog.String("error", err.Error()))
		return nil, false
	}

	if resultsJSON == "" {
		return nil, false
	}

	var results []models.SearchResult

	if err := json.Unmarshal([]byte(resultsJSON), &results); err != nil {
		log.Warn("failed to parse cached search results", slog.String("error", err.Error()))
		return nil, false
	}

	return results, true
}

func (cs *CatalogService) storeResults(ctx context.Context, key string, results []models.SearchResult) {
	op := pkg + "storeResults"

	log := cs.log.With(slog.String("op", op))

	resultsJSON, err := json.Marshal(results)
	if err != nil {
		log.Error("failed to marshal search results", slog.String("error", err.Error()))
		return
	}

	if err := cs.searchCache.Set(ctx, key, string(resultsJSON)); err != nil {
		log.Warn("failed to set search results in cache", slog.String("error", err.Error()))
	}
}

// enrich attaches the owning academy's email to every row, resolving the
// distinct owner ids in one batch. Owners that no longer exist get the
// Unknown sentinel instead of failing the request.
func (cs *CatalogService) enrich(ctx context.Context, docs []*models.Document) []models.SearchResult {
	op := pkg + "enrich"

	log := cs.log.With(slog.String("op", op))

	ownerIDs := make([]string, 0, len(docs))
	seen := make(map[string]bool, len(docs))

	for _, doc := range docs {
		if !seen[doc.OwnerID] {
			seen[doc.OwnerID] = true
			ownerIDs = append(ownerIDs, doc.OwnerID)
		}
	}

	emails := make(map[string]string, len(ownerIDs))

	owners, err := cs.userProvider.UsersByIDs(ctx, ownerIDs)
	if err != nil {
		log.Warn("failed to resolve document owners", slog.String("error", err.Error()))
	} else {
		for _, owner := range owners {
			emails[owner.ID] = owner.Email
		}
	}

	results := make([]models.SearchResult, 0, len(docs))

	for _, doc := range docs {
		email, ok := emails[doc.OwnerID]
		if !ok {
			email = models.UnknownOwnerEmail
		}

		results = append(results, models.SearchResult{
			ID:           doc.ID,
			FileURL:      doc.FileURL,
			Subject:      doc.Subject,
			ClassName:    doc.ClassName,
			School:       doc.School,
			OwnerID:      doc.OwnerID,
			AcademyEmail: email,
			CreatedAt:    doc.CreatedAt,
		})
	}

	return results
}
