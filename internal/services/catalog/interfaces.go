package catalogservice

import (
	"context"
	"io"
	"pdfcatalog/internal/models"
)

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	SearchDocuments(ctx context.Context, query models.SearchQuery, ownerID string) ([]*models.Document, error)
}

type SearchCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}) error
}

type Invalidator interface {
	DocumentPublished(ctx context.Context)
}

type UserProvider interface {
	UsersByIDs(ctx context.Context, ids []string) ([]*models.User, error)
}

type FileStorage interface {
	SaveFile(docID string, reader io.Reader) (string, error)
	LoadFile(location string) (io.ReadCloser, error)
	DeleteFile(location string) error
}
