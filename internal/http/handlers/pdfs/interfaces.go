package pdfs

import (
	"context"
	"io"
	"pdfcatalog/internal/models"
)

const pkg = "pdfsHandler/"

type DocumentPublisher interface {
	Publish(ctx context.Context, requester *models.User, subject, className, school string, content io.Reader) (*models.Document, error)
}

type DocumentSearcher interface {
	Search(ctx context.Context, requester *models.User, subject, className, school string, personal bool) ([]models.SearchResult, string, error)
}

type DocumentFileProvider interface {
	DocumentFile(ctx context.Context, docID string) (*models.Document, io.ReadCloser, error)
}
