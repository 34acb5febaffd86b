package server

import (
	"context"
	"io"
	"pdfcatalog/internal/models"
)

type AuthService interface {
	Register(ctx context.Context, name string, email string, password string, role string) (*models.User, string, error)
	Login(ctx context.Context, email string, password string) (*models.User, string, error)
	UserByToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

type CatalogService interface {
	Publish(ctx context.Context, requester *models.User, subject, className, school string, content io.Reader) (*models.Document, error)
	Search(ctx context.Context, requester *models.User, subject, className, school string, personal bool) ([]models.SearchResult, string, error)
	DocumentFile(ctx context.Context, docID string) (*models.Document, io.ReadCloser, error)
}
