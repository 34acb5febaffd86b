package session

import (
	"context"
	"pdfcatalog/internal/models"
)

const pkg = "sessionHandler/"

type SessionCreator interface {
	Login(ctx context.Context, email string, password string) (*models.User, string, error)
}

type SessionDeleter interface {
	Logout(ctx context.Context, token string) error
}
