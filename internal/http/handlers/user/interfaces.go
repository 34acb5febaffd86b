package user

import (
	"context"
	"pdfcatalog/internal/models"
)

const pkg = "userHandler/"

type UserRegistrar interface {
	Register(ctx context.Context, name string, email string, password string, role string) (*models.User, string, error)
}
