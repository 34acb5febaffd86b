package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pdfcatalog/internal/entities"
	"pdfcatalog/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "userRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) AddUser(ctx context.Context, user models.User) error {
	op := pkg + "AddUser"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users(id, name, email, pass_hash, role) VALUES($1, $2, $3, $4, $5)`,
		user.ID, user.Name, user.Email, user.PassHash, string(user.Role))

	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok {
			if pgErr.Code == "23505" {
				return &models.UniqueConstraintError{
					Constraint: pgErr.Constraint,
					Err:        models.ErrUNIQUEConstraintFailed,
				}
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) UserByID(ctx context.Context, id string) (*models.User, error) {
	op := pkg + "UserByID"

	rawUser := entities.User{}

	err := r.db.GetContext(ctx, &rawUser,
		`SELECT
			u.id AS id,
			u.name AS name,
			u.email AS email,
			u.pass_hash AS pass_hash,
			u.role AS role
		FROM users u
		WHERE u.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return userFromEntity(rawUser), nil
}

func (r *repository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	op := pkg + "UserByEmail"

	rawUser := entities.User{}

	err := r.db.GetContext(ctx, &rawUser,
		`SELECT
			u.id AS id,
			u.name AS name,
			u.email AS email,
			u.pass_hash AS pass_hash,
			u.role AS role
		FROM users u
		WHERE u.email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return userFromEntity(rawUser), nil
}

// UsersByIDs resolves a batch of account ids in one query. Ids that no
// longer exist are simply missing from the result.
func (r *repository) UsersByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	op := pkg + "UsersByIDs"

	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	rawUsers := make([]entities.User, 0, len(ids))

	err := r.db.SelectContext(ctx, &rawUsers,
		`SELECT
			u.id AS id,
			u.name AS name,
			u.email AS email,
			u.pass_hash AS pass_hash,
			u.role AS role
		FROM users u
		WHERE u.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users := make([]*models.User, 0, len(rawUsers))

	for _, rawUser := range rawUsers {
		users = append(users, userFromEntity(rawUser))
	}

	return users, nil
}

func userFromEntity(rawUser entities.User) *models.User {
	return &models.User{
		ID:       rawUser.ID,
		Name:     rawUser.Name,
		Email:    rawUser.Email,
		PassHash: rawUser.PassHash,
		Role:     models.Role(rawUser.Role),
	}
}
