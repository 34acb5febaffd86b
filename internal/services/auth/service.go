package authservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"pdfcatalog/internal/models"
	"pdfcatalog/internal/validator"

	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"
)

const pkg = "authService/"

type AuthService struct {
	log           *slog.Logger
	userAdder     UserAdder
	userProvider  UserProvider
	sessionStorer SessionStorer
}

func New(
	log *slog.Logger,
	userAdder UserAdder,
	userProvider UserProvider,
	sessionStorer SessionStorer,
) *AuthService {
	return &AuthService{
		log:           log,
		userAdder:     userAdder,
		userProvider:  userProvider,
		sessionStorer: sessionStorer,
	}
}

// Register creates an account and immediately opens a session for it.
func (a *AuthService) Register(ctx context.Context, name string, email string, password string, role string) (*models.User, string, error) {
	op := pkg + "Register"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to register user")

	if name == "" || !validator.IsValidEmail(email) || !validator.IsValidPassword(password) || !validator.IsValidRole(role) {
		log.Warn("invalid registration data")
		return nil, "", models.ErrInvalidParams
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", slog.String("error", err.Error()))
		return nil, "", models.ErrInternal
	}

	user := models.User{
		ID:       uuid.NewV4().String(),
		Name:     name,
		Email:    email,
		PassHash: passHash,
		Role:     models.Role(role),
	}

	err = a.userAdder.AddUser(ctx, user)
	if err != nil {
		var uce *models.UniqueConstraintError
		if errors.As(err, &uce) || errors.Is(err, models.ErrUserExists) {
			log.Warn("user already exists", slog.String("email", user.Email))
			return nil, "", models.ErrUserExists
		}

		log.Error("failed to add user", slog.String("error", err.Error()))
		return nil, "", models.ErrInternal
	}

	token, err := a.openSession(ctx, &user)
	if err != nil {
		log.Error("failed to open session", slog.String("error", err.Error()))
		return nil, "", models.ErrInternal
	}

	log.Debug("user registered successfully")

	return &user, token, nil
}

func (a *AuthService) Login(ctx context.Context, email string, password string) (*models.User, string, error) {
	op := pkg + "Login"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to login user")

	user, err := a.userProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Info("user not found")
			return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}

		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials")
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	token, err := a.openSession(ctx, user)
	if err != nil {
		log.Error("failed to open session", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("user logged in successfully")

	return user, token, nil
}

func (a *AuthService) UserByToken(ctx context.Context, token string) (*models.User, error) {
	op := pkg + "UserByToken"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to get user by token")

	userJSON, err := a.sessionStorer.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			log.Warn("session not found")
			return nil, models.ErrInvalidCredentials
		}
		log.Error("failed to get user by token", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	var user models.User

	err = json.Unmarshal([]byte(userJSON), &user)
	if err != nil {
		log.Error("failed to unmarshal user from json", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	log.Debug("user found successfully")

	return &user, nil
}

func (a *AuthService) Logout(ctx context.Context, token string) error {
	op := pkg + "Logout"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to logout user")

	err := a.sessionStorer.DeleteSession(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			log.Warn("session not found")
			return models.ErrSessionNotFound
		}
		log.Error("failed to delete session", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("user logged out successfully")

	return nil
}

func (a *AuthService) openSession(ctx context.Context, user *models.User) (string, error) {
	token := uuid.NewV4().String()

	userJSON, err := json.Marshal(user)
	if err != nil {
		return "", err
	}

	if err := a.sessionStorer.SaveSession(ctx, token, string(userJSON)); err != nil {
		return "", err
	}

	return token, nil
}
