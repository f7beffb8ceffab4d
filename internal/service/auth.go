package service

import (
	"context"
	"errors"
	"time"

	"github.com/nutrimart/storefront/internal/models"
	"github.com/nutrimart/storefront/internal/storage"
	"github.com/nutrimart/storefront/pkg/hash"
	"github.com/nutrimart/storefront/pkg/logging"
	"github.com/nutrimart/storefront/pkg/tokens"
)

type AuthService struct {
	Store      storage.Store
	JWTSecret  []byte
	SessionTTL time.Duration
}

type LoginResult struct {
	Token   string
	Expires time.Time
	User    models.User
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	fields := FieldErrors{}
	if username == "" {
		fields["username"] = "is required"
	}
	if password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		IsAdmin:      false,
	}
	if err := s.Store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			return nil, ErrUserExists
		}
		l.Error("register_error", "error", err)
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	exp := time.Now().Add(s.SessionTTL)
	token, err := tokens.NewSessionToken(user.ID, user.Username, user.IsAdmin, s.JWTSecret, exp)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign session token", "error", err)
		return nil, err
	}

	return &LoginResult{Token: token, Expires: exp, User: *user}, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.Store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
