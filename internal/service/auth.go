// Package service holds the registration, login, profile and bootstrap workflows.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/userauth/internal/apperr"
	"github.com/Skotchmaster/userauth/internal/directory"
	"github.com/Skotchmaster/userauth/internal/events"
	"github.com/Skotchmaster/userauth/internal/logging"
	"github.com/Skotchmaster/userauth/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, in models.NewUser) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error)
	RecordLogin(ctx context.Context, id int64) error
}

type PasswordChecker interface {
	CheckPassword(ctx context.Context, password, hash string) (bool, error)
}

type TokenIssuer interface {
	Issue(email, role string) (string, error)
}

type RegisterInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
}

type AuthResult struct {
	Token string
	User  *models.User
}

type AuthService struct {
	Users     UserStore
	Passwords PasswordChecker
	Tokens    TokenIssuer
	notifier
}

func NewAuthService(users UserStore, passwords PasswordChecker, tokens TokenIssuer, pub events.Publisher, dir directory.Directory) *AuthService {
	return &AuthService{
		Users:     users,
		Passwords: passwords,
		Tokens:    tokens,
		notifier:  notifier{Events: pub, Directory: dir},
	}
}

// Register creates a User-role account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	nu, err := newUserInput(in)
	if err != nil {
		l.Info("register_rejected", "status", 400, "reason", err.Error())
		return nil, err
	}

	user, err := s.Users.Create(ctx, nu)
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicateEmail) {
			l.Info("register_rejected", "status", 409, "reason", "email already registered")
			return nil, err
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	token, err := s.Tokens.Issue(user.Email, user.Role.String())
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	l.Info("register_successful", "user_id", user.ID)
	s.notify(ctx, events.UserRegistered, user)
	return &AuthResult{Token: token, User: user}, nil
}

func newUserInput(in RegisterInput) (models.NewUser, error) {
	first, err := validateName("firstname", in.Firstname)
	if err != nil {
		return models.NewUser{}, err
	}
	last, err := validateName("lastname", in.Lastname)
	if err != nil {
		return models.NewUser{}, err
	}
	email, err := validateEmail(in.Email)
	if err != nil {
		return models.NewUser{}, err
	}
	if err := validatePassword(in.Password); err != nil {
		return models.NewUser{}, err
	}
	return models.NewUser{
		Firstname: first,
		Lastname:  last,
		Email:     email,
		Password:  in.Password,
		Role:      models.RoleUser,
	}, nil
}

// Login verifies credentials and records the login. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Invalid("", "email and password are required")
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, apperr.ErrInvalidCredentials
		}
		l.Error("login_error", "status", 500, "reason", "cannot load user", "error", err)
		return nil, err
	}

	ok, err := s.Passwords.CheckPassword(ctx, password, user.PasswordHash)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot verify password", "error", err)
		return nil, err
	}
	if !ok {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, apperr.ErrInvalidCredentials
	}

	user = s.recordLogin(ctx, user)

	token, err := s.Tokens.Issue(user.Email, user.Role.String())
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	l.Info("login_successful", "user_id", user.ID)
	s.notify(ctx, events.UserLoggedIn, user)
	return &AuthResult{Token: token, User: user}, nil
}

// recordLogin bumps the login statistics and returns the refreshed row. A failed write is
// logged and the login still succeeds with the previously loaded user.
func (s *AuthService) recordLogin(ctx context.Context, user *models.User) *models.User {
	l := logging.FromContext(ctx)

	if err := s.Users.RecordLogin(ctx, user.ID); err != nil {
		l.Warn("record_login_failed", "user_id", user.ID, "error", err)
		return user
	}

	fresh, err := s.Users.FindByID(ctx, user.ID)
	if err != nil {
		l.Warn("reload_user_failed", "user_id", user.ID, "error", err)
		now := time.Now().UTC()
		bumped := *user
		bumped.LoginCount++
		bumped.LastLogin = &now
		return &bumped
	}
	return fresh
}
