package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Skotchmaster/grocerystore/internal/events"
	"github.com/Skotchmaster/grocerystore/internal/hash"
	"github.com/Skotchmaster/grocerystore/internal/logging"
	"github.com/Skotchmaster/grocerystore/internal/models"
	"github.com/Skotchmaster/grocerystore/internal/tokens"
	"github.com/Skotchmaster/grocerystore/internal/transport"
)

type AuthService struct {
	Users  UserStore
	Tokens *tokens.Service
	Events events.Publisher
}

type LoginResult struct {
	Token string
	Email string
	Name  string
	Role  string
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	switch {
	case strings.TrimSpace(req.Name) == "":
		return nil, invalid("name is required")
	case !strings.Contains(req.Email, "@"):
		return nil, invalid("a valid email is required")
	case req.Password == "":
		return nil, invalid("password is required")
	case len(req.Password) > hash.MaxPasswordBytes:
		return nil, invalid("password must be at most %d bytes", hash.MaxPasswordBytes)
	}

	exists, err := s.Users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, storageErr(err, "email "+req.Email)
	}
	if exists {
		return nil, fmt.Errorf("email %s %w", req.Email, ErrConflict)
	}

	role, err := s.Users.RoleByName(ctx, models.RoleUser)
	if err != nil {
		l.Error("register_error", "reason", "base role missing", "role", models.RoleUser, "error", err)
		return nil, fmt.Errorf("%w: role %s: %v", ErrStorage, models.RoleUser, err)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  pwHash,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		Roles:         []models.Role{*role},
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		return nil, storageErr(err, "email "+req.Email)
	}

	events.Emit(ctx, s.Events, events.TopicUsers, events.Key(user.ID), events.UserRegistered{
		Type:   events.TypeUserRegistered,
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

// Login reports ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}

	user, err := s.Users.UserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			l.Warn("login_failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr(err, "email "+email)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	roles := user.RoleNames()
	token, err := s.Tokens.Issue(user.Email, roles)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		Token: token,
		Email: user.Email,
		Name:  user.Name,
		Role:  PrimaryRole(roles),
	}, nil
}

// PrimaryRole picks the highest privilege role, ROLE_ADMIN before ROLE_USER,
// and falls back to the lexically first name.
func PrimaryRole(roles []string) string {
	for _, r := range []string{models.RoleAdmin, models.RoleUser} {
		if slices.Contains(roles, r) {
			return r
		}
	}
	if len(roles) == 0 {
		return ""
	}
	return slices.Min(roles)
}
