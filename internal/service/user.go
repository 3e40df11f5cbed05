package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/grocerystore/internal/hash"
	"github.com/Skotchmaster/grocerystore/internal/models"
	"github.com/Skotchmaster/grocerystore/internal/transport"
)

type UserService struct {
	Users UserStore
}

func (s *UserService) SearchUsers(ctx context.Context, name string) ([]models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalid("name is required")
	}
	users, err := s.Users.SearchUsersByName(ctx, name)
	if err != nil {
		return nil, storageErr(err, "users")
	}
	return users, nil
}

func (s *UserService) Profile(ctx context.Context, email string) (*models.User, error) {
	u, err := s.Users.UserByEmail(ctx, email)
	if err != nil {
		return nil, storageErr(err, "user "+email)
	}
	return u, nil
}

// RolesForEmail reads the current role names from storage.
func (s *UserService) RolesForEmail(ctx context.Context, email string) ([]string, error) {
	u, err := s.Profile(ctx, email)
	if err != nil {
		return nil, err
	}
	return u.RoleNames(), nil
}

// UpdateProfile changes only the fields present in req. Email and roles are
// not editable here.
func (s *UserService) UpdateProfile(ctx context.Context, email string, req transport.UpdateProfileRequest) (*models.User, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, invalid("name must not be empty")
	}
	if len(req.Password) > hash.MaxPasswordBytes {
		return nil, invalid("password must be at most %d bytes", hash.MaxPasswordBytes)
	}

	u, err := s.Profile(ctx, email)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Address != nil {
		u.Address = *req.Address
	}
	if req.ContactNumber != nil {
		u.ContactNumber = *req.ContactNumber
	}
	if req.Password != "" {
		pwHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = pwHash
	}

	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		return nil, storageErr(err, "user "+email)
	}
	return u, nil
}
