package logic

import (
	"context"
	"errors"

	"usergrip/internal/domain"
)

// ErrUserNotFound is returned by stores that do not know a user
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when creating a user whose name is taken
var ErrUserExists = errors.New("user already exists")

// UserAPI is the remote contract the console depends on
type UserAPI interface {
	ListUsers(ctx context.Context, page, size int) (domain.UserPage, error)
	GetUser(ctx context.Context, name string) (domain.User, error)
	CurrentUser(ctx context.Context) (domain.User, error)
	Permissions(ctx context.Context, name string) (domain.Permissions, error)
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) (domain.User, error)
	DeleteUser(ctx context.Context, name string) error
	ChangePassword(ctx context.Context, name, password string) error
	GrantRoles(ctx context.Context, name string, roles []string) error
	ListRoles(ctx context.Context) ([]domain.Role, error)
}
