package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"usergrip/internal/domain"
)

const (
	usersEndpoint = extensionPrefix + "/users"
	rolesEndpoint = extensionPrefix + "/roles"
	// console endpoints operate on behalf of the authenticated actor
	consoleUsersEndpoint = consolePrefix + "/users"
)

// ListUsers returns one page of users
func (c *Client) ListUsers(ctx context.Context, page, size int) (domain.UserPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	body, err := c.processRequest(ctx, http.MethodGet, usersEndpoint, q, nil, http.StatusOK)
	if err != nil {
		return domain.UserPage{}, fmt.Errorf("%w: %w", ErrFailedList, err)
	}

	var up domain.UserPage
	if err := json.Unmarshal(body, &up); err != nil {
		return domain.UserPage{}, fmt.Errorf("%w: %w", ErrFailedList, err)
	}
	if up.Items == nil {
		up.Items = []domain.User{}
	}
	return up, nil
}

// GetUser returns a user by name
func (c *Client) GetUser(ctx context.Context, name string) (domain.User, error) {
	body, err := c.processRequest(ctx, http.MethodGet, usersEndpoint+"/"+url.PathEscape(name), nil, nil, http.StatusOK)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrFailedFetch, err)
	}

	var user domain.User
	if err := json.Unmarshal(body, &user); err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrFailedFetch, err)
	}
	return user, nil
}

// CurrentUser returns the authenticated actor
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	body, err := c.processRequest(ctx, http.MethodGet, consoleUsersEndpoint+"/-", nil, nil, http.StatusOK)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrFailedFetch, err)
	}

	// newer servers wrap the user together with its roles
	var detailed struct {
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(body, &detailed); err == nil && detailed.User != nil {
		return *detailed.User, nil
	}

	var user domain.User
	if err := json.Unmarshal(body, &user); err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrFailedFetch, err)
	}
	return user, nil
}

// Permissions returns the roles and UI permissions of a user
func (c *Client) Permissions(ctx context.Context, name string) (domain.Permissions, error) {
	endpoint := fmt.Sprintf("%s/%s/permissions", consoleUsersEndpoint, url.PathEscape(name))
	body, err := c.processRequest(ctx, http.MethodGet, endpoint, nil, nil, http.StatusOK)
	if err != nil {
		return domain.Permissions{}, fmt.Errorf("%w: %w", ErrFailedFetch, err)
	}

	var perms domain.Permissions
	if err := json.Unmarshal(body, &perms); err != nil {
		return domain.Permissions{}, fmt.Errorf("%w: %w", ErrFailedFetch, err)
	}
	return perms, nil
}

// CreateUser registers a new user
func (c *Client) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	if user.APIVersion == "" {
		user.APIVersion = "v1alpha1"
	}
	if user.Kind == "" {
		user.Kind = "User"
	}

	body, err := c.processRequest(ctx, http.MethodPost, usersEndpoint, nil, user, http.StatusOK, http.StatusCreated)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrFailedCreation, err)
	}

	var created domain.User
	if err := json.Unmarshal(body, &created); err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrFailedCreation, err)
	}
	return created, nil
}

// UpdateUser replaces an existing user
func (c *Client) UpdateUser(ctx context.Context, user domain.User) (domain.User, error) {
	endpoint := usersEndpoint + "/" + url.PathEscape(user.Name())
	body, err := c.processRequest(ctx, http.MethodPut, endpoint, nil, user, http.StatusOK)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrFailedUpdate, err)
	}

	var updated domain.User
	if err := json.Unmarshal(body, &updated); err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrFailedUpdate, err)
	}
	return updated, nil
}

// DeleteUser asks the server to delete a user. Deletion is eventual: the
// user keeps showing up with a deletion timestamp until it is purged.
func (c *Client) DeleteUser(ctx context.Context, name string) error {
	endpoint := usersEndpoint + "/" + url.PathEscape(name)
	if _, err := c.processRequest(ctx, http.MethodDelete, endpoint, nil, nil, http.StatusOK, http.StatusNoContent); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedRemoval, err)
	}
	return nil
}

// ChangePassword sets a new password for a user
func (c *Client) ChangePassword(ctx context.Context, name, password string) error {
	endpoint := fmt.Sprintf("%s/%s/password", consoleUsersEndpoint, url.PathEscape(name))
	payload := map[string]string{"password": password}
	if _, err := c.processRequest(ctx, http.MethodPut, endpoint, nil, payload, http.StatusOK); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedUpdate, err)
	}
	return nil
}

// GrantRoles replaces the roles of a user
func (c *Client) GrantRoles(ctx context.Context, name string, roles []string) error {
	if roles == nil {
		roles = []string{}
	}
	endpoint := fmt.Sprintf("%s/%s/permissions", consoleUsersEndpoint, url.PathEscape(name))
	payload := map[string][]string{"roles": roles}
	if _, err := c.processRequest(ctx, http.MethodPost, endpoint, nil, payload, http.StatusOK); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedUpdate, err)
	}
	return nil
}

// ListRoles returns every role that can be granted
func (c *Client) ListRoles(ctx context.Context) ([]domain.Role, error) {
	body, err := c.processRequest(ctx, http.MethodGet, rolesEndpoint, nil, nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	var page struct {
		Items []domain.Role `json:"items"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode roles: %w", err)
	}
	return page.Items, nil
}
