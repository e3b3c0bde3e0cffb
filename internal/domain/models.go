package domain

import "time"

// Annotation keys used by the console
const (
	RoleNamesAnnotation   = "rbac.authorization.halo.run/role-names"
	DisplayNameAnnotation = "rbac.authorization.halo.run/display-name"
)

// PageSizes are the page sizes offered by the pagination control
var PageSizes = []int{20, 30, 50, 100}

// DefaultPageSize is used when no valid size is configured
const DefaultPageSize = 20

// ValidPageSize reports whether size is one of PageSizes
func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Metadata is the common object metadata of every extension
type Metadata struct {
	Name              string            `json:"name"`
	Labels            map[string]string `json:"labels,omitempty"`
	Annotations       map[string]string `json:"annotations,omitempty"`
	Version           *int64            `json:"version,omitempty"`
	CreationTimestamp *time.Time        `json:"creationTimestamp,omitempty"`
	DeletionTimestamp *time.Time        `json:"deletionTimestamp,omitempty"`
}

// UserSpec holds the editable attributes of a user
type UserSpec struct {
	DisplayName  string     `json:"displayName"`
	Avatar       string     `json:"avatar,omitempty"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Password     string     `json:"password,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	RegisteredAt *time.Time `json:"registeredAt,omitempty"`
	Disabled     bool       `json:"disabled,omitempty"`
}

// UserStatus is maintained by the server
type UserStatus struct {
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	Permalink   string     `json:"permalink,omitempty"`
}

// User represents a console user
type User struct {
	APIVersion string      `json:"apiVersion"`
	Kind       string      `json:"kind"`
	Metadata   Metadata    `json:"metadata"`
	Spec       UserSpec    `json:"spec"`
	Status     *UserStatus `json:"status,omitempty"`
}

// Name returns the unique identifier of the user
func (u User) Name() string {
	return u.Metadata.Name
}

// PendingDeletion reports whether the server has marked the user for deletion
func (u User) PendingDeletion() bool {
	return u.Metadata.DeletionTimestamp != nil
}

// Role is an RBAC role that can be granted to users
type Role struct {
	APIVersion string   `json:"apiVersion"`
	Kind       string   `json:"kind"`
	Metadata   Metadata `json:"metadata"`
}

// DisplayName returns the role's display annotation, falling back to its name
func (r Role) DisplayName() string {
	if name := r.Metadata.Annotations[DisplayNameAnnotation]; name != "" {
		return name
	}
	return r.Metadata.Name
}

// UserPage is one page of the server-side ordered user collection
type UserPage struct {
	Page        int    `json:"page"`
	Size        int    `json:"size"`
	Total       int64  `json:"total"`
	Items       []User `json:"items"`
	First       bool   `json:"first"`
	Last        bool   `json:"last"`
	HasNext     bool   `json:"hasNext"`
	HasPrevious bool   `json:"hasPrevious"`
	TotalPages  int64  `json:"totalPages"`
}

// Names returns the identifiers of the page items in page order
func (p UserPage) Names() []string {
	names := make([]string, 0, len(p.Items))
	for _, u := range p.Items {
		names = append(names, u.Name())
	}
	return names
}

// PendingDeletions counts the items marked for deletion
func (p UserPage) PendingDeletions() int {
	n := 0
	for _, u := range p.Items {
		if u.PendingDeletion() {
			n++
		}
	}
	return n
}

// NewUserPage builds a page and its derived flags from one slice of the collection
func NewUserPage(page, size int, total int64, items []User) UserPage {
	var totalPages int64
	if size > 0 {
		totalPages = (total + int64(size) - 1) / int64(size)
	}
	if items == nil {
		items = []User{}
	}
	return UserPage{
		Page:        page,
		Size:        size,
		Total:       total,
		Items:       items,
		First:       page <= 1,
		Last:        int64(page) >= totalPages,
		HasNext:     int64(page) < totalPages,
		HasPrevious: page > 1,
		TotalPages:  totalPages,
	}
}

// Permissions describes what the current actor is allowed to do
type Permissions struct {
	Roles         []Role   `json:"roles"`
	UIPermissions []string `json:"uiPermissions"`
}
