package store

import (
	"context"

	"homedash/pkg/model"
)

// Filter narrows a list query. Search is a case-insensitive substring
// matched against the entity's searchable columns.
type Filter struct {
	Search     string
	ActiveOnly bool
}

// Page is a limit/offset window; rows are always ordered newest first.
type Page struct {
	Limit  int
	Offset int
}

// PageFor returns the window for a 1-based page number.
func PageFor(page, size int) Page {
	if page < 1 {
		page = 1
	}
	return Page{Limit: size, Offset: (page - 1) * size}
}

// TotalPages is ceil(count/size).
func TotalPages(count int64, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return int((count + int64(size) - 1) / int64(size))
}

// UserUpdate carries an edit. Password is left untouched when empty.
type UserUpdate struct {
	UserName  string
	FirstName string
	LastName  string
	Active    bool
	Password  string
}

// UserStore persists admin accounts. Rows returned by Get and Find never
// carry the password hash.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User, password string) error
	GetUser(ctx context.Context, id uint) (model.User, error)
	FindUsers(ctx context.Context, f Filter, p Page) ([]model.User, int64, error)
	UpdateUser(ctx context.Context, id uint, upd UserUpdate) (model.User, error)
	CountUsers(ctx context.Context) (int64, error)
	// Authenticate returns the active user matching userName and password,
	// or ErrInvalidCredentials.
	Authenticate(ctx context.Context, userName, password string) (model.User, error)
	// SetPassword replaces the hash of the user named userName.
	SetPassword(ctx context.Context, userName, password string) error
}

// ServiceLinkStore persists dashboard links.
type ServiceLinkStore interface {
	CreateServiceLink(ctx context.Context, l *model.ServiceLink) error
	GetServiceLink(ctx context.Context, id uint) (model.ServiceLink, error)
	FindServiceLinks(ctx context.Context, f Filter, p Page) ([]model.ServiceLink, int64, error)
	UpdateServiceLink(ctx context.Context, id uint, l model.ServiceLink) (model.ServiceLink, error)
}

type Store interface {
	UserStore
	ServiceLinkStore
	Ping(ctx context.Context) error
}
