package repository

import (
	"context"
	"errors"
	"time"

	"docvault/internal/model"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("record not found")

// DocumentRepository defines data access for documents.
// Persistence only. Every mutating method is a single atomic statement.
type DocumentRepository interface {
	// Create inserts a new document record and returns its metadata (no content).
	// The caller provides ID and CreatedAt.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document with its normalized content, or ErrNotFound.
	// Content that cannot be normalized is logged and returned as nil.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns metadata newest-first, filtered by owner when set.
	List(ctx context.Context, q ListQuery) ([]model.Document, error)

	// Delete removes a document by ID and reports whether a row existed.
	Delete(ctx context.Context, id string) (bool, error)

	// SetShare enables sharing with token until expiresAt. Reports whether the row existed.
	SetShare(ctx context.Context, id, token string, expiresAt time.Time) (bool, error)

	// ClearShare disables sharing and unsets token and expiration. Reports whether the row existed.
	ClearShare(ctx context.Context, id string) (bool, error)

	// FindByShareToken returns the document whose token matches, sharing is
	// enabled and expiration is after now; ErrNotFound otherwise.
	FindByShareToken(ctx context.Context, token string, now time.Time) (*model.Document, error)

	// UpdateOwnerAll sets owner on every document and returns the number changed.
	UpdateOwnerAll(ctx context.Context, owner model.OwnerTag) (int64, error)
}

// ListQuery filters List. A zero Owner matches every document.
type ListQuery struct {
	Owner model.OwnerTag
}

// AdminRepository persists the singleton admin credential.
type AdminRepository interface {
	// Get returns the credential or ErrNotFound.
	Get(ctx context.Context) (*model.AdminCredential, error)

	// CreateIfAbsent stores hash unless a credential exists. Reports whether it was created.
	CreateIfAbsent(ctx context.Context, passwordHash string) (bool, error)
}
