package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"docvault/internal/content"
	"docvault/internal/logging"
	"docvault/internal/model"
	"docvault/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db  *sql.DB
	log *logging.Logger
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB, log *logging.Logger) *DocumentPostgres {
	if log == nil {
		log = logging.Discard()
	}
	return &DocumentPostgres{db: db, log: log.With("repository")}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const metadataColumns = `id, name, file_type, storage_path, size, owner, share_enabled, share_token, share_expires_at, created_at`

type scanner interface {
	Scan(dest ...any) error
}

// scanDocument reads metadataColumns, followed by file_data when raw is non-nil.
func scanDocument(s scanner, raw *any) (*model.Document, error) {
	var (
		d           model.Document
		owner       string
		storagePath sql.NullString
		token       sql.NullString
		expires     sql.NullTime
	)
	dest := []any{&d.ID, &d.Name, &d.FileType, &storagePath, &d.Size, &owner, &d.ShareEnabled, &token, &expires, &d.CreatedAt}
	if raw != nil {
		dest = append(dest, raw)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	d.Owner = model.OwnerTag(owner)
	d.StoragePath = storagePath.String
	if token.Valid {
		v := token.String
		d.ShareToken = &v
	}
	if expires.Valid {
		v := expires.Time
		d.ShareExpiresAt = &v
	}
	return &d, nil
}

// attachContent normalizes the scanned file_data column onto d.
// Unreadable content is logged and left nil so metadata still reaches the caller.
func (r *DocumentPostgres) attachContent(d *model.Document, raw any) {
	b, err := content.Normalize(raw)
	if err != nil {
		r.log.Error("content_normalize_failed", err, logging.Fields{
			"status":      "error",
			"document_id": d.ID,
		})
		return
	}
	d.Content = b
}

func nullableBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Create inserts a new document row and returns the stored metadata.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, name, file_type, file_data, storage_path, size, owner, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + metadataColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Name,
		doc.FileType,
		nullableBytes(doc.Content),
		nullableString(doc.StoragePath),
		doc.Size,
		string(doc.Owner),
		doc.CreatedAt,
	)
	return scanDocument(row, nil)
}

// FindByID fetches a single document, including content, by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + metadataColumns + `, file_data FROM documents WHERE id = $1`
	var raw any
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id), &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	r.attachContent(d, raw)
	return d, nil
}

// List returns document metadata newest-first.
func (r *DocumentPostgres) List(ctx context.Context, lq repository.ListQuery) ([]model.Document, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if lq.Owner != "" {
		const q = `SELECT ` + metadataColumns + ` FROM documents WHERE owner = $1 ORDER BY created_at DESC, id DESC`
		rows, err = r.db.QueryContext(ctx, q, string(lq.Owner))
	} else {
		const q = `SELECT ` + metadataColumns + ` FROM documents ORDER BY created_at DESC, id DESC`
		rows, err = r.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows, nil)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a document by ID.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM documents WHERE id = $1`
	return r.execAffected(ctx, q, id)
}

// SetShare stores a fresh token and expiration and enables sharing.
func (r *DocumentPostgres) SetShare(ctx context.Context, id, token string, expiresAt time.Time) (bool, error) {
	const q = `
		UPDATE documents
		SET share_enabled = true, share_token = $2, share_expires_at = $3
		WHERE id = $1
	`
	return r.execAffected(ctx, q, id, token, expiresAt)
}

// ClearShare disables sharing and unsets token and expiration.
func (r *DocumentPostgres) ClearShare(ctx context.Context, id string) (bool, error) {
	const q = `
		UPDATE documents
		SET share_enabled = false, share_token = NULL, share_expires_at = NULL
		WHERE id = $1
	`
	return r.execAffected(ctx, q, id)
}

// FindByShareToken fetches the document an active token points to.
func (r *DocumentPostgres) FindByShareToken(ctx context.Context, token string, now time.Time) (*model.Document, error) {
	const q = `
		SELECT ` + metadataColumns + `, file_data FROM documents
		WHERE share_token = $1 AND share_enabled = true AND share_expires_at > $2
	`
	var raw any
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, token, now), &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	r.attachContent(d, raw)
	return d, nil
}

// UpdateOwnerAll reassigns every document to owner.
func (r *DocumentPostgres) UpdateOwnerAll(ctx context.Context, owner model.OwnerTag) (int64, error) {
	const q = `UPDATE documents SET owner = $1 WHERE owner <> $1`
	res, err := r.db.ExecContext(ctx, q, string(owner))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *DocumentPostgres) execAffected(ctx context.Context, q string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
