package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// AdminPostgres stores the singleton admin credential in admin_credentials.
type AdminPostgres struct {
	db *sql.DB
}

// NewAdminPostgres creates a new AdminPostgres repository.
func NewAdminPostgres(db *sql.DB) *AdminPostgres {
	return &AdminPostgres{db: db}
}

var _ repository.AdminRepository = (*AdminPostgres)(nil)

// Get returns the stored credential.
func (r *AdminPostgres) Get(ctx context.Context) (*model.AdminCredential, error) {
	const q = `SELECT password_hash, created_at FROM admin_credentials WHERE id = 1`
	var c model.AdminCredential
	if err := r.db.QueryRowContext(ctx, q).Scan(&c.PasswordHash, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateIfAbsent inserts the credential; an existing row is left untouched.
func (r *AdminPostgres) CreateIfAbsent(ctx context.Context, passwordHash string) (bool, error) {
	const q = `INSERT INTO admin_credentials (id, password_hash) VALUES (1, $1) ON CONFLICT (id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, q, passwordHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
