package memory

import (
	"context"
	"sync"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// AdminMemory holds the admin credential in process memory.
type AdminMemory struct {
	cred *model.AdminCredential
	mu   sync.RWMutex
	now  func() time.Time
}

// NewAdminMemory creates an AdminMemory with no credential.
func NewAdminMemory() *AdminMemory {
	return &AdminMemory{now: time.Now}
}

var _ repository.AdminRepository = (*AdminMemory)(nil)

// Get returns the credential or repository.ErrNotFound.
func (r *AdminMemory) Get(_ context.Context) (*model.AdminCredential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.cred == nil {
		return nil, repository.ErrNotFound
	}
	c := *r.cred
	return &c, nil
}

// CreateIfAbsent stores the hash when no credential exists.
func (r *AdminMemory) CreateIfAbsent(_ context.Context, passwordHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cred != nil {
		return false, nil
	}
	r.cred = &model.AdminCredential{PasswordHash: passwordHash, CreatedAt: r.now()}
	return true, nil
}
