package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// DocumentMemory keeps documents in a map guarded by an RWMutex.
// Documents are copied on the way in and out.
type DocumentMemory struct {
	docs map[string]*model.Document
	mu   sync.RWMutex
}

// NewDocumentMemory creates an empty in-memory document repository.
func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{
		docs: make(map[string]*model.Document),
	}
}

var _ repository.DocumentRepository = (*DocumentMemory)(nil)

func cloneDocument(d *model.Document) *model.Document {
	c := *d
	c.Content = slices.Clone(d.Content)
	if d.ShareToken != nil {
		v := *d.ShareToken
		c.ShareToken = &v
	}
	if d.ShareExpiresAt != nil {
		v := *d.ShareExpiresAt
		c.ShareExpiresAt = &v
	}
	return &c
}

// Create stores doc. IDs must be unique.
func (r *DocumentMemory) Create(_ context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.docs[doc.ID]; found {
		return nil, fmt.Errorf("document already exists: %s", doc.ID)
	}
	stored := cloneDocument(doc)
	r.docs[doc.ID] = stored
	meta := stored.Metadata()
	return cloneDocument(&meta), nil
}

// FindByID returns a copy of the document, content included.
func (r *DocumentMemory) FindByID(_ context.Context, id string) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, found := r.docs[id]
	if !found {
		return nil, repository.ErrNotFound
	}
	return cloneDocument(d), nil
}

// List returns metadata newest-first, ties broken by ID descending.
func (r *DocumentMemory) List(_ context.Context, q repository.ListQuery) ([]model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.Document, 0, len(r.docs))
	for _, d := range r.docs {
		if q.Owner == "" || d.Owner == q.Owner {
			result = append(result, cloneDocument(d).Metadata())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Delete removes a document and reports whether it existed.
func (r *DocumentMemory) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.docs[id]; !found {
		return false, nil
	}
	delete(r.docs, id)
	return true, nil
}

// SetShare enables sharing with a new token, replacing any previous one.
func (r *DocumentMemory) SetShare(_ context.Context, id, token string, expiresAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, found := r.docs[id]
	if !found {
		return false, nil
	}
	for otherID, other := range r.docs {
		if otherID != id && other.ShareToken != nil && *other.ShareToken == token {
			return false, fmt.Errorf("share token already in use")
		}
	}
	d.ShareEnabled = true
	d.ShareToken = &token
	d.ShareExpiresAt = &expiresAt
	return true, nil
}

// ClearShare disables sharing on a document.
func (r *DocumentMemory) ClearShare(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, found := r.docs[id]
	if !found {
		return false, nil
	}
	d.ShareEnabled = false
	d.ShareToken = nil
	d.ShareExpiresAt = nil
	return true, nil
}

// FindByShareToken returns the document an active token points to.
func (r *DocumentMemory) FindByShareToken(_ context.Context, token string, now time.Time) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.docs {
		if d.ShareToken != nil && *d.ShareToken == token && d.ShareActive(now) {
			return cloneDocument(d), nil
		}
	}
	return nil, repository.ErrNotFound
}

// UpdateOwnerAll reassigns every document to owner.
func (r *DocumentMemory) UpdateOwnerAll(_ context.Context, owner model.OwnerTag) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, d := range r.docs {
		if d.Owner != owner {
			d.Owner = owner
			n++
		}
	}
	return n, nil
}
