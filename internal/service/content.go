package service

import (
	"context"
	"errors"
	"io"

	"docvault/internal/logging"
	"docvault/internal/model"
	"docvault/internal/storage"
)

var errStoreUnavailable = errors.New("object store not configured")

// contentLoader fills in content for documents whose bytes live in object storage.
type contentLoader struct {
	store storage.Storage
	log   *logging.Logger
}

// load reads offloaded content into doc. Failures are logged and leave Content nil.
func (l contentLoader) load(ctx context.Context, doc *model.Document) {
	if doc.StoragePath == "" || doc.Content != nil {
		return
	}
	if err := l.read(ctx, doc); err != nil {
		l.log.Error("content_fetch_failed", err, logging.Fields{
			"status":       "error",
			"document_id":  doc.ID,
			"storage_path": doc.StoragePath,
		})
	}
}

func (l contentLoader) read(ctx context.Context, doc *model.Document) error {
	if l.store == nil {
		return errStoreUnavailable
	}
	rc, _, err := l.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	doc.Content = b
	return nil
}
