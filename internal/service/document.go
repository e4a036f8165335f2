package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault/internal/content"
	"docvault/internal/logging"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

// CreateDocumentInput carries an upload as received from the client.
// FileData is base64, optionally prefixed with a data URL header.
type CreateDocumentInput struct {
	Name     string
	FileData string
	FileType string
	Owner    string
}

// Preview is the inline rendering of a document.
// Content is a data URL, or "" when the stored bytes could not be read.
type Preview struct {
	Type             string
	Name             string
	Content          string
	PreviewAvailable bool
	Owner            model.OwnerTag
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// List returns metadata newest-first. An empty owner lists every document.
	List(ctx context.Context, owner string) ([]model.Document, error)

	// Create validates and decodes the upload, stores it and returns its metadata.
	// When object storage is configured, content is written there first and
	// removed again if the database insert fails.
	Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error)

	// Get returns a single document, content included, by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Preview returns the document content as a data URL.
	Preview(ctx context.Context, id string) (*Preview, error)

	// Delete removes a document and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// TransferAll reassigns every document to owner and returns how many changed.
	TransferAll(ctx context.Context, owner string) (int64, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store  storage.Storage
	repo   repository.DocumentRepository
	log    *logging.Logger
	loader contentLoader
	now    func() time.Time
}

// NewDocumentService constructs a new DocumentService. store may be nil, in
// which case content is kept inline in the repository.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, log *logging.Logger) DocumentService {
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("document_service")
	return &documentService{
		store:  store,
		repo:   repo,
		log:    log,
		loader: contentLoader{store: store, log: log},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func parseOwner(field, raw string) (model.OwnerTag, error) {
	tag := model.OwnerTag(strings.ToUpper(strings.TrimSpace(raw)))
	if !tag.Valid() {
		return "", invalid(field, "must be one of MATTHEW, MOM, DAD, SAMUEL")
	}
	return tag, nil
}

// validID reports whether id can name a stored document.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *documentService) List(ctx context.Context, owner string) ([]model.Document, error) {
	var q repository.ListQuery
	if strings.TrimSpace(owner) != "" {
		tag, err := parseOwner("user", owner)
		if err != nil {
			return nil, err
		}
		q.Owner = tag
	}
	return s.repo.List(ctx, q)
}

func (s *documentService) Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error) {
	name := strings.TrimSpace(in.Name)
	fileType := strings.TrimSpace(in.FileType)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if strings.TrimSpace(in.FileData) == "" {
		return nil, invalid("fileData", "is required")
	}
	if fileType == "" {
		return nil, invalid("fileType", "is required")
	}
	if strings.TrimSpace(in.Owner) == "" {
		return nil, invalid("user", "is required")
	}
	owner, err := parseOwner("user", in.Owner)
	if err != nil {
		return nil, err
	}
	data, err := content.DecodeBase64Payload(in.FileData)
	if err != nil {
		return nil, invalid("fileData", "is not valid base64")
	}

	doc := &model.Document{
		ID:        uuid.New().String(),
		Name:      name,
		FileType:  fileType,
		Content:   data,
		Owner:     owner,
		Size:      int64(len(data)),
		CreatedAt: s.now(),
	}

	if s.store == nil {
		stored, err := s.repo.Create(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("db save failed: %w", err)
		}
		return stored, nil
	}

	key := storage.DocumentKey(doc.ID)
	if _, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        doc.Size,
		ContentType: fileType,
		Metadata: map[string]string{
			"original-filename": name,
			"owner":             string(owner),
		},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	doc.Content = nil
	doc.StoragePath = key

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.loader.load(ctx, doc)
	return doc, nil
}

func (s *documentService) Preview(ctx context.Context, id string) (*Preview, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Type:             doc.FileType,
		Name:             doc.Name,
		Content:          content.DataURL(doc.FileType, doc.Content),
		PreviewAvailable: doc.Content != nil,
		Owner:            doc.Owner,
	}, nil
}

func (s *documentService) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if existed && s.store != nil {
		key := storage.DocumentKey(id)
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Error("content_delete_failed", err, logging.Fields{
				"status":       "error",
				"document_id":  id,
				"storage_path": key,
			})
		}
	}
	return existed, nil
}

func (s *documentService) TransferAll(ctx context.Context, owner string) (int64, error) {
	tag, err := parseOwner("user", owner)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.UpdateOwnerAll(ctx, tag)
	if err != nil {
		return 0, err
	}
	s.log.Info("documents_transferred", logging.Fields{
		"status":         "success",
		"owner":          string(tag),
		"modified_count": n,
	})
	return n, nil
}
