package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"docvault/internal/logging"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

const (
	DefaultShareDays = 7
	MinShareDays     = 1
	MaxShareDays     = 30

	shareTokenBytes   = 24
	minShareTokenSize = 10
)

// ShareLink is a freshly issued share token.
type ShareLink struct {
	Token     string
	ExpiresAt time.Time
}

// ShareService issues, resolves and revokes expiring share tokens.
type ShareService interface {
	// CreateShareLink replaces any previous token on the document.
	// A nil days uses DefaultShareDays.
	CreateShareLink(ctx context.Context, docID string, days *int) (*ShareLink, error)

	// ResolveShareToken returns the shared document. Unknown, revoked and
	// expired tokens all yield ErrNotFound.
	ResolveShareToken(ctx context.Context, token string) (*model.Document, error)

	// RevokeShare disables sharing and reports whether the document existed.
	RevokeShare(ctx context.Context, docID string) (bool, error)
}

type shareService struct {
	repo     repository.DocumentRepository
	log      *logging.Logger
	loader   contentLoader
	now      func() time.Time
	newToken func() (string, error)
}

// NewShareService constructs a ShareService. store may be nil.
func NewShareService(store storage.Storage, repo repository.DocumentRepository, log *logging.Logger) ShareService {
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("share_service")
	return &shareService{
		repo:     repo,
		log:      log,
		loader:   contentLoader{store: store, log: log},
		now:      func() time.Time { return time.Now().UTC() },
		newToken: randomToken,
	}
}

func randomToken() (string, error) {
	b := make([]byte, shareTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *shareService) CreateShareLink(ctx context.Context, docID string, days *int) (*ShareLink, error) {
	n := DefaultShareDays
	if days != nil {
		n = *days
	}
	if n < MinShareDays || n > MaxShareDays {
		return nil, invalid("expirationDays", "must be between 1 and 30")
	}
	if !validID(docID) {
		return nil, ErrNotFound
	}

	token, err := s.newToken()
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().AddDate(0, 0, n)

	ok, err := s.repo.SetShare(ctx, docID, token, expiresAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	s.log.Info("share_created", logging.Fields{
		"status":      "success",
		"document_id": docID,
		"expires_at":  expiresAt.Format(time.RFC3339),
	})
	return &ShareLink{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *shareService) ResolveShareToken(ctx context.Context, token string) (*model.Document, error) {
	token = strings.TrimSpace(token)
	if len(token) < minShareTokenSize {
		return nil, invalid("token", "malformed share link")
	}
	doc, err := s.repo.FindByShareToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.loader.load(ctx, doc)
	return doc, nil
}

func (s *shareService) RevokeShare(ctx context.Context, docID string) (bool, error) {
	if !validID(docID) {
		return false, nil
	}
	ok, err := s.repo.ClearShare(ctx, docID)
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info("share_revoked", logging.Fields{
			"status":      "success",
			"document_id": docID,
		})
	}
	return ok, nil
}
