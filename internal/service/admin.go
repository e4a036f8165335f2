package service

import (
	"context"
	"errors"
	"fmt"

	"docvault/internal/auth"
	"docvault/internal/logging"
	"docvault/internal/repository"
)

// AdminGate guards the document library with a single shared password.
type AdminGate interface {
	// VerifyPassword reports whether candidate matches the stored credential.
	// A missing credential or an empty candidate never matches.
	VerifyPassword(ctx context.Context, candidate string) (bool, error)

	// EnsureInitialized stores seed as the credential when none exists.
	// It returns ErrGateUnconfigured when there is no credential and no seed.
	EnsureInitialized(ctx context.Context, seed string) error
}

type adminGate struct {
	repo   repository.AdminRepository
	hasher *auth.PasswordHasher
	log    *logging.Logger
}

// NewAdminGate constructs an AdminGate backed by repo.
func NewAdminGate(repo repository.AdminRepository, hasher *auth.PasswordHasher, log *logging.Logger) AdminGate {
	if log == nil {
		log = logging.Discard()
	}
	if hasher == nil {
		hasher = auth.NewPasswordHasher(auth.DefaultBcryptCost)
	}
	return &adminGate{repo: repo, hasher: hasher, log: log.With("admin_gate")}
}

func (g *adminGate) VerifyPassword(ctx context.Context, candidate string) (bool, error) {
	if candidate == "" {
		return false, nil
	}
	cred, err := g.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return g.hasher.Verify(candidate, cred.PasswordHash), nil
}

func (g *adminGate) EnsureInitialized(ctx context.Context, seed string) error {
	_, err := g.repo.Get(ctx)
	if err == nil {
		g.log.Info("admin_gate_ready", logging.Fields{"status": "success", "seeded": false})
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("load admin credential: %w", err)
	}

	if seed == "" {
		g.log.Critical("admin_seed_missing", ErrGateUnconfigured, logging.Fields{
			"status": "error",
			"msg":    "no admin credential stored and ADMIN_PASSWORD is empty; every verification will fail",
		})
		return ErrGateUnconfigured
	}

	hash, err := g.hasher.Hash(seed)
	if err != nil {
		return fmt.Errorf("hash admin seed: %w", err)
	}
	created, err := g.repo.CreateIfAbsent(ctx, hash)
	if err != nil {
		return fmt.Errorf("store admin credential: %w", err)
	}
	g.log.Info("admin_gate_ready", logging.Fields{"status": "success", "seeded": created})
	return nil
}
