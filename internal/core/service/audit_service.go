package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService backed by repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists one audit event. The caller decides whether a failure
// matters; request handling never waits on it.
func (s *auditService) Record(ctx context.Context, event domain.AuthEvent) error {
	if event.Kind == "" {
		return errors.New("record audit event: empty kind")
	}
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("record audit event %s: %w", event.Kind, err)
	}
	s.log.Debug().
		Str("kind", string(event.Kind)).
		Int64("account_id", event.AccountID).
		Msg("audit event recorded")
	return nil
}
