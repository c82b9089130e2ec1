package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) ports.AuditRepository {
	return &auditRepository{db: db}
}

// Insert stores unknown account ids and empty strings as NULL.
func (r *auditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	_, err := r.db.ExecContext(ctx, insertAuthEvent,
		string(event.Kind),
		sql.NullInt64{Int64: event.AccountID, Valid: event.AccountID > 0},
		sql.NullString{String: event.Email, Valid: event.Email != ""},
		sql.NullString{String: event.RemoteIP, Valid: event.RemoteIP != ""},
		event.OccurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
