package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// AccountRepository persists dealership accounts.
//
// Update methods report the number of rows touched so callers can tell a
// missing account from a successful no-op.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	// Insert stores a new account and returns it with its assigned id.
	// A duplicate email yields domain.ErrEmailExists.
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) (int64, error)
	UpdateCredential(ctx context.Context, id int64, passwordHash string) (int64, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// CommentRepository persists comments. Update and Delete only match rows
// owned by accountID.
type CommentRepository interface {
	Insert(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id int64) (*domain.Comment, error)
	Update(ctx context.Context, id, accountID int64, text string) (int64, error)
	Delete(ctx context.Context, id, accountID int64) (int64, error)
	ListByInventory(ctx context.Context, inventoryID int64) ([]domain.Comment, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Comment, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Comment, error)
}

// InventoryRepository persists classifications and vehicles.
type InventoryRepository interface {
	Classifications(ctx context.Context) ([]domain.Classification, error)
	ClassificationByID(ctx context.Context, id int64) (*domain.Classification, error)
	AddClassification(ctx context.Context, name string) (*domain.Classification, error)
	AddVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	VehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	VehiclesByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *domain.Vehicle) (int64, error)
	// DeleteVehicle removes the vehicle and the comments attached to it.
	DeleteVehicle(ctx context.Context, id int64) (int64, error)
}

// AuditRepository appends authentication events to the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}

// AuditSink accepts audit events for asynchronous persistence. Enqueue must
// not block the request path for long.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}

// LoginThrottle counts failed logins per email and locks the email out once
// a threshold is reached.
type LoginThrottle interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
