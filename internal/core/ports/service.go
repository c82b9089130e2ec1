package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// RegisterInput is the normalised registration form.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	RemoteIP  string
}

// LoginInput carries submitted credentials.
type LoginInput struct {
	Email    string
	Password string
	RemoteIP string
}

// ProfileInput carries the mutable account attributes.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
}

// AccountService owns registration, login and self-service account changes.
// Mutations return the fresh account so the caller can re-issue the session.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, in LoginInput) (*domain.Account, error)
	Account(ctx context.Context, id int64) (*domain.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, actorID int64, in ProfileInput) (*domain.Account, error)
	UpdatePassword(ctx context.Context, actorID int64, password string) (*domain.Account, error)
	Logout(ctx context.Context, actorID int64, remoteIP string)
}

// CommentService manages comments. Every mutation runs the ownership check;
// a missing comment and a comment owned by someone else both yield
// domain.ErrAuthorizationDenied.
type CommentService interface {
	Post(ctx context.Context, actorID, inventoryID int64, text string) (*domain.Comment, error)
	ForEdit(ctx context.Context, actorID, commentID int64) (*domain.Comment, error)
	Update(ctx context.Context, actorID, commentID int64, text string) (*domain.Comment, error)
	Delete(ctx context.Context, actorID, commentID int64) (*domain.Comment, error)
	ByInventory(ctx context.Context, inventoryID int64) ([]domain.Comment, error)
	ByAccount(ctx context.Context, accountID int64) ([]domain.Comment, error)
	Recent(ctx context.Context, limit int) ([]domain.Comment, error)
}

// InventoryService manages classifications and vehicles.
type InventoryService interface {
	Classifications(ctx context.Context) ([]domain.Classification, error)
	AddClassification(ctx context.Context, name string) (*domain.Classification, error)
	AddVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	Vehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	ByClassification(ctx context.Context, classificationID int64) (*domain.Classification, []domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
}

// AuditService persists audit events handed over by the dispatcher.
type AuditService interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}
