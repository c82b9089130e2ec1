package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// accountRepository is the PostgreSQL-backed ports.AccountRepository over
// the account table.
type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) ports.AccountRepository {
	return &accountRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a    domain.Account
		role string
	)
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &role); err != nil {
		return nil, err
	}
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("account %d: %w: %q", a.ID, domain.ErrUnknownRole, role)
	}
	a.Role = r
	return &a, nil
}

// Insert maps unique_violation on account_email to domain.ErrEmailExists.
func (r *accountRepository) Insert(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, insertAccount,
		account.FirstName, account.LastName, account.Email, account.PasswordHash, string(account.Role))

	created, err := scanAccount(row)
	if err != nil {
		if pgCode(err) == pgerrcode.UniqueViolation {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, findAccountByEmail, email)
}

func (r *accountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, findAccountByID, id)
}

func (r *accountRepository) findOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return a, nil
}

func (r *accountRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) (int64, error) {
	res, err := r.db.ExecContext(ctx, updateAccountProfile, firstName, lastName, email, id)
	if err != nil {
		if pgCode(err) == pgerrcode.UniqueViolation {
			return 0, domain.ErrEmailExists
		}
		return 0, fmt.Errorf("update account %d: %w", id, err)
	}
	return rowsAffected(res, "update account")
}

func (r *accountRepository) UpdateCredential(ctx context.Context, id int64, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, updateAccountCredential, passwordHash, id)
	if err != nil {
		return 0, fmt.Errorf("update credential %d: %w", id, err)
	}
	return rowsAffected(res, "update credential")
}

func (r *accountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, accountEmailExists, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("email exists: %w", err)
	}
	return exists, nil
}
