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

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) ports.CommentRepository {
	return &commentRepository{db: db}
}

// Insert maps a foreign_key_violation (vanished vehicle) to
// domain.ErrVehicleNotFound.
func (r *commentRepository) Insert(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	created := *comment
	err := r.db.QueryRowContext(ctx, insertComment, comment.AccountID, comment.InventoryID, comment.Text).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if pgCode(err) == pgerrcode.ForeignKeyViolation {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &created, nil
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.QueryRowContext(ctx, findCommentByID, id).
		Scan(&c.ID, &c.AccountID, &c.InventoryID, &c.Text, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) Update(ctx context.Context, id, accountID int64, text string) (int64, error) {
	res, err := r.db.ExecContext(ctx, updateComment, text, id, accountID)
	if err != nil {
		return 0, fmt.Errorf("update comment %d: %w", id, err)
	}
	return rowsAffected(res, "update comment")
}

func (r *commentRepository) Delete(ctx context.Context, id, accountID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteComment, id, accountID)
	if err != nil {
		return 0, fmt.Errorf("delete comment %d: %w", id, err)
	}
	return rowsAffected(res, "delete comment")
}

func (r *commentRepository) ListByInventory(ctx context.Context, inventoryID int64) ([]domain.Comment, error) {
	return r.list(ctx, listCommentsByInventory, inventoryID)
}

func (r *commentRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Comment, error) {
	return r.list(ctx, listCommentsByAccount, accountID)
}

func (r *commentRepository) ListRecent(ctx context.Context, limit int) ([]domain.Comment, error) {
	return r.list(ctx, listRecentComments, limit)
}

func (r *commentRepository) list(ctx context.Context, query string, arg any) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.AccountID, &c.InventoryID, &c.Text, &c.CreatedAt, &c.AuthorName, &c.VehicleName); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return out, nil
}
