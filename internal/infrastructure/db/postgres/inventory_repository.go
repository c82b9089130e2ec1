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

type inventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) ports.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Classifications(ctx context.Context) ([]domain.Classification, error) {
	rows, err := r.db.QueryContext(ctx, listClassifications)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Classification
	for rows.Next() {
		var c domain.Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *inventoryRepository) ClassificationByID(ctx context.Context, id int64) (*domain.Classification, error) {
	var c domain.Classification
	if err := r.db.QueryRowContext(ctx, findClassificationByID, id).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClassificationNotFound
		}
		return nil, fmt.Errorf("find classification: %w", err)
	}
	return &c, nil
}

func (r *inventoryRepository) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	c := domain.Classification{Name: name}
	if err := r.db.QueryRowContext(ctx, insertClassification, name).Scan(&c.ID); err != nil {
		if pgCode(err) == pgerrcode.UniqueViolation {
			return nil, domain.ErrClassificationExists
		}
		return nil, fmt.Errorf("insert classification: %w", err)
	}
	return &c, nil
}

func (r *inventoryRepository) AddVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	created := *v
	err := r.db.QueryRowContext(ctx, insertVehicle,
		v.Make, v.Model, v.Year, v.Description, v.Image,
		v.Thumbnail, v.Price, v.Miles, v.Color, v.ClassificationID,
	).Scan(&created.ID)
	if err != nil {
		if pgCode(err) == pgerrcode.ForeignKeyViolation {
			return nil, domain.ErrClassificationNotFound
		}
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	return &created, nil
}

func scanVehicle(row rowScanner) (domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.Description, &v.Image,
		&v.Thumbnail, &v.Price, &v.Miles, &v.Color, &v.ClassificationID, &v.ClassificationName)
	return v, err
}

func (r *inventoryRepository) VehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRowContext(ctx, findVehicleByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return &v, nil
}

func (r *inventoryRepository) VehiclesByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, listVehiclesByClassification, classificationID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var out []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *inventoryRepository) UpdateVehicle(ctx context.Context, v *domain.Vehicle) (int64, error) {
	res, err := r.db.ExecContext(ctx, updateVehicle,
		v.Make, v.Model, v.Year, v.Description, v.Image,
		v.Thumbnail, v.Price, v.Miles, v.Color, v.ClassificationID, v.ID,
	)
	if err != nil {
		if pgCode(err) == pgerrcode.ForeignKeyViolation {
			return 0, domain.ErrClassificationNotFound
		}
		return 0, fmt.Errorf("update vehicle %d: %w", v.ID, err)
	}
	return rowsAffected(res, "update vehicle")
}

// DeleteVehicle removes the vehicle's comments and the vehicle in one
// transaction.
func (r *inventoryRepository) DeleteVehicle(ctx context.Context, id int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("delete vehicle %d: begin: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteVehicleComments, id); err != nil {
		return 0, fmt.Errorf("delete comments of vehicle %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, deleteVehicle, id)
	if err != nil {
		return 0, fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	n, err := rowsAffected(res, "delete vehicle")
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete vehicle %d: commit: %w", id, err)
	}
	return n, nil
}
