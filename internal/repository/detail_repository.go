package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Detail represents a spare part offered by the shop.  Image holds the
// public path of an uploaded photo and is nil when none was provided.
type Detail struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	IsAvailable bool    `json:"is_available"`
	Weight      float64 `json:"weight"`
	Image       *string `json:"image"`
}

// ErrDetailNotFound is returned when a detail cannot be found in the DB.
var ErrDetailNotFound = errors.New("detail not found")

// DetailRepo encapsulates all database queries related to spare parts.
type DetailRepo struct {
	db *sql.DB
}

func NewDetailRepo(db *sql.DB) *DetailRepo {
	return &DetailRepo{db: db}
}

// List returns one page of details together with the total row count.
func (r *DetailRepo) List(ctx context.Context, limit, offset int) ([]Detail, int, error) {
	const q = `SELECT id, name, description, price, quantity, is_available, weight, image
	           FROM details ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Detail{}
	for rows.Next() {
		var rec Detail
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.Price,
			&rec.Quantity, &rec.IsAvailable, &rec.Weight, &rec.Image); err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM details").Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID fetches a detail by its ID.  It returns ErrDetailNotFound if no
// row is found.
func (r *DetailRepo) GetByID(ctx context.Context, id uint64) (*Detail, error) {
	const q = "SELECT id, name, description, price, quantity, is_available, weight, image FROM details WHERE id = ?"
	var rec Detail
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&rec.ID, &rec.Name, &rec.Description,
		&rec.Price, &rec.Quantity, &rec.IsAvailable, &rec.Weight, &rec.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDetailNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Create inserts a new detail and populates its ID on success.
func (r *DetailRepo) Create(ctx context.Context, rec *Detail) error {
	const q = `INSERT INTO details (name, description, price, quantity, is_available, weight, image)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		rec.Name, rec.Description, rec.Price, rec.Quantity, rec.IsAvailable, rec.Weight, rec.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// Update overwrites every column of the identified detail.
func (r *DetailRepo) Update(ctx context.Context, rec *Detail) error {
	const q = `UPDATE details SET name = ?, description = ?, price = ?, quantity = ?,
	           is_available = ?, weight = ?, image = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		rec.Name, rec.Description, rec.Price, rec.Quantity, rec.IsAvailable, rec.Weight, rec.Image, rec.ID)
	return err
}

// Delete removes a detail unconditionally; unknown ids are a no-op.
func (r *DetailRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM details WHERE id = ?", id)
	return err
}
