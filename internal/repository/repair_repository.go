// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Repair model and repository methods for CRUD and
// paginated listing.  A Repair represents a vehicle brought into the shop
// together with the reported problem and its work status.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
)

// Repair work statuses as stored in the repairs.status column.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Repair represents a repair order persisted in the database.  Image holds
// the public path of an uploaded photo and is nil when none was provided.
type Repair struct {
	ID      uint64  `json:"id"`
	Brand   string  `json:"brand"`
	Model   string  `json:"model"`
	Year    int     `json:"year"`
	Problem string  `json:"problem"`
	Status  string  `json:"status"`
	Price   float64 `json:"price"`
	Image   *string `json:"image"`
}

// ErrRepairNotFound is returned when a repair cannot be found in the DB.
var ErrRepairNotFound = errors.New("repair not found")

// RepairRepo encapsulates all database queries related to repairs.  It
// depends on a sql.DB connection which should be configured elsewhere.
type RepairRepo struct {
	db *sql.DB
}

// NewRepairRepo constructs a RepairRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.
func NewRepairRepo(db *sql.DB) *RepairRepo {
	return &RepairRepo{db: db}
}

// List returns one page of repairs together with the total row count.  The
// caller provides an already-clamped limit and offset; ordering by id keeps
// pages stable between requests.
func (r *RepairRepo) List(ctx context.Context, limit, offset int) ([]Repair, int, error) {
	const q = `SELECT id, brand, model, year, problem, status, price, image
	           FROM repairs ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Repair{}
	for rows.Next() {
		var rec Repair
		if err := rows.Scan(&rec.ID, &rec.Brand, &rec.Model, &rec.Year,
			&rec.Problem, &rec.Status, &rec.Price, &rec.Image); err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM repairs").Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID fetches a repair by its ID.  It returns ErrRepairNotFound if no
// row is found.
func (r *RepairRepo) GetByID(ctx context.Context, id uint64) (*Repair, error) {
	const q = "SELECT id, brand, model, year, problem, status, price, image FROM repairs WHERE id = ?"
	var rec Repair
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&rec.ID, &rec.Brand, &rec.Model,
		&rec.Year, &rec.Problem, &rec.Status, &rec.Price, &rec.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRepairNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Create inserts a new repair.  On success the record's ID field is
// populated with the auto-generated value.
func (r *RepairRepo) Create(ctx context.Context, rec *Repair) error {
	const q = `INSERT INTO repairs (brand, model, year, problem, status, price, image)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		rec.Brand, rec.Model, rec.Year, rec.Problem, rec.Status, rec.Price, rec.Image)
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

// Update overwrites every column of the identified repair.  Callers decide
// the image semantics: passing the previously stored path keeps it.
func (r *RepairRepo) Update(ctx context.Context, rec *Repair) error {
	const q = `UPDATE repairs SET brand = ?, model = ?, year = ?, problem = ?,
	           status = ?, price = ?, image = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		rec.Brand, rec.Model, rec.Year, rec.Problem, rec.Status, rec.Price, rec.Image, rec.ID)
	return err
}

// Delete removes a repair unconditionally.  Deleting an id that does not
// exist is a no-op, not an error.
func (r *RepairRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM repairs WHERE id = ?", id)
	return err
}
