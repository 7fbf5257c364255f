package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions
	"time"         // time is used for completion timestamps

	"github.com/iliyamo/greenhouse/internal/model"
)

// CareStepRepo manages the care steps of a plant. Ownership checks are
// done by joining through the plant, so a step ID belonging to another
// user's plant reads as "not found" rather than "forbidden".
type CareStepRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewCareStepRepo constructs a CareStepRepo with the given DB handle.
func NewCareStepRepo(db *sql.DB) *CareStepRepo {
	return &CareStepRepo{db: db}
}

const careStepColumns = `s.id, s.plant_id, s.position, s.step_type, s.custom_name, s.instructions, s.frequency_days, s.last_completed_at, s.is_enabled, s.created_at, s.updated_at`

// GetByIDAndOwner retrieves a step only when its plant belongs to the
// given owner.
func (r *CareStepRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.CareStep, error) {
	const q = `SELECT ` + careStepColumns + `
               FROM care_steps s
               JOIN plants p ON p.id = s.plant_id
               WHERE s.id = ? AND p.owner_id = ?`
	var s model.CareStep
	if err := scanCareStep(r.db.QueryRowContext(ctx, q, id, ownerID), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCareStepNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create appends a step to a plant, assigning the next free position.
func (r *CareStepRepo) Create(ctx context.Context, s *model.CareStep) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var next uint32
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM care_steps WHERE plant_id = ?`, s.PlantID).Scan(&next); err != nil {
		return err
	}
	s.Position = next

	var custom any
	if s.CustomName != "" {
		custom = s.CustomName
	}
	const q = `INSERT INTO care_steps (plant_id, position, step_type, custom_name, instructions, frequency_days, last_completed_at, is_enabled)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.PlantID, s.Position, string(s.Type), custom,
		s.Instructions, s.FrequencyDays, s.LastCompletedAt, s.IsEnabled)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return r.reload(ctx, s)
}

func (r *CareStepRepo) reload(ctx context.Context, s *model.CareStep) error {
	const q = `SELECT ` + careStepColumns + ` FROM care_steps s WHERE s.id = ?`
	return scanCareStep(r.db.QueryRowContext(ctx, q, s.ID), s)
}

// Update persists the editable fields of a step. Position and the
// completion baseline are managed by their own operations.
func (r *CareStepRepo) Update(ctx context.Context, s *model.CareStep) error {
	var custom any
	if s.CustomName != "" {
		custom = s.CustomName
	}
	const q = `UPDATE care_steps
               SET step_type = ?, custom_name = ?, instructions = ?, frequency_days = ?, is_enabled = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(s.Type), custom, s.Instructions, s.FrequencyDays, s.IsEnabled, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists uint64
		if err := r.db.QueryRowContext(ctx, `SELECT id FROM care_steps WHERE id = ?`, s.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrCareStepNotFound
			}
			return err
		}
	}
	return r.reload(ctx, s)
}

// Delete removes a step by ID.
func (r *CareStepRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM care_steps WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrCareStepNotFound
	}
	return nil
}

// ReplaceForPlant swaps a plant's entire care plan in one transaction.
// Existing rows are deleted and the new steps inserted in list order, so
// step IDs change and completion baselines only survive if the caller
// carried them over into the new steps.
func (r *CareStepRepo) ReplaceForPlant(ctx context.Context, plantID uint64, steps []model.CareStep) ([]model.CareStep, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM care_steps WHERE plant_id = ?`, plantID); err != nil {
		return nil, err
	}
	if err := insertCareStepsTx(ctx, tx, plantID, steps); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return r.ListByPlant(ctx, plantID)
}

// ListByPlant returns a plant's steps ordered by position.
func (r *CareStepRepo) ListByPlant(ctx context.Context, plantID uint64) ([]model.CareStep, error) {
	const q = `SELECT ` + careStepColumns + ` FROM care_steps s WHERE s.plant_id = ? ORDER BY s.position, s.id`
	rows, err := r.db.QueryContext(ctx, q, plantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CareStep
	for rows.Next() {
		var s model.CareStep
		if err := scanCareStep(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MarkCompleted records a completion timestamp on the step. Writing the
// same timestamp twice is a no-op at the data level, which makes the
// routine's toggle idempotent.
func (r *CareStepRepo) MarkCompleted(ctx context.Context, id uint64, at time.Time) error {
	const q = `UPDATE care_steps SET last_completed_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, at.UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists uint64
		if err := r.db.QueryRowContext(ctx, `SELECT id FROM care_steps WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrCareStepNotFound
			}
			return err
		}
	}
	return nil
}

// UnmarkCompleted clears the completion baseline back to NULL. This is a
// hard reset: any earlier completion date is gone, and the step reads as
// never completed (due immediately) afterwards.
func (r *CareStepRepo) UnmarkCompleted(ctx context.Context, id uint64) error {
	const q = `UPDATE care_steps SET last_completed_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists uint64
		if err := r.db.QueryRowContext(ctx, `SELECT id FROM care_steps WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrCareStepNotFound
			}
			return err
		}
	}
	return nil
}
