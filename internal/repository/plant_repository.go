package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions

	"github.com/iliyamo/greenhouse/internal/model"
)

// ErrPlantNotFound is returned when a plant lookup fails.
var ErrPlantNotFound = errors.New("plant not found")

// PlantRepo provides access to plants and always hydrates their care
// steps, because nearly every read path (due overview, routine,
// detail view) needs the steps to derive due state.
type PlantRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewPlantRepo constructs a PlantRepo with the given DB handle.
func NewPlantRepo(db *sql.DB) *PlantRepo {
	return &PlantRepo{db: db}
}

const plantColumns = `id, owner_id, name, species, notes, room_id, window_id, zone_id, created_at, updated_at`

// Create inserts a new plant together with its initial care steps in a
// single transaction. Placement must already be validated by the caller.
func (r *PlantRepo) Create(ctx context.Context, p *model.Plant) error {
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

	const q = `INSERT INTO plants (owner_id, name, species, notes, room_id, window_id, zone_id)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.OwnerID, p.Name, p.Species, p.Notes, p.RoomID, p.WindowID, p.ZoneID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	if err := insertCareStepsTx(ctx, tx, p.ID, p.CareSteps); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	fresh, err := r.getByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *fresh
	return nil
}

func (r *PlantRepo) getByID(ctx context.Context, id uint64) (*model.Plant, error) {
	const q = `SELECT ` + plantColumns + ` FROM plants WHERE id = ?`
	var p model.Plant
	if err := scanPlant(r.db.QueryRowContext(ctx, q, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlantNotFound
		}
		return nil, err
	}
	steps, err := r.listSteps(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.CareSteps = steps
	return &p, nil
}

// GetByIDAndOwner retrieves a plant with its care steps, but only if it
// belongs to the given owner.
func (r *PlantRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Plant, error) {
	const q = `SELECT ` + plantColumns + ` FROM plants WHERE id = ? AND owner_id = ?`
	var p model.Plant
	if err := scanPlant(r.db.QueryRowContext(ctx, q, id, ownerID), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlantNotFound
		}
		return nil, err
	}
	steps, err := r.listSteps(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.CareSteps = steps
	return &p, nil
}

// ListByOwner returns all plants of the owner with care steps attached,
// ordered by name for stable listings.
func (r *PlantRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Plant, error) {
	const q = `SELECT ` + plantColumns + ` FROM plants WHERE owner_id = ? ORDER BY name, id`
	return r.queryPlants(ctx, q, ownerID)
}

// ListByRoom returns the owner's plants assigned to one room.
func (r *PlantRepo) ListByRoom(ctx context.Context, ownerID, roomID uint64) ([]model.Plant, error) {
	const q = `SELECT ` + plantColumns + ` FROM plants WHERE owner_id = ? AND room_id = ? ORDER BY name, id`
	return r.queryPlants(ctx, q, ownerID, roomID)
}

// ListByZone returns the owner's plants assigned to one zone.
func (r *PlantRepo) ListByZone(ctx context.Context, ownerID, zoneID uint64) ([]model.Plant, error) {
	const q = `SELECT ` + plantColumns + ` FROM plants WHERE owner_id = ? AND zone_id = ? ORDER BY name, id`
	return r.queryPlants(ctx, q, ownerID, zoneID)
}

// SearchByOwner filters the owner's plants by a case-insensitive match
// on name or species. An empty term behaves like ListByOwner.
func (r *PlantRepo) SearchByOwner(ctx context.Context, ownerID uint64, term string) ([]model.Plant, error) {
	if term == "" {
		return r.ListByOwner(ctx, ownerID)
	}
	const q = `SELECT ` + plantColumns + `
               FROM plants
               WHERE owner_id = ? AND (name LIKE ? OR species LIKE ?)
               ORDER BY name, id`
	like := "%" + term + "%"
	return r.queryPlants(ctx, q, ownerID, like, like)
}

func (r *PlantRepo) queryPlants(ctx context.Context, q string, args ...any) ([]model.Plant, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Plant
	for rows.Next() {
		var p model.Plant
		if err := scanPlant(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		steps, err := r.listSteps(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].CareSteps = steps
	}
	return out, nil
}

// UpdateByIDAndOwner persists the descriptive fields of a plant. Care
// steps and placement have dedicated endpoints and are not touched here.
func (r *PlantRepo) UpdateByIDAndOwner(ctx context.Context, p *model.Plant) error {
	const q = `UPDATE plants
               SET name = ?, species = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.Species, p.Notes, p.ID, p.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if err := r.classifyWriteMiss(ctx, p.ID, p.OwnerID); err != nil {
			return err
		}
	}
	fresh, err := r.getByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *fresh
	return nil
}

// UpdatePlacement writes the three placement columns atomically. The
// handler validates the room/window/zone combination up front, but the
// window's room is re-checked here so a concurrent window rebuild
// cannot leave a plant attached to a window of a different room. A
// mismatch or vanished window yields ErrConflict.
func (r *PlantRepo) UpdatePlacement(ctx context.Context, id, ownerID uint64, roomID, windowID, zoneID *uint64) error {
	if windowID != nil {
		var winRoom uint64
		if err := r.db.QueryRowContext(ctx, `SELECT room_id FROM windows WHERE id = ?`, *windowID).Scan(&winRoom); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrConflict
			}
			return err
		}
		if roomID == nil || *roomID != winRoom {
			return ErrConflict
		}
	}
	const q = `UPDATE plants
               SET room_id = ?, window_id = ?, zone_id = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, roomID, windowID, zoneID, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if err := r.classifyWriteMiss(ctx, id, ownerID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteByIDAndOwner removes a plant and its care steps.
func (r *PlantRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
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

	res, err := tx.ExecContext(ctx, `DELETE FROM plants WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if err := r.classifyWriteMiss(ctx, id, ownerID); err != nil {
			return err
		}
		return ErrPlantNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM care_steps WHERE plant_id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// classifyWriteMiss explains why a write matched no rows. A plant owned by
// another user yields ErrForbidden and a missing plant ErrPlantNotFound.
// A nil error means the row exists and the statement was a no-op.
func (r *PlantRepo) classifyWriteMiss(ctx context.Context, id, ownerID uint64) error {
	var owner uint64
	if err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM plants WHERE id = ?`, id).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlantNotFound
		}
		return err
	}
	if owner != ownerID {
		return ErrForbidden
	}
	return nil
}

func (r *PlantRepo) listSteps(ctx context.Context, plantID uint64) ([]model.CareStep, error) {
	const q = `SELECT id, plant_id, position, step_type, custom_name, instructions, frequency_days, last_completed_at, is_enabled, created_at, updated_at
               FROM care_steps
               WHERE plant_id = ?
               ORDER BY position, id`
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

func scanPlant(row rowScanner, p *model.Plant) error {
	// notes tolerates NULL for rows written before the column tightened
	// to NOT NULL.
	var notes sql.NullString
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &notes,
		&p.RoomID, &p.WindowID, &p.ZoneID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}
	p.Notes = notes.String
	return nil
}

func scanCareStep(row rowScanner, s *model.CareStep) error {
	var stepType string
	var customName, instructions sql.NullString
	var last sql.NullTime
	if err := row.Scan(&s.ID, &s.PlantID, &s.Position, &stepType, &customName,
		&instructions, &s.FrequencyDays, &last, &s.IsEnabled, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}
	s.Type = model.CareStepType(stepType)
	s.Instructions = instructions.String
	if customName.Valid {
		s.CustomName = customName.String
	}
	if last.Valid {
		t := last.Time
		s.LastCompletedAt = &t
	}
	return nil
}

// insertCareStepsTx bulk-inserts care steps preserving list order.
func insertCareStepsTx(ctx context.Context, tx *sql.Tx, plantID uint64, steps []model.CareStep) error {
	const q = `INSERT INTO care_steps (plant_id, position, step_type, custom_name, instructions, frequency_days, last_completed_at, is_enabled)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for i, s := range steps {
		var custom any
		if s.CustomName != "" {
			custom = s.CustomName
		}
		if _, err := tx.ExecContext(ctx, q, plantID, uint32(i), string(s.Type), custom,
			s.Instructions, s.FrequencyDays, s.LastCompletedAt, s.IsEnabled); err != nil {
			return err
		}
	}
	return nil
}
