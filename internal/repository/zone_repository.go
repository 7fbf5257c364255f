package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions

	"github.com/iliyamo/greenhouse/internal/model"
)

// ErrZoneNotFound is returned when a zone lookup fails.
var ErrZoneNotFound = errors.New("zone not found")

// ZoneRepo provides CRUD operations over outdoor zones.
type ZoneRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewZoneRepo constructs a ZoneRepo with the given DB handle.
func NewZoneRepo(db *sql.DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

// Create inserts a new zone and populates its ID and timestamps.
func (r *ZoneRepo) Create(ctx context.Context, z *model.Zone) error {
	const q = `INSERT INTO zones (owner_id, name, aspect, sun_period, sun_hours, wind_exposure, order_index)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		z.OwnerID, z.Name, string(z.Aspect), string(z.SunPeriod), z.SunHours, string(z.WindExposure), z.OrderIndex)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	z.ID = uint64(id)
	return r.reload(ctx, z)
}

func (r *ZoneRepo) reload(ctx context.Context, z *model.Zone) error {
	const q = `SELECT id, owner_id, name, aspect, sun_period, sun_hours, wind_exposure, order_index, created_at, updated_at
               FROM zones WHERE id = ?`
	return scanZone(r.db.QueryRowContext(ctx, q, z.ID), z)
}

// GetByIDAndOwner retrieves a zone only if it belongs to the owner.
func (r *ZoneRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Zone, error) {
	const q = `SELECT id, owner_id, name, aspect, sun_period, sun_hours, wind_exposure, order_index, created_at, updated_at
               FROM zones WHERE id = ? AND owner_id = ?`
	var z model.Zone
	if err := scanZone(r.db.QueryRowContext(ctx, q, id, ownerID), &z); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	return &z, nil
}

// ListByOwner returns all zones of the owner ordered by order_index.
func (r *ZoneRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Zone, error) {
	const q = `SELECT id, owner_id, name, aspect, sun_period, sun_hours, wind_exposure, order_index, created_at, updated_at
               FROM zones
               WHERE owner_id = ?
               ORDER BY order_index, id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Zone
	for rows.Next() {
		var z model.Zone
		if err := scanZone(rows, &z); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

// UpdateByIDAndOwner persists all mutable zone fields. Returns
// ErrZoneNotFound when the zone does not belong to the owner.
func (r *ZoneRepo) UpdateByIDAndOwner(ctx context.Context, z *model.Zone) error {
	const q = `UPDATE zones
               SET name = ?, aspect = ?, sun_period = ?, sun_hours = ?, wind_exposure = ?, order_index = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		z.Name, string(z.Aspect), string(z.SunPeriod), z.SunHours, string(z.WindExposure), z.OrderIndex,
		z.ID, z.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists uint64
		if err := r.db.QueryRowContext(ctx, `SELECT id FROM zones WHERE id = ? AND owner_id = ?`, z.ID, z.OwnerID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrZoneNotFound
			}
			return err
		}
	}
	return r.reload(ctx, z)
}

// DeleteByIDAndOwner removes a zone. Plants placed in the zone are kept
// and become unassigned in the same transaction.
func (r *ZoneRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
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

	res, err := tx.ExecContext(ctx, `DELETE FROM zones WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrZoneNotFound
	}
	if _, err := tx.ExecContext(ctx, `UPDATE plants SET zone_id = NULL WHERE zone_id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// rowScanner matches both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanZone(row rowScanner, z *model.Zone) error {
	var aspect, period, wind string
	if err := row.Scan(&z.ID, &z.OwnerID, &z.Name, &aspect, &period, &z.SunHours, &wind, &z.OrderIndex, &z.CreatedAt, &z.UpdatedAt); err != nil {
		return err
	}
	z.Aspect = model.CompassDirection(aspect)
	z.SunPeriod = model.SunPeriod(period)
	z.WindExposure = model.WindExposure(wind)
	return nil
}
