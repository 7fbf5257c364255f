package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions

	"github.com/iliyamo/greenhouse/internal/model"
)

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepo provides methods to create and retrieve rooms together with
// their windows. Windows are exclusively owned by their room: replacing
// a room's window list rebuilds the rows in bulk, the same way a hall's
// seat layout would be rebuilt.
type RoomRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// Create inserts a new room and its initial windows. The room must have
// OwnerID and Name set. After insert the ID and timestamp fields are
// populated by a follow-up SELECT.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
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

	const qInsert = `INSERT INTO rooms (owner_id, name, order_index) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert, room.OwnerID, room.Name, room.OrderIndex)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)

	if err := insertWindowsTx(ctx, tx, room.ID, room.Windows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	return r.reload(ctx, room)
}

// reload refreshes a room's scalar fields and windows from the database.
func (r *RoomRepo) reload(ctx context.Context, room *model.Room) error {
	const q = `SELECT id, owner_id, name, order_index, created_at, updated_at FROM rooms WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, q, room.ID).
		Scan(&room.ID, &room.OwnerID, &room.Name, &room.OrderIndex, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return err
	}
	ws, err := r.listWindows(ctx, []uint64{room.ID})
	if err != nil {
		return err
	}
	room.Windows = ws[room.ID]
	return nil
}

// GetByIDAndOwner retrieves a room with its windows, but only if it
// belongs to the given owner. Returns ErrRoomNotFound otherwise.
func (r *RoomRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Room, error) {
	const q = `SELECT id, owner_id, name, order_index, created_at, updated_at FROM rooms WHERE id = ? AND owner_id = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, id, ownerID).
		Scan(&room.ID, &room.OwnerID, &room.Name, &room.OrderIndex, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	ws, err := r.listWindows(ctx, []uint64{room.ID})
	if err != nil {
		return nil, err
	}
	room.Windows = ws[room.ID]
	return &room, nil
}

// ListByOwner returns all rooms of the owner ordered by order_index,
// windows included. Used for list display and routine traversal.
func (r *RoomRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Room, error) {
	const q = `SELECT id, owner_id, name, order_index, created_at, updated_at
               FROM rooms
               WHERE owner_id = ?
               ORDER BY order_index, id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Room
	var ids []uint64
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.OwnerID, &room.Name, &room.OrderIndex, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
		ids = append(ids, room.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	ws, err := r.listWindows(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Windows = ws[out[i].ID]
	}
	return out, nil
}

// UpdateByIDAndOwner updates name/order_index and, when rebuildWindows
// is true, replaces the whole window list. Returns ErrRoomNotFound when
// the room does not belong to the owner.
func (r *RoomRepo) UpdateByIDAndOwner(ctx context.Context, room *model.Room, rebuildWindows bool) error {
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

	const q = `UPDATE rooms
               SET name = ?, order_index = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND owner_id = ?`
	res, err := tx.ExecContext(ctx, q, room.Name, room.OrderIndex, room.ID, room.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "no such room" from "nothing changed".
		var exists uint64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ? AND owner_id = ?`, room.ID, room.OwnerID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}
			return err
		}
	}

	if rebuildWindows {
		// Window IDs change on rebuild; plants pointing at the old
		// windows lose their window assignment but stay in the room.
		if _, err := tx.ExecContext(ctx, `UPDATE plants SET window_id = NULL WHERE room_id = ?`, room.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM windows WHERE room_id = ?`, room.ID); err != nil {
			return err
		}
		if err := insertWindowsTx(ctx, tx, room.ID, room.Windows); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	return r.reload(ctx, room)
}

// DeleteByIDAndOwner removes a room and its windows. Referencing plants
// are not deleted or blocked: their placement columns are nulled in the
// same transaction so they simply become unassigned.
func (r *RoomRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
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

	res, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	if _, err := tx.ExecContext(ctx, `UPDATE plants SET room_id = NULL, window_id = NULL WHERE room_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM windows WHERE room_id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// insertWindowsTx bulk-inserts a room's windows preserving list order.
func insertWindowsTx(ctx context.Context, tx *sql.Tx, roomID uint64, windows []model.Window) error {
	const q = `INSERT INTO windows (room_id, direction, notes, position) VALUES (?, ?, ?, ?)`
	for i, w := range windows {
		if _, err := tx.ExecContext(ctx, q, roomID, string(w.Direction), w.Notes, uint32(i)); err != nil {
			return err
		}
	}
	return nil
}

// listWindows loads the windows of the given rooms keyed by room ID,
// ordered by position.
func (r *RoomRepo) listWindows(ctx context.Context, roomIDs []uint64) (map[uint64][]model.Window, error) {
	out := make(map[uint64][]model.Window, len(roomIDs))
	const q = `SELECT id, room_id, direction, notes, position FROM windows WHERE room_id = ? ORDER BY position, id`
	for _, id := range roomIDs {
		rows, err := r.db.QueryContext(ctx, q, id)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var w model.Window
			var dir string
			if err := rows.Scan(&w.ID, &w.RoomID, &dir, &w.Notes, &w.Position); err != nil {
				rows.Close()
				return nil, err
			}
			w.Direction = model.CompassDirection(dir)
			out[w.RoomID] = append(out[w.RoomID], w)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}
