package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Its-SakshamR/Bus-Reservation/internal/model"
)

// BusRepo provides access to the buses table.
type BusRepo struct {
	db *sql.DB
}

func NewBusRepo(db *sql.DB) *BusRepo { return &BusRepo{db: db} }

// BusSummary is a bus joined with its route and a live free seat count.
// It backs the per-route bus listing.
type BusSummary struct {
	ID          uint64 `json:"id"`
	BusNumber   string `json:"bus_number"`
	RouteName   string `json:"route"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	DistanceKM  uint32 `json:"distance_km"`
	TotalSeats  uint32 `json:"total_seats"`
	FreeSeats   uint32 `json:"free_seats"`
}

// CreateTx inserts a bus inside tx and fills in its ID.  The caller is
// expected to create the bus's seats in the same transaction.
func (r *BusRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Bus) error {
	const q = `INSERT INTO buses (bus_number, route_id, total_seats) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.BusNumber, b.RouteID, b.TotalSeats)
	if err != nil {
		switch {
		case isDuplicate(err):
			return ErrBusExists
		case isForeignKey(err):
			return ErrRouteNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID returns the bus with the given id or ErrBusNotFound.
func (r *BusRepo) GetByID(ctx context.Context, id uint64) (*model.Bus, error) {
	return getBus(ctx, r.db, id)
}

// GetByIDTx is GetByID inside tx.  It is a consistent read and takes no
// lock on the bus row, so bookings on one bus never serialize on it.
func (r *BusRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Bus, error) {
	return getBus(ctx, tx, id)
}

func getBus(ctx context.Context, q querier, id uint64) (*model.Bus, error) {
	const sel = `SELECT id, route_id, bus_number, total_seats FROM buses WHERE id = ?`
	var b model.Bus
	if err := q.QueryRowContext(ctx, sel, id).Scan(&b.ID, &b.RouteID, &b.BusNumber, &b.TotalSeats); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByRoute returns the buses on a route ordered by bus number, each with
// the number of seats currently free.
func (r *BusRepo) ListByRoute(ctx context.Context, routeID uint64) ([]BusSummary, error) {
	const q = `SELECT b.id, b.bus_number, r.name, r.source, r.destination, r.distance_km, b.total_seats,
	                  COALESCE(SUM(CASE WHEN s.is_reserved = FALSE THEN 1 ELSE 0 END), 0)
	           FROM buses b
	           JOIN routes r ON r.id = b.route_id
	           LEFT JOIN seats s ON s.bus_id = b.id
	           WHERE b.route_id = ?
	           GROUP BY b.id, b.bus_number, r.name, r.source, r.destination, r.distance_km, b.total_seats
	           ORDER BY b.bus_number`
	rows, err := r.db.QueryContext(ctx, q, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BusSummary, 0)
	for rows.Next() {
		var s BusSummary
		if err := rows.Scan(&s.ID, &s.BusNumber, &s.RouteName, &s.Source, &s.Destination,
			&s.DistanceKM, &s.TotalSeats, &s.FreeSeats); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
