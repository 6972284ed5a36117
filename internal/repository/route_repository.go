package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Its-SakshamR/Bus-Reservation/internal/model"
)

// RouteRepo provides access to the routes table.
type RouteRepo struct {
	db *sql.DB
}

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

// Create inserts a route and fills in its ID.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	const q = `INSERT INTO routes (name, source, destination, distance_km) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rt.Name, rt.Source, rt.Destination, rt.DistanceKM)
	if err != nil {
		if isDuplicate(err) {
			return ErrRouteExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// ListAll returns every route ordered by name.
func (r *RouteRepo) ListAll(ctx context.Context) ([]model.Route, error) {
	const q = `SELECT id, name, source, destination, distance_km FROM routes ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Route, 0)
	for rows.Next() {
		var rt model.Route
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.Source, &rt.Destination, &rt.DistanceKM); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByName looks a route up by its unique name.
func (r *RouteRepo) GetByName(ctx context.Context, name string) (*model.Route, error) {
	return getRouteByName(ctx, r.db, name)
}

// GetByNameTx is GetByName inside tx.
func (r *RouteRepo) GetByNameTx(ctx context.Context, tx *sql.Tx, name string) (*model.Route, error) {
	return getRouteByName(ctx, tx, name)
}

func getRouteByName(ctx context.Context, q querier, name string) (*model.Route, error) {
	const sel = `SELECT id, name, source, destination, distance_km FROM routes WHERE name = ?`
	var rt model.Route
	err := q.QueryRowContext(ctx, sel, name).Scan(&rt.ID, &rt.Name, &rt.Source, &rt.Destination, &rt.DistanceKM)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return &rt, nil
}
