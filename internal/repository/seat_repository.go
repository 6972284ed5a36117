package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"
	"strings"

	"github.com/Its-SakshamR/Bus-Reservation/internal/model"
)

// SeatRepo is the seat inventory: one row per (bus, seat number) with its
// reservation flag.  Only the reservation engine mutates is_reserved, via
// TryReserveTx and ReleaseTx.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CreateForBusTx inserts seats 1..total for busID in a single statement.
func (r *SeatRepo) CreateForBusTx(ctx context.Context, tx *sql.Tx, busID uint64, total uint32) error {
	if total == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(`INSERT INTO seats (bus_id, seat_number) VALUES `)
	args := make([]interface{}, 0, total*2)
	for n := uint32(1); n <= total; n++ {
		if n > 1 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?)")
		args = append(args, busID, n)
	}
	_, err := tx.ExecContext(ctx, b.String(), args...)
	return err
}

// SeatsForBus returns every seat of a bus ordered by seat number.  It is a
// plain consistent read and never waits on bookings in flight.
func (r *SeatRepo) SeatsForBus(ctx context.Context, busID uint64) ([]model.Seat, error) {
	const q = `SELECT id, bus_id, seat_number, is_reserved
	           FROM seats
	           WHERE bus_id = ?
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.BusID, &s.SeatNumber, &s.IsReserved); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FreeSeatNumbers returns the numbers of unreserved seats in ascending order.
func (r *SeatRepo) FreeSeatNumbers(ctx context.Context, busID uint64) ([]uint32, error) {
	const q = `SELECT seat_number FROM seats WHERE bus_id = ? AND is_reserved = FALSE ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]uint32, 0)
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// TryReserveTx flips the seat to reserved if and only if it is currently
// free, in one conditional statement, and returns the seat id.  Of several
// transactions racing for the same seat exactly one sees an affected row;
// the others block on the row lock, re-evaluate the predicate against the
// committed row and match nothing.
//
// id = LAST_INSERT_ID(id) is a no-op assignment that makes the driver
// report the matched row's id through LastInsertId.
func (r *SeatRepo) TryReserveTx(ctx context.Context, tx *sql.Tx, busID uint64, seatNumber uint32) (uint64, error) {
	const q = `UPDATE seats SET is_reserved = TRUE, id = LAST_INSERT_ID(id)
	           WHERE bus_id = ? AND seat_number = ? AND is_reserved = FALSE`
	res, err := tx.ExecContext(ctx, q, busID, seatNumber)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		return uint64(id), nil
	}
	// Nothing matched: the seat is missing or taken.  Only existence is
	// read here; is_reserved from this snapshot could be stale.
	var id uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM seats WHERE bus_id = ? AND seat_number = ?`, busID, seatNumber).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSeatNotFound
	}
	if err != nil {
		return 0, err
	}
	return 0, ErrSeatAlreadyReserved
}

// ReleaseTx marks the seat free.  Releasing a seat that is already free
// succeeds; an unknown seat id yields ErrSeatNotFound.
func (r *SeatRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, seatID uint64) error {
	res, err := tx.ExecContext(ctx, `UPDATE seats SET is_reserved = FALSE WHERE id = ?`, seatID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var id uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM seats WHERE id = ?`, seatID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSeatNotFound
	}
	return err
}
