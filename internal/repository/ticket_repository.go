package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Its-SakshamR/Bus-Reservation/internal/model"
)

// TicketRepo is the ticket ledger.  Rows are only ever inserted or marked
// cancelled; nothing is deleted, so the table doubles as booking history.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// TicketDetail is an active ticket joined with its bus and route for
// display to the passenger.
type TicketDetail struct {
	TicketID    uint64    `json:"ticket_id"`
	BusID       uint64    `json:"bus_id"`
	BusNumber   string    `json:"bus_number"`
	RouteName   string    `json:"route"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	SeatNumber  uint32    `json:"seat_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// AppendTx inserts an active ticket inside tx and returns it with its
// generated id and timestamp.  A second active ticket for the same
// (bus, seat number) is rejected by the store with ErrActiveTicketExists.
func (r *TicketRepo) AppendTx(ctx context.Context, tx *sql.Tx, userID, busID, seatID uint64, seatNumber uint32) (*model.Ticket, error) {
	const q = `INSERT INTO tickets (user_id, bus_id, seat_id, seat_number, active) VALUES (?, ?, ?, ?, 1)`
	res, err := tx.ExecContext(ctx, q, userID, busID, seatID, seatNumber)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrActiveTicketExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	t := &model.Ticket{
		ID:         uint64(id),
		UserID:     userID,
		BusID:      busID,
		SeatID:     seatID,
		SeatNumber: seatNumber,
	}
	// Query back the defaulted timestamp
	if err := tx.QueryRowContext(ctx, `SELECT created_at FROM tickets WHERE id = ?`, t.ID).Scan(&t.CreatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

// GetActiveForUpdateTx loads an active ticket and locks its row until tx
// ends.  Unknown and cancelled tickets both yield ErrTicketNotFound.  Only
// the tickets row is locked.
func (r *TicketRepo) GetActiveForUpdateTx(ctx context.Context, tx *sql.Tx, ticketID uint64) (*model.Ticket, error) {
	const q = `SELECT id, user_id, bus_id, seat_id, seat_number, created_at
	           FROM tickets
	           WHERE id = ? AND cancelled_at IS NULL
	           FOR UPDATE`
	var t model.Ticket
	err := tx.QueryRowContext(ctx, q, ticketID).Scan(&t.ID, &t.UserID, &t.BusID, &t.SeatID, &t.SeatNumber, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// CancelTx marks an active ticket cancelled.  Clearing active takes the
// row out of the one-live-ticket-per-seat index.
func (r *TicketRepo) CancelTx(ctx context.Context, tx *sql.Tx, ticketID uint64) error {
	const q = `UPDATE tickets SET cancelled_at = UTC_TIMESTAMP(6), active = NULL
	           WHERE id = ? AND cancelled_at IS NULL`
	res, err := tx.ExecContext(ctx, q, ticketID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// ListActiveByUser returns the user's active tickets oldest first.  The
// order is stable so a client can refer to tickets by position.
func (r *TicketRepo) ListActiveByUser(ctx context.Context, userID uint64) ([]TicketDetail, error) {
	const q = `SELECT t.id, t.bus_id, b.bus_number, r.name, r.source, r.destination, t.seat_number, t.created_at
	           FROM tickets t
	           JOIN buses b ON b.id = t.bus_id
	           JOIN routes r ON r.id = b.route_id
	           WHERE t.user_id = ? AND t.cancelled_at IS NULL
	           ORDER BY t.created_at, t.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]TicketDetail, 0)
	for rows.Next() {
		var d TicketDetail
		if err := rows.Scan(&d.TicketID, &d.BusID, &d.BusNumber, &d.RouteName, &d.Source,
			&d.Destination, &d.SeatNumber, &d.CreatedAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
