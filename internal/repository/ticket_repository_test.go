package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestAppendTx(t *testing.T) {
	db, mock := newMock(t)
	tx := beginTx(t, db, mock)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO tickets \(user_id, bus_id, seat_id, seat_number, active\) VALUES \(\?, \?, \?, \?, 1\)`).
		WithArgs(uint64(9), uint64(1), uint64(42), uint32(2)).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectQuery(`SELECT created_at FROM tickets WHERE id = \?`).
		WithArgs(uint64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	tk, err := NewTicketRepo(db).AppendTx(context.Background(), tx, 9, 1, 42, 2)
	if err != nil {
		t.Fatalf("AppendTx: %v", err)
	}
	if tk.ID != 100 || tk.SeatID != 42 || tk.SeatNumber != 2 || !tk.CreatedAt.Equal(created) {
		t.Fatalf("unexpected ticket: %+v", tk)
	}
}

func TestAppendTxDuplicateActive(t *testing.T) {
	db, mock := newMock(t)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(`INSERT INTO tickets`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-2-1' for key 'uq_tickets_active_seat'"})

	_, err := NewTicketRepo(db).AppendTx(context.Background(), tx, 9, 1, 42, 2)
	if !errors.Is(err, ErrActiveTicketExists) {
		t.Fatalf("err = %v, want ErrActiveTicketExists", err)
	}
}

func TestGetActiveForUpdateTxLocksOnlyTicket(t *testing.T) {
	db, mock := newMock(t)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(`SELECT id, user_id, bus_id, seat_id, seat_number, created_at\s+FROM tickets\s+WHERE id = \? AND cancelled_at IS NULL\s+FOR UPDATE`).
		WithArgs(uint64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "bus_id", "seat_id", "seat_number", "created_at"}).
			AddRow(100, 9, 1, 42, 2, time.Now()))

	tk, err := NewTicketRepo(db).GetActiveForUpdateTx(context.Background(), tx, 100)
	if err != nil {
		t.Fatalf("GetActiveForUpdateTx: %v", err)
	}
	if tk.UserID != 9 || tk.SeatID != 42 {
		t.Fatalf("unexpected ticket: %+v", tk)
	}
}

func TestGetActiveForUpdateTxNotFound(t *testing.T) {
	db, mock := newMock(t)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(`FROM tickets`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "bus_id", "seat_id", "seat_number", "created_at"}))

	if _, err := NewTicketRepo(db).GetActiveForUpdateTx(context.Background(), tx, 5); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("err = %v, want ErrTicketNotFound", err)
	}
}

func TestCancelTxAlreadyCancelled(t *testing.T) {
	db, mock := newMock(t)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(`UPDATE tickets SET cancelled_at = UTC_TIMESTAMP\(6\), active = NULL`).
		WithArgs(uint64(100)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := NewTicketRepo(db).CancelTx(context.Background(), tx, 100); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("err = %v, want ErrTicketNotFound", err)
	}
}

func TestListActiveByUser(t *testing.T) {
	db, mock := newMock(t)
	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	mock.ExpectQuery(`WHERE t.user_id = \? AND t.cancelled_at IS NULL\s+ORDER BY t.created_at, t.id`).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "bus_id", "bus_number", "name", "source", "destination", "seat_number", "created_at"}).
			AddRow(1, 1, "B1", "R001", "Mumbai", "Pune", 1, t1).
			AddRow(2, 1, "B1", "R001", "Mumbai", "Pune", 2, t2))

	got, err := NewTicketRepo(db).ListActiveByUser(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListActiveByUser: %v", err)
	}
	if len(got) != 2 || got[0].SeatNumber != 1 || got[1].SeatNumber != 2 || got[0].BusNumber != "B1" {
		t.Fatalf("unexpected tickets: %+v", got)
	}
}
