// Package repository implements the MySQL data access layer.  Each
// repository owns a *sql.DB for plain reads and exposes ...Tx methods that
// run inside a caller supplied transaction, so the service layer decides
// the transaction boundaries.
//
// The sentinel values below let higher layers such as services and
// handlers distinguish failure scenarios with errors.Is.  Driver errors
// that carry no domain meaning are returned unchanged.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")

	ErrRouteNotFound = errors.New("route not found")
	ErrRouteExists   = errors.New("route already exists")

	ErrBusNotFound = errors.New("bus not found")
	ErrBusExists   = errors.New("bus already exists")

	// ErrSeatNotFound is returned when (bus, seat number) or a seat id
	// matches no row.
	ErrSeatNotFound = errors.New("seat not found")
	// ErrSeatAlreadyReserved is returned by TryReserveTx when the seat
	// exists but another ticket holds it.
	ErrSeatAlreadyReserved = errors.New("seat already reserved")

	// ErrTicketNotFound covers both unknown and already cancelled tickets.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrActiveTicketExists is raised by the uq_tickets_active_seat index
	// when a second live ticket for the same seat is inserted.
	ErrActiveTicketExists = errors.New("active ticket already exists for seat")

	// ErrTokenInvalid is returned for unknown, revoked or expired refresh
	// tokens.
	ErrTokenInvalid = errors.New("refresh token invalid")
)

// MySQL server error numbers the repositories and services react to.
const (
	erDupEntry        = 1062
	erNoReferencedRow = 1452
	erLockWaitTimeout = 1205
	erLockDeadlock    = 1213
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func mysqlErrNo(err error) (uint16, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number, true
	}
	return 0, false
}

// isDuplicate reports a unique key violation.
func isDuplicate(err error) bool {
	n, ok := mysqlErrNo(err)
	return ok && n == erDupEntry
}

// isForeignKey reports an insert referencing a missing parent row.
func isForeignKey(err error) bool {
	n, ok := mysqlErrNo(err)
	return ok && n == erNoReferencedRow
}

// IsUnavailable reports whether err is a transient store failure: a
// deadlock victim, a lock wait timeout, a broken connection or an expired
// context.  The transaction that saw it has been (or must be) rolled back
// and the operation can be retried by the caller.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if n, ok := mysqlErrNo(err); ok {
		return n == erLockDeadlock || n == erLockWaitTimeout
	}
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
