package service

import (
	"errors"

	"github.com/Its-SakshamR/Bus-Reservation/internal/repository"
)

// Domain errors returned by the services.  Repository sentinels that already
// carry the right meaning are re-exported so callers need only this package.
var (
	ErrAlreadyReserved   = repository.ErrSeatAlreadyReserved
	ErrSeatNotFound      = repository.ErrSeatNotFound
	ErrBusNotFound       = repository.ErrBusNotFound
	ErrUserNotFound      = repository.ErrUserNotFound
	ErrTicketNotFound    = repository.ErrTicketNotFound
	ErrRouteNotFound     = repository.ErrRouteNotFound
	ErrDuplicateUsername = repository.ErrUsernameExists
	ErrDuplicateRoute    = repository.ErrRouteExists
	ErrDuplicateBus      = repository.ErrBusExists
	ErrTokenInvalid      = repository.ErrTokenInvalid

	ErrInvalidSeat        = errors.New("seat number out of range for bus")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotOwner           = errors.New("ticket belongs to another user")

	// ErrOperatorSignupClosed rejects public sign-up as OPERATOR.
	ErrOperatorSignupClosed = errors.New("operator accounts are created by operators")

	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrStoreUnavailable wraps deadlocks, lock wait timeouts, lost
	// connections and expired deadlines.  The transaction was rolled back
	// and the call may be retried.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Kind groups errors by how a caller should react to them.
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
	KindInvalidCredentials
	KindInvalid
	KindStoreUnavailable
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindInvalid:
		return "invalid"
	case KindStoreUnavailable:
		return "store_unavailable"
	default:
		return "internal"
	}
}

// KindOf classifies err.  Unrecognised errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	case errors.Is(err, ErrSeatNotFound), errors.Is(err, ErrBusNotFound),
		errors.Is(err, ErrUserNotFound), errors.Is(err, ErrTicketNotFound),
		errors.Is(err, ErrRouteNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyReserved), errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrDuplicateRoute), errors.Is(err, ErrDuplicateBus):
		return KindConflict
	case errors.Is(err, ErrNotOwner), errors.Is(err, ErrOperatorSignupClosed):
		return KindForbidden
	case errors.Is(err, ErrTokenInvalid):
		return KindUnauthorized
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrInvalidSeat), errors.Is(err, ErrInvalidInput):
		return KindInvalid
	default:
		return KindInternal
	}
}
