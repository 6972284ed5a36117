// Package service holds the booking logic that sits between the HTTP
// handlers and the repositories.  Every mutating operation runs in exactly
// one database transaction; nothing about seat state is kept in memory.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Its-SakshamR/Bus-Reservation/internal/model"
	"github.com/Its-SakshamR/Bus-Reservation/internal/queue"
	"github.com/Its-SakshamR/Bus-Reservation/internal/repository"
)

const publishTimeout = 2 * time.Second

// EventPublisher receives ticket events after commit.  Publish should
// return promptly; *queue.Publisher only enqueues.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.TicketEvent) error
}

// ReservationEngine books and cancels seats.  Book and Cancel are safe for
// any number of concurrent callers: exclusivity is enforced by the store
// (a conditional update on the seat row plus a unique index on active
// tickets), never by Go-side locking.
type ReservationEngine struct {
	db      *sql.DB
	buses   *repository.BusRepo
	users   *repository.UserRepo
	seats   *repository.SeatRepo
	tickets *repository.TicketRepo
	events  EventPublisher
	log     *zap.Logger
	now     func() time.Time
}

// NewReservationEngine wires the engine.  events may be nil, in which case
// no events are published.
func NewReservationEngine(db *sql.DB, buses *repository.BusRepo, users *repository.UserRepo,
	seats *repository.SeatRepo, tickets *repository.TicketRepo, events EventPublisher, log *zap.Logger) *ReservationEngine {
	return &ReservationEngine{
		db:      db,
		buses:   buses,
		users:   users,
		seats:   seats,
		tickets: tickets,
		events:  events,
		log:     log.Named("reservation"),
		now:     time.Now,
	}
}

// Book reserves seatNumber on busID for userID and returns the new ticket.
//
// Errors: ErrBusNotFound, ErrInvalidSeat, ErrUserNotFound, ErrSeatNotFound,
// ErrAlreadyReserved (someone else holds the seat; the caller should
// re-query availability), ErrStoreUnavailable.  On any error nothing was
// written.
func (e *ReservationEngine) Book(ctx context.Context, userID, busID uint64, seatNumber uint32) (*model.Ticket, error) {
	var ticket *model.Ticket
	err := runInTx(ctx, e.db, func(tx *sql.Tx) error {
		bus, err := e.buses.GetByIDTx(ctx, tx, busID)
		if err != nil {
			return err
		}
		if !bus.HasSeat(seatNumber) {
			return ErrInvalidSeat
		}
		if err := e.users.ExistsTx(ctx, tx, userID); err != nil {
			return err
		}
		seatID, err := e.seats.TryReserveTx(ctx, tx, busID, seatNumber)
		if err != nil {
			return err
		}
		ticket, err = e.tickets.AppendTx(ctx, tx, userID, busID, seatID, seatNumber)
		if errors.Is(err, repository.ErrActiveTicketExists) {
			// The seat flag said free but a live ticket exists.
			e.log.Warn("active ticket index rejected booking",
				zap.Uint64("bus_id", busID), zap.Uint32("seat", seatNumber), zap.Uint64("seat_id", seatID))
			return ErrAlreadyReserved
		}
		return err
	})
	if err != nil {
		e.logFailure("book", err, zap.Uint64("user_id", userID), zap.Uint64("bus_id", busID), zap.Uint32("seat", seatNumber))
		return nil, err
	}

	e.log.Info("ticket booked",
		zap.Uint64("ticket_id", ticket.ID), zap.Uint64("user_id", userID),
		zap.Uint64("bus_id", busID), zap.Uint32("seat", seatNumber))
	e.publish(ctx, queue.NewTicketEvent(queue.TicketBooked, ticket, e.now()))
	return ticket, nil
}

// Cancel cancels ticketID on behalf of userID and frees its seat.
//
// Errors: ErrTicketNotFound (unknown or already cancelled), ErrNotOwner,
// ErrStoreUnavailable.  On any error the ticket and seat are unchanged.
func (e *ReservationEngine) Cancel(ctx context.Context, userID, ticketID uint64) error {
	var ticket *model.Ticket
	err := runInTx(ctx, e.db, func(tx *sql.Tx) error {
		t, err := e.tickets.GetActiveForUpdateTx(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if t.UserID != userID {
			return ErrNotOwner
		}
		if err := e.tickets.CancelTx(ctx, tx, t.ID); err != nil {
			return err
		}
		if err := e.seats.ReleaseTx(ctx, tx, t.SeatID); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		e.logFailure("cancel", err, zap.Uint64("user_id", userID), zap.Uint64("ticket_id", ticketID))
		return err
	}

	e.log.Info("ticket cancelled",
		zap.Uint64("ticket_id", ticket.ID), zap.Uint64("user_id", userID),
		zap.Uint64("bus_id", ticket.BusID), zap.Uint32("seat", ticket.SeatNumber))
	e.publish(ctx, queue.NewTicketEvent(queue.TicketCancelled, ticket, e.now()))
	return nil
}

// publish is best effort: the booking has already committed, so a broker
// failure is logged and otherwise ignored.
func (e *ReservationEngine) publish(ctx context.Context, ev queue.TicketEvent) {
	if e.events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := e.events.Publish(pctx, ev); err != nil {
		e.log.Warn("publish ticket event failed",
			zap.String("type", ev.Type), zap.Uint64("ticket_id", ev.TicketID), zap.Error(err))
	}
}

func (e *ReservationEngine) logFailure(op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("op", op), zap.Stringer("kind", KindOf(err)), zap.Error(err))
	switch KindOf(err) {
	case KindInternal:
		e.log.Error("reservation failed", fields...)
	case KindStoreUnavailable:
		e.log.Warn("reservation failed", fields...)
	default:
		e.log.Debug("reservation rejected", fields...)
	}
}
