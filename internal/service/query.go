package service

import (
	"context"

	"github.com/Its-SakshamR/Bus-Reservation/internal/model"
	"github.com/Its-SakshamR/Bus-Reservation/internal/repository"
)

// QueryFacade answers read-only questions about seats and tickets.  All
// reads go straight to the store and availability is never cached.
type QueryFacade struct {
	buses   *repository.BusRepo
	seats   *repository.SeatRepo
	tickets *repository.TicketRepo
}

func NewQueryFacade(buses *repository.BusRepo, seats *repository.SeatRepo, tickets *repository.TicketRepo) *QueryFacade {
	return &QueryFacade{buses: buses, seats: seats, tickets: tickets}
}

// AvailableSeats returns the free seat numbers of busID in ascending order.
func (q *QueryFacade) AvailableSeats(ctx context.Context, busID uint64) ([]uint32, error) {
	if _, err := q.buses.GetByID(ctx, busID); err != nil {
		return nil, storeErr(err)
	}
	free, err := q.seats.FreeSeatNumbers(ctx, busID)
	return free, storeErr(err)
}

// SeatMap returns every seat of busID with its reservation status.
func (q *QueryFacade) SeatMap(ctx context.Context, busID uint64) ([]model.Seat, error) {
	if _, err := q.buses.GetByID(ctx, busID); err != nil {
		return nil, storeErr(err)
	}
	seats, err := q.seats.SeatsForBus(ctx, busID)
	return seats, storeErr(err)
}

// MyTickets returns userID's active tickets, oldest first.
func (q *QueryFacade) MyTickets(ctx context.Context, userID uint64) ([]repository.TicketDetail, error) {
	list, err := q.tickets.ListActiveByUser(ctx, userID)
	return list, storeErr(err)
}
