package model

import "time"

// Ticket links a User, a Bus and a seat number and represents one
// reservation.  Tickets are never deleted: cancellation stamps
// tickets.cancelled_at, after which the ticket no longer holds its seat.
// Loaded tickets are always active ones.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owner of the ticket.
//  BusID      – bus the seat belongs to.
//  SeatID     – seats.id of the held seat.
//  SeatNumber – seat number on the bus.
//  CreatedAt  – booking time; orders a user's tickets.
type Ticket struct {
    ID         uint64    // tickets.id
    UserID     uint64    // tickets.user_id
    BusID      uint64    // tickets.bus_id
    SeatID     uint64    // tickets.seat_id
    SeatNumber uint32    // tickets.seat_number
    CreatedAt  time.Time // tickets.created_at
}
