// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/Its-SakshamR/Bus-Reservation/internal/model"
)

// Queue names.  Each event type is routed through the default exchange to
// a durable queue of the same name.
const (
    TicketBooked    = "ticket.booked"
    TicketCancelled = "ticket.cancelled"
)

// TicketEvent is published after a booking or cancellation commits.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type TicketEvent struct {
    EventID    string `json:"event_id"`
    Type       string `json:"type"`
    TicketID   uint64 `json:"ticket_id"`
    UserID     uint64 `json:"user_id"`
    BusID      uint64 `json:"bus_id"`
    SeatID     uint64 `json:"seat_id,omitempty"`
    SeatNumber uint32 `json:"seat_number"`
    OccurredAt string `json:"occurred_at"`
}

// NewTicketEvent builds an event of the given type for t with a fresh id.
func NewTicketEvent(typ string, t *model.Ticket, at time.Time) TicketEvent {
    return TicketEvent{
        EventID:    uuid.NewString(),
        Type:       typ,
        TicketID:   t.ID,
        UserID:     t.UserID,
        BusID:      t.BusID,
        SeatID:     t.SeatID,
        SeatNumber: t.SeatNumber,
        OccurredAt: at.UTC().Format(time.RFC3339),
    }
}
