package model

// Seat is a bookable unit on a bus, unique by (BusID, SeatNumber).
// IsReserved is true exactly when one active Ticket references the seat;
// only the reservation engine flips it.
type Seat struct {
    ID         uint64 `json:"id"`          // seats.id
    BusID      uint64 `json:"bus_id"`      // seats.bus_id
    SeatNumber uint32 `json:"seat_number"` // seats.seat_number (1-based)
    IsReserved bool   `json:"is_reserved"` // seats.is_reserved
}
