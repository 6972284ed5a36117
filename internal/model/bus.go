package model

// Bus runs on exactly one Route and has a fixed number of seats numbered
// 1..TotalSeats without gaps.
type Bus struct {
    ID         uint64 `json:"id"`          // buses.id
    BusNumber  string `json:"bus_number"`  // buses.bus_number
    RouteID    uint64 `json:"route_id"`    // buses.route_id
    TotalSeats uint32 `json:"total_seats"` // buses.total_seats
}

// HasSeat reports whether n is a valid seat number on the bus.
func (b Bus) HasSeat(n uint32) bool {
    return n >= 1 && n <= b.TotalSeats
}
