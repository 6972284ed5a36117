package model

// Route is a named path between a source and a destination.  Routes are
// static reference data; bookings never mutate them.
type Route struct {
    ID          uint64 `json:"id"`          // routes.id
    Name        string `json:"name"`        // routes.name, e.g. R001
    Source      string `json:"source"`      // routes.source
    Destination string `json:"destination"` // routes.destination
    DistanceKM  uint32 `json:"distance_km"` // routes.distance_km
}
