package service

import (
	"context"
	"database/sql"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Its-SakshamR/Bus-Reservation/internal/model"
	"github.com/Its-SakshamR/Bus-Reservation/internal/repository"
)

// MaxSeatsPerBus bounds CreateBus.
const MaxSeatsPerBus = 200

// Column widths of routes.name, routes.source/destination and
// buses.bus_number.
const (
	maxNameLen  = 32
	maxPlaceLen = 128
)

// CatalogService exposes routes and buses.  Listing is public; creation is
// reserved for operators by the HTTP layer.
type CatalogService struct {
	db     *sql.DB
	routes *repository.RouteRepo
	buses  *repository.BusRepo
	seats  *repository.SeatRepo
	log    *zap.Logger
}

func NewCatalogService(db *sql.DB, routes *repository.RouteRepo, buses *repository.BusRepo,
	seats *repository.SeatRepo, log *zap.Logger) *CatalogService {
	return &CatalogService{db: db, routes: routes, buses: buses, seats: seats, log: log.Named("catalog")}
}

// ListRoutes returns all routes ordered by name.
func (s *CatalogService) ListRoutes(ctx context.Context) ([]model.Route, error) {
	routes, err := s.routes.ListAll(ctx)
	return routes, storeErr(err)
}

// ListBuses returns the buses running on routeName with their free seat
// counts.
func (s *CatalogService) ListBuses(ctx context.Context, routeName string) ([]repository.BusSummary, error) {
	rt, err := s.routes.GetByName(ctx, strings.TrimSpace(routeName))
	if err != nil {
		return nil, storeErr(err)
	}
	list, err := s.buses.ListByRoute(ctx, rt.ID)
	return list, storeErr(err)
}

// CreateRoute adds a route.  Names are unique.
func (s *CatalogService) CreateRoute(ctx context.Context, name, source, destination string, distanceKM uint32) (*model.Route, error) {
	rt := &model.Route{
		Name:        strings.TrimSpace(name),
		Source:      strings.TrimSpace(source),
		Destination: strings.TrimSpace(destination),
		DistanceKM:  distanceKM,
	}
	if !fits(rt.Name, maxNameLen) || !fits(rt.Source, maxPlaceLen) || !fits(rt.Destination, maxPlaceLen) || distanceKM == 0 {
		return nil, ErrInvalidInput
	}
	if err := s.routes.Create(ctx, rt); err != nil {
		return nil, storeErr(err)
	}
	s.log.Info("route created", zap.Uint64("route_id", rt.ID), zap.String("name", rt.Name))
	return rt, nil
}

// CreateBus adds a bus to routeName together with seats 1..totalSeats, all
// free, in one transaction.
func (s *CatalogService) CreateBus(ctx context.Context, busNumber, routeName string, totalSeats uint32) (*model.Bus, error) {
	busNumber = strings.TrimSpace(busNumber)
	if !fits(busNumber, maxNameLen) || totalSeats == 0 || totalSeats > MaxSeatsPerBus {
		return nil, ErrInvalidInput
	}
	bus := &model.Bus{BusNumber: busNumber, TotalSeats: totalSeats}
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		rt, err := s.routes.GetByNameTx(ctx, tx, strings.TrimSpace(routeName))
		if err != nil {
			return err
		}
		bus.RouteID = rt.ID
		if err := s.buses.CreateTx(ctx, tx, bus); err != nil {
			return err
		}
		return s.seats.CreateForBusTx(ctx, tx, bus.ID, totalSeats)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("bus created", zap.Uint64("bus_id", bus.ID), zap.String("bus_number", bus.BusNumber),
		zap.Uint32("total_seats", totalSeats))
	return bus, nil
}

// fits reports whether s is non-empty and at most n characters.
func fits(s string, n int) bool {
	return s != "" && utf8.RuneCountInString(s) <= n
}
