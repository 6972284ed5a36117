package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap/zaptest"

	"github.com/Its-SakshamR/Bus-Reservation/internal/repository"
)

func newCatalog(t *testing.T) (*CatalogService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCatalogService(db, repository.NewRouteRepo(db), repository.NewBusRepo(db),
		repository.NewSeatRepo(db), zaptest.NewLogger(t)), mock
}

var (
	qRouteByName = regexp.QuoteMeta("SELECT id, name, source, destination, distance_km FROM routes WHERE name = ?")
	qInsertBus   = regexp.QuoteMeta("INSERT INTO buses (bus_number, route_id, total_seats) VALUES (?, ?, ?)")
	qInsertSeats = regexp.QuoteMeta("INSERT INTO seats (bus_id, seat_number) VALUES (?, ?),(?, ?),(?, ?)")
)

func routeRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "source", "destination", "distance_km"}).
		AddRow(4, "R1", "Mumbai", "Pune", 150)
}

func TestCreateBusInsertsSeatsInSameTx(t *testing.T) {
	c, mock := newCatalog(t)
	mock.ExpectBegin()
	mock.ExpectQuery(qRouteByName).WithArgs("R1").WillReturnRows(routeRow())
	mock.ExpectExec(qInsertBus).WithArgs("B7", uint64(4), uint32(3)).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(qInsertSeats).
		WithArgs(uint64(11), uint32(1), uint64(11), uint32(2), uint64(11), uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	bus, err := c.CreateBus(context.Background(), " B7 ", "R1", 3)
	if err != nil {
		t.Fatalf("CreateBus: %v", err)
	}
	if bus.ID != 11 || bus.RouteID != 4 || bus.BusNumber != "B7" {
		t.Fatalf("unexpected bus: %+v", bus)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBusSeatFailureRollsBackBus(t *testing.T) {
	c, mock := newCatalog(t)
	mock.ExpectBegin()
	mock.ExpectQuery(qRouteByName).WillReturnRows(routeRow())
	mock.ExpectExec(qInsertBus).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(qInsertSeats).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if _, err := c.CreateBus(context.Background(), "B7", "R1", 3); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBusErrors(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		c, _ := newCatalog(t)
		for _, n := range []uint32{0, MaxSeatsPerBus + 1} {
			if _, err := c.CreateBus(context.Background(), "B7", "R1", n); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("seats %d: err = %v", n, err)
			}
		}
	})
	t.Run("unknown route", func(t *testing.T) {
		c, mock := newCatalog(t)
		mock.ExpectBegin()
		mock.ExpectQuery(qRouteByName).WithArgs("R9").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "source", "destination", "distance_km"}))
		mock.ExpectRollback()
		if _, err := c.CreateBus(context.Background(), "B7", "R9", 3); !errors.Is(err, ErrRouteNotFound) {
			t.Fatalf("err = %v, want ErrRouteNotFound", err)
		}
	})
	t.Run("duplicate number", func(t *testing.T) {
		c, mock := newCatalog(t)
		mock.ExpectBegin()
		mock.ExpectQuery(qRouteByName).WillReturnRows(routeRow())
		mock.ExpectExec(qInsertBus).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
		mock.ExpectRollback()
		if _, err := c.CreateBus(context.Background(), "B7", "R1", 3); !errors.Is(err, ErrDuplicateBus) {
			t.Fatalf("err = %v, want ErrDuplicateBus", err)
		}
	})
}

func TestCreateRouteValidates(t *testing.T) {
	c, mock := newCatalog(t)
	if _, err := c.CreateRoute(context.Background(), "R1", "Mumbai", " ", 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO routes")).
		WithArgs("R1", "Mumbai", "Pune", uint32(150)).
		WillReturnResult(sqlmock.NewResult(4, 1))
	rt, err := c.CreateRoute(context.Background(), "R1", "Mumbai", "Pune", 150)
	if err != nil || rt.ID != 4 {
		t.Fatalf("CreateRoute = %+v, %v", rt, err)
	}
}

func TestCatalogRejectsOverlongNames(t *testing.T) {
	c, mock := newCatalog(t)
	ctx := context.Background()
	long := strings.Repeat("x", 33)
	place := strings.Repeat("é", 129)

	if _, err := c.CreateRoute(ctx, long, "Mumbai", "Pune", 150); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("long route name: err = %v", err)
	}
	if _, err := c.CreateRoute(ctx, "R1", place, "Pune", 150); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("long source: err = %v", err)
	}
	if _, err := c.CreateRoute(ctx, "R1", "Mumbai", place, 150); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("long destination: err = %v", err)
	}
	if _, err := c.CreateBus(ctx, long, "R1", 3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("long bus number: err = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statement expected: %v", err)
	}

	// Multi-byte names count characters, not bytes.
	name := strings.Repeat("é", 32)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO routes")).
		WithArgs(name, "Mumbai", "Pune", uint32(150)).
		WillReturnResult(sqlmock.NewResult(5, 1))
	if _, err := c.CreateRoute(ctx, name, "Mumbai", "Pune", 150); err != nil {
		t.Fatalf("32 character name rejected: %v", err)
	}
}

func TestListBusesUnknownRoute(t *testing.T) {
	c, mock := newCatalog(t)
	mock.ExpectQuery(qRouteByName).WithArgs("R9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "source", "destination", "distance_km"}))
	if _, err := c.ListBuses(context.Background(), "R9"); !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("err = %v, want ErrRouteNotFound", err)
	}
}

func TestAvailableSeatsUnknownBus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	q := NewQueryFacade(repository.NewBusRepo(db), repository.NewSeatRepo(db), repository.NewTicketRepo(db))
	mock.ExpectQuery(qBus).WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "bus_number", "total_seats"}))
	if _, err := q.AvailableSeats(context.Background(), 3); !errors.Is(err, ErrBusNotFound) {
		t.Fatalf("err = %v, want ErrBusNotFound", err)
	}

	mock.ExpectQuery(qBus).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "bus_number", "total_seats"}).AddRow(1, 1, "B1", 4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT seat_number FROM seats WHERE bus_id = ? AND is_reserved = FALSE")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow(3).AddRow(4))
	free, err := q.AvailableSeats(context.Background(), 1)
	if err != nil || len(free) != 2 || free[0] != 3 || free[1] != 4 {
		t.Fatalf("AvailableSeats = %v, %v", free, err)
	}
}
