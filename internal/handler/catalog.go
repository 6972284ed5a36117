package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/Its-SakshamR/Bus-Reservation/internal/service"
)

// Purger drops cached catalog responses.  *middleware.CachePurger
// satisfies it.
type Purger interface {
    Purge(ctx context.Context) error
}

// CatalogHandler serves routes, buses and seat maps.
type CatalogHandler struct {
    Catalog *service.CatalogService
    Query   *service.QueryFacade
    Cache   Purger // may be nil
    Log     *zap.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, query *service.QueryFacade, cache Purger, log *zap.Logger) *CatalogHandler {
    return &CatalogHandler{Catalog: catalog, Query: query, Cache: cache, Log: log}
}

// ListRoutes handles GET /v1/routes.
func (h *CatalogHandler) ListRoutes(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()
    routes, err := h.Catalog.ListRoutes(ctx)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"routes": routes})
}

// ListBuses handles GET /v1/routes/:name/buses.  Each bus carries its
// current free seat count.
func (h *CatalogHandler) ListBuses(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()
    buses, err := h.Catalog.ListBuses(ctx, c.Param("name"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"route": c.Param("name"), "buses": buses})
}

// SeatMap handles GET /v1/buses/:id/seats.
func (h *CatalogHandler) SeatMap(c echo.Context) error {
    busID, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid bus id")
    }
    ctx, cancel := requestCtx(c)
    defer cancel()
    seats, err := h.Query.SeatMap(ctx, busID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"bus_id": busID, "seats": seats})
}

// AvailableSeats handles GET /v1/buses/:id/seats/available.
func (h *CatalogHandler) AvailableSeats(c echo.Context) error {
    busID, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid bus id")
    }
    ctx, cancel := requestCtx(c)
    defer cancel()
    free, err := h.Query.AvailableSeats(ctx, busID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"bus_id": busID, "available": free})
}

type createRouteReq struct {
    Name        string `json:"name"`
    Source      string `json:"source"`
    Destination string `json:"destination"`
    DistanceKM  uint32 `json:"distance_km"`
}

// CreateRoute handles POST /v1/operator/routes.
func (h *CatalogHandler) CreateRoute(c echo.Context) error {
    var req createRouteReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    ctx, cancel := requestCtx(c)
    defer cancel()
    rt, err := h.Catalog.CreateRoute(ctx, req.Name, req.Source, req.Destination, req.DistanceKM)
    if err != nil {
        return writeError(c, err)
    }
    h.purge(ctx)
    return c.JSON(http.StatusCreated, rt)
}

type createBusReq struct {
    BusNumber  string `json:"bus_number"`
    Route      string `json:"route"`
    TotalSeats uint32 `json:"total_seats"`
}

// CreateBus handles POST /v1/operator/buses.  Seats 1..total_seats are
// created with the bus.
func (h *CatalogHandler) CreateBus(c echo.Context) error {
    var req createBusReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    ctx, cancel := requestCtx(c)
    defer cancel()
    bus, err := h.Catalog.CreateBus(ctx, req.BusNumber, req.Route, req.TotalSeats)
    if err != nil {
        return writeError(c, err)
    }
    h.purge(ctx)
    return c.JSON(http.StatusCreated, bus)
}

func (h *CatalogHandler) purge(ctx context.Context) {
    if h.Cache == nil {
        return
    }
    if err := h.Cache.Purge(ctx); err != nil {
        h.Log.Warn("catalog cache purge failed", zap.Error(err))
    }
}
