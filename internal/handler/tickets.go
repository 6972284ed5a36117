package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Its-SakshamR/Bus-Reservation/internal/service"
)

// TicketHandler books, lists and cancels the caller's tickets.  The user
// is always the one from the access token.
type TicketHandler struct {
    Engine *service.ReservationEngine
    Query  *service.QueryFacade
}

func NewTicketHandler(engine *service.ReservationEngine, query *service.QueryFacade) *TicketHandler {
    return &TicketHandler{Engine: engine, Query: query}
}

type bookReq struct {
    BusID      uint64 `json:"bus_id"`
    SeatNumber uint32 `json:"seat_number"`
}

type ticketResp struct {
    TicketID   uint64    `json:"ticket_id"`
    BusID      uint64    `json:"bus_id"`
    SeatNumber uint32    `json:"seat_number"`
    CreatedAt  time.Time `json:"created_at"`
}

// Book handles POST /v1/tickets.  A seat held by someone else yields 409
// with a hint to re-query availability; the engine never picks another
// seat on the caller's behalf.
func (h *TicketHandler) Book(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req bookReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    if req.BusID == 0 || req.SeatNumber == 0 {
        return badRequest(c, "bus_id and seat_number required")
    }

    ctx, cancel := requestCtx(c)
    defer cancel()

    t, err := h.Engine.Book(ctx, uid, req.BusID, req.SeatNumber)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, ticketResp{
        TicketID:   t.ID,
        BusID:      t.BusID,
        SeatNumber: t.SeatNumber,
        CreatedAt:  t.CreatedAt,
    })
}

// MyTickets handles GET /v1/my-tickets, oldest first.
func (h *TicketHandler) MyTickets(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := requestCtx(c)
    defer cancel()
    list, err := h.Query.MyTickets(ctx, uid)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"tickets": list})
}

// Cancel handles DELETE /v1/tickets/:id.
func (h *TicketHandler) Cancel(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ticketID, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid ticket id")
    }
    ctx, cancel := requestCtx(c)
    defer cancel()
    if err := h.Engine.Cancel(ctx, uid, ticketID); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
