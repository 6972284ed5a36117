package handler // handler defines http handlers

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Its-SakshamR/Bus-Reservation/internal/middleware"
    "github.com/Its-SakshamR/Bus-Reservation/internal/service"
)

// requestTimeout bounds the store work of one request.
const requestTimeout = 5 * time.Second

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// getUserID returns the authenticated user id stored by JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
    if uid, ok := middleware.UserID(c); ok {
        return uid, nil
    }
    return 0, errors.New("invalid user_id in context")
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id > 0
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// writeError maps a service error onto a status code.  Internal errors are
// returned to echo with the cause attached so the request logger records
// it; the client only sees a generic message.
func writeError(c echo.Context, err error) error {
    switch service.KindOf(err) {
    case service.KindNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case service.KindInvalid:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case service.KindConflict:
        body := echo.Map{"error": err.Error()}
        if errors.Is(err, service.ErrAlreadyReserved) {
            body["hint"] = "re-query available seats"
        }
        return c.JSON(http.StatusConflict, body)
    case service.KindForbidden:
        return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
    case service.KindUnauthorized, service.KindInvalidCredentials:
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
    case service.KindStoreUnavailable:
        c.Response().Header().Set("Retry-After", "1")
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store temporarily unavailable, retry"})
    default:
        return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
    }
}

// HTTPErrorHandler renders echo errors with the same {"error": ...} body the
// handlers use.
func HTTPErrorHandler(err error, c echo.Context) {
    if c.Response().Committed {
        return
    }
    code := http.StatusInternalServerError
    msg := "internal error"
    var he *echo.HTTPError
    if errors.As(err, &he) {
        code = he.Code
        if s, ok := he.Message.(string); ok {
            msg = s
        } else {
            msg = http.StatusText(code)
        }
    }
    if c.Request().Method == http.MethodHead {
        _ = c.NoContent(code)
        return
    }
    _ = c.JSON(code, echo.Map{"error": msg})
}
