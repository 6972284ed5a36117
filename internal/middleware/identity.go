package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserID returns the authenticated user's id stored by JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
    uid, ok := c.Get(CtxUserID).(uint64)
    return uid, ok && uid != 0
}

// currentUserID renders the caller for use in rate limit keys; requests
// without a token are "anon".
func currentUserID(c echo.Context) string {
    if uid, ok := UserID(c); ok {
        return strconv.FormatUint(uid, 10)
    }
    return "anon"
}
