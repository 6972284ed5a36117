package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/Its-SakshamR/Bus-Reservation/internal/config"
    "github.com/Its-SakshamR/Bus-Reservation/internal/utils"
)

const testSecret = "test-secret"

func newProtected(mw ...echo.MiddlewareFunc) *echo.Echo {
    e := echo.New()
    e.GET("/p", func(c echo.Context) error {
        uid, ok := UserID(c)
        if !ok {
            return c.NoContent(http.StatusTeapot)
        }
        return c.JSON(http.StatusOK, echo.Map{"uid": uid, "role": c.Get(CtxRole)})
    }, mw...)
    return e
}

func do(e *echo.Echo, auth string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodGet, "/p", nil)
    if auth != "" {
        req.Header.Set("Authorization", auth)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestJWTAuth(t *testing.T) {
    e := newProtected(JWTAuth(testSecret))
    tok, err := utils.NewAccessToken(testSecret, 17, "PASSENGER", 5)
    if err != nil {
        t.Fatalf("NewAccessToken: %v", err)
    }
    other, _ := utils.NewAccessToken("other", 17, "PASSENGER", 5)

    cases := []struct {
        name string
        auth string
        want int
    }{
        {"missing", "", http.StatusUnauthorized},
        {"not bearer", "Basic abc", http.StatusUnauthorized},
        {"wrong key", "Bearer " + other.Token, http.StatusUnauthorized},
        {"valid", "Bearer " + tok.Token, http.StatusOK},
    }
    for _, c := range cases {
        if rec := do(e, c.auth); rec.Code != c.want {
            t.Errorf("%s: status = %d, want %d (%s)", c.name, rec.Code, c.want, rec.Body.String())
        }
    }
    rec := do(e, "Bearer "+tok.Token)
    if body := rec.Body.String(); body != "{\"role\":\"PASSENGER\",\"uid\":17}\n" {
        t.Fatalf("unexpected body %q", body)
    }
}

func TestRequireRole(t *testing.T) {
    e := newProtected(JWTAuth(testSecret), RequireRole("OPERATOR"))
    passenger, _ := utils.NewAccessToken(testSecret, 1, "PASSENGER", 5)
    operator, _ := utils.NewAccessToken(testSecret, 2, "OPERATOR", 5)

    if rec := do(e, "Bearer "+passenger.Token); rec.Code != http.StatusForbidden {
        t.Fatalf("passenger: status = %d, want 403", rec.Code)
    }
    if rec := do(e, "Bearer "+operator.Token); rec.Code != http.StatusOK {
        t.Fatalf("operator: status = %d, want 200", rec.Code)
    }
}

func TestLimiterAndCachePassThroughWithoutRedis(t *testing.T) {
    rl := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, nil)
    cache := NewRedisCache(config.CacheConfig{Enabled: true}, nil, nil)
    e := newProtected(JWTAuth(testSecret), rl, cache)
    tok, _ := utils.NewAccessToken(testSecret, 3, "PASSENGER", 5)
    for i := 0; i < 3; i++ {
        if rec := do(e, "Bearer "+tok.Token); rec.Code != http.StatusOK {
            t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
        }
    }
    if err := NewCachePurger(config.CacheConfig{Prefix: "x"}, nil).Purge(context.Background()); err != nil {
        t.Fatalf("Purge without redis: %v", err)
    }
}

func TestCacheKeyDistinguishesPathParams(t *testing.T) {
    cfg := config.CacheConfig{Prefix: "bus:cache", KeyStrategy: "route_query"}
    e := echo.New()
    key := func(path string) string {
        c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder())
        c.SetPath("/v1/routes/:name/buses")
        return cacheKeyFrom(cfg, c)
    }
    if key("/v1/routes/R001/buses") == key("/v1/routes/R002/buses") {
        t.Fatal("different routes must not share a cache key")
    }
    if key("/v1/routes/R001/buses") != key("/v1/routes/R001/buses") {
        t.Fatal("cache key must be stable")
    }
}

func TestBuildRateKey(t *testing.T) {
    e := echo.New()
    c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/tickets", nil), httptest.NewRecorder())
    c.SetPath("/v1/tickets")
    c.Set(CtxUserID, uint64(9))
    got := buildRateKey(config.RateLimitConfig{Prefix: "bus:rl", KeyStrategy: "user_route"}, c)
    if got != "bus:rl:user:9:route:POST /v1/tickets" {
        t.Fatalf("key = %q", got)
    }
}
