package utils

import (
    "strings"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
    at, err := NewAccessToken("s3cret", 42, "OPERATOR", 15)
    if err != nil {
        t.Fatalf("NewAccessToken: %v", err)
    }
    if d := time.Until(at.Exp); d < 14*time.Minute || d > 15*time.Minute {
        t.Fatalf("unexpected expiry %v", at.Exp)
    }
    claims, err := ParseAccessToken("s3cret", at.Token)
    if err != nil {
        t.Fatalf("ParseAccessToken: %v", err)
    }
    uid, _ := claims.UserID()
    if uid != 42 || claims.Role != "OPERATOR" {
        t.Fatalf("unexpected claims: %+v", claims)
    }
}

func TestParseAccessTokenRejects(t *testing.T) {
    good, _ := NewAccessToken("s3cret", 1, "PASSENGER", 5)
    expired, _ := NewAccessToken("s3cret", 1, "PASSENGER", -5)

    noneTok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
        RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
    })
    none, _ := noneTok.SignedString(jwt.UnsafeAllowNoneSignatureType)

    badSub := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
        RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
    })
    badSubRaw, _ := badSub.SignedString([]byte("s3cret"))

    cases := map[string]struct{ secret, raw string }{
        "wrong secret": {"other", good.Token},
        "expired":      {"s3cret", expired.Token},
        "alg none":     {"s3cret", none},
        "bad subject":  {"s3cret", badSubRaw},
        "garbage":      {"s3cret", "not.a.jwt"},
    }
    for name, c := range cases {
        if _, err := ParseAccessToken(c.secret, c.raw); err != ErrInvalidToken {
            t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
        }
    }
}

func TestRefreshTokenHash(t *testing.T) {
    rt, err := NewRefreshToken(7)
    if err != nil {
        t.Fatalf("NewRefreshToken: %v", err)
    }
    if len(rt.Raw) != 96 {
        t.Fatalf("raw length = %d, want 96", len(rt.Raw))
    }
    h := HashRefreshRaw(rt.Raw)
    if len(h) != 64 || h != HashRefreshRaw(rt.Raw) || strings.Contains(h, rt.Raw) {
        t.Fatalf("unexpected hash %q", h)
    }
}
