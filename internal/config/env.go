package config

import (
    "log"
    "os"
    "strconv"
    "strings"
    "time"
)

// Optional variables fall back to their default when unset or unparsable;
// a malformed value is reported so a typo does not go unnoticed.

func envStr(key, def string) string {
    if v := strings.TrimSpace(os.Getenv(key)); v != "" {
        return v
    }
    return def
}

func envBool(key string, def bool) bool {
    v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
    switch v {
    case "":
        return def
    case "yes", "on":
        return true
    case "no", "off":
        return false
    }
    b, err := strconv.ParseBool(v)
    if err != nil {
        log.Printf("config: %s=%q is not a boolean, using %t", key, v, def)
        return def
    }
    return b
}

func envInt(key string, def int) int {
    v := strings.TrimSpace(os.Getenv(key))
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Printf("config: %s=%q is not an integer, using %d", key, v, def)
        return def
    }
    return n
}

func envDur(key string, def time.Duration) time.Duration {
    v := strings.TrimSpace(os.Getenv(key))
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        log.Printf("config: %s=%q is not a duration, using %s", key, v, def)
        return def
    }
    return d
}
