package queue

import (
    "context"
    "errors"
    "net"
    "strings"
    "sync"
    "testing"
    "time"

    "go.uber.org/zap"
)

// silentBroker accepts TCP connections and never speaks AMQP.
func silentBroker(t *testing.T) string {
    t.Helper()
    ln, err := net.Listen("tcp", "127.0.0.1:0")
    if err != nil {
        t.Fatalf("listen: %v", err)
    }
    var (
        mu    sync.Mutex
        conns []net.Conn
    )
    go func() {
        for {
            c, err := ln.Accept()
            if err != nil {
                return
            }
            mu.Lock()
            conns = append(conns, c)
            mu.Unlock()
        }
    }()
    t.Cleanup(func() {
        _ = ln.Close()
        mu.Lock()
        defer mu.Unlock()
        for _, c := range conns {
            _ = c.Close()
        }
    })
    return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestPublishDoesNotWaitOnUnresponsiveBroker(t *testing.T) {
    p := NewPublisher(silentBroker(t), zap.NewNop())
    p.closeWait = 100 * time.Millisecond

    const callers = 4
    var wg sync.WaitGroup
    took := make([]time.Duration, callers)
    errs := make([]error, callers)
    for i := 0; i < callers; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
            defer cancel()
            start := time.Now()
            errs[i] = p.Publish(ctx, TicketEvent{EventID: "e", Type: TicketBooked, TicketID: uint64(i + 1)})
            took[i] = time.Since(start)
        }(i)
    }
    wg.Wait()
    for i := range took {
        if errs[i] != nil {
            t.Fatalf("caller %d: %v", i, errs[i])
        }
        if took[i] > 500*time.Millisecond {
            t.Fatalf("caller %d waited %s on the broker", i, took[i])
        }
    }

    start := time.Now()
    if err := p.Close(); err != nil {
        t.Fatalf("Close: %v", err)
    }
    if d := time.Since(start); d > 2*time.Second {
        t.Fatalf("Close took %s with a hung dial", d)
    }
    if err := p.Publish(context.Background(), TicketEvent{Type: TicketBooked}); !errors.Is(err, ErrPublisherClosed) {
        t.Fatalf("publish after close: %v", err)
    }
}

func TestPublishBufferFull(t *testing.T) {
    // No delivery goroutine: the buffer only fills.
    p := newPublisher("amqp://unused/", zap.NewNop(), 1)
    ctx := context.Background()
    if err := p.Publish(ctx, TicketEvent{Type: TicketBooked}); err != nil {
        t.Fatalf("first publish: %v", err)
    }
    if err := p.Publish(ctx, TicketEvent{Type: TicketBooked}); !errors.Is(err, ErrBufferFull) {
        t.Fatalf("err = %v, want ErrBufferFull", err)
    }
}

func TestPublishHonoursCancelledContext(t *testing.T) {
    p := newPublisher("amqp://unused/", zap.NewNop(), 1)
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    if err := p.Publish(ctx, TicketEvent{Type: TicketBooked}); !errors.Is(err, context.Canceled) {
        t.Fatalf("err = %v, want context.Canceled", err)
    }
}

func TestDialContextBoundsHandshake(t *testing.T) {
    addr := strings.TrimSuffix(strings.TrimPrefix(silentBroker(t), "amqp://guest:guest@"), "/")
    ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
    defer cancel()
    c, err := dialContext(ctx, "tcp", addr)
    if err != nil {
        t.Fatalf("dial: %v", err)
    }
    defer c.Close()
    start := time.Now()
    buf := make([]byte, 1)
    if _, err := c.Read(buf); err == nil {
        t.Fatal("silent broker should not produce data")
    }
    if d := time.Since(start); d > time.Second {
        t.Fatalf("read blocked %s past the context deadline", d)
    }
}
