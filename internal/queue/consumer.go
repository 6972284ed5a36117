package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// StartTicketConsumer connects to RabbitMQ, declares both ticket queues and
// appends every event to logPath as one human-friendly line.  It reconnects
// with exponential backoff and returns only when ctx is cancelled.
func StartTicketConsumer(ctx context.Context, url, logPath string, log *zap.Logger) error {
    log = log.Named("ticket-consumer")
    backoff := time.Second
    for {
        conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
        if err != nil {
            log.Warn("failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
            if !sleepCtx(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < maxBackoff {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = consumeLoop(ctx, conn, logPath, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn("consume loop ended; reconnecting", zap.Error(err))
        if !sleepCtx(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logPath string, log *zap.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn("set QoS failed", zap.Error(err))
    }
    if err := declareQueues(ch); err != nil {
        return err
    }

    booked, err := ch.Consume(TicketBooked, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("consume %s: %w", TicketBooked, err)
    }
    cancelled, err := ch.Consume(TicketCancelled, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("consume %s: %w", TicketCancelled, err)
    }

    for {
        var d amqp.Delivery
        var ok bool
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok = <-booked:
        case d, ok = <-cancelled:
        }
        if !ok {
            return errors.New("deliveries channel closed")
        }
        if err := handleMessage(d.Body, logPath); err != nil {
            log.Error("handle message failed", zap.String("message_id", d.MessageId), zap.Error(err))
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
}

func handleMessage(body []byte, logPath string) error {
    var ev TicketEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    line, err := formatLine(ev)
    if err != nil {
        return err
    }
    return appendLine(logPath, line)
}

func formatLine(ev TicketEvent) (string, error) {
    var action string
    switch ev.Type {
    case TicketBooked:
        action = "Ticket booked"
    case TicketCancelled:
        action = "Ticket cancelled"
    default:
        return "", fmt.Errorf("unknown event type %q", ev.Type)
    }
    return fmt.Sprintf("[%s] %s | ticket_id=%d | user_id=%d | bus_id=%d | seat=%d | event_id=%s\n",
        ev.OccurredAt, action, ev.TicketID, ev.UserID, ev.BusID, ev.SeatNumber, ev.EventID), nil
}

func appendLine(path, line string) error {
    // Ensure logs directory exists
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
