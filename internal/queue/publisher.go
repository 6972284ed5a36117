package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

const (
    dialTimeout = 5 * time.Second
    sendTimeout = 5 * time.Second
    closeWait   = 5 * time.Second
    bufferSize  = 1024
)

var (
    ErrBufferFull      = errors.New("event buffer full")
    ErrPublisherClosed = errors.New("publisher closed")
)

// Publisher publishes ticket events to RabbitMQ.  Publish only enqueues;
// a single goroutine owns the connection, dials lazily and redials after
// any failure, so a slow or unreachable broker never holds up a caller.
type Publisher struct {
    url string
    log *zap.Logger

    events    chan TicketEvent
    quit      chan struct{}
    done      chan struct{}
    closeOnce sync.Once
    closeWait time.Duration
    runCtx    context.Context
    cancelRun context.CancelFunc

    // owned by run
    conn *amqp.Connection
    ch   *amqp.Channel
}

// NewPublisher returns a Publisher for the broker at url and starts its
// delivery goroutine.  No connection is made until the first event.
func NewPublisher(url string, log *zap.Logger) *Publisher {
    p := newPublisher(url, log, bufferSize)
    go p.run()
    return p
}

func newPublisher(url string, log *zap.Logger, size int) *Publisher {
    ctx, cancel := context.WithCancel(context.Background())
    return &Publisher{
        url:       url,
        log:       log,
        events:    make(chan TicketEvent, size),
        quit:      make(chan struct{}),
        done:      make(chan struct{}),
        closeWait: closeWait,
        runCtx:    ctx,
        cancelRun: cancel,
    }
}

// Publish queues ev for delivery and returns at once.  It fails with
// ErrBufferFull when the broker has fallen that far behind and with
// ErrPublisherClosed after Close.  Delivery errors are logged by the
// publisher.
func (p *Publisher) Publish(ctx context.Context, ev TicketEvent) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    select {
    case <-p.quit:
        return ErrPublisherClosed
    default:
    }
    select {
    case p.events <- ev:
        return nil
    default:
        return ErrBufferFull
    }
}

// Close stops accepting events, delivers what is buffered for up to five
// seconds and then drops the rest along with the connection.
func (p *Publisher) Close() error {
    p.closeOnce.Do(func() {
        close(p.quit)
        select {
        case <-p.done:
        case <-time.After(p.closeWait):
            p.cancelRun()
            <-p.done
        }
        p.cancelRun()
    })
    return nil
}

func (p *Publisher) run() {
    defer close(p.done)
    defer p.reset()
    for {
        select {
        case ev := <-p.events:
            p.deliver(ev)
        case <-p.quit:
            for {
                select {
                case ev := <-p.events:
                    p.deliver(ev)
                default:
                    return
                }
            }
        }
    }
}

func (p *Publisher) deliver(ev TicketEvent) {
    if p.runCtx.Err() != nil {
        p.log.Warn("ticket event dropped", zap.String("event_id", ev.EventID), zap.String("type", ev.Type))
        return
    }
    ctx, cancel := context.WithTimeout(p.runCtx, sendTimeout)
    defer cancel()
    if err := p.send(ctx, ev); err != nil {
        p.log.Warn("ticket event not delivered",
            zap.String("event_id", ev.EventID), zap.String("type", ev.Type),
            zap.Uint64("ticket_id", ev.TicketID), zap.Error(err))
    }
}

func (p *Publisher) send(ctx context.Context, ev TicketEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }
    ch, err := p.channel(ctx)
    if err != nil {
        return err
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        MessageId:    ev.EventID,
        Type:         ev.Type,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx,
        "",      // default exchange
        ev.Type, // routing key = queue name
        false,   // mandatory
        false,   // immediate
        pub,
    ); err != nil {
        p.reset()
        return fmt.Errorf("publish %s: %w", ev.Type, err)
    }
    return nil
}

func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
    if p.ch != nil && !p.ch.IsClosed() {
        return p.ch, nil
    }
    p.reset()

    var stop func() bool
    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial: func(network, addr string) (net.Conn, error) {
            c, err := dialContext(ctx, network, addr)
            if err == nil {
                // Cancelling ctx aborts a handshake the broker never answers.
                stop = context.AfterFunc(ctx, func() { _ = c.SetDeadline(time.Unix(1, 0)) })
            }
            return c, err
        },
    })
    if stop != nil {
        stop()
    }
    if err != nil {
        return nil, fmt.Errorf("dial broker: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, fmt.Errorf("channel open: %w", err)
    }
    if err := declareQueues(ch); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, err
    }
    p.conn, p.ch = conn, ch
    p.log.Info("rabbitmq publisher connected")
    return ch, nil
}

// dialContext connects and sets a deadline covering the AMQP handshake,
// which the client clears once the connection is open.
func dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
    d := net.Dialer{Timeout: dialTimeout}
    c, err := d.DialContext(ctx, network, addr)
    if err != nil {
        return nil, err
    }
    deadline := time.Now().Add(dialTimeout)
    if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
        deadline = dl
    }
    if err := c.SetDeadline(deadline); err != nil {
        _ = c.Close()
        return nil, err
    }
    return c, nil
}

func (p *Publisher) reset() {
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        _ = p.conn.Close()
        p.conn = nil
    }
}

// declareQueues ensures both ticket queues exist (idempotent).  Durable so
// messages survive broker restarts.
func declareQueues(ch *amqp.Channel) error {
    for _, name := range []string{TicketBooked, TicketCancelled} {
        if _, err := ch.QueueDeclare(
            name,  // name
            true,  // durable
            false, // autoDelete
            false, // exclusive
            false, // noWait
            nil,   // args
        ); err != nil {
            return fmt.Errorf("queue declare %s: %w", name, err)
        }
    }
    return nil
}
