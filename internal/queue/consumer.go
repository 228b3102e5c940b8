package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"
)

const (
    auditFile  = "booking.log"
    maxBackoff = 30 * time.Second
)

// Consumer reads booking.events and appends one human-readable line per
// event to <dir>/booking.log.
type Consumer struct {
    url string
    dir string
    log logrus.FieldLogger

    mu sync.Mutex // serialises file appends
}

func NewConsumer(url, dir string, log logrus.FieldLogger) *Consumer {
    return &Consumer{url: url, dir: dir, log: log.WithField("component", "audit-consumer")}
}

// Run consumes until ctx is cancelled, re-dialling the broker with
// exponential backoff whenever the connection drops.  It returns
// ctx.Err() on shutdown.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.log.WithError(err).Warnf("dial failed; retrying in %s", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < maxBackoff {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.WithError(err).Warn("consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.log.WithError(err).Warn("set QoS failed")
    }
    if _, err := ch.QueueDeclare(BookingEventsQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.ConsumeWithContext(ctx, BookingEventsQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handleMessage(d.Body); err != nil {
                c.log.WithError(err).WithField("message_id", d.MessageId).Error("handle message failed")
                _ = d.Nack(false, false) // reject without requeue to avoid a hot loop
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func (c *Consumer) handleMessage(body []byte) error {
    var ev BookingEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.BookingID == 0 || ev.Type == "" {
        return fmt.Errorf("malformed event %q", ev.EventID)
    }

    c.mu.Lock()
    defer c.mu.Unlock()
    if err := os.MkdirAll(c.dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", c.dir, err)
    }
    f, err := os.OpenFile(filepath.Join(c.dir, auditFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open audit log: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(auditLine(ev)); err != nil {
        return fmt.Errorf("write audit log: %w", err)
    }
    return nil
}

func auditLine(ev BookingEvent) string {
    status := ev.Status
    if ev.FromStatus != "" {
        status = ev.FromStatus + "->" + ev.Status
    }
    line := fmt.Sprintf("[%s] %s | booking_id=%d | room_id=%d | user_id=%d | stay=%s..%s | guests=%d | total=%s | status=%s",
        ev.OccurredAt, ev.Type, ev.BookingID, ev.RoomID, ev.UserID, ev.CheckInDate, ev.CheckOutDate, ev.Guests, ev.TotalPrice, status)
    if ev.ActorID != 0 {
        line += fmt.Sprintf(" | by=%d(%s)", ev.ActorID, ev.ActorRole)
    }
    return line + "\n"
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
