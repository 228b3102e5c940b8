package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/model"
)

const publishTimeout = 5 * time.Second

// Publisher sends BookingEvents to the booking.events queue.  It
// implements booking.EventPublisher.  The broker connection is opened on
// first use and re-dialled after any failure; errors are logged and
// returned so the engine can record them without failing the request.
type Publisher struct {
    url   string
    queue string
    log   logrus.FieldLogger
    now   func() time.Time

    mu   sync.Mutex
    conn *amqp.Connection
    ch   *amqp.Channel

    // send delivers one message; tests replace it.
    send func(ctx context.Context, msg amqp.Publishing) error
}

func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
    p := &Publisher{
        url:   url,
        queue: BookingEventsQueue,
        log:   log.WithField("component", "publisher"),
        now:   time.Now,
    }
    p.send = p.sendAMQP
    return p
}

func (p *Publisher) BookingCreated(ctx context.Context, b model.Booking) error {
    return p.publish(ctx, newEvent(TypeBookingCreated, b, p.now()))
}

func (p *Publisher) BookingStatusChanged(ctx context.Context, b model.Booking, from model.BookingStatus, by model.Principal) error {
    ev := newEvent(TypeBookingStatusChanged, b, p.now())
    ev.FromStatus = string(from)
    ev.ActorID = by.UserID
    ev.ActorRole = string(by.Role)
    return p.publish(ctx, ev)
}

func (p *Publisher) publish(ctx context.Context, ev BookingEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal %s: %w", ev.Type, err)
    }
    ctx, cancel := context.WithTimeout(ctx, publishTimeout)
    defer cancel()

    msg := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    ev.EventID,
        Type:         ev.Type,
        Timestamp:    p.now().UTC(),
        Body:         body,
    }
    if err := p.send(ctx, msg); err != nil {
        p.log.WithError(err).WithFields(logrus.Fields{"type": ev.Type, "booking_id": ev.BookingID}).Warn("publish failed")
        return err
    }
    return nil
}

func (p *Publisher) sendAMQP(ctx context.Context, msg amqp.Publishing) error {
    p.mu.Lock()
    defer p.mu.Unlock()

    if err := p.connectLocked(); err != nil {
        return err
    }
    err := p.ch.PublishWithContext(ctx,
        "",      // default exchange
        p.queue, // routing key = queue name
        false,   // mandatory
        false,   // immediate
        msg,
    )
    if err != nil {
        p.closeLocked()
        return fmt.Errorf("publish: %w", err)
    }
    return nil
}

func (p *Publisher) connectLocked() error {
    if p.ch != nil && !p.ch.IsClosed() {
        return nil
    }
    p.closeLocked()
    conn, err := amqp.Dial(p.url)
    if err != nil {
        return fmt.Errorf("dial broker: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return fmt.Errorf("channel open: %w", err)
    }
    if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return fmt.Errorf("queue declare: %w", err)
    }
    p.conn, p.ch = conn, ch
    return nil
}

func (p *Publisher) closeLocked() {
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        _ = p.conn.Close()
        p.conn = nil
    }
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.closeLocked()
    return nil
}

var _ booking.EventPublisher = (*Publisher)(nil)
