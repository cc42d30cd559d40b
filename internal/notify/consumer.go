package notify

// consumer.go drains the notify.outbound queue and hands messages to a
// Transport. The consumer runs a reconnect loop with exponential
// backoff and never stops the process: a message that cannot be
// handled is rejected without requeue so a poison message cannot wedge
// the queue.

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Transport performs the actual delivery of one notification (SMTP,
// push gateway, ...). Returning an error rejects the message.
type Transport interface {
    Deliver(n Notification) error
}

// StartConsumer connects to RabbitMQ, declares the notify.outbound
// queue (durable) and consumes messages forever, delivering each via
// the given transport. Call it from its own goroutine.
func StartConsumer(transport Transport) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(brokerURL())
        if err != nil {
            log.Printf("notify-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn, transport); err != nil {
            log.Printf("notify-consumer: consume loop ended: %v; reconnecting", err)
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection, transport Transport) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("notify-consumer: set QoS failed: %v", err)
    }

    if _, err := ch.QueueDeclare(outboundQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(outboundQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        var n Notification
        if err := json.Unmarshal(d.Body, &n); err != nil {
            log.Printf("notify-consumer: unmarshal failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        if err := transport.Deliver(n); err != nil {
            log.Printf("notify-consumer: deliver failed: %v", err)
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// LogTransport appends deliveries to logs/notify.log in a single-line,
// human-friendly format. It stands in for a real mail/push gateway in
// development deployments.
type LogTransport struct{}

// Deliver writes one line per notification.
func (LogTransport) Deliver(n Notification) error {
    if err := os.MkdirAll("logs", 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    fpath := filepath.Join("logs", "notify.log")
    f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    dest := n.To
    if dest == "" {
        dest = "topic:" + n.Topic
    }
    body := strings.ReplaceAll(n.Body, "\n", " ")
    line := fmt.Sprintf("[%s] to=%s | subject=%q | body=%q | attachments=%d\n",
        n.QueuedAt, dest, n.Subject, body, len(n.Attachments))
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
