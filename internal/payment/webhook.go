package payment

// webhook.go processes payment provider webhook events. The flow is:
// verify the signature over the raw body, decode the event envelope,
// map the event type to a payment status, then apply it with a guarded
// update so redelivered events do not repeat side effects.

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/broadcast"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// OrderStore is the slice of the order repository the processor needs.
type OrderStore interface {
    // SetPaymentStatus stamps every order carrying the payment
    // identifier and reports how many rows actually changed.
    SetPaymentStatus(ctx context.Context, paymentIdentifier, status string) (int64, error)
}

// Event is the provider's webhook envelope, trimmed to the fields we
// read. The payment identifier travels in the object metadata, where
// the link generator planted it.
type Event struct {
    ID   string `json:"id"`
    Type string `json:"type"`
    Data struct {
        Object struct {
            Metadata map[string]string `json:"metadata"`
        } `json:"object"`
    } `json:"data"`
}

// Processor verifies and applies webhook events.
type Processor struct {
    orders    OrderStore
    publisher broadcast.Publisher
    secret    string
    tolerance time.Duration
    now       func() time.Time
}

// NewProcessor wires a webhook processor. The publisher may be a
// disabled one; status changes are then applied without broadcast.
func NewProcessor(orders OrderStore, publisher broadcast.Publisher, secret string) *Processor {
    if orders == nil {
        panic("payment: nil order store")
    }
    return &Processor{
        orders:    orders,
        publisher: publisher,
        secret:    secret,
        tolerance: DefaultTolerance,
        now:       time.Now,
    }
}

// Handle verifies the signature and applies the event. A signature
// failure returns ErrBadSignature and changes nothing. Event types we
// do not track are acknowledged without effect so the provider stops
// retrying them.
func (p *Processor) Handle(ctx context.Context, payload []byte, sigHeader string) error {
    if err := VerifySignature(payload, sigHeader, p.secret, p.tolerance, p.now()); err != nil {
        return err
    }

    var ev Event
    if err := json.Unmarshal(payload, &ev); err != nil {
        return fmt.Errorf("payment: decode event: %w", err)
    }

    var status string
    switch ev.Type {
    case "checkout.session.completed", "payment_intent.succeeded":
        status = model.PaymentPaid
    case "payment_intent.payment_failed":
        status = model.PaymentFailed
    default:
        log.Printf("payment: ignoring event type %q", ev.Type)
        return nil
    }

    identifier := ev.Data.Object.Metadata["paymentIdentifier"]
    if identifier == "" {
        log.Printf("payment: event %s has no payment identifier, skipping", ev.ID)
        return nil
    }

    changed, err := p.orders.SetPaymentStatus(ctx, identifier, status)
    if err != nil {
        return fmt.Errorf("payment: update status: %w", err)
    }
    if changed == 0 {
        // Redelivery or an event we already applied. Ack and move on.
        return nil
    }

    if p.publisher != nil {
        if err := p.publisher.Publish(ctx, broadcast.EventPaymentStatusUpdate, map[string]any{
            "payment_identifier": identifier,
            "payment_status":     status,
        }); err != nil {
            log.Printf("payment: broadcast status update: %v", err)
        }
    }
    return nil
}
