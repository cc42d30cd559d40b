package payment

import (
    "context"
    "fmt"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

type memOrders struct {
    mu     sync.Mutex
    status map[string]string // paymentIdentifier -> payment status
}

func newMemOrders() *memOrders {
    return &memOrders{status: make(map[string]string)}
}

func (m *memOrders) SetPaymentStatus(_ context.Context, paymentIdentifier, status string) (int64, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    cur, ok := m.status[paymentIdentifier]
    if !ok || cur == status {
        return 0, nil
    }
    m.status[paymentIdentifier] = status
    return 1, nil
}

type recordingPublisher struct {
    mu     sync.Mutex
    events []string
}

func (p *recordingPublisher) Publish(_ context.Context, event string, _ any) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.events = append(p.events, event)
    return nil
}

func signedEvent(t *testing.T, secret, eventType, identifier string, at time.Time) ([]byte, string) {
    t.Helper()
    payload := []byte(fmt.Sprintf(
        `{"id":"evt_1","type":%q,"data":{"object":{"metadata":{"paymentIdentifier":%q}}}}`,
        eventType, identifier,
    ))
    return payload, Sign(payload, secret, at)
}

func newTestProcessor(orders OrderStore, pub *recordingPublisher, now time.Time) *Processor {
    p := NewProcessor(orders, pub, "whsec_test")
    p.now = func() time.Time { return now }
    return p
}

func TestHandle_MarksPaidAndBroadcasts(t *testing.T) {
    now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
    orders := newMemOrders()
    orders.status["pay-1"] = model.PaymentAwaiting
    pub := &recordingPublisher{}
    p := newTestProcessor(orders, pub, now)

    payload, sig := signedEvent(t, "whsec_test", "payment_intent.succeeded", "pay-1", now)
    require.NoError(t, p.Handle(context.Background(), payload, sig))

    assert.Equal(t, model.PaymentPaid, orders.status["pay-1"])
    assert.Equal(t, []string{"payment-status-updated"}, pub.events)
}

func TestHandle_RedeliveryIsIdempotent(t *testing.T) {
    now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
    orders := newMemOrders()
    orders.status["pay-1"] = model.PaymentAwaiting
    pub := &recordingPublisher{}
    p := newTestProcessor(orders, pub, now)

    payload, sig := signedEvent(t, "whsec_test", "checkout.session.completed", "pay-1", now)
    require.NoError(t, p.Handle(context.Background(), payload, sig))
    require.NoError(t, p.Handle(context.Background(), payload, sig))

    assert.Equal(t, model.PaymentPaid, orders.status["pay-1"])
    // The second delivery changed no rows, so no second broadcast.
    assert.Len(t, pub.events, 1)
}

func TestHandle_FailedPayment(t *testing.T) {
    now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
    orders := newMemOrders()
    orders.status["pay-2"] = model.PaymentAwaiting
    p := newTestProcessor(orders, &recordingPublisher{}, now)

    payload, sig := signedEvent(t, "whsec_test", "payment_intent.payment_failed", "pay-2", now)
    require.NoError(t, p.Handle(context.Background(), payload, sig))
    assert.Equal(t, model.PaymentFailed, orders.status["pay-2"])
}

func TestHandle_BadSignatureChangesNothing(t *testing.T) {
    now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
    orders := newMemOrders()
    orders.status["pay-1"] = model.PaymentAwaiting
    pub := &recordingPublisher{}
    p := newTestProcessor(orders, pub, now)

    payload, _ := signedEvent(t, "whsec_test", "payment_intent.succeeded", "pay-1", now)
    _, wrongSig := signedEvent(t, "whsec_wrong", "payment_intent.succeeded", "pay-1", now)

    err := p.Handle(context.Background(), payload, wrongSig)
    assert.ErrorIs(t, err, ErrBadSignature)
    assert.Equal(t, model.PaymentAwaiting, orders.status["pay-1"])
    assert.Empty(t, pub.events)
}

func TestHandle_UnknownEventTypeAcked(t *testing.T) {
    now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
    orders := newMemOrders()
    orders.status["pay-1"] = model.PaymentAwaiting
    pub := &recordingPublisher{}
    p := newTestProcessor(orders, pub, now)

    payload, sig := signedEvent(t, "whsec_test", "customer.created", "pay-1", now)
    require.NoError(t, p.Handle(context.Background(), payload, sig))
    assert.Equal(t, model.PaymentAwaiting, orders.status["pay-1"])
    assert.Empty(t, pub.events)
}
