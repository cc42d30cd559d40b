package payment

import (
    "context"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

type memLinkOrders struct {
    unpaidIDs  []uint64
    totalCents uint64

    stampedIDs        []uint64
    stampedIntent     string
    stampedIdentifier string
}

func (m *memLinkOrders) UnpaidByTable(_ context.Context, _ uint64) ([]uint64, uint64, error) {
    return m.unpaidIDs, m.totalCents, nil
}

func (m *memLinkOrders) StampPayment(_ context.Context, orderIDs []uint64, intentID, paymentIdentifier string) error {
    m.stampedIDs = orderIDs
    m.stampedIntent = intentID
    m.stampedIdentifier = paymentIdentifier
    return nil
}

type fakeProvider struct {
    gotAmount     uint64
    gotIdentifier string
}

func (f *fakeProvider) CreateLink(_ context.Context, amountCents uint64, _, paymentIdentifier string) (*Link, error) {
    f.gotAmount = amountCents
    f.gotIdentifier = paymentIdentifier
    return &Link{ID: "plink_1", URL: "https://pay.example.com/plink_1"}, nil
}

func TestGenerateForTable(t *testing.T) {
    orders := &memLinkOrders{unpaidIDs: []uint64{11, 12}, totalCents: 4350}
    provider := &fakeProvider{}
    svc := NewLinkService(orders, provider)

    link, err := svc.GenerateForTable(context.Background(), 7)
    require.NoError(t, err)

    assert.Equal(t, "https://pay.example.com/plink_1", link.URL)
    assert.Equal(t, uint64(4350), link.AmountCents)
    assert.Equal(t, []uint64{11, 12}, link.OrderIDs)
    assert.True(t, strings.HasPrefix(link.QRCode, "data:image/png;base64,"))

    // The same minted identifier flows to the provider and the orders.
    assert.NotEmpty(t, link.PaymentIdentifier)
    assert.Equal(t, link.PaymentIdentifier, provider.gotIdentifier)
    assert.Equal(t, link.PaymentIdentifier, orders.stampedIdentifier)
    assert.Equal(t, uint64(4350), provider.gotAmount)
    assert.Equal(t, []uint64{11, 12}, orders.stampedIDs)
    assert.Equal(t, "plink_1", orders.stampedIntent)
}

// stampObservingProvider records what identifier the order store held
// at the moment the provider was called.
type stampObservingProvider struct {
    orders           *memLinkOrders
    identifierAtCall string
}

func (p *stampObservingProvider) CreateLink(_ context.Context, _ uint64, _, _ string) (*Link, error) {
    p.identifierAtCall = p.orders.stampedIdentifier
    return &Link{ID: "plink_2", URL: "https://pay.example.com/plink_2"}, nil
}

func TestGenerateForTable_StampsOrdersBeforeProviderCall(t *testing.T) {
    orders := &memLinkOrders{unpaidIDs: []uint64{21}, totalCents: 1250}
    provider := &stampObservingProvider{orders: orders}
    svc := NewLinkService(orders, provider)

    link, err := svc.GenerateForTable(context.Background(), 3)
    require.NoError(t, err)

    // A webhook landing while the provider call is in flight must
    // already find the identifier on the orders.
    assert.NotEmpty(t, provider.identifierAtCall)
    assert.Equal(t, link.PaymentIdentifier, provider.identifierAtCall)
    assert.Equal(t, "plink_2", orders.stampedIntent)
}

func TestGenerateForTable_NothingToPay(t *testing.T) {
    svc := NewLinkService(&memLinkOrders{}, &fakeProvider{})

    _, err := svc.GenerateForTable(context.Background(), 7)
    assert.ErrorIs(t, err, ErrNothingToPay)
}
