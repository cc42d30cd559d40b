package payment

// link.go generates a payment link covering everything a table still
// owes. All active unpaid orders for the table are aggregated into one
// amount, a payment identifier is minted to correlate them with the
// provider transaction, and the provider returns a hosted link that is
// rendered as a QR code for the table.

import (
    "context"
    "errors"
    "fmt"

    "github.com/google/uuid"

    "github.com/iliyamo/restaurant-table-reservation/internal/qrtoken"
)

// ErrNothingToPay is returned when a table has no unpaid orders.
var ErrNothingToPay = errors.New("no unpaid orders for table")

// OrderLinkStore is the slice of the order repository link generation
// needs.
type OrderLinkStore interface {
    UnpaidByTable(ctx context.Context, tableID uint64) (orderIDs []uint64, totalCents uint64, err error)
    StampPayment(ctx context.Context, orderIDs []uint64, intentID, paymentIdentifier string) error
}

// TableLink is a generated payment link plus its QR rendering.
type TableLink struct {
    URL               string   `json:"url"`
    QRCode            string   `json:"qr_code"`
    PaymentIdentifier string   `json:"payment_identifier"`
    OrderIDs          []uint64 `json:"order_ids"`
    AmountCents       uint64   `json:"amount_cents"`
}

// LinkService creates payment links for tables.
type LinkService struct {
    orders   OrderLinkStore
    provider Provider
}

// NewLinkService wires a link service.
func NewLinkService(orders OrderLinkStore, provider Provider) *LinkService {
    if orders == nil || provider == nil {
        panic("payment: nil link service dependency")
    }
    return &LinkService{orders: orders, provider: provider}
}

// GenerateForTable sums the table's unpaid orders, stamps them with a
// freshly minted payment identifier so the webhook can settle them
// together, then creates a provider link for the total.
func (s *LinkService) GenerateForTable(ctx context.Context, tableID uint64) (*TableLink, error) {
    orderIDs, totalCents, err := s.orders.UnpaidByTable(ctx, tableID)
    if err != nil {
        return nil, fmt.Errorf("aggregate unpaid orders: %w", err)
    }
    if len(orderIDs) == 0 || totalCents == 0 {
        return nil, ErrNothingToPay
    }

    // The identifier goes onto the orders before the provider call, so
    // a webhook racing the rest of this function still matches rows. A
    // failed provider call leaves the identifier behind with no link
    // pointing at it, which is harmless; the next attempt overwrites it.
    identifier := uuid.NewString()
    if err := s.orders.StampPayment(ctx, orderIDs, "", identifier); err != nil {
        return nil, fmt.Errorf("stamp orders: %w", err)
    }

    description := fmt.Sprintf("Table %d bill", tableID)
    link, err := s.provider.CreateLink(ctx, totalCents, description, identifier)
    if err != nil {
        return nil, fmt.Errorf("provider link: %w", err)
    }

    if err := s.orders.StampPayment(ctx, orderIDs, link.ID, identifier); err != nil {
        return nil, fmt.Errorf("stamp intent: %w", err)
    }

    qr, err := qrtoken.EncodePNG(link.URL)
    if err != nil {
        return nil, fmt.Errorf("render qr: %w", err)
    }
    return &TableLink{
        URL:               link.URL,
        QRCode:            qr,
        PaymentIdentifier: identifier,
        OrderIDs:          orderIDs,
        AmountCents:       totalCents,
    }, nil
}
