package model

import "time"

// Order status values track kitchen progress; payment progress is
// tracked separately by PaymentStatus so a SERVED order can still be
// awaiting payment.
const (
    OrderPending    = "PENDING"
    OrderInProgress = "IN_PROGRESS"
    OrderServed     = "SERVED"
    OrderPaid       = "PAID"
    OrderCancelled  = "CANCELLED"
)

// Payment status values for an order.
const (
    PaymentAwaiting = "AWAITING_PAYMENT"
    PaymentPaid     = "PAID"
    PaymentFailed   = "FAILED"
)

// Meal is a menu item referenced by order lines. Menu management is
// out of scope; only the fields the payment flow needs are modelled.
type Meal struct {
    ID         uint64 // meals.id
    Name       string // meals.name
    PriceCents uint32 // meals.price_cents
}

// OrderItem is one (meal, quantity) line of an order.
type OrderItem struct {
    ID       uint64 // order_items.id
    OrderID  uint64 // order_items.order_id
    MealID   uint64 // order_items.meal_id
    Quantity uint32 // order_items.quantity
}

// Order groups the meals ordered at one table. ReservationID and
// UserID are nullable: walk-in orders have neither. PaymentIdentifier
// is an internally minted correlation key joining one or more orders
// to a single payment transaction: several orders for one table may
// be paid together, so the provider webhook resolves orders by this
// key rather than by order ID.
//
// Fields:
//  ID                – primary key identifier.
//  TableID           – table the order was taken at.
//  ReservationID     – active reservation at order time (nullable).
//  UserID            – user resolved from that reservation (nullable).
//  Status            – kitchen status.
//  PaymentIntentID   – provider-side payment object ID.
//  PaymentIdentifier – internal correlation key (uuid), set when a
//                      payment link is generated.
//  PaymentStatus     – AWAITING_PAYMENT, PAID or FAILED.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Order struct {
    ID                uint64      // orders.id
    TableID           uint64      // orders.table_id
    ReservationID     *uint64     // orders.reservation_id (nullable)
    UserID            *uint64     // orders.user_id (nullable)
    Items             []OrderItem // order_items rows
    Status            string      // orders.status
    PaymentIntentID   string      // orders.payment_intent_id
    PaymentIdentifier string      // orders.payment_identifier
    PaymentStatus     string      // orders.payment_status
    CreatedAt         time.Time   // orders.created_at
    UpdatedAt         time.Time   // orders.updated_at
}
