package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// OrderRepo provides access to orders and their meal lines. Payment
// reconciliation joins orders by payment_identifier because several
// orders on one table may be settled in a single transaction.
type OrderRepo struct {
    db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts an order and its items in one transaction and
// populates the generated IDs.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    const q = `INSERT INTO orders (table_id, reservation_id, user_id, status, payment_status) VALUES (?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q, o.TableID, o.ReservationID, o.UserID, model.OrderPending, model.PaymentAwaiting)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    o.Status = model.OrderPending
    o.PaymentStatus = model.PaymentAwaiting
    for i := range o.Items {
        o.Items[i].OrderID = o.ID
        const iq = `INSERT INTO order_items (order_id, meal_id, quantity) VALUES (?, ?, ?)`
        ir, err := tx.ExecContext(ctx, iq, o.ID, o.Items[i].MealID, o.Items[i].Quantity)
        if err != nil {
            return err
        }
        iid, err := ir.LastInsertId()
        if err != nil {
            return err
        }
        o.Items[i].ID = uint64(iid)
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// MealByID returns one menu item or ErrNotFound. Order intake uses it
// to reject lines referencing meals that do not exist before opening
// the insert transaction.
func (r *OrderRepo) MealByID(ctx context.Context, id uint64) (*model.Meal, error) {
    const q = `SELECT id, name, price_cents FROM meals WHERE id = ?`
    var m model.Meal
    err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Name, &m.PriceCents)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return &m, nil
}

// UnpaidByTable returns the IDs of all orders on a table that are not
// cancelled and still awaiting payment, together with the total amount
// due computed from meal prices times quantities.
func (r *OrderRepo) UnpaidByTable(ctx context.Context, tableID uint64) (orderIDs []uint64, totalCents uint64, err error) {
    const q = `SELECT o.id, COALESCE(SUM(m.price_cents * oi.quantity), 0)
               FROM orders o
               LEFT JOIN order_items oi ON oi.order_id = o.id
               LEFT JOIN meals m ON m.id = oi.meal_id
               WHERE o.table_id = ? AND o.status <> ? AND o.payment_status = ?
               GROUP BY o.id`
    rows, err := r.db.QueryContext(ctx, q, tableID, model.OrderCancelled, model.PaymentAwaiting)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    orderIDs = make([]uint64, 0)
    for rows.Next() {
        var id, sum uint64
        if err := rows.Scan(&id, &sum); err != nil {
            return nil, 0, err
        }
        orderIDs = append(orderIDs, id)
        totalCents += sum
    }
    return orderIDs, totalCents, rows.Err()
}

// StampPayment writes the provider payment intent ID and the internal
// payment identifier onto every contributing order in one statement,
// so the webhook can later resolve them all by the shared key.
func (r *OrderRepo) StampPayment(ctx context.Context, orderIDs []uint64, intentID, paymentIdentifier string) error {
    if len(orderIDs) == 0 {
        return nil
    }
    placeholders := make([]string, 0, len(orderIDs))
    args := []any{intentID, paymentIdentifier}
    for _, id := range orderIDs {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    q := `UPDATE orders SET payment_intent_id = ?, payment_identifier = ? WHERE id IN (` + strings.Join(placeholders, ",") + `)`
    _, err := r.db.ExecContext(ctx, q, args...)
    return err
}

// SetPaymentStatus updates the payment status of every order carrying
// the given payment identifier and returns the number of rows that
// actually changed. The status guard makes redelivered webhook events
// no-ops, which is what keeps reconciliation idempotent.
func (r *OrderRepo) SetPaymentStatus(ctx context.Context, paymentIdentifier, status string) (int64, error) {
    const q = `UPDATE orders SET payment_status = ? WHERE payment_identifier = ? AND payment_status <> ?`
    res, err := r.db.ExecContext(ctx, q, status, paymentIdentifier, status)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
