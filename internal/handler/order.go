package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// OrderStore is the slice of the order repository the intake handler
// needs. Implemented by repository.OrderRepo.
type OrderStore interface {
    Create(ctx context.Context, o *model.Order) error
    MealByID(ctx context.Context, id uint64) (*model.Meal, error)
}

// OrderHandler records meal orders taken at a table. Orders start
// AWAITING_PAYMENT and are settled later through the payment link
// flow; kitchen workflow beyond that is out of scope here.
type OrderHandler struct {
    Orders OrderStore
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orders OrderStore) *OrderHandler {
    if orders == nil {
        panic("nil order store passed to NewOrderHandler")
    }
    return &OrderHandler{Orders: orders}
}

// Create handles POST /v1/orders. Staff record the table and the meal
// lines; reservation and user references are optional because walk-in
// tables order too. Every line must reference an existing meal.
func (h *OrderHandler) Create(c echo.Context) error {
    var body struct {
        TableID       uint64  `json:"table_id"`
        ReservationID *uint64 `json:"reservation_id"`
        UserID        *uint64 `json:"user_id"`
        Items         []struct {
            MealID   uint64 `json:"meal_id"`
            Quantity uint32 `json:"quantity"`
        } `json:"items"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.TableID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id is required"})
    }
    if len(body.Items) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "items is required"})
    }

    ctx := c.Request().Context()
    items := make([]model.OrderItem, 0, len(body.Items))
    for _, it := range body.Items {
        if it.MealID == 0 || it.Quantity == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "each item needs a meal_id and a quantity"})
        }
        if _, err := h.Orders.MealByID(ctx, it.MealID); err != nil {
            if errors.Is(err, repository.ErrNotFound) {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown meal_id"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load meal"})
        }
        items = append(items, model.OrderItem{MealID: it.MealID, Quantity: it.Quantity})
    }

    order := &model.Order{
        TableID:       body.TableID,
        ReservationID: body.ReservationID,
        UserID:        body.UserID,
        Items:         items,
    }
    if err := h.Orders.Create(ctx, order); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "order": order,
    })
}
