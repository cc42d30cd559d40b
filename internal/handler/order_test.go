package handler

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

type memOrderStore struct {
    meals   map[uint64]*model.Meal
    created *model.Order
}

func (m *memOrderStore) Create(_ context.Context, o *model.Order) error {
    o.ID = 1
    o.Status = model.OrderPending
    o.PaymentStatus = model.PaymentAwaiting
    m.created = o
    return nil
}

func (m *memOrderStore) MealByID(_ context.Context, id uint64) (*model.Meal, error) {
    if meal, ok := m.meals[id]; ok {
        return meal, nil
    }
    return nil, repository.ErrNotFound
}

func orderRequest(body string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    return echo.New().NewContext(req, rec), rec
}

func TestOrderCreate(t *testing.T) {
    store := &memOrderStore{meals: map[uint64]*model.Meal{
        3: {ID: 3, Name: "House salad", PriceCents: 950},
    }}
    h := NewOrderHandler(store)

    c, rec := orderRequest(`{"table_id": 7, "items": [{"meal_id": 3, "quantity": 2}]}`)
    require.NoError(t, h.Create(c))

    assert.Equal(t, http.StatusCreated, rec.Code)
    require.NotNil(t, store.created)
    assert.Equal(t, uint64(7), store.created.TableID)
    assert.Equal(t, model.PaymentAwaiting, store.created.PaymentStatus)
    require.Len(t, store.created.Items, 1)
    assert.Equal(t, uint64(3), store.created.Items[0].MealID)
}

func TestOrderCreate_UnknownMeal(t *testing.T) {
    store := &memOrderStore{meals: map[uint64]*model.Meal{}}
    h := NewOrderHandler(store)

    c, rec := orderRequest(`{"table_id": 7, "items": [{"meal_id": 42, "quantity": 1}]}`)
    require.NoError(t, h.Create(c))

    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Nil(t, store.created)
    assert.Contains(t, rec.Body.String(), "unknown meal_id")
}
