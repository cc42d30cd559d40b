package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/middleware"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// ReservationHandler exposes the booking service over HTTP. It assumes
// JWT authentication has already run, so the caller's identity is in
// the request context.
type ReservationHandler struct {
    Bookings *booking.Service
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(bookings *booking.Service) *ReservationHandler {
    if bookings == nil {
        panic("nil booking service passed to NewReservationHandler")
    }
    return &ReservationHandler{Bookings: bookings}
}

// Create handles POST /v1/reservations. The body carries the table,
// section, party size, date and slot; the user identity comes from the
// token. On success it returns 201 with the confirmed reservation and
// its QR confirmation artifact. A slot that is already taken returns
// 409 so the client can offer the waitlist instead.
func (h *ReservationHandler) Create(c echo.Context) error {
    userID := middleware.UserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    var body struct {
        TableID   uint64 `json:"table_id"`
        SectionID uint64 `json:"section_id"`
        Guests    uint32 `json:"guests"`
        Date      string `json:"date"`
        TimeSlot  string `json:"time_slot"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    res, err := h.Bookings.Create(c.Request().Context(), booking.CreateRequest{
        TableID:   body.TableID,
        SectionID: body.SectionID,
        UserID:    userID,
        UserEmail: middleware.Email(c),
        Guests:    body.Guests,
        Date:      body.Date,
        TimeSlot:  body.TimeSlot,
    })
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrInvalidInput):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "slot already reserved"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
        }
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "reservation": res,
        "qr_code":     res.QRCode,
    })
}

// Cancel handles PUT /v1/reservations/:id/cancel. The reservation
// owner may cancel their own reservation; staff may cancel any. A
// reservation already in a terminal state returns 409.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    userID := middleware.UserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || resID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }

    res, err := h.Bookings.Cancel(c.Request().Context(), resID, userID, middleware.Role(c), middleware.Email(c))
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "reservation not active"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{
        "reservation": res,
    })
}
