package handler

import (
    "errors"
    "io"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/payment"
)

// PaymentHandler exposes the payment link flow and the provider
// webhook. The webhook route must be registered without body-parsing
// middleware: the signature is computed over the raw bytes.
type PaymentHandler struct {
    Links     *payment.LinkService
    Processor *payment.Processor
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(links *payment.LinkService, processor *payment.Processor) *PaymentHandler {
    if links == nil || processor == nil {
        panic("nil dependency passed to NewPaymentHandler")
    }
    return &PaymentHandler{Links: links, Processor: processor}
}

// CreateLink handles POST /v1/tables/:id/payment-link. Staff request a
// link covering everything the table still owes; the response carries
// the hosted URL and a QR rendering to put on the table.
func (h *PaymentHandler) CreateLink(c echo.Context) error {
    tableID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || tableID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
    }

    link, err := h.Links.GenerateForTable(c.Request().Context(), tableID)
    if err != nil {
        if errors.Is(err, payment.ErrNothingToPay) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "no unpaid orders for table"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create payment link"})
    }
    return c.JSON(http.StatusCreated, link)
}

// Webhook handles POST /v1/payment/webhook. The provider signs the raw
// body; a bad signature gets a 400 and changes nothing. Everything
// else is acknowledged with 200 so the provider stops retrying, even
// event types we do not track.
func (h *PaymentHandler) Webhook(c echo.Context) error {
    body, err := io.ReadAll(c.Request().Body)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read body"})
    }
    sig := c.Request().Header.Get("Signature")

    if err := h.Processor.Handle(c.Request().Context(), body, sig); err != nil {
        if errors.Is(err, payment.ErrBadSignature) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad signature"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to process event"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "received": true,
    })
}
