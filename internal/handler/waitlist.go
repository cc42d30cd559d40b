package handler

import (
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/broadcast"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// WaitlistHandler takes waitlist signups from guests who found their
// desired slot fully booked. Matching against freed tables happens in
// the background matcher, not here.
type WaitlistHandler struct {
    Entries   *repository.WaitlistRepo
    Publisher broadcast.Publisher
}

// NewWaitlistHandler constructs a WaitlistHandler.
func NewWaitlistHandler(entries *repository.WaitlistRepo, publisher broadcast.Publisher) *WaitlistHandler {
    if entries == nil {
        panic("nil waitlist repository passed to NewWaitlistHandler")
    }
    return &WaitlistHandler{Entries: entries, Publisher: publisher}
}

// Join handles POST /v1/waitlist. The endpoint is public: walk-in
// guests sign up with a name and contact address, no account needed.
func (h *WaitlistHandler) Join(c echo.Context) error {
    var body struct {
        Name     string `json:"name"`
        Contact  string `json:"contact"`
        Guests   uint32 `json:"guests"`
        Date     string `json:"date"`
        TimeSlot string `json:"time_slot"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    body.Name = strings.TrimSpace(body.Name)
    body.Contact = strings.TrimSpace(body.Contact)
    if body.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if body.Contact == "" || !strings.Contains(body.Contact, "@") {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "a contact email is required"})
    }
    if body.Guests < 1 || body.Guests > 6 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be between 1 and 6"})
    }
    date, err := time.Parse(dateLayout, body.Date)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
    }
    if body.TimeSlot == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "time_slot is required"})
    }

    entry := &model.WaitlistEntry{
        Name:     body.Name,
        Contact:  body.Contact,
        Guests:   body.Guests,
        Date:     date,
        TimeSlot: body.TimeSlot,
        Status:   model.WaitlistWaiting,
    }
    ctx := c.Request().Context()
    if err := h.Entries.Create(ctx, entry); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to join waitlist"})
    }

    if h.Publisher != nil {
        err := h.Publisher.Publish(ctx, broadcast.EventWaitlistUpdate, map[string]any{
            "entry_id": entry.ID,
            "status":   entry.Status,
        })
        if err != nil {
            log.Printf("waitlist: broadcast signup %d: %v", entry.ID, err)
        }
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "entry": entry,
    })
}
