package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/availability"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

const dateLayout = "2006-01-02"

// ScheduleSource exposes the weekly opening template and the list of
// ad-hoc closures. Implemented by repository.ScheduleRepo.
type ScheduleSource interface {
    TimeslotFor(ctx context.Context, weekday string) (*model.Timeslot, error)
    ClosureOn(ctx context.Context, date string) (*model.Closure, error)
}

// SectionStore looks up a single section. Implemented by
// repository.SectionRepo.
type SectionStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Section, error)
}

// AvailabilityHandler answers table availability queries. It sits in
// front of the resolver and gates queries on the restaurant schedule:
// a closed day always reports every table unavailable without touching
// reservation state.
type AvailabilityHandler struct {
    Resolver *availability.Resolver
    Schedule ScheduleSource
    Sections SectionStore
}

// NewAvailabilityHandler constructs an AvailabilityHandler. All
// dependencies must be non-nil.
func NewAvailabilityHandler(resolver *availability.Resolver, schedule ScheduleSource, sections SectionStore) *AvailabilityHandler {
    if resolver == nil || schedule == nil || sections == nil {
        panic("nil dependency passed to NewAvailabilityHandler")
    }
    return &AvailabilityHandler{Resolver: resolver, Schedule: schedule, Sections: sections}
}

// List handles GET /v1/availability?section_id&date&time_slot. It
// returns the per-table status list for one section on one date and
// slot. On a day the restaurant is closed it returns an empty table
// list with closed=true instead of resolving anything.
func (h *AvailabilityHandler) List(c echo.Context) error {
    sectionID, err := strconv.ParseUint(c.QueryParam("section_id"), 10, 64)
    if err != nil || sectionID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid section_id"})
    }
    date, timeSlot, errMsg := parseSlotQuery(c)
    if errMsg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": errMsg})
    }

    ctx := c.Request().Context()
    if _, err := h.Sections.GetByID(ctx, sectionID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load section"})
    }

    open, reason, err := h.openOn(ctx, date)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check schedule"})
    }
    if !open {
        resp := echo.Map{
            "closed": true,
            "tables": []availability.TableStatus{},
        }
        if reason != "" {
            resp["reason"] = reason
        }
        return c.JSON(http.StatusOK, resp)
    }

    tables, err := h.Resolver.ResolveSection(ctx, sectionID, date, timeSlot)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve availability"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "closed": false,
        "tables": tables,
    })
}

// Check handles GET /v1/availability/check?date&time_slot. It reports
// whether every section is fully booked for the slot, which the
// waitlist intake form uses to decide whether to offer the waitlist.
func (h *AvailabilityHandler) Check(c echo.Context) error {
    date, timeSlot, errMsg := parseSlotQuery(c)
    if errMsg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": errMsg})
    }

    ctx := c.Request().Context()
    open, reason, err := h.openOn(ctx, date)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check schedule"})
    }
    if !open {
        resp := echo.Map{
            "closed":            true,
            "all_sections_full": true,
        }
        if reason != "" {
            resp["reason"] = reason
        }
        return c.JSON(http.StatusOK, resp)
    }

    full, err := h.Resolver.AllSectionsFull(ctx, date, timeSlot)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve availability"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "closed":            false,
        "all_sections_full": full,
    })
}

// openOn combines the weekday template with the closure list: a date
// is open when its weekday entry exists with is_open set and no
// closure row covers the date. A missing weekday entry is treated as
// closed. The returned reason is non-empty only for an ad-hoc closure
// that carries one.
func (h *AvailabilityHandler) openOn(ctx context.Context, date time.Time) (bool, string, error) {
    closure, err := h.Schedule.ClosureOn(ctx, date.Format(dateLayout))
    if err == nil {
        return false, closure.Reason, nil
    }
    if !errors.Is(err, repository.ErrNotFound) {
        return false, "", err
    }
    slot, err := h.Schedule.TimeslotFor(ctx, date.Weekday().String())
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return false, "", nil
        }
        return false, "", err
    }
    return slot.IsOpen, "", nil
}

// parseSlotQuery extracts and validates the date and time_slot query
// parameters shared by the availability endpoints.
func parseSlotQuery(c echo.Context) (time.Time, string, string) {
    date, err := time.Parse(dateLayout, c.QueryParam("date"))
    if err != nil {
        return time.Time{}, "", "invalid date, want YYYY-MM-DD"
    }
    timeSlot := c.QueryParam("time_slot")
    if timeSlot == "" {
        return time.Time{}, "", "time_slot is required"
    }
    return date, timeSlot, ""
}
